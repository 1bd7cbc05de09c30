package simpleapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMaskKey verifica la regla de enmascarado: primeros 6 y últimos 4
// caracteres visibles con exactamente 6 asteriscos al medio; claves cortas se
// reemplazan por asteriscos del mismo largo.
func TestMaskKey(t *testing.T) {
	casos := []struct {
		nombre string
		clave  string
		quiero string
	}{
		{"clave de producción", "4648-N330-6392-2590-9354", "4648-N******9354"},
		{"clave corta de 10", "0123456789", "**********"},
		{"clave corta de 4", "abcd", "****"},
		{"vacía", "", ""},
		{"justo sobre el umbral", "01234567890", "012345******7890"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.quiero, MaskKey(c.clave))
		})
	}
}
