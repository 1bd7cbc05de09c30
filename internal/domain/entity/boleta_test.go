package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorbhe/boletas-api/internal/domain"
)

func boletaValida() *Boleta {
	b := NuevaBoleta()
	b.RutUsuario = "12345678-5"
	b.ReceptorRut = "11.111.111-1"
	b.ValorBruto = decimal.NewFromInt(50000)
	return b
}

func TestNuevaBoleta_Defaults(t *testing.T) {
	b := NuevaBoleta()
	assert.Equal(t, EstadoBorrador, b.Estado)
	assert.Equal(t, DireccionPrincipal, b.DireccionEmisor)
	assert.Equal(t, ConRetencion, b.Retencion)
	assert.Equal(t, "13", b.ReceptorRegion)
	assert.Equal(t, "CLP", b.Moneda)
}

func TestValidar(t *testing.T) {
	require.NoError(t, boletaValida().Validar())

	t.Run("valor no positivo", func(t *testing.T) {
		b := boletaValida()
		b.ValorBruto = decimal.Zero
		assert.ErrorIs(t, b.Validar(), domain.ErrValidacion)
	})
	t.Run("RUT emisor con dígito incorrecto", func(t *testing.T) {
		b := boletaValida()
		b.RutUsuario = "12345678-9"
		assert.ErrorIs(t, b.Validar(), domain.ErrRUTInvalido)
	})
	t.Run("RUT vacío se tolera en borrador", func(t *testing.T) {
		b := boletaValida()
		b.RutUsuario = ""
		assert.NoError(t, b.Validar())
	})
	t.Run("región fuera de catálogo", func(t *testing.T) {
		b := boletaValida()
		b.ReceptorRegion = "17"
		assert.ErrorIs(t, b.Validar(), domain.ErrValidacion)
	})
	t.Run("retención desconocida", func(t *testing.T) {
		b := boletaValida()
		b.Retencion = "2"
		assert.ErrorIs(t, b.Validar(), domain.ErrValidacion)
	})
	t.Run("motivo de anulación fuera de catálogo", func(t *testing.T) {
		b := boletaValida()
		b.MotivoAnulacion = "9"
		assert.ErrorIs(t, b.Validar(), domain.ErrMotivoInvalido)
	})
}

func TestPuedeAnularse(t *testing.T) {
	b := boletaValida()
	for estado, quiero := range map[string]bool{
		EstadoBorrador:   false,
		EstadoProcesando: false,
		EstadoEmitida:    true,
		EstadoDescargada: true,
		EstadoError:      false,
		EstadoAnulada:    false,
	} {
		b.Estado = estado
		assert.Equal(t, quiero, b.PuedeAnularse(), estado)
	}
}

func TestEmailValido(t *testing.T) {
	b := boletaValida()
	b.EmailDestinatario = "correo@dominio.cl"
	assert.True(t, b.EmailValido())
	b.EmailDestinatario = "sin-arroba"
	assert.False(t, b.EmailValido())
}
