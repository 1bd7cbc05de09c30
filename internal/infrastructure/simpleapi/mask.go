package simpleapi

import "strings"

// MaskKey enmascara una API key para logs: deja visibles los primeros 6 y los
// últimos 4 caracteres con exactamente 6 asteriscos al medio. Si la clave es
// demasiado corta para enmascarar con sentido, devuelve asteriscos del mismo
// largo; vacía queda vacía.
func MaskKey(key string) string {
	const (
		inicio = 6
		fin    = 4
	)
	if key == "" {
		return ""
	}
	if len(key) <= inicio+fin {
		return strings.Repeat("*", len(key))
	}
	return key[:inicio] + "******" + key[len(key)-fin:]
}
