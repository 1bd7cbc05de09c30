package simpleapi

import "fmt"

// APIError representa una falla de la API de SimpleAPI: un status HTTP
// distinto de 200 o una falla de transporte (timeout, conexión).
type APIError struct {
	Status int    // 0 cuando la falla fue de transporte
	Cuerpo string // cuerpo de la respuesta, truncado
	Causa  error  // causa subyacente en fallas de transporte
}

func (e *APIError) Error() string {
	if e.Causa != nil {
		return fmt.Sprintf("error inesperado llamando SimpleAPI: %v", e.Causa)
	}
	return fmt.Sprintf("error en API: %d - %s", e.Status, e.Cuerpo)
}

func (e *APIError) Unwrap() error { return e.Causa }
