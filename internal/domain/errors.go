package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrada   = errors.New("boleta no encontrada")
	ErrValidacion     = errors.New("entrada inválida")
	ErrRUTInvalido    = errors.New("RUT inválido")
	ErrEstadoInvalido = errors.New("transición de estado no permitida")
	ErrFolioFaltante  = errors.New("no existe folio para anular")
	ErrMotivoInvalido = errors.New("debe seleccionar un motivo válido (1, 2 o 3)")
	ErrAnulacion      = errors.New("error anulando boleta")
)
