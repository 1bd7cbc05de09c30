package repository

import (
	"context"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
)

// BoletaRepository define el puerto de persistencia de la boleta.
// La identidad (ID) la asigna el adaptador al crear.
type BoletaRepository interface {
	Create(ctx context.Context, b *entity.Boleta) error
	GetByID(ctx context.Context, id string) (*entity.Boleta, error)
	// Update persiste todos los campos mutables del ciclo de vida:
	// numero_boleta, estado, intentos, fecha_procesamiento, error_message,
	// response_data y motivo_anulacion.
	Update(ctx context.Context, b *entity.Boleta) error
}
