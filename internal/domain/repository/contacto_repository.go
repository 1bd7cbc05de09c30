package repository

import (
	"context"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
)

// ContactoRepository define el puerto de consulta del directorio de contactos.
// Solo se usa para autocompletar datos del receptor; la administración del
// directorio es responsabilidad de otro sistema.
type ContactoRepository interface {
	// BuscarPorRUT devuelve el primer contacto cuyo RUT normalizado coincida,
	// o nil si no existe.
	BuscarPorRUT(ctx context.Context, rut string) (*entity.Contacto, error)
}
