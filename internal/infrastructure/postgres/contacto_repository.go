package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
	"github.com/gestorbhe/boletas-api/internal/domain/repository"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

var _ repository.ContactoRepository = (*ContactoRepo)(nil)

// ContactoRepo implementación del puerto ContactoRepository sobre PostgreSQL.
type ContactoRepo struct {
	q Querier
}

// NewContactoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactoRepository(q Querier) *ContactoRepo {
	return &ContactoRepo{q: q}
}

// BuscarPorRUT busca el contacto por su RUT normalizado (sin puntos ni guión).
// Devuelve (nil, nil) si no existe.
func (r *ContactoRepo) BuscarPorRUT(ctx context.Context, rutContacto string) (*entity.Contacto, error) {
	query := `
		SELECT id, rut, nombre, COALESCE(direccion, ''), COALESCE(ciudad, ''),
		       COALESCE(region, ''), COALESCE(email, ''), created_at
		FROM contactos WHERE rut = $1`
	var c entity.Contacto
	err := r.q.QueryRow(ctx, query, rut.Normalizar(rutContacto)).Scan(
		&c.ID, &c.RUT, &c.Nombre, &c.Direccion, &c.Ciudad,
		&c.Region, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contacto: %w", err)
	}
	return &c, nil
}
