package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
	"github.com/gestorbhe/boletas-api/internal/domain/repository"
)

var _ repository.BoletaRepository = (*BoletaRepo)(nil)

// BoletaRepo implementación del puerto BoletaRepository sobre PostgreSQL (usable con pool o tx).
type BoletaRepo struct {
	q Querier
}

// NewBoletaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoletaRepository(q Querier) *BoletaRepo {
	return &BoletaRepo{q: q}
}

// Create persiste una boleta recién creada (borrador).
func (r *BoletaRepo) Create(ctx context.Context, b *entity.Boleta) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO boletas (id, numero_boleta, fecha_emision, estado,
			rut_usuario, password_sii, direccion_emisor, retencion,
			contacto_id, receptor_rut, receptor_nombre, receptor_direccion, receptor_region, receptor_comuna,
			descripcion_servicio, valor_bruto, moneda,
			response_data, email_destinatario, error_message, fecha_procesamiento, intentos, motivo_anulacion,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		b.ID, nullIfEmpty(b.NumeroBoleta), b.FechaEmision, b.Estado,
		b.RutUsuario, b.PasswordSII, b.DireccionEmisor, b.Retencion,
		nullIfEmpty(b.ContactoID), b.ReceptorRut, b.ReceptorNombre, b.ReceptorDireccion, b.ReceptorRegion, b.ReceptorComuna,
		b.DescripcionServicio, b.ValorBruto, b.Moneda,
		nullIfEmpty(b.ResponseData), nullIfEmpty(b.EmailDestinatario), nullIfEmpty(b.ErrorMessage),
		b.FechaProcesamiento, b.Intentos, nullIfEmpty(b.MotivoAnulacion),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("boleta ya existe: %w", err)
		}
		return fmt.Errorf("insert boleta: %w", err)
	}
	return nil
}

// GetByID obtiene una boleta por ID. Devuelve (nil, nil) si no existe.
func (r *BoletaRepo) GetByID(ctx context.Context, id string) (*entity.Boleta, error) {
	query := `
		SELECT id, COALESCE(numero_boleta, ''), fecha_emision, estado,
		       rut_usuario, password_sii, direccion_emisor, retencion,
		       COALESCE(contacto_id, ''), receptor_rut, receptor_nombre, receptor_direccion, receptor_region, receptor_comuna,
		       descripcion_servicio, valor_bruto, moneda,
		       COALESCE(response_data, ''), COALESCE(email_destinatario, ''), COALESCE(error_message, ''),
		       fecha_procesamiento, intentos, COALESCE(motivo_anulacion, ''),
		       created_at, updated_at
		FROM boletas WHERE id = $1`
	var b entity.Boleta
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.NumeroBoleta, &b.FechaEmision, &b.Estado,
		&b.RutUsuario, &b.PasswordSII, &b.DireccionEmisor, &b.Retencion,
		&b.ContactoID, &b.ReceptorRut, &b.ReceptorNombre, &b.ReceptorDireccion, &b.ReceptorRegion, &b.ReceptorComuna,
		&b.DescripcionServicio, &b.ValorBruto, &b.Moneda,
		&b.ResponseData, &b.EmailDestinatario, &b.ErrorMessage,
		&b.FechaProcesamiento, &b.Intentos, &b.MotivoAnulacion,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boleta: %w", err)
	}
	return &b, nil
}

// Update actualiza los campos mutables del ciclo de vida.
func (r *BoletaRepo) Update(ctx context.Context, b *entity.Boleta) error {
	query := `
		UPDATE boletas
		SET numero_boleta       = COALESCE($2, numero_boleta),
		    estado              = $3,
		    response_data       = COALESCE($4, response_data),
		    error_message       = $5,
		    fecha_procesamiento = COALESCE($6, fecha_procesamiento),
		    intentos            = $7,
		    motivo_anulacion    = COALESCE($8, motivo_anulacion),
		    updated_at          = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID,
		nullIfEmpty(b.NumeroBoleta),
		b.Estado,
		nullIfEmpty(b.ResponseData),
		b.ErrorMessage,
		b.FechaProcesamiento,
		b.Intentos,
		nullIfEmpty(b.MotivoAnulacion),
	)
	if err != nil {
		return fmt.Errorf("update boleta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update boleta: no existe %s", b.ID)
	}
	return nil
}
