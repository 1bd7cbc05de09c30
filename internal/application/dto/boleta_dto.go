package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorbhe/boletas-api/internal/domain"
	"github.com/gestorbhe/boletas-api/internal/domain/entity"
)

// CreateBoletaRequest body para POST /api/boletas.
// FechaEmision en formato 2006-01-02; si va vacía se usa la fecha actual.
type CreateBoletaRequest struct {
	FechaEmision string `json:"fecha_emision,omitempty"`

	RutUsuario      string `json:"rut_usuario"`
	PasswordSII     string `json:"password_sii"`
	DireccionEmisor string `json:"direccion_emisor,omitempty"` // "0" principal (default), "1" secundaria
	Retencion       string `json:"retencion,omitempty"`        // "0" sin, "1" con (default)

	ContactoID        string `json:"contacto_id,omitempty"`
	ReceptorRut       string `json:"receptor_rut"`
	ReceptorNombre    string `json:"receptor_nombre"`
	ReceptorDireccion string `json:"receptor_direccion,omitempty"`
	ReceptorRegion    string `json:"receptor_region,omitempty"` // código SimpleAPI; default "13"
	ReceptorComuna    string `json:"receptor_comuna,omitempty"`

	DescripcionServicio string          `json:"descripcion_servicio"`
	ValorBruto          decimal.Decimal `json:"valor_bruto"`
	Moneda              string          `json:"moneda,omitempty"`
	EmailDestinatario   string          `json:"email_destinatario,omitempty"`
}

// ToEntity convierte la petición en una boleta en borrador con defaults.
func (r CreateBoletaRequest) ToEntity() (*entity.Boleta, error) {
	b := entity.NuevaBoleta()
	if r.FechaEmision != "" {
		fecha, err := time.Parse("2006-01-02", r.FechaEmision)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha_emision debe ser AAAA-MM-DD", domain.ErrValidacion)
		}
		b.FechaEmision = fecha
	}
	b.RutUsuario = r.RutUsuario
	b.PasswordSII = r.PasswordSII
	if r.DireccionEmisor != "" {
		b.DireccionEmisor = r.DireccionEmisor
	}
	if r.Retencion != "" {
		b.Retencion = r.Retencion
	}
	b.ContactoID = r.ContactoID
	b.ReceptorRut = r.ReceptorRut
	b.ReceptorNombre = r.ReceptorNombre
	b.ReceptorDireccion = r.ReceptorDireccion
	if r.ReceptorRegion != "" {
		b.ReceptorRegion = r.ReceptorRegion
	}
	b.ReceptorComuna = r.ReceptorComuna
	b.DescripcionServicio = r.DescripcionServicio
	b.ValorBruto = r.ValorBruto
	if r.Moneda != "" {
		b.Moneda = r.Moneda
	}
	b.EmailDestinatario = r.EmailDestinatario
	return b, nil
}

// BoletaResponse boleta en respuestas. PasswordSII nunca se expone.
type BoletaResponse struct {
	ID           string `json:"id"`
	NumeroBoleta string `json:"numero_boleta,omitempty"`
	FechaEmision string `json:"fecha_emision"`
	Estado       string `json:"estado"`

	RutUsuario      string `json:"rut_usuario"`
	DireccionEmisor string `json:"direccion_emisor"`
	Retencion       string `json:"retencion"`

	ContactoID        string `json:"contacto_id,omitempty"`
	ReceptorRut       string `json:"receptor_rut"`
	ReceptorNombre    string `json:"receptor_nombre"`
	ReceptorDireccion string `json:"receptor_direccion,omitempty"`
	ReceptorRegion    string `json:"receptor_region"`
	ReceptorComuna    string `json:"receptor_comuna,omitempty"`

	DescripcionServicio string          `json:"descripcion_servicio"`
	ValorBruto          decimal.Decimal `json:"valor_bruto"`
	Moneda              string          `json:"moneda"`

	EmailDestinatario  string     `json:"email_destinatario,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	FechaProcesamiento *time.Time `json:"fecha_procesamiento,omitempty"`
	Intentos           int        `json:"intentos"`
	MotivoAnulacion    string     `json:"motivo_anulacion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromBoleta arma la respuesta a partir de la entidad.
func FromBoleta(b *entity.Boleta) BoletaResponse {
	return BoletaResponse{
		ID:                  b.ID,
		NumeroBoleta:        b.NumeroBoleta,
		FechaEmision:        b.FechaEmision.Format("2006-01-02"),
		Estado:              b.Estado,
		RutUsuario:          b.RutUsuario,
		DireccionEmisor:     b.DireccionEmisor,
		Retencion:           b.Retencion,
		ContactoID:          b.ContactoID,
		ReceptorRut:         b.ReceptorRut,
		ReceptorNombre:      b.ReceptorNombre,
		ReceptorDireccion:   b.ReceptorDireccion,
		ReceptorRegion:      b.ReceptorRegion,
		ReceptorComuna:      b.ReceptorComuna,
		DescripcionServicio: b.DescripcionServicio,
		ValorBruto:          b.ValorBruto,
		Moneda:              b.Moneda,
		EmailDestinatario:   b.EmailDestinatario,
		ErrorMessage:        b.ErrorMessage,
		FechaProcesamiento:  b.FechaProcesamiento,
		Intentos:            b.Intentos,
		MotivoAnulacion:     b.MotivoAnulacion,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// AnularRequest body para POST /api/boletas/:id/anular-por-path.
// Motivo: "1" no se efectuó el pago, "2" no se efectuó la prestación,
// "3" error en la digitación. Si va vacío se usa el registrado en la boleta.
type AnularRequest struct {
	Motivo string `json:"motivo,omitempty"`
}

// EmitirLoteRequest body para POST /api/boletas/emitir-lote.
type EmitirLoteRequest struct {
	BoletaIDs []string `json:"boleta_ids"`
}
