package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorbhe/boletas-api/internal/domain"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

// Estados del ciclo de vida de una boleta de honorarios electrónica.
const (
	EstadoBorrador   = "draft"      // creada, aún no enviada al SII
	EstadoProcesando = "processing" // emisión en curso
	EstadoEmitida    = "emitted"    // aceptada, folio asignado
	EstadoDescargada = "downloaded" // PDF descargado (flujo deshabilitado)
	EstadoError      = "error"      // falló la emisión; reintentable
	EstadoAnulada    = "cancelled"  // anulada ante el SII; terminal
)

// Dirección del emisor registrada en el SII.
const (
	DireccionPrincipal  = "0"
	DireccionSecundaria = "1"
)

// Retención de honorarios.
const (
	SinRetencion = "0"
	ConRetencion = "1" // 10%
)

// Regiones de Chile según la codificación que exige SimpleAPI.
var Regiones = map[string]string{
	"1": "Tarapacá", "2": "Antofagasta", "3": "Atacama", "4": "Coquimbo",
	"5": "Valparaíso", "6": "O'Higgins", "7": "Maule", "8": "Biobío",
	"9": "Araucanía", "10": "Los Lagos", "11": "Aysén", "12": "Magallanes",
	"13": "Metropolitana", "14": "Los Ríos", "15": "Arica y Parinacota", "16": "Ñuble",
}

// Motivos de anulación aceptados por el endpoint con path params.
var MotivosAnulacion = map[string]string{
	"1": "No se efectuó el pago",
	"2": "No se efectuó la prestación",
	"3": "Error en la digitación",
}

// Boleta representa una boleta de honorarios electrónica y su seguimiento.
type Boleta struct {
	ID           string
	NumeroBoleta string // folio asignado por el SII; vacío hasta que la boleta se emite
	FechaEmision time.Time
	Estado       string

	// Emisor
	RutUsuario      string
	PasswordSII     string // credencial; nunca se registra completa en logs
	DireccionEmisor string
	Retencion       string

	// Receptor
	ContactoID        string // referencia opcional al directorio de contactos
	ReceptorRut       string
	ReceptorNombre    string
	ReceptorDireccion string
	ReceptorRegion    string
	ReceptorComuna    string

	// Prestación
	DescripcionServicio string
	ValorBruto          decimal.Decimal
	Moneda              string

	// Seguimiento
	ResponseData       string // última respuesta cruda de la API, serializada para auditoría
	EmailDestinatario  string
	ErrorMessage       string
	FechaProcesamiento *time.Time
	Intentos           int
	MotivoAnulacion    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NuevaBoleta crea una boleta en borrador con los defaults del modelo.
func NuevaBoleta() *Boleta {
	return &Boleta{
		Estado:          EstadoBorrador,
		FechaEmision:    time.Now(),
		DireccionEmisor: DireccionPrincipal,
		Retencion:       ConRetencion,
		ReceptorRegion:  "13",
		Moneda:          "CLP",
	}
}

// Validar verifica los invariantes permanentes del registro: monto positivo,
// RUTs con dígito verificador correcto cuando no están vacíos y enums dentro
// de rango. Se invoca antes de persistir.
func (b *Boleta) Validar() error {
	if !b.ValorBruto.IsPositive() {
		return fmt.Errorf("%w: el valor bruto debe ser mayor a cero", domain.ErrValidacion)
	}
	if b.RutUsuario != "" && !rut.Validar(b.RutUsuario) {
		return fmt.Errorf("%w: el RUT del usuario no es válido", domain.ErrRUTInvalido)
	}
	if b.ReceptorRut != "" && !rut.Validar(b.ReceptorRut) {
		return fmt.Errorf("%w: el RUT del receptor no es válido", domain.ErrRUTInvalido)
	}
	if b.DireccionEmisor != DireccionPrincipal && b.DireccionEmisor != DireccionSecundaria {
		return fmt.Errorf("%w: dirección de emisor desconocida %q", domain.ErrValidacion, b.DireccionEmisor)
	}
	if b.Retencion != SinRetencion && b.Retencion != ConRetencion {
		return fmt.Errorf("%w: retención desconocida %q", domain.ErrValidacion, b.Retencion)
	}
	if _, ok := Regiones[b.ReceptorRegion]; !ok {
		return fmt.Errorf("%w: región desconocida %q", domain.ErrValidacion, b.ReceptorRegion)
	}
	if b.MotivoAnulacion != "" {
		if _, ok := MotivosAnulacion[b.MotivoAnulacion]; !ok {
			return domain.ErrMotivoInvalido
		}
	}
	return nil
}

// PuedeAnularse indica si el estado actual permite la anulación.
// Solo boletas emitidas o descargadas se pueden anular.
func (b *Boleta) PuedeAnularse() bool {
	return b.Estado == EstadoEmitida || b.Estado == EstadoDescargada
}

// EmailValido exige un correo de destinatario con al menos un '@'.
func (b *Boleta) EmailValido() bool {
	return strings.Contains(b.EmailDestinatario, "@")
}
