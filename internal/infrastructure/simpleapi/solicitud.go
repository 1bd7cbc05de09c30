package simpleapi

import (
	"fmt"
	"strconv"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

// Estructuras del contrato de emisión de SimpleAPI. La forma y los nombres de
// campo los dicta la API externa y deben reproducirse exactamente.

// Emisor selección de dirección del emisor ("0" principal, "1" secundaria).
type Emisor struct {
	Direccion string `json:"Direccion"`
}

// Receptor datos del receptor con RUT normalizado y región numérica.
type Receptor struct {
	Rut       string `json:"Rut"`
	Nombre    string `json:"Nombre"`
	Direccion string `json:"Direccion"`
	Region    int    `json:"Region"`
	Comuna    string `json:"Comuna"`
}

// Detalle línea de prestación: descripción y monto entero (sin centavos).
type Detalle struct {
	Nombre string `json:"Nombre"`
	Valor  int64  `json:"Valor"`
}

// SolicitudEmision es el payload de POST /bhe/emitir.
type SolicitudEmision struct {
	RutUsuario   string    `json:"RutUsuario"`
	PasswordSII  string    `json:"PasswordSII"`
	Retencion    int       `json:"Retencion"`
	FechaEmision string    `json:"FechaEmision"` // DD-MM-YYYY
	Emisor       Emisor    `json:"Emisor"`
	Receptor     Receptor  `json:"Receptor"`
	Detalles     []Detalle `json:"Detalles"`
}

// Credenciales del emisor para los endpoints de correo y anulación.
type Credenciales struct {
	RutUsuario  string
	PasswordSII string
}

// NuevaSolicitudEmision mapea la boleta al payload de emisión: RUTs sin
// separadores, enums convertidos a entero, fecha DD-MM-YYYY y exactamente una
// línea de detalle con el monto truncado a entero.
func NuevaSolicitudEmision(b *entity.Boleta) (*SolicitudEmision, error) {
	retencion, err := strconv.Atoi(b.Retencion)
	if err != nil {
		return nil, fmt.Errorf("retención no numérica %q: %w", b.Retencion, err)
	}
	region, err := strconv.Atoi(b.ReceptorRegion)
	if err != nil {
		return nil, fmt.Errorf("región no numérica %q: %w", b.ReceptorRegion, err)
	}
	return &SolicitudEmision{
		RutUsuario:   rut.Normalizar(b.RutUsuario),
		PasswordSII:  b.PasswordSII,
		Retencion:    retencion,
		FechaEmision: b.FechaEmision.Format("02-01-2006"),
		Emisor:       Emisor{Direccion: b.DireccionEmisor},
		Receptor: Receptor{
			Rut:       rut.Normalizar(b.ReceptorRut),
			Nombre:    b.ReceptorNombre,
			Direccion: b.ReceptorDireccion,
			Region:    region,
			Comuna:    b.ReceptorComuna,
		},
		Detalles: []Detalle{
			{Nombre: b.DescripcionServicio, Valor: b.ValorBruto.IntPart()},
		},
	}, nil
}
