package boleta

import (
	"context"

	"github.com/gestorbhe/boletas-api/internal/domain"
	"github.com/gestorbhe/boletas-api/internal/domain/repository"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

// regionPorNombre mapea nombres de región/ciudad del directorio de contactos
// al código numérico que exige SimpleAPI. Lo no mapeado cae a Metropolitana.
var regionPorNombre = map[string]string{
	"Santiago":   "13",
	"Valparaíso": "5",
	"Concepción": "8",
}

// ReceptorSugerido son los campos del receptor autocompletados desde el
// directorio de contactos.
type ReceptorSugerido struct {
	ContactoID        string `json:"contacto_id"`
	ReceptorRut       string `json:"receptor_rut"`
	ReceptorNombre    string `json:"receptor_nombre"`
	ReceptorDireccion string `json:"receptor_direccion"`
	ReceptorRegion    string `json:"receptor_region"`
	ReceptorComuna    string `json:"receptor_comuna"`
	EmailDestinatario string `json:"email_destinatario"`
}

// AutofillUseCase autocompleta los datos del receptor a partir de su RUT.
// Es solo conveniencia de captura: no participa del ciclo de vida.
type AutofillUseCase struct {
	contactos repository.ContactoRepository
}

// NewAutofillUseCase construye el caso de uso.
func NewAutofillUseCase(contactos repository.ContactoRepository) *AutofillUseCase {
	return &AutofillUseCase{contactos: contactos}
}

// BuscarReceptor busca el contacto por RUT y arma la sugerencia de receptor.
func (uc *AutofillUseCase) BuscarReceptor(ctx context.Context, rutReceptor string) (*ReceptorSugerido, error) {
	if !rut.Validar(rutReceptor) {
		return nil, domain.ErrRUTInvalido
	}
	c, err := uc.contactos.BuscarPorRUT(ctx, rutReceptor)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNoEncontrada
	}

	region, ok := regionPorNombre[c.Region]
	if !ok {
		region = "13"
	}
	return &ReceptorSugerido{
		ContactoID:        c.ID,
		ReceptorRut:       c.RUT,
		ReceptorNombre:    c.Nombre,
		ReceptorDireccion: c.Direccion,
		ReceptorRegion:    region,
		ReceptorComuna:    c.Ciudad,
		EmailDestinatario: c.Email,
	}, nil
}
