package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gestorbhe/boletas-api/internal/application/boleta"
	"github.com/gestorbhe/boletas-api/internal/application/dto"
	"github.com/gestorbhe/boletas-api/internal/domain"
)

// BoletaHandler maneja las peticiones HTTP del ciclo de vida de la boleta.
type BoletaHandler struct {
	uc *boleta.UseCase
}

// NewBoletaHandler construye el handler.
func NewBoletaHandler(uc *boleta.UseCase) *BoletaHandler {
	return &BoletaHandler{uc: uc}
}

// Create crea una boleta en borrador.
// POST /api/boletas
func (h *BoletaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBoletaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := in.ToEntity()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if err := h.uc.Crear(c.Context(), b); err != nil {
		if errors.Is(err, domain.ErrValidacion) || errors.Is(err, domain.ErrRUTInvalido) || errors.Is(err, domain.ErrMotivoInvalido) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromBoleta(b))
}

// GetByID obtiene una boleta con su seguimiento.
// GET /api/boletas/:id
func (h *BoletaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	b, err := h.uc.Obtener(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNoEncontrada) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "boleta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromBoleta(b))
}

// Emitir emite la boleta ante el SII vía SimpleAPI. Las fallas de emisión
// quedan reflejadas en el estado de la boleta, no en el status HTTP.
// POST /api/boletas/:id/emitir
func (h *BoletaHandler) Emitir(c *fiber.Ctx) error {
	id := c.Params("id")
	b, err := h.uc.Emitir(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNoEncontrada) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "boleta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromBoleta(b))
}

// EmitirLote emite varias boletas; cada una se procesa de forma independiente.
// POST /api/boletas/emitir-lote
func (h *BoletaHandler) EmitirLote(c *fiber.Ctx) error {
	var in dto.EmitirLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.BoletaIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "boleta_ids requerido"})
	}
	resultados := h.uc.EmitirLote(c.Context(), in.BoletaIDs)
	return c.JSON(fiber.Map{"resultados": resultados})
}

// AnularLegacy anula por la variante con identificación en el cuerpo.
// POST /api/boletas/:id/anular
func (h *BoletaHandler) AnularLegacy(c *fiber.Ctx) error {
	b, err := h.uc.AnularLegacy(c.Context(), c.Params("id"))
	if err != nil {
		return errorAnulacion(c, err)
	}
	return c.JSON(dto.FromBoleta(b))
}

// AnularPorPath anula por la variante con folio y motivo en la ruta.
// POST /api/boletas/:id/anular-por-path
func (h *BoletaHandler) AnularPorPath(c *fiber.Ctx) error {
	var in dto.AnularRequest
	// El cuerpo es opcional; sin motivo se usa el registrado en la boleta.
	_ = c.BodyParser(&in)
	b, err := h.uc.AnularPorPath(c.Context(), c.Params("id"), in.Motivo)
	if err != nil {
		return errorAnulacion(c, err)
	}
	return c.JSON(dto.FromBoleta(b))
}

// errorAnulacion mapea los errores de anulación a status HTTP.
func errorAnulacion(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoEncontrada):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "boleta no encontrada"})
	case errors.Is(err, domain.ErrEstadoInvalido), errors.Is(err, domain.ErrFolioFaltante):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrMotivoInvalido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrAnulacion):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
