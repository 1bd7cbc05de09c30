package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gestorbhe/boletas-api/internal/application/boleta"
	"github.com/gestorbhe/boletas-api/internal/application/dto"
	"github.com/gestorbhe/boletas-api/internal/domain"
)

// ContactoHandler maneja el autocompletado de receptor desde el directorio de contactos.
type ContactoHandler struct {
	uc *boleta.AutofillUseCase
}

// NewContactoHandler construye el handler.
func NewContactoHandler(uc *boleta.AutofillUseCase) *ContactoHandler {
	return &ContactoHandler{uc: uc}
}

// PorRUT devuelve los campos de receptor sugeridos para un RUT.
// GET /api/contactos/por-rut/:rut
func (h *ContactoHandler) PorRUT(c *fiber.Ctx) error {
	sugerido, err := h.uc.BuscarReceptor(c.Context(), c.Params("rut"))
	if err != nil {
		if errors.Is(err, domain.ErrRUTInvalido) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "RUT inválido"})
		}
		if errors.Is(err, domain.ErrNoEncontrada) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contacto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(sugerido)
}
