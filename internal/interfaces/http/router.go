// Package http expone la API REST de boletas de honorarios sobre fiber.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestorbhe/boletas-api/internal/application/boleta"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BoletaUC   *boleta.UseCase
	AutofillUC *boleta.AutofillUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Boletas: ciclo de vida completo
	boletas := api.Group("/boletas")
	boletaHandler := NewBoletaHandler(deps.BoletaUC)
	boletas.Post("/", boletaHandler.Create)
	boletas.Post("/emitir-lote", boletaHandler.EmitirLote)
	boletas.Get("/:id", boletaHandler.GetByID)
	boletas.Post("/:id/emitir", boletaHandler.Emitir)
	boletas.Post("/:id/anular", boletaHandler.AnularLegacy)
	boletas.Post("/:id/anular-por-path", boletaHandler.AnularPorPath)

	// Contactos: autocompletado de receptor
	contactos := api.Group("/contactos")
	contactoHandler := NewContactoHandler(deps.AutofillUC)
	contactos.Get("/por-rut/:rut", contactoHandler.PorRUT)
}
