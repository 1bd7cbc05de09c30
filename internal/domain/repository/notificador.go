package repository

import "context"

// Notificador define el puerto del historial de eventos de una boleta.
// Cada operación del ciclo de vida deja un rastro legible por humanos,
// incluyendo cuerpos de respuesta (truncados) para diagnóstico.
type Notificador interface {
	// Publicar registra un mensaje asociado a la boleta. tipo es
	// entity.MensajeNotificacion o entity.MensajeComentario.
	// Los errores del sink no deben abortar el flujo que notifica.
	Publicar(ctx context.Context, boletaID, cuerpo, tipo string) error
}
