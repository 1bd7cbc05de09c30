package entity

import "time"

// Tipos de mensaje del historial de una boleta (análogos a una bitácora).
const (
	MensajeNotificacion = "notification" // hito del ciclo de vida
	MensajeComentario   = "comment"      // diagnóstico, errores, respuestas crudas
)

// Mensaje es una línea del historial de auditoría de una boleta.
type Mensaje struct {
	ID        string
	BoletaID  string
	Cuerpo    string
	Tipo      string
	CreatedAt time.Time
}
