package entity

import "time"

// Contacto es una entrada del directorio de contactos, usada para
// autocompletar los datos del receptor a partir de su RUT.
type Contacto struct {
	ID        string
	RUT       string
	Nombre    string
	Direccion string
	Ciudad    string // ciudad o comuna declarada; se usa como comuna del receptor
	Region    string // nombre de región tal como lo registró el usuario
	Email     string
	CreatedAt time.Time
}
