// Package rut implementa la validación del RUT chileno (Rol Único Tributario).
// Es una función pura sin dependencias; se usa tanto como utilitario suelto
// como precondición antes de persistir RUTs de emisor y receptor.
package rut

import "strings"

// Normalizar elimina puntos y guiones y lleva el RUT a mayúsculas.
// "12.345.678-5" -> "123456785".
func Normalizar(rut string) string {
	r := strings.NewReplacer(".", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(rut)))
}

// Validar verifica el dígito verificador de un RUT chileno.
// Reglas:
//   - Tras normalizar, el largo mínimo es 8 caracteres (cuerpo + DV).
//   - El cuerpo (todo menos el último carácter) debe ser numérico.
//   - El DV se calcula con módulo 11 y multiplicadores cíclicos 2..7
//     desde el dígito menos significativo.
func Validar(valor string) bool {
	limpio := Normalizar(valor)
	if len(limpio) < 8 {
		return false
	}
	cuerpo, dv := limpio[:len(limpio)-1], limpio[len(limpio)-1:]
	for _, c := range cuerpo {
		if c < '0' || c > '9' {
			return false
		}
	}
	return dv == DigitoVerificador(cuerpo)
}

// DigitoVerificador calcula el DV esperado para un cuerpo numérico de RUT.
// Retorna "0" si el resto es 0, "K" si el resto es 1 y "11-resto" en otro caso.
func DigitoVerificador(cuerpo string) string {
	suma, mult := 0, 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		suma += int(cuerpo[i]-'0') * mult
		if mult < 7 {
			mult++
		} else {
			mult = 2
		}
	}
	resto := suma % 11
	switch resto {
	case 0:
		return "0"
	case 1:
		return "K"
	default:
		return string(rune('0' + 11 - resto))
	}
}
