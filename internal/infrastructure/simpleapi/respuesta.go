package simpleapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Respuesta es el JSON crudo devuelto por el endpoint de emisión. SimpleAPI no
// es consistente entre endpoints ni versiones, por eso se interpreta con
// heurísticas de claves ordenadas en lugar de structs tipados.
type Respuesta map[string]any

// RespuestaCruda es la respuesta sin interpretar de los endpoints de anulación,
// que pueden devolver JSON o texto plano.
type RespuestaCruda struct {
	Status int
	Cuerpo []byte
}

// Órdenes de búsqueda de claves. Son datos explícitos y testeables: la primera
// clave con valor no vacío gana.
var (
	ClavesFolio = []string{"folio", "numeroDocumento", "numero_boleta", "numeroBoleta", "numero"}
	ClavesAnio  = []string{"anio", "anioFolio", "year", "anio_emision", "anioFolioEmitido"}
	ClavesError = []string{"error", "mensaje", "message", "descripcion", "detalle"}
)

// MensajeSinFolio es el error_message cuando la API declara éxito pero no
// entrega folio.
const MensajeSinFolio = "respuesta exitosa pero sin número de boleta"

// ErrorDesconocido es el mensaje por defecto cuando la respuesta de error no
// trae ninguna clave reconocible.
const ErrorDesconocido = "error desconocido"

// EsEmisionExitosa clasifica una respuesta de emisión como exitosa. El
// predicado es deliberadamente laxo (OR de varias señales independientes)
// porque la API upstream no es consistente: basta un campo success verdadero o
// la sola presencia de un identificador de documento.
func EsEmisionExitosa(r Respuesta) bool {
	if esVerdadero(r["success"]) {
		return true
	}
	for _, clave := range []string{"numeroDocumento", "numero", "folio"} {
		if comoTexto(r[clave]) != "" {
			return true
		}
	}
	return false
}

// ExtraerFolio devuelve el folio probando ClavesFolio en orden; vacío si
// ninguna clave trae valor.
func ExtraerFolio(r Respuesta) string {
	return primerValor(r, ClavesFolio)
}

// ExtraerAnio devuelve el año de emisión probando ClavesAnio en orden
// (primeros 4 caracteres del valor, como entero). ok es false si ninguna
// clave trae un año parseable; el llamador debe caer al año de la fecha de
// emisión de la boleta.
func ExtraerAnio(r Respuesta) (anio int, ok bool) {
	for _, clave := range ClavesAnio {
		v := comoTexto(r[clave])
		if len(v) >= 4 {
			v = v[:4]
		}
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ExtraerError devuelve el mensaje de error de una respuesta no exitosa
// probando ClavesError en orden, con ErrorDesconocido por defecto.
func ExtraerError(r Respuesta) string {
	if msg := primerValor(r, ClavesError); msg != "" {
		return msg
	}
	return ErrorDesconocido
}

// ResultadoAnulacion es la interpretación canónica de una respuesta de
// anulación en cualquiera de sus dos variantes.
type ResultadoAnulacion struct {
	Exitosa bool
	// FallbackPermisivo marca el caso path-style en que un 200/202 sin JSON y
	// sin palabra clave se acepta igual como éxito. Es un default permisivo
	// heredado del contrato: puede ocultar fallas reales, por eso se deja el
	// cuerpo crudo como evidencia y se cuenta en la métrica
	// bhe_anulacion_fallback_permisivo_total.
	FallbackPermisivo bool
	Detalle           string // error extraído o cuerpo crudo truncado
}

// InterpretarAnulacionLegacy clasifica la respuesta del endpoint legacy
// POST /bhe/anular: con HTTP 200/202, un objeto JSON sin campo error verdadero
// es éxito; un cuerpo de texto es éxito si contiene "anulada" o
// "correctamente". Todo lo demás es falla.
func InterpretarAnulacionLegacy(r *RespuestaCruda) *ResultadoAnulacion {
	preview := PreviewCuerpo(r.Cuerpo)
	if r.Status != 200 && r.Status != 202 {
		return &ResultadoAnulacion{Detalle: fmt.Sprintf("%d - %s", r.Status, preview)}
	}
	var obj map[string]any
	if err := json.Unmarshal(r.Cuerpo, &obj); err == nil && obj != nil {
		if esVerdadero(obj["error"]) {
			return &ResultadoAnulacion{Detalle: comoTexto(obj["error"])}
		}
		return &ResultadoAnulacion{Exitosa: true, Detalle: preview}
	}
	if contieneClaveDeExito(string(r.Cuerpo)) {
		return &ResultadoAnulacion{Exitosa: true, Detalle: preview}
	}
	return &ResultadoAnulacion{Detalle: preview}
}

// InterpretarAnulacionPath clasifica la respuesta de POST /bhe/anular/{folio}/{motivo}.
// Con HTTP 200/202:
//   - JSON: éxito si success está ausente o es verdadero Y no hay campo error.
//     El default de success en verdadero es intencional, para tolerar APIs que
//     lo omiten al tener éxito.
//   - Texto con palabra clave ("anulada"/"correctamente"): éxito.
//   - Texto sin palabra clave: se acepta como éxito con FallbackPermisivo y el
//     cuerpo crudo preservado como evidencia.
func InterpretarAnulacionPath(r *RespuestaCruda) *ResultadoAnulacion {
	preview := PreviewCuerpo(r.Cuerpo)
	if r.Status != 200 && r.Status != 202 {
		return &ResultadoAnulacion{Detalle: fmt.Sprintf("%d - %s", r.Status, preview)}
	}
	var obj map[string]any
	if err := json.Unmarshal(r.Cuerpo, &obj); err == nil && obj != nil {
		successFlag := true
		if v, presente := obj["success"]; presente {
			successFlag = esBanderaVerdadera(v)
		}
		if successFlag && !esVerdadero(obj["error"]) {
			return &ResultadoAnulacion{Exitosa: true, Detalle: preview}
		}
		detalle := comoTexto(obj["error"])
		if detalle == "" {
			detalle = preview
		}
		return &ResultadoAnulacion{Detalle: detalle}
	}
	if contieneClaveDeExito(string(r.Cuerpo)) {
		return &ResultadoAnulacion{Exitosa: true, Detalle: preview}
	}
	fallbacksPermisivos.Inc()
	return &ResultadoAnulacion{Exitosa: true, FallbackPermisivo: true, Detalle: preview}
}

// PreviewCuerpo trunca un cuerpo de respuesta para logs y notificaciones.
func PreviewCuerpo(b []byte) string {
	const max = 300
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max]
	}
	return s
}

// ── helpers ───────────────────────────────────────────────────────────────────

func contieneClaveDeExito(cuerpo string) bool {
	t := strings.ToLower(cuerpo)
	return strings.Contains(t, "anulada") || strings.Contains(t, "correctamente")
}

// primerValor devuelve el primer valor no vacío probando las claves en orden.
func primerValor(r Respuesta, claves []string) string {
	for _, clave := range claves {
		if v := comoTexto(r[clave]); v != "" {
			return v
		}
	}
	return ""
}

// comoTexto normaliza un valor JSON a texto: strings tal cual, números sin
// notación flotante espuria, nil como vacío.
func comoTexto(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// esVerdadero replica la noción de "truthy": nil, false, "", 0 y "false"/"0"
// son falsos; todo lo demás es verdadero.
func esVerdadero(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "false" && s != "0" && s != "null"
	case json.Number:
		return t.String() != "0" && t.String() != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

// esBanderaVerdadera interpreta un campo success explícito: true, "true", "1"
// o "yes" (sin distinguir mayúsculas).
func esBanderaVerdadera(v any) bool {
	s := strings.ToLower(strings.TrimSpace(comoTexto(v)))
	return s == "true" || s == "1" || s == "yes"
}
