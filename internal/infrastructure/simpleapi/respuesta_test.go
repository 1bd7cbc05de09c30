package simpleapi

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respuestaDesde(t *testing.T, raw string) Respuesta {
	t.Helper()
	var r Respuesta
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&r))
	return r
}

// ── Clasificación de emisión ──────────────────────────────────────────────────

func TestEsEmisionExitosa_SenalesIndependientes(t *testing.T) {
	casos := []struct {
		nombre string
		raw    string
		quiero bool
	}{
		{"success booleano", `{"success": true}`, true},
		{"solo folio", `{"folio": "123"}`, true},
		{"solo numeroDocumento", `{"numeroDocumento": 456}`, true},
		{"solo numero", `{"numero": "789"}`, true},
		{"success false sin folio", `{"success": false}`, false},
		{"error puro", `{"error": "credenciales inválidas"}`, false},
		{"vacía", `{}`, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.quiero, EsEmisionExitosa(respuestaDesde(t, c.raw)))
		})
	}
}

// TestExtraerFolio_OrdenDeClaves: la primera clave con valor gana, en el orden
// folio, numeroDocumento, numero_boleta, numeroBoleta, numero.
func TestExtraerFolio_OrdenDeClaves(t *testing.T) {
	r := respuestaDesde(t, `{"numero": "5", "folio": "1", "numeroBoleta": "4"}`)
	assert.Equal(t, "1", ExtraerFolio(r))

	r = respuestaDesde(t, `{"numero": "5", "numeroBoleta": "4"}`)
	assert.Equal(t, "4", ExtraerFolio(r))

	r = respuestaDesde(t, `{"numeroDocumento": 42}`)
	assert.Equal(t, "42", ExtraerFolio(r), "folios numéricos se normalizan a texto")

	r = respuestaDesde(t, `{"success": true}`)
	assert.Empty(t, ExtraerFolio(r))
}

func TestExtraerAnio(t *testing.T) {
	r := respuestaDesde(t, `{"anio": "2024"}`)
	anio, ok := ExtraerAnio(r)
	assert.True(t, ok)
	assert.Equal(t, 2024, anio)

	// Solo los primeros 4 caracteres se interpretan.
	r = respuestaDesde(t, `{"anioFolioEmitido": "2023-11-29"}`)
	anio, ok = ExtraerAnio(r)
	assert.True(t, ok)
	assert.Equal(t, 2023, anio)

	r = respuestaDesde(t, `{"year": 2022}`)
	anio, ok = ExtraerAnio(r)
	assert.True(t, ok)
	assert.Equal(t, 2022, anio)

	r = respuestaDesde(t, `{"anio": "no-fecha"}`)
	_, ok = ExtraerAnio(r)
	assert.False(t, ok, "sin año parseable el llamador cae a la fecha de emisión")
}

func TestExtraerError(t *testing.T) {
	r := respuestaDesde(t, `{"mensaje": "clave vencida", "detalle": "x"}`)
	assert.Equal(t, "clave vencida", ExtraerError(r))

	r = respuestaDesde(t, `{"detalle": "timeout upstream"}`)
	assert.Equal(t, "timeout upstream", ExtraerError(r))

	r = respuestaDesde(t, `{}`)
	assert.Equal(t, ErrorDesconocido, ExtraerError(r))
}

// ── Anulación legacy ──────────────────────────────────────────────────────────

func TestInterpretarAnulacionLegacy(t *testing.T) {
	// JSON sin error -> éxito (error: null no cuenta como error).
	res := InterpretarAnulacionLegacy(&RespuestaCruda{Status: 200, Cuerpo: []byte(`{"error": null}`)})
	assert.True(t, res.Exitosa)

	// JSON con error verdadero -> falla.
	res = InterpretarAnulacionLegacy(&RespuestaCruda{Status: 200, Cuerpo: []byte(`{"error": "x"}`)})
	assert.False(t, res.Exitosa)
	assert.Equal(t, "x", res.Detalle)

	// Texto plano con palabra clave -> éxito.
	res = InterpretarAnulacionLegacy(&RespuestaCruda{Status: 200, Cuerpo: []byte("Boleta anulada")})
	assert.True(t, res.Exitosa)

	// Texto plano sin palabra clave -> falla (el legacy NO tiene fallback permisivo).
	res = InterpretarAnulacionLegacy(&RespuestaCruda{Status: 200, Cuerpo: []byte("ok")})
	assert.False(t, res.Exitosa)

	// Status distinto de 200/202 siempre es falla, con status y cuerpo.
	res = InterpretarAnulacionLegacy(&RespuestaCruda{Status: 500, Cuerpo: []byte("boom")})
	assert.False(t, res.Exitosa)
	assert.Contains(t, res.Detalle, "500")
	assert.Contains(t, res.Detalle, "boom")
}

// ── Anulación por path ────────────────────────────────────────────────────────

func TestInterpretarAnulacionPath_JSON(t *testing.T) {
	// success ausente se asume verdadero (default intencional).
	res := InterpretarAnulacionPath(&RespuestaCruda{Status: 200, Cuerpo: []byte(`{"mensaje": "ok"}`)})
	assert.True(t, res.Exitosa)
	assert.False(t, res.FallbackPermisivo)

	// success explícito en formatos tolerados.
	for _, raw := range []string{`{"success": true}`, `{"success": "TRUE"}`, `{"success": "1"}`, `{"success": "yes"}`} {
		res = InterpretarAnulacionPath(&RespuestaCruda{Status: 202, Cuerpo: []byte(raw)})
		assert.True(t, res.Exitosa, raw)
	}

	// success falso o error presente -> falla.
	res = InterpretarAnulacionPath(&RespuestaCruda{Status: 200, Cuerpo: []byte(`{"success": false}`)})
	assert.False(t, res.Exitosa)
	res = InterpretarAnulacionPath(&RespuestaCruda{Status: 200, Cuerpo: []byte(`{"success": true, "error": "folio inexistente"}`)})
	assert.False(t, res.Exitosa)
	assert.Equal(t, "folio inexistente", res.Detalle)
}

func TestInterpretarAnulacionPath_TextoPlano(t *testing.T) {
	res := InterpretarAnulacionPath(&RespuestaCruda{Status: 200, Cuerpo: []byte("Boleta anulada correctamente")})
	assert.True(t, res.Exitosa)
	assert.False(t, res.FallbackPermisivo)
}

// TestInterpretarAnulacionPath_FallbackPermisivo: 200 sin JSON ni palabra
// clave se acepta igual, pero queda marcado y con el cuerpo como evidencia.
func TestInterpretarAnulacionPath_FallbackPermisivo(t *testing.T) {
	res := InterpretarAnulacionPath(&RespuestaCruda{Status: 200, Cuerpo: []byte("OK 123")})
	assert.True(t, res.Exitosa)
	assert.True(t, res.FallbackPermisivo)
	assert.Equal(t, "OK 123", res.Detalle)
}

func TestInterpretarAnulacionPath_StatusNoExitoso(t *testing.T) {
	res := InterpretarAnulacionPath(&RespuestaCruda{Status: 401, Cuerpo: []byte("unauthorized")})
	assert.False(t, res.Exitosa)
	assert.Contains(t, res.Detalle, "401")
}

func TestPreviewCuerpo_Trunca(t *testing.T) {
	largo := make([]byte, 1000)
	for i := range largo {
		largo[i] = 'a'
	}
	assert.Len(t, PreviewCuerpo(largo), 300)
	assert.Equal(t, "corto", PreviewCuerpo([]byte("  corto \n")))
}
