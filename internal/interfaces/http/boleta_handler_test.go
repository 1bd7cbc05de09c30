package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorbhe/boletas-api/internal/application/boleta"
	"github.com/gestorbhe/boletas-api/internal/application/dto"
	"github.com/gestorbhe/boletas-api/internal/domain/entity"
	"github.com/gestorbhe/boletas-api/internal/infrastructure/simpleapi"
	"github.com/gestorbhe/boletas-api/pkg/logger"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

// Dobles mínimos para ejercitar el mapeo HTTP; la lógica del ciclo de vida se
// prueba en el paquete de aplicación.

type repoFalso struct {
	boletas map[string]*entity.Boleta
}

func (r *repoFalso) Create(_ context.Context, b *entity.Boleta) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	r.boletas[b.ID] = b
	return nil
}

func (r *repoFalso) GetByID(_ context.Context, id string) (*entity.Boleta, error) {
	return r.boletas[id], nil
}

func (r *repoFalso) Update(_ context.Context, b *entity.Boleta) error {
	r.boletas[b.ID] = b
	return nil
}

type gatewayNulo struct{}

func (gatewayNulo) Emitir(context.Context, *simpleapi.SolicitudEmision) (simpleapi.Respuesta, error) {
	return simpleapi.Respuesta{"folio": "1", "anio": "2024"}, nil
}

func (gatewayNulo) SolicitarCorreo(context.Context, string, int, simpleapi.Credenciales, string) (bool, error) {
	return true, nil
}

func (gatewayNulo) AnularLegacy(context.Context, string, simpleapi.Credenciales) (*simpleapi.RespuestaCruda, error) {
	return &simpleapi.RespuestaCruda{Status: 200, Cuerpo: []byte(`{"error": null}`)}, nil
}

func (gatewayNulo) AnularPorPath(context.Context, string, string, simpleapi.Credenciales) (*simpleapi.RespuestaCruda, error) {
	return &simpleapi.RespuestaCruda{Status: 200, Cuerpo: []byte("Boleta anulada correctamente")}, nil
}

type notificadorNulo struct{}

func (notificadorNulo) Publicar(context.Context, string, string, string) error { return nil }

type contactosFalsos struct {
	contactos map[string]*entity.Contacto
}

func (c *contactosFalsos) BuscarPorRUT(_ context.Context, r string) (*entity.Contacto, error) {
	return c.contactos[rut.Normalizar(r)], nil
}

func appDePrueba(repo *repoFalso) *fiber.App {
	uc := boleta.NewUseCase(repo, gatewayNulo{}, notificadorNulo{}, logger.Nop())
	autofill := boleta.NewAutofillUseCase(&contactosFalsos{contactos: map[string]*entity.Contacto{
		"111111111": {ID: "c-1", RUT: "111111111", Nombre: "Cliente", Ciudad: "Santiago", Region: "Santiago", Email: "c@d.cl"},
	}})
	app := fiber.New()
	Router(app, RouterDeps{BoletaUC: uc, AutofillUC: autofill})
	return app
}

func decimalDesde(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	repo := &repoFalso{boletas: map[string]*entity.Boleta{}}
	app := appDePrueba(repo)

	resp := postJSON(t, app, "/api/boletas", dto.CreateBoletaRequest{
		RutUsuario:          "12345678-5",
		PasswordSII:         "secreto",
		ReceptorRut:         "11111111-1",
		ReceptorNombre:      "Cliente",
		DescripcionServicio: "Asesoría",
		ValorBruto:          decimalDesde(t, "100000"),
		EmailDestinatario:   "c@d.cl",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.BoletaResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.EstadoBorrador, out.Estado)
	assert.Equal(t, "13", out.ReceptorRegion, "defaults aplicados")
}

func TestCreate_RUTInvalido(t *testing.T) {
	app := appDePrueba(&repoFalso{boletas: map[string]*entity.Boleta{}})
	resp := postJSON(t, app, "/api/boletas", dto.CreateBoletaRequest{
		RutUsuario:          "12345678-9", // dígito verificador incorrecto
		ReceptorRut:         "11111111-1",
		DescripcionServicio: "Asesoría",
		ValorBruto:          decimalDesde(t, "100000"),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetByID_NoEncontrada(t *testing.T) {
	app := appDePrueba(&repoFalso{boletas: map[string]*entity.Boleta{}})
	req := httptest.NewRequest(http.MethodGet, "/api/boletas/nada", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestAnular_EstadoInvalido: anular un borrador es un conflicto, no un 500.
func TestAnular_EstadoInvalido(t *testing.T) {
	b := entity.NuevaBoleta()
	b.ID = "b-1"
	repo := &repoFalso{boletas: map[string]*entity.Boleta{"b-1": b}}
	app := appDePrueba(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/boletas/b-1/anular", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INVALID_STATE", out.Code)
}

func TestContactoPorRUT(t *testing.T) {
	app := appDePrueba(&repoFalso{boletas: map[string]*entity.Boleta{}})

	req := httptest.NewRequest(http.MethodGet, "/api/contactos/por-rut/11.111.111-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out boleta.ReceptorSugerido
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "c-1", out.ContactoID)
	assert.Equal(t, "13", out.ReceptorRegion)

	req = httptest.NewRequest(http.MethodGet, "/api/contactos/por-rut/no-es-rut", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
