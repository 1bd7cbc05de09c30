package simpleapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorbhe/boletas-api/internal/domain/entity"
)

func boletaDePrueba() *entity.Boleta {
	b := entity.NuevaBoleta()
	b.ID = "b-1"
	b.RutUsuario = "12.345.678-5"
	b.PasswordSII = "secreto"
	b.Retencion = entity.ConRetencion
	b.DireccionEmisor = entity.DireccionPrincipal
	b.FechaEmision = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	b.ReceptorRut = "11.111.111-1"
	b.ReceptorNombre = "Cliente Uno"
	b.ReceptorDireccion = "Av. Siempre Viva 123"
	b.ReceptorRegion = "13"
	b.ReceptorComuna = "Santiago"
	b.DescripcionServicio = "Asesoría tributaria"
	b.ValorBruto = decimal.RequireFromString("150000.90")
	b.EmailDestinatario = "cliente@dominio.cl"
	return b
}

// TestNuevaSolicitudEmision_FormaExacta verifica el payload bit a bit:
// RUTs sin separadores, enums como entero, fecha DD-MM-YYYY y una sola línea
// de detalle con el monto truncado (sin centavos).
func TestNuevaSolicitudEmision_FormaExacta(t *testing.T) {
	sol, err := NuevaSolicitudEmision(boletaDePrueba())
	require.NoError(t, err)

	got, err := json.Marshal(sol)
	require.NoError(t, err)

	quiero := `{
		"RutUsuario": "123456785",
		"PasswordSII": "secreto",
		"Retencion": 1,
		"FechaEmision": "09-03-2024",
		"Emisor": {"Direccion": "0"},
		"Receptor": {
			"Rut": "111111111",
			"Nombre": "Cliente Uno",
			"Direccion": "Av. Siempre Viva 123",
			"Region": 13,
			"Comuna": "Santiago"
		},
		"Detalles": [{"Nombre": "Asesoría tributaria", "Valor": 150000}]
	}`
	assert.JSONEq(t, quiero, string(got))
}

// TestNuevaSolicitudEmision_UnSoloDetalle: el contrato exige exactamente una línea.
func TestNuevaSolicitudEmision_UnSoloDetalle(t *testing.T) {
	sol, err := NuevaSolicitudEmision(boletaDePrueba())
	require.NoError(t, err)
	require.Len(t, sol.Detalles, 1)
	assert.Equal(t, int64(150000), sol.Detalles[0].Valor)
}

func TestNuevaSolicitudEmision_RegionNoNumerica(t *testing.T) {
	b := boletaDePrueba()
	b.ReceptorRegion = "Metropolitana"
	_, err := NuevaSolicitudEmision(b)
	assert.Error(t, err)
}
