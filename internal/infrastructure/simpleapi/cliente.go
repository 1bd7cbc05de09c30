// Package simpleapi implementa la integración con SimpleAPI, el servicio
// tercero que emite, envía por correo y anula boletas de honorarios
// electrónicas ante el SII.
package simpleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gestorbhe/boletas-api/pkg/config"
	"github.com/gestorbhe/boletas-api/pkg/logger"
	"github.com/gestorbhe/boletas-api/pkg/rut"
)

// userAgent identifica esta integración en los endpoints de correo y
// anulación por path, que lo exigen fijo.
const userAgent = "go-bhe-boletas"

// Gateway define el puerto de salida hacia SimpleAPI. La implementación
// concreta usa HTTP; para tests se inyecta un doble.
type Gateway interface {
	// Emitir envía el payload de emisión y devuelve el JSON crudo en HTTP 200.
	// Cualquier otro status o falla de transporte retorna *APIError.
	Emitir(ctx context.Context, sol *SolicitudEmision) (Respuesta, error)
	// SolicitarCorreo pide el envío de la boleta por correo. Espera el delay
	// configurado antes de llamar (el upstream necesita tiempo para tener el
	// documento disponible). Devuelve true con HTTP 200/202; nunca es fatal
	// para el flujo de emisión.
	SolicitarCorreo(ctx context.Context, folio string, anio int, cred Credenciales, correo string) (bool, error)
	// AnularLegacy llama a POST /bhe/anular con identificación en el cuerpo.
	AnularLegacy(ctx context.Context, folio string, cred Credenciales) (*RespuestaCruda, error)
	// AnularPorPath llama a POST /bhe/anular/{folio}/{motivo} con solo
	// credenciales en el cuerpo.
	AnularPorPath(ctx context.Context, folio, motivo string, cred Credenciales) (*RespuestaCruda, error)
}

var _ Gateway = (*Cliente)(nil)

// Cliente implementación HTTP del Gateway.
type Cliente struct {
	cfg        config.SimpleAPIConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewCliente construye el cliente con la configuración resuelta (key, base URL
// y timeout ya con sus defaults aplicados). La key nunca se loggea completa.
func NewCliente(cfg config.SimpleAPIConfig, log *logger.Logger) *Cliente {
	log.Info().
		Str("base_url", cfg.BaseURL).
		Str("api_key", MaskKey(cfg.APIKey)).
		Dur("timeout", cfg.Timeout).
		Msg("configuración SimpleAPI")
	return &Cliente{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Emitir implementa la emisión: POST {base}/bhe/emitir con la key cruda en el
// header Authorization (sin prefijo Bearer, así lo exige el contrato).
func (c *Cliente) Emitir(ctx context.Context, sol *SolicitudEmision) (Respuesta, error) {
	url := c.cfg.BaseURL + "/bhe/emitir"
	c.log.Info().Str("url", url).Str("api_key", MaskKey(c.cfg.APIKey)).Msg("POST emitir")

	raw, err := c.post(ctx, url, sol, false)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("status", raw.Status).Str("body", PreviewCuerpo(raw.Cuerpo)).Msg("respuesta emitir")

	if raw.Status != http.StatusOK {
		return nil, &APIError{Status: raw.Status, Cuerpo: PreviewCuerpo(raw.Cuerpo)}
	}
	dec := json.NewDecoder(bytes.NewReader(raw.Cuerpo))
	dec.UseNumber()
	var resp Respuesta
	if err := dec.Decode(&resp); err != nil {
		return nil, &APIError{Status: raw.Status, Cuerpo: PreviewCuerpo(raw.Cuerpo), Causa: err}
	}
	return resp, nil
}

// SolicitarCorreo implementa POST {base}/bhe/mail/{folio}/{anio}. El delay
// previo es una cortesía de rate limit hacia el upstream.
func (c *Cliente) SolicitarCorreo(ctx context.Context, folio string, anio int, cred Credenciales, correo string) (bool, error) {
	if c.cfg.EsperaCorreo > 0 {
		select {
		case <-time.After(c.cfg.EsperaCorreo):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	url := fmt.Sprintf("%s/bhe/mail/%s/%d", c.cfg.BaseURL, folio, anio)
	payload := map[string]string{
		"RutUsuario":  rut.Normalizar(cred.RutUsuario),
		"PasswordSII": cred.PasswordSII,
		"Correo":      correo,
	}
	c.log.Info().Str("url", url).Str("api_key", MaskKey(c.cfg.APIKey)).Str("correo", correo).Msg("POST mail")

	raw, err := c.post(ctx, url, payload, true)
	if err != nil {
		return false, err
	}
	c.log.Info().Int("status", raw.Status).Str("body", PreviewCuerpo(raw.Cuerpo)).Msg("respuesta mail")
	return raw.Status == http.StatusOK || raw.Status == http.StatusAccepted, nil
}

// AnularLegacy implementa la variante legacy: identificación del documento en
// el cuerpo del request.
func (c *Cliente) AnularLegacy(ctx context.Context, folio string, cred Credenciales) (*RespuestaCruda, error) {
	url := c.cfg.BaseURL + "/bhe/anular"
	payload := map[string]string{
		"numeroDocumento": folio,
		"rutEmisor":       rut.Normalizar(cred.RutUsuario),
		"passwordSII":     cred.PasswordSII,
	}
	c.log.Info().Str("url", url).Str("api_key", MaskKey(c.cfg.APIKey)).Msg("POST anular legacy")

	raw, err := c.post(ctx, url, payload, false)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("status", raw.Status).Str("body", PreviewCuerpo(raw.Cuerpo)).Msg("respuesta anular legacy")
	return raw, nil
}

// AnularPorPath implementa la variante con folio y motivo en la ruta y solo
// credenciales en el cuerpo.
func (c *Cliente) AnularPorPath(ctx context.Context, folio, motivo string, cred Credenciales) (*RespuestaCruda, error) {
	url := fmt.Sprintf("%s/bhe/anular/%s/%s", c.cfg.BaseURL, folio, motivo)
	payload := map[string]string{
		"RutUsuario":  rut.Normalizar(cred.RutUsuario),
		"PasswordSII": cred.PasswordSII,
	}
	c.log.Info().Str("url", url).Str("api_key", MaskKey(c.cfg.APIKey)).Msg("POST anular por path")

	raw, err := c.post(ctx, url, payload, true)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("status", raw.Status).Str("body", PreviewCuerpo(raw.Cuerpo)).Msg("respuesta anular por path")
	return raw, nil
}

// post serializa el payload, ejecuta el POST con los headers del contrato y
// devuelve status y cuerpo sin interpretar. Las fallas de transporte se
// envuelven en *APIError una sola vez: si el error ya es *APIError se propaga
// tal cual.
func (c *Cliente) post(ctx context.Context, url string, payload any, conUserAgent bool) (*RespuestaCruda, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Causa: fmt.Errorf("serializar request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Causa: fmt.Errorf("crear request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.cfg.APIKey)
	if conUserAgent {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, &APIError{Causa: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // máx 1 MB
	if err != nil {
		return nil, &APIError{Causa: fmt.Errorf("leer respuesta: %w", err)}
	}
	return &RespuestaCruda{Status: resp.StatusCode, Cuerpo: raw}, nil
}
