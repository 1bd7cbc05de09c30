// Package boleta contiene los casos de uso del ciclo de vida de la boleta de
// honorarios electrónica: emisión (individual y por lote), solicitud de envío
// por correo y las dos variantes de anulación ante SimpleAPI.
package boleta

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gestorbhe/boletas-api/internal/domain"
	"github.com/gestorbhe/boletas-api/internal/domain/entity"
	"github.com/gestorbhe/boletas-api/internal/domain/repository"
	"github.com/gestorbhe/boletas-api/internal/infrastructure/simpleapi"
	"github.com/gestorbhe/boletas-api/pkg/logger"
)

// UseCase orquesta el ciclo de vida de la boleta:
//
//	draft --emitir--> processing --> emitted | error
//	error --emitir (reintento)--> processing --> emitted | error
//	emitted|downloaded --anular--> cancelled (o error al llamador)
//
// Las fallas de emisión se convierten en estado 'error' del documento y nunca
// se propagan al llamador de lote (semántica iterar-y-continuar). Las fallas
// de anulación sí se propagan: anular es una acción puntual y deliberada.
type UseCase struct {
	repo        repository.BoletaRepository
	gateway     simpleapi.Gateway
	notificador repository.Notificador
	log         *logger.Logger
	ahora       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.BoletaRepository,
	gateway simpleapi.Gateway,
	notificador repository.Notificador,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		repo:        repo,
		gateway:     gateway,
		notificador: notificador,
		log:         log,
		ahora:       time.Now,
	}
}

// Crear valida y persiste una boleta en borrador.
func (uc *UseCase) Crear(ctx context.Context, b *entity.Boleta) error {
	if err := b.Validar(); err != nil {
		return err
	}
	ahora := uc.ahora()
	b.CreatedAt = ahora
	b.UpdatedAt = ahora
	return uc.repo.Create(ctx, b)
}

// Obtener busca una boleta por ID.
func (uc *UseCase) Obtener(ctx context.Context, id string) (*entity.Boleta, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNoEncontrada
	}
	return b, nil
}

// Emitir ejecuta la emisión de una boleta: pasa a processing, incrementa el
// contador de intentos, valida precondiciones, llama a la API y clasifica la
// respuesta. Cualquier falla (validación o API) deja la boleta en 'error' con
// el mensaje; el error solo se retorna si la persistencia misma falla.
//
// No hay guarda contra re-emitir una boleta ya emitida: es un re-emitir
// forzado deliberado, y cada invocación incrementa intentos.
func (uc *UseCase) Emitir(ctx context.Context, id string) (*entity.Boleta, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNoEncontrada
	}

	b.Estado = entity.EstadoProcesando
	b.Intentos++
	ahora := uc.ahora()
	b.FechaProcesamiento = &ahora
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	uc.notificar(ctx, b.ID, "Iniciando emisión de boleta de honorarios...", entity.MensajeNotificacion)

	if err := uc.emitir(ctx, b); err != nil {
		uc.log.Error().Err(err).Str("boleta_id", b.ID).Msg("error emitiendo boleta")
		b.Estado = entity.EstadoError
		b.ErrorMessage = err.Error()
		if uerr := uc.repo.Update(ctx, b); uerr != nil {
			return nil, uerr
		}
		uc.notificar(ctx, b.ID, "Error emitiendo boleta: "+err.Error(), entity.MensajeComentario)
	}
	return b, nil
}

// emitir es el núcleo de la emisión; retorna error solo en fallas que deben
// dejar la boleta en estado 'error'.
func (uc *UseCase) emitir(ctx context.Context, b *entity.Boleta) error {
	// Precondiciones, en orden.
	if b.DescripcionServicio == "" {
		return fmt.Errorf("%w: debe agregar una descripción del servicio", domain.ErrValidacion)
	}
	if !b.ValorBruto.IsPositive() {
		return fmt.Errorf("%w: el valor bruto debe ser mayor a cero", domain.ErrValidacion)
	}
	if !b.EmailValido() {
		return fmt.Errorf("%w: debe indicar un correo destinatario válido (ej: correo@dominio.cl)", domain.ErrValidacion)
	}

	sol, err := simpleapi.NuevaSolicitudEmision(b)
	if err != nil {
		return err
	}

	resp, err := uc.gateway.Emitir(ctx, sol)
	if err != nil {
		return err
	}

	if simpleapi.EsEmisionExitosa(resp) {
		uc.procesarRespuestaExitosa(ctx, b, resp)
	} else {
		uc.procesarRespuestaErronea(ctx, b, resp)
	}
	return nil
}

// procesarRespuestaExitosa extrae el folio y cierra el ciclo: estado emitted,
// notificación y solicitud de correo best-effort. Si la API declaró éxito
// pero no entregó folio, la boleta queda en 'error' (ambigüedad upstream).
func (uc *UseCase) procesarRespuestaExitosa(ctx context.Context, b *entity.Boleta, resp simpleapi.Respuesta) {
	b.ResponseData = serializar(resp)

	folio := simpleapi.ExtraerFolio(resp)
	if folio == "" {
		b.Estado = entity.EstadoError
		b.ErrorMessage = simpleapi.MensajeSinFolio
		if err := uc.repo.Update(ctx, b); err != nil {
			uc.log.Error().Err(err).Str("boleta_id", b.ID).Msg("persistir estado error")
			return
		}
		uc.notificar(ctx, b.ID, "Respuesta exitosa sin folio. Response: "+b.ResponseData, entity.MensajeComentario)
		return
	}

	b.NumeroBoleta = folio
	b.Estado = entity.EstadoEmitida
	b.ErrorMessage = ""
	if err := uc.repo.Update(ctx, b); err != nil {
		uc.log.Error().Err(err).Str("boleta_id", b.ID).Msg("persistir estado emitted")
		return
	}
	uc.notificar(ctx, b.ID, "Boleta emitida exitosamente. Número: "+b.NumeroBoleta, entity.MensajeNotificacion)

	anio, ok := simpleapi.ExtraerAnio(resp)
	if !ok {
		anio = b.FechaEmision.Year()
	}

	// Envío por correo: best-effort. Una falla aquí se notifica pero jamás
	// revierte el estado emitted.
	if b.EmailDestinatario == "" {
		return
	}
	cred := simpleapi.Credenciales{RutUsuario: b.RutUsuario, PasswordSII: b.PasswordSII}
	enviado, err := uc.gateway.SolicitarCorreo(ctx, folio, anio, cred, b.EmailDestinatario)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Str("boleta_id", b.ID).Msg("fallo solicitando envío por correo")
		uc.notificar(ctx, b.ID, "Error solicitando envío por correo: "+err.Error(), entity.MensajeComentario)
	case !enviado:
		uc.notificar(ctx, b.ID, "No se pudo solicitar envío por correo para el folio "+folio, entity.MensajeComentario)
	default:
		uc.notificar(ctx, b.ID, fmt.Sprintf("Correo solicitado a SimpleAPI (folio %s): %s", folio, b.EmailDestinatario), entity.MensajeNotificacion)
	}
}

// procesarRespuestaErronea registra el error extraído y deja la boleta en 'error'.
func (uc *UseCase) procesarRespuestaErronea(ctx context.Context, b *entity.Boleta, resp simpleapi.Respuesta) {
	b.Estado = entity.EstadoError
	b.ErrorMessage = simpleapi.ExtraerError(resp)
	b.ResponseData = serializar(resp)
	if err := uc.repo.Update(ctx, b); err != nil {
		uc.log.Error().Err(err).Str("boleta_id", b.ID).Msg("persistir estado error")
		return
	}
	uc.notificar(ctx, b.ID, "Error en emisión: "+b.ErrorMessage, entity.MensajeComentario)
}

// ResultadoLote es el desenlace por documento de una emisión por lote.
type ResultadoLote struct {
	BoletaID string `json:"boleta_id"`
	Estado   string `json:"estado"`
	Error    string `json:"error,omitempty"`
}

// EmitirLote procesa cada boleta de forma independiente: una falla en un
// documento no aborta el procesamiento de los demás.
func (uc *UseCase) EmitirLote(ctx context.Context, ids []string) []ResultadoLote {
	resultados := make([]ResultadoLote, 0, len(ids))
	for _, id := range ids {
		b, err := uc.Emitir(ctx, id)
		if err != nil {
			resultados = append(resultados, ResultadoLote{BoletaID: id, Error: err.Error()})
			continue
		}
		resultados = append(resultados, ResultadoLote{BoletaID: id, Estado: b.Estado, Error: b.ErrorMessage})
	}
	return resultados
}

// AnularLegacy anula por la variante legacy (identificación en el cuerpo).
// Solo boletas emitidas o descargadas; cualquier falla de API o interpretación
// se propaga al llamador sin mutar el estado.
func (uc *UseCase) AnularLegacy(ctx context.Context, id string) (*entity.Boleta, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNoEncontrada
	}
	if !b.PuedeAnularse() {
		return nil, fmt.Errorf("%w: solo se pueden anular boletas emitidas", domain.ErrEstadoInvalido)
	}

	cred := simpleapi.Credenciales{RutUsuario: b.RutUsuario, PasswordSII: b.PasswordSII}
	raw, err := uc.gateway.AnularLegacy(ctx, b.NumeroBoleta, cred)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnulacion, err)
	}

	res := simpleapi.InterpretarAnulacionLegacy(raw)
	if !res.Exitosa {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnulacion, res.Detalle)
	}

	b.Estado = entity.EstadoAnulada
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	uc.notificar(ctx, b.ID,
		fmt.Sprintf("Boleta %s anulada exitosamente (legacy). Resp: %s", b.NumeroBoleta, res.Detalle),
		entity.MensajeNotificacion)
	return b, nil
}

// AnularPorPath anula por la variante con folio y motivo en la ruta. Exige
// folio asignado y un motivo dentro del catálogo. El fallback permisivo
// (200 sin JSON ni palabra clave) igual cancela, pero deja el cuerpo crudo
// como evidencia en el historial.
func (uc *UseCase) AnularPorPath(ctx context.Context, id, motivo string) (*entity.Boleta, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNoEncontrada
	}
	if !b.PuedeAnularse() {
		return nil, fmt.Errorf("%w: solo se pueden anular boletas emitidas o descargadas", domain.ErrEstadoInvalido)
	}
	if b.NumeroBoleta == "" {
		return nil, domain.ErrFolioFaltante
	}
	if motivo == "" {
		motivo = b.MotivoAnulacion
	}
	if _, ok := entity.MotivosAnulacion[motivo]; !ok {
		return nil, domain.ErrMotivoInvalido
	}

	cred := simpleapi.Credenciales{RutUsuario: b.RutUsuario, PasswordSII: b.PasswordSII}
	raw, err := uc.gateway.AnularPorPath(ctx, b.NumeroBoleta, motivo, cred)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnulacion, err)
	}

	res := simpleapi.InterpretarAnulacionPath(raw)
	if !res.Exitosa {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnulacion, res.Detalle)
	}

	b.Estado = entity.EstadoAnulada
	b.MotivoAnulacion = motivo
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	if res.FallbackPermisivo {
		uc.log.Warn().Str("boleta_id", b.ID).Str("cuerpo", res.Detalle).
			Msg("anulación aceptada por fallback permisivo")
		uc.notificar(ctx, b.ID,
			fmt.Sprintf("Boleta %s anulada (HTTP %d) sin JSON; cuerpo: %s", b.NumeroBoleta, raw.Status, res.Detalle),
			entity.MensajeNotificacion)
	} else {
		uc.notificar(ctx, b.ID,
			fmt.Sprintf("Boleta %s anulada exitosamente (motivo %s). Resp: %s", b.NumeroBoleta, motivo, res.Detalle),
			entity.MensajeNotificacion)
	}
	return b, nil
}

// notificar publica en el historial; una falla del sink no aborta el flujo.
func (uc *UseCase) notificar(ctx context.Context, boletaID, cuerpo, tipo string) {
	if err := uc.notificador.Publicar(ctx, boletaID, cuerpo, tipo); err != nil {
		uc.log.Warn().Err(err).Str("boleta_id", boletaID).Msg("fallo publicando notificación")
	}
}

func serializar(resp simpleapi.Respuesta) string {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", resp)
	}
	return string(data)
}
