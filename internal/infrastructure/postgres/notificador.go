package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gestorbhe/boletas-api/internal/domain/repository"
	"github.com/gestorbhe/boletas-api/pkg/logger"
)

var _ repository.Notificador = (*NotificadorRepo)(nil)

// NotificadorRepo persiste el historial de la boleta en boleta_mensajes y lo
// refleja en el log estructurado.
type NotificadorRepo struct {
	q   Querier
	log *logger.Logger
}

// NewNotificador construye el sink de historial. Pasar pool o tx (Querier).
func NewNotificador(q Querier, log *logger.Logger) *NotificadorRepo {
	return &NotificadorRepo{q: q, log: log}
}

// Publicar agrega un mensaje al historial de la boleta.
func (n *NotificadorRepo) Publicar(ctx context.Context, boletaID, cuerpo, tipo string) error {
	query := `
		INSERT INTO boleta_mensajes (id, boleta_id, cuerpo, tipo, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	_, err := n.q.Exec(ctx, query, uuid.New().String(), boletaID, cuerpo, tipo)
	if err != nil {
		return fmt.Errorf("insert mensaje: %w", err)
	}
	n.log.Info().Str("boleta_id", boletaID).Str("tipo", tipo).Msg(cuerpo)
	return nil
}
