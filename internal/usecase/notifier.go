package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
)

const notifyTimeout = 10 * time.Second

// Notifier публикует события модерации в фоне. Ошибки только логируются
// и никогда не влияют на результат основной операции.
type Notifier struct {
	publisher ports.ModerationPublisher
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewNotifier принимает nil publisher, тогда уведомления отключены.
func NewNotifier(publisher ports.ModerationPublisher, logger *slog.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, event payloads.ModerationEvent) {
	if n == nil || n.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	// запрос может завершиться раньше публикации
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		if err := n.publisher.PublishModerationEvent(ctx, event); err != nil {
			n.logger.Warn("failed to publish moderation event",
				"type", event.Type,
				"asset_id", event.AssetID,
				"error", err,
			)
		}
	}()
}

// Wait дожидается отправки начатых уведомлений, используется при остановке сервера.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}
