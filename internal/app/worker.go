package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
)

const (
	pruneInterval  = 10 * time.Minute
	rateLimitKeep  = time.Hour
	deliverTimeout = 15 * time.Second
)

// RateLimitPruner удаляет устаревшие окна счётчика запросов.
type RateLimitPruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// WorkerDeps это всё, что нужно воркеру уведомлений.
type WorkerDeps struct {
	Consumer ports.ModerationConsumer
	Webhook  ports.WebhookSender
	Pruner   RateLimitPruner
}

// runWorker запускает потребителя RabbitMQ и доставляет события модерации в вебхук
func runWorker(ctx context.Context, logger *slog.Logger, deps *WorkerDeps) error {
	logger.Info("worker started, waiting for moderation events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	err := deps.Consumer.StartConsumingModerationEvents(workerCtx, deliverEvent(deps.Webhook, logger))
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-workerCtx.Done():
			logger.Info("worker stopped")
			return nil
		case <-ticker.C:
			pruneRateLimits(workerCtx, deps.Pruner, logger)
		}
	}
}

// deliverEvent возвращает обработчик сообщения. Ошибка приводит к nack без повторной постановки.
func deliverEvent(webhook ports.WebhookSender, logger *slog.Logger) func(context.Context, payloads.ModerationEvent) error {
	return func(ctx context.Context, event payloads.ModerationEvent) error {
		start := time.Now()
		ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
		defer cancel()

		if err := webhook.Send(ctx, event); err != nil {
			logger.Error("webhook delivery failed",
				"type", event.Type,
				"asset_id", event.AssetID,
				"error", err,
			)
			return err
		}
		logger.Info("webhook delivered",
			"type", event.Type,
			"asset_id", event.AssetID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

func pruneRateLimits(ctx context.Context, pruner RateLimitPruner, logger *slog.Logger) {
	if pruner == nil {
		return
	}
	removed, err := pruner.Prune(ctx, time.Now().Add(-rateLimitKeep))
	if err != nil {
		logger.Warn("failed to prune rate limit windows", "error", err)
		return
	}
	logger.Debug("rate limit windows pruned", "removed", removed)
}
