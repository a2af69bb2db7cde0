package ports

import (
	"context"

	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
)

// ModerationPublisher публикует события модерации.
// Используется сервером после того, как изменение статуса зафиксировано.
type ModerationPublisher interface {
	PublishModerationEvent(ctx context.Context, event payloads.ModerationEvent) error
}

// ModerationConsumer используется воркером для получения событий из очереди.
type ModerationConsumer interface {
	// StartConsumingModerationEvents начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingModerationEvents(ctx context.Context, handler func(context.Context, payloads.ModerationEvent) error) error
}

// WebhookSender доставляет событие во внешний HTTP-приёмник.
type WebhookSender interface {
	Send(ctx context.Context, event payloads.ModerationEvent) error
}
