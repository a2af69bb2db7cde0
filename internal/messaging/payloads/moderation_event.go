package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий модерации.
const (
	EventAssetSubmitted = "asset.submitted"
	EventAssetApproved  = "asset.approved"
	EventAssetDenied    = "asset.denied"
)

// ModerationEvent описывает изменение статуса ассета,
// передаётся через RabbitMQ и затем отправляется во внешний вебхук.
type ModerationEvent struct {
	Type       string    `json:"type"`
	AssetID    uuid.UUID `json:"asset_id"`
	AssetName  string    `json:"asset_name"`
	GameID     uuid.UUID `json:"game_id"`
	UploaderID uuid.UUID `json:"uploader_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
