package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxHistoryBatches это сколько пачек истории скачиваний хранится на пользователя.
const MaxHistoryBatches = 500

// HistoryOverflow возвращает, сколько самых старых пачек нужно вытеснить
// перед вставкой новой, если у пользователя уже existing пачек.
func HistoryOverflow(existing int) int {
	if excess := existing - (MaxHistoryBatches - 1); excess > 0 {
		return excess
	}
	return 0
}

// DownloadHistory это одна пачка: одно действие скачивания на 1..N ассетов.
type DownloadHistory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DownloadHistoryAsset связывает пачку истории с ассетом.
type DownloadHistoryAsset struct {
	HistoryID uuid.UUID `json:"historyId" db:"history_id"`
	AssetID   uuid.UUID `json:"assetId" db:"asset_id"`
}
