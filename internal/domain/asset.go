package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssetStatus это состояние модерации ассета.
type AssetStatus string

const (
	StatusPending  AssetStatus = "pending"
	StatusApproved AssetStatus = "approved"
	StatusDenied   AssetStatus = "denied"
)

// Пространства имён файлового хранилища.
const (
	LimboPrefix  = "limbo"
	PublicPrefix = "asset"
)

// Asset представляет загруженный файл с метаданными каталога,
// соответствует таблице assets в бд
type Asset struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	GameID        uuid.UUID   `json:"gameId" db:"game_id"`
	CategoryID    uuid.UUID   `json:"categoryId" db:"category_id"`
	UploaderID    uuid.UUID   `json:"uploaderId" db:"uploader_id"`
	Size          int64       `json:"size" db:"size"`
	Extension     string      `json:"extension" db:"extension"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	DownloadCount int64       `json:"downloadCount" db:"download_count"`
	ViewCount     int64       `json:"viewCount" db:"view_count"`
	Status        AssetStatus `json:"status" db:"status"`
	IsSuggestive  bool        `json:"isSuggestive" db:"is_suggestive"`
	Hash          string      `json:"hash" db:"hash"`
}

// LimboKey возвращает путь файла в карантине: limbo/{id}.{ext}
func LimboKey(id uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", LimboPrefix, id, ext)
}

// PublicKey возвращает публичный путь файла: asset/{id}.{ext}
func PublicKey(id uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", PublicPrefix, id, ext)
}

// StorageKey возвращает путь, по которому файл лежит при текущем статусе.
func (a *Asset) StorageKey() string {
	if a.Status == StatusApproved {
		return PublicKey(a.ID, a.Extension)
	}
	return LimboKey(a.ID, a.Extension)
}

// AssetTag связующая модель Asset <-> Tag, таблица asset_tags
type AssetTag struct {
	AssetID uuid.UUID `json:"assetId" db:"asset_id"`
	TagID   uuid.UUID `json:"tagId" db:"tag_id"`
}

// SavedAsset это избранный ассет пользователя, таблица saved_assets.
// Пара (UserID, AssetID) уникальна.
type SavedAsset struct {
	UserID  uuid.UUID `json:"userId" db:"user_id"`
	AssetID uuid.UUID `json:"assetId" db:"asset_id"`
	SavedAt time.Time `json:"savedAt" db:"saved_at"`
}
