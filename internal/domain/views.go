package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownName подставляется вместо удалённых связанных сущностей.
const UnknownName = "Unknown"

type GameRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type TagRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Color *string   `json:"color"`
}

type UploaderRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image"`
}

// AssetView это денормализованный ассет для ответа API.
type AssetView struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Game          GameRef      `json:"game"`
	Category      CategoryRef  `json:"category"`
	Tags          []TagRef     `json:"tags"`
	Uploader      *UploaderRef `json:"uploader"`
	Size          int64        `json:"size"`
	Extension     string       `json:"extension"`
	CreatedAt     time.Time    `json:"createdAt"`
	DownloadCount int64        `json:"downloadCount"`
	ViewCount     int64        `json:"viewCount"`
	Status        AssetStatus  `json:"status"`
	IsSuggestive  bool         `json:"isSuggestive"`
	Hash          string       `json:"hash"`
	URL           string       `json:"url,omitempty"`
}

// OffsetPagination: страница по смещению, HasNext вычисляется по строке N+1.
type OffsetPagination struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasNext    bool `json:"hasNext"`
	NextOffset *int `json:"nextOffset"`
}

// PagePagination: нумерованные страницы с общим количеством.
type PagePagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// NewPagePagination считает totalPages и hasNext.
func NewPagePagination(page, limit, total int) PagePagination {
	if limit <= 0 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return PagePagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

type HistoryBatchView struct {
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Assets    []AssetView `json:"assets"`
}

type SavedAssetView struct {
	SavedAt time.Time `json:"savedAt"`
	Asset   AssetView `json:"asset"`
}
