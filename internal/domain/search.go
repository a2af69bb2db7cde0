package domain

import "github.com/google/uuid"

// SortKey это поле сортировки результатов поиска.
type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortViews     SortKey = "viewCount"
	SortDownloads SortKey = "downloadCount"
	SortName      SortKey = "name"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ParseSortKey разбирает значение sortBy. Пустая строка означает сортировку по новизне.
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "", "recent", "relevance", "createdAt":
		return SortRecent, true
	case string(SortViews):
		return SortViews, true
	case string(SortDownloads):
		return SortDownloads, true
	case string(SortName):
		return SortName, true
	}
	return "", false
}

// ParseSortOrder разбирает sortOrder, по умолчанию desc.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch s {
	case "", "desc", "DESC":
		return SortDesc, true
	case "asc", "ASC":
		return SortAsc, true
	}
	return "", false
}

// AssetFilter это готовые предикаты для выборки ассетов.
// Nil-срез означает отсутствие ограничения по измерению, пустой срез ничего не пропускает.
type AssetFilter struct {
	Name              string
	GameIDs           []uuid.UUID
	CategoryIDs       []uuid.UUID
	AssetIDs          []uuid.UUID
	Status            AssetStatus
	ExcludeSuggestive bool
	SortBy            SortKey
	SortOrder         SortOrder
	Offset            int
	Limit             int
}
