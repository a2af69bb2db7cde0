package usecase

import (
	"context"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

// SearchParams это разобранные параметры поиска.
// Nil-срез означает, что параметр не передан.
type SearchParams struct {
	Name       string
	Games      []string
	Categories []string
	Tags       []string
	SortBy     domain.SortKey
	SortOrder  domain.SortOrder
	Offset     int
	Limit      int
}

type SearchResult struct {
	Assets     []domain.AssetView      `json:"assets"`
	Pagination domain.OffsetPagination `json:"pagination"`
}

// UploadInput это поля multipart-формы загрузки и содержимое файла.
type UploadInput struct {
	Name         string
	GameID       uuid.UUID
	CategoryID   uuid.UUID
	IsSuggestive bool
	TagIDs       []uuid.UUID
	FileName     string
	ContentType  string
	Content      []byte
}

type HistoryPage struct {
	History    []domain.HistoryBatchView `json:"history"`
	Pagination domain.PagePagination     `json:"pagination"`
}

type SavedPage struct {
	SavedAssets []domain.SavedAssetView `json:"savedAssets"`
	Pagination  domain.PagePagination   `json:"pagination"`
}

type GameDetail struct {
	domain.Game
	Categories []domain.Category `json:"categories"`
}

type CategoryDetail struct {
	domain.Category
	Games []domain.Game `json:"games"`
}

// GameUpdate содержит изменяемые поля игры, nil означает "не менять".
type GameUpdate struct {
	Name *string
	Slug *string
}

// AssetUseCase определяет поиск, просмотр, загрузку и удаление ассетов.
type AssetUseCase interface {
	// Search ищет одобренные ассеты по фильтрам с пагинацией по смещению.
	Search(ctx context.Context, caller domain.Caller, params SearchParams) (*SearchResult, error)
	// GetAsset возвращает гидратированный ассет и учитывает просмотр.
	GetAsset(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.AssetView, error)
	Upload(ctx context.Context, uploader *domain.User, in UploadInput) (*domain.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ModerationUseCase управляет очередью ассетов в статусе pending.
type ModerationUseCase interface {
	ApprovalQueue(ctx context.Context, params SearchParams) (*SearchResult, error)
	Approve(ctx context.Context, admin *domain.User, id uuid.UUID) error
	Deny(ctx context.Context, admin *domain.User, id uuid.UUID) error
}

// HistoryUseCase это журнал скачиваний пользователя.
type HistoryUseCase interface {
	Record(ctx context.Context, user *domain.User, assetIDs []string) (uuid.UUID, error)
	List(ctx context.Context, caller domain.Caller, page, limit int) (*HistoryPage, error)
}

type SavedAssetUseCase interface {
	Save(ctx context.Context, caller domain.Caller, assetID uuid.UUID) error
	Unsave(ctx context.Context, user *domain.User, assetID uuid.UUID) error
	List(ctx context.Context, caller domain.Caller, page, limit int) (*SavedPage, error)
}

// CatalogUseCase отдаёт справочники и позволяет администратору их менять.
type CatalogUseCase interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	GetGame(ctx context.Context, slug string) (*GameDetail, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*CategoryDetail, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)

	CreateGame(ctx context.Context, name, slug string) (*domain.Game, error)
	UpdateGame(ctx context.Context, id uuid.UUID, upd GameUpdate) (*domain.Game, error)
	CreateCategory(ctx context.Context, name, slug string) (*domain.Category, error)
	CreateTag(ctx context.Context, name, slug string, color *string) (*domain.Tag, error)
	LinkGameCategory(ctx context.Context, gameID, categoryID uuid.UUID) error
}

type UserUseCase interface {
	// ResolveSession находит пользователя сессии, создавая его при первом входе.
	ResolveSession(ctx context.Context, identity domain.Identity) (*domain.User, error)
	UpdateUsername(ctx context.Context, user *domain.User, username string) (*domain.User, error)
}
