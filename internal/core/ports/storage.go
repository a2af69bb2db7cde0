package ports

import (
	"context"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

// AssetStorage определяет методы для работы с таблицей assets и связями с тегами.
type AssetStorage interface {
	// SearchAssets возвращает до f.Limit+1 строк, лишняя строка означает наличие следующей страницы.
	SearchAssets(ctx context.Context, f domain.AssetFilter) ([]domain.Asset, error)
	// AssetIDsWithAllTags возвращает ассеты, к которым привязаны все перечисленные теги.
	AssetIDsWithAllTags(ctx context.Context, tagIDs []uuid.UUID) ([]uuid.UUID, error)
	// GetAssetByID возвращает nil, nil если ассет не найден.
	GetAssetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	GetAssetsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Asset, error)
	ExistingAssetIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	TagLinks(ctx context.Context, assetIDs []uuid.UUID) ([]domain.AssetTag, error)
	// CreateAsset вставляет ассет и его теги одной транзакцией.
	CreateAsset(ctx context.Context, asset *domain.Asset, tagIDs []uuid.UUID) error
	// ApproveAsset переводит ассет из pending в approved. false, если pending-строки нет.
	ApproveAsset(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteAsset удаляет ассет. false, если строки не было.
	DeleteAsset(ctx context.Context, id uuid.UUID) (bool, error)
	// DenyAsset удаляет ассет только в статусе pending. false, если pending-строки нет.
	DenyAsset(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

// CatalogStorage работает со справочниками: игры, категории, теги и их связи.
type CatalogStorage interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CategoriesByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Category, error)
	GamesByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Game, error)
	GameCategoryExists(ctx context.Context, gameID, categoryID uuid.UUID) (bool, error)
	// LinkGameCategory идемпотентна: существующая связь не считается ошибкой.
	LinkGameCategory(ctx context.Context, gameID, categoryID uuid.UUID) error
	CreateGame(ctx context.Context, game *domain.Game) error
	UpdateGame(ctx context.Context, game *domain.Game) error
	GetGameByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	CreateTag(ctx context.Context, tag *domain.Tag) error
}

// HistoryStorage это журнал скачиваний с ограничением на число пачек.
type HistoryStorage interface {
	// RecordBatch атомарно вытесняет старые пачки сверх лимита и вставляет новую.
	RecordBatch(ctx context.Context, userID uuid.UUID, assetIDs []uuid.UUID) (uuid.UUID, error)
	ListBatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.DownloadHistory, int, error)
	BatchLinks(ctx context.Context, historyIDs []uuid.UUID) ([]domain.DownloadHistoryAsset, error)
}

// SavedAssetStorage хранит избранные ассеты пользователя.
type SavedAssetStorage interface {
	// SaveAsset возвращает domain.ErrConflict, если ассет уже сохранён.
	SaveAsset(ctx context.Context, userID, assetID uuid.UUID) error
	UnsaveAsset(ctx context.Context, userID, assetID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SavedAsset, int, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	GetOrCreateUser(ctx context.Context, identity domain.Identity) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	// UpdateUsername возвращает domain.ErrConflict, если имя уже занято.
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error)
}

// RateLimiter это долговременный счётчик запросов по ключу в фиксированном окне.
type RateLimiter interface {
	// Hit увеличивает счётчик для ключа в текущем окне и возвращает новое значение.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}
