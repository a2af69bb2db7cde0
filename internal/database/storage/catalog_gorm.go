package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogStorage работает со справочниками через GORM.
type CatalogStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCatalogStorage(db *gorm.DB, logger *slog.Logger) *CatalogStorage {
	return &CatalogStorage{db: db, logger: logger}
}

func (s *CatalogStorage) ListGames(ctx context.Context) ([]domain.Game, error) {
	games := []domain.Game{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&games).Error; err != nil {
		s.logger.Error("failed to list games", "error", err)
		return nil, fmt.Errorf("ошибка при получении игр: %w", err)
	}
	return games, nil
}

func (s *CatalogStorage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, fmt.Errorf("ошибка при получении категорий: %w", err)
	}
	return categories, nil
}

func (s *CatalogStorage) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

func (s *CatalogStorage) CategoriesByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := s.db.WithContext(ctx).
		Joins("JOIN game_categories ON game_categories.category_id = categories.id").
		Where("game_categories.game_id = ?", gameID).
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		s.logger.Error("failed to list categories of game", "game_id", gameID, "error", err)
		return nil, fmt.Errorf("ошибка при получении категорий игры: %w", err)
	}
	return categories, nil
}

func (s *CatalogStorage) GamesByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Game, error) {
	games := []domain.Game{}
	err := s.db.WithContext(ctx).
		Joins("JOIN game_categories ON game_categories.game_id = games.id").
		Where("game_categories.category_id = ?", categoryID).
		Order("games.name ASC").
		Find(&games).Error
	if err != nil {
		s.logger.Error("failed to list games of category", "category_id", categoryID, "error", err)
		return nil, fmt.Errorf("ошибка при получении игр категории: %w", err)
	}
	return games, nil
}

func (s *CatalogStorage) GameCategoryExists(ctx context.Context, gameID, categoryID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.GameCategory{}).
		Where("game_id = ? AND category_id = ?", gameID, categoryID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке связи игры и категории: %w", err)
	}
	return n > 0, nil
}

// LinkGameCategory создаёт связь, если её ещё нет.
func (s *CatalogStorage) LinkGameCategory(ctx context.Context, gameID, categoryID uuid.UUID) error {
	link := domain.GameCategory{GameID: gameID, CategoryID: categoryID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		s.logger.Error("failed to link game and category", "game_id", gameID, "category_id", categoryID, "error", err)
		return fmt.Errorf("ошибка при связывании игры и категории: %w", err)
	}
	s.logger.Info("game linked to category", "game_id", gameID, "category_id", categoryID)
	return nil
}

func (s *CatalogStorage) CreateGame(ctx context.Context, game *domain.Game) error {
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("game with slug %q already exists", game.Slug)
		}
		s.logger.Error("failed to create game", "slug", game.Slug, "error", err)
		return fmt.Errorf("ошибка при создании игры: %w", err)
	}
	return nil
}

// UpdateGame обновляет название и slug игры.
func (s *CatalogStorage) UpdateGame(ctx context.Context, game *domain.Game) error {
	game.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&domain.Game{ID: game.ID}).Updates(map[string]any{
		"name":       game.Name,
		"slug":       game.Slug,
		"updated_at": game.UpdatedAt,
	}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("game with slug %q already exists", game.Slug)
		}
		s.logger.Error("failed to update game", "id", game.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении игры: %w", err)
	}
	return nil
}

// GetGameByID возвращает nil, nil если игра не найдена.
func (s *CatalogStorage) GetGameByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	var game domain.Game
	err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении игры: %w", err)
	}
	return &game, nil
}

func (s *CatalogStorage) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("category with slug %q already exists", category.Slug)
		}
		s.logger.Error("failed to create category", "slug", category.Slug, "error", err)
		return fmt.Errorf("ошибка при создании категории: %w", err)
	}
	return nil
}

func (s *CatalogStorage) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("tag with slug %q already exists", tag.Slug)
		}
		s.logger.Error("failed to create tag", "slug", tag.Slug, "error", err)
		return fmt.Errorf("ошибка при создании тега: %w", err)
	}
	return nil
}
