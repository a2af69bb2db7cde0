package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

type catalogUseCase struct {
	store  ports.CatalogStorage
	logger *slog.Logger
}

func NewCatalogUseCase(store ports.CatalogStorage, logger *slog.Logger) CatalogUseCase {
	return &catalogUseCase{store: store, logger: logger}
}

func (uc *catalogUseCase) ListGames(ctx context.Context) ([]domain.Game, error) {
	return uc.store.ListGames(ctx)
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.store.ListCategories(ctx)
}

func (uc *catalogUseCase) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return uc.store.ListTags(ctx)
}

// GetGame возвращает игру по slug вместе с привязанными категориями.
func (uc *catalogUseCase) GetGame(ctx context.Context, slug string) (*GameDetail, error) {
	idx, err := loadCatalog(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	game, ok := idx.GameBySlug(slug)
	if !ok {
		return nil, domain.NotFoundf("game %q not found", slug)
	}
	categories, err := uc.store.CategoriesByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return &GameDetail{Game: game, Categories: categories}, nil
}

func (uc *catalogUseCase) GetCategory(ctx context.Context, slug string) (*CategoryDetail, error) {
	idx, err := loadCatalog(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	category, ok := idx.CategoryBySlug(slug)
	if !ok {
		return nil, domain.NotFoundf("category %q not found", slug)
	}
	games, err := uc.store.GamesByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return &CategoryDetail{Category: category, Games: games}, nil
}

func (uc *catalogUseCase) CreateGame(ctx context.Context, name, slug string) (*domain.Game, error) {
	name, slug, err := normalizeNameSlug(name, slug)
	if err != nil {
		return nil, err
	}
	game := &domain.Game{Name: name, Slug: slug}
	if err := uc.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	uc.logger.Info("game created", "game_id", game.ID, "slug", slug)
	return game, nil
}

func (uc *catalogUseCase) UpdateGame(ctx context.Context, id uuid.UUID, upd GameUpdate) (*domain.Game, error) {
	game, err := uc.store.GetGameByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if game == nil {
		return nil, domain.NotFoundf("game %s not found", id)
	}

	if upd.Name != nil {
		game.Name = strings.TrimSpace(*upd.Name)
		if game.Name == "" {
			return nil, domain.Validationf("name must not be empty")
		}
	}
	if upd.Slug != nil {
		if !slugPattern.MatchString(*upd.Slug) {
			return nil, domain.Validationf("slug %q is invalid", *upd.Slug)
		}
		game.Slug = *upd.Slug
	}

	if err := uc.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	uc.logger.Info("game updated", "game_id", id)
	return game, nil
}

func (uc *catalogUseCase) CreateCategory(ctx context.Context, name, slug string) (*domain.Category, error) {
	name, slug, err := normalizeNameSlug(name, slug)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name, Slug: slug}
	if err := uc.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	uc.logger.Info("category created", "category_id", category.ID, "slug", slug)
	return category, nil
}

func (uc *catalogUseCase) CreateTag(ctx context.Context, name, slug string, color *string) (*domain.Tag, error) {
	name, slug, err := normalizeNameSlug(name, slug)
	if err != nil {
		return nil, err
	}
	if color != nil && !colorPattern.MatchString(*color) {
		return nil, domain.Validationf("color must look like #rrggbb")
	}
	tag := &domain.Tag{Name: name, Slug: slug, Color: color}
	if err := uc.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	uc.logger.Info("tag created", "tag_id", tag.ID, "slug", slug)
	return tag, nil
}

// LinkGameCategory явно связывает игру и категорию (администратор).
func (uc *catalogUseCase) LinkGameCategory(ctx context.Context, gameID, categoryID uuid.UUID) error {
	idx, err := loadCatalog(ctx, uc.store)
	if err != nil {
		return err
	}
	if _, ok := idx.Games[gameID]; !ok {
		return domain.NotFoundf("game %s not found", gameID)
	}
	if _, ok := idx.Categories[categoryID]; !ok {
		return domain.NotFoundf("category %s not found", categoryID)
	}
	return uc.store.LinkGameCategory(ctx, gameID, categoryID)
}

// normalizeNameSlug обрезает имя и, если slug не задан, выводит его из имени.
func normalizeNameSlug(name, slug string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.Validationf("name is required")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return "", "", domain.Validationf("slug %q is invalid", slug)
	}
	return name, slug, nil
}

// Slugify переводит имя в slug: нижний регистр, разделитель дефис.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
