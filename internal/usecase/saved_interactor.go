package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

type savedAssetUseCase struct {
	saved    ports.SavedAssetStorage
	assets   ports.AssetStorage
	catalog  ports.CatalogStorage
	hydrator *Hydrator
	logger   *slog.Logger
}

func NewSavedAssetUseCase(
	saved ports.SavedAssetStorage,
	assets ports.AssetStorage,
	catalogStore ports.CatalogStorage,
	hydrator *Hydrator,
	logger *slog.Logger,
) SavedAssetUseCase {
	return &savedAssetUseCase{
		saved:    saved,
		assets:   assets,
		catalog:  catalogStore,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Save добавляет видимый вызывающему ассет в избранное. Повтор даёт конфликт.
func (uc *savedAssetUseCase) Save(ctx context.Context, caller domain.Caller, assetID uuid.UUID) error {
	if caller.User == nil {
		return domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	asset, err := uc.assets.GetAssetByID(ctx, assetID)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if asset == nil || !visibleTo(caller, asset) {
		return domain.NotFoundf("asset %s not found", assetID)
	}
	return uc.saved.SaveAsset(ctx, caller.User.ID, assetID)
}

// Unsave убирает ассет из избранного, не сохранённый ранее ассет даёт 404.
func (uc *savedAssetUseCase) Unsave(ctx context.Context, user *domain.User, assetID uuid.UUID) error {
	if user == nil {
		return domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	removed, err := uc.saved.UnsaveAsset(ctx, user.ID, assetID)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if !removed {
		return domain.NotFoundf("asset %s is not saved", assetID)
	}
	return nil
}

func (uc *savedAssetUseCase) List(ctx context.Context, caller domain.Caller, page, limit int) (*SavedPage, error) {
	if caller.User == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	offset, limit, err := pageToOffset(page, limit)
	if err != nil {
		return nil, err
	}

	saved, total, err := uc.saved.ListSaved(ctx, caller.User.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.AssetID)
	}
	views, err := loadViews(ctx, uc.catalog, uc.assets, uc.hydrator, caller, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SavedAssetView, 0, len(saved))
	for _, s := range saved {
		if v, ok := views[s.AssetID]; ok {
			out = append(out, domain.SavedAssetView{SavedAt: s.SavedAt, Asset: v})
		}
	}
	return &SavedPage{SavedAssets: out, Pagination: domain.NewPagePagination(page, limit, total)}, nil
}
