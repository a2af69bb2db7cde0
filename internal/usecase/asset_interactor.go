package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

// AssetInteractor реализует AssetUseCase и ModerationUseCase
type AssetInteractor struct {
	assets   ports.AssetStorage
	catalog  ports.CatalogStorage
	files    ports.FileStorage
	hydrator *Hydrator
	notifier *Notifier
	logger   *slog.Logger
}

// NewAssetUseCase создает сервис ассетов. Один экземпляр обслуживает и поиск, и модерацию.
func NewAssetUseCase(
	assets ports.AssetStorage,
	catalogStore ports.CatalogStorage,
	files ports.FileStorage,
	hydrator *Hydrator,
	notifier *Notifier,
	logger *slog.Logger,
) *AssetInteractor {
	return &AssetInteractor{
		assets:   assets,
		catalog:  catalogStore,
		files:    files,
		hydrator: hydrator,
		notifier: notifier,
		logger:   logger,
	}
}

// Search ищет одобренные ассеты.
func (uc *AssetInteractor) Search(ctx context.Context, caller domain.Caller, params SearchParams) (*SearchResult, error) {
	return uc.search(ctx, params, domain.StatusApproved, caller.SuppressSuggestive())
}

func (uc *AssetInteractor) search(ctx context.Context, p SearchParams, status domain.AssetStatus, suppress bool) (*SearchResult, error) {
	if err := normalizePaging(&p); err != nil {
		return nil, err
	}

	idx, err := loadCatalog(ctx, uc.catalog)
	if err != nil {
		return nil, err
	}

	f := domain.AssetFilter{
		Name:              strings.TrimSpace(p.Name),
		Status:            status,
		ExcludeSuggestive: suppress,
		SortBy:            p.SortBy,
		SortOrder:         p.SortOrder,
		Offset:            p.Offset,
		Limit:             p.Limit,
	}

	// переданный фильтр без единого известного slug сужает выдачу до пустой
	if p.Games != nil {
		if f.GameIDs = idx.GameIDs(p.Games); len(f.GameIDs) == 0 {
			return emptyResult(p), nil
		}
	}
	if p.Categories != nil {
		if f.CategoryIDs = idx.CategoryIDs(p.Categories); len(f.CategoryIDs) == 0 {
			return emptyResult(p), nil
		}
	}
	if p.Tags != nil {
		tagIDs := idx.TagIDs(p.Tags)
		if len(tagIDs) == 0 {
			return emptyResult(p), nil
		}
		assetIDs, err := uc.assets.AssetIDsWithAllTags(ctx, tagIDs)
		if err != nil {
			return nil, fmt.Errorf("usecase: %w", err)
		}
		if len(assetIDs) == 0 {
			return emptyResult(p), nil
		}
		f.AssetIDs = assetIDs
	}

	rows, err := uc.assets.SearchAssets(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	page, pagination := paginateOffset(rows, p.Offset, p.Limit)
	views, err := uc.hydrator.Hydrate(ctx, idx, page)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Assets: views, Pagination: pagination}, nil
}

// GetAsset отдаёт один ассет. Ассет в pending видят только админы и автор,
// откровенный контент в регионе с ограничениями выглядит как отсутствующий.
func (uc *AssetInteractor) GetAsset(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.AssetView, error) {
	asset, err := uc.assets.GetAssetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if asset == nil || !visibleTo(caller, asset) {
		return nil, domain.NotFoundf("asset %s not found", id)
	}

	if err := uc.assets.IncrementViewCount(ctx, id); err != nil {
		uc.logger.Warn("failed to increment view count", "asset_id", id, "error", err)
	} else {
		asset.ViewCount++
	}

	idx, err := loadCatalog(ctx, uc.catalog)
	if err != nil {
		return nil, err
	}
	views, err := uc.hydrator.Hydrate(ctx, idx, []domain.Asset{*asset})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete удаляет ассет и его файл (администратор).
func (uc *AssetInteractor) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := uc.assets.GetAssetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if asset == nil {
		return domain.NotFoundf("asset %s not found", id)
	}

	// файл удаляется первым: повторная попытка после сбоя безопасна,
	// удаление отсутствующего объекта в S3 не считается ошибкой
	if err := uc.files.DeleteFile(ctx, asset.StorageKey()); err != nil {
		return fmt.Errorf("usecase: ошибка удаления файла ассета: %w", err)
	}
	deleted, err := uc.assets.DeleteAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if !deleted {
		return domain.NotFoundf("asset %s not found", id)
	}

	uc.logger.Info("asset deleted", "asset_id", id)
	return nil
}

func visibleTo(caller domain.Caller, a *domain.Asset) bool {
	if a.IsSuggestive && caller.SuppressSuggestive() {
		return false
	}
	switch a.Status {
	case domain.StatusApproved:
		return true
	case domain.StatusPending:
		return caller.User.IsAdmin() || (caller.User != nil && caller.User.ID == a.UploaderID)
	default:
		return false
	}
}

// normalizePaging проверяет смещение и ограничивает размер страницы.
func normalizePaging(p *SearchParams) error {
	if p.Offset < 0 {
		return domain.Validationf("offset must not be negative")
	}
	if p.Limit < 0 {
		return domain.Validationf("limit must be positive")
	}
	if p.Limit == 0 {
		p.Limit = domain.DefaultPageSize
	}
	if p.Limit > domain.MaxPageSize {
		p.Limit = domain.MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = domain.SortRecent
	}
	if p.SortOrder == "" {
		p.SortOrder = domain.SortDesc
	}
	return nil
}

// paginateOffset отрезает лишнюю N+1-ю строку и по ней вычисляет hasNext.
func paginateOffset(rows []domain.Asset, offset, limit int) ([]domain.Asset, domain.OffsetPagination) {
	p := domain.OffsetPagination{Offset: offset, Limit: limit}
	if len(rows) > limit {
		rows = rows[:limit]
		next := offset + limit
		p.HasNext = true
		p.NextOffset = &next
	}
	return rows, p
}

func emptyResult(p SearchParams) *SearchResult {
	return &SearchResult{
		Assets:     []domain.AssetView{},
		Pagination: domain.OffsetPagination{Offset: p.Offset, Limit: p.Limit},
	}
}

// pageToOffset переводит номер страницы (с 1) в смещение.
func pageToOffset(page, limit int) (int, int, error) {
	if page < 1 {
		return 0, 0, domain.Validationf("page must be at least 1")
	}
	if limit < 0 {
		return 0, 0, domain.Validationf("limit must be positive")
	}
	if limit == 0 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	return (page - 1) * limit, limit, nil
}
