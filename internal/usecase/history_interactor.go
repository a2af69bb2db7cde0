package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/catalog"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type historyUseCase struct {
	history  ports.HistoryStorage
	assets   ports.AssetStorage
	catalog  ports.CatalogStorage
	hydrator *Hydrator
	logger   *slog.Logger
}

func NewHistoryUseCase(
	history ports.HistoryStorage,
	assets ports.AssetStorage,
	catalogStore ports.CatalogStorage,
	hydrator *Hydrator,
	logger *slog.Logger,
) HistoryUseCase {
	return &historyUseCase{
		history:  history,
		assets:   assets,
		catalog:  catalogStore,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Record записывает одну пачку скачиваний. Если хотя бы один id некорректен
// или не существует, пачка отклоняется целиком со списком таких id.
func (uc *historyUseCase) Record(ctx context.Context, user *domain.User, rawIDs []string) (uuid.UUID, error) {
	if user == nil {
		return uuid.Nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	if len(rawIDs) == 0 {
		return uuid.Nil, domain.Validationf("assetIds must contain at least one id")
	}

	var invalid []string
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		existing, err := uc.assets.ExistingAssetIDs(ctx, ids)
		if err != nil {
			return uuid.Nil, fmt.Errorf("usecase: %w", err)
		}
		found := make(map[uuid.UUID]struct{}, len(existing))
		for _, id := range existing {
			found[id] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				invalid = append(invalid, id.String())
			}
		}
	}

	if len(invalid) > 0 {
		return uuid.Nil, domain.Validationf("invalid asset ids: %s", strings.Join(invalid, ", "))
	}

	historyID, err := uc.history.RecordBatch(ctx, user.ID, ids)
	if err != nil {
		return uuid.Nil, fmt.Errorf("usecase: %w", err)
	}
	return historyID, nil
}

// List возвращает пачки от новых к старым с гидратированными ассетами.
func (uc *historyUseCase) List(ctx context.Context, caller domain.Caller, page, limit int) (*HistoryPage, error) {
	if caller.User == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	offset, limit, err := pageToOffset(page, limit)
	if err != nil {
		return nil, err
	}

	batches, total, err := uc.history.ListBatches(ctx, caller.User.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	historyIDs := make([]uuid.UUID, 0, len(batches))
	for _, b := range batches {
		historyIDs = append(historyIDs, b.ID)
	}
	links, err := uc.history.BatchLinks(ctx, historyIDs)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	assetIDs := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		assetIDs = append(assetIDs, l.AssetID)
	}
	views, err := loadViews(ctx, uc.catalog, uc.assets, uc.hydrator, caller, dedupeIDs(assetIDs))
	if err != nil {
		return nil, err
	}

	linksByBatch := make(map[uuid.UUID][]uuid.UUID, len(batches))
	for _, l := range links {
		linksByBatch[l.HistoryID] = append(linksByBatch[l.HistoryID], l.AssetID)
	}

	out := make([]domain.HistoryBatchView, 0, len(batches))
	for _, b := range batches {
		item := domain.HistoryBatchView{ID: b.ID, CreatedAt: b.CreatedAt, Assets: []domain.AssetView{}}
		for _, assetID := range linksByBatch[b.ID] {
			if v, ok := views[assetID]; ok {
				item.Assets = append(item.Assets, v)
			}
		}
		out = append(out, item)
	}

	return &HistoryPage{History: out, Pagination: domain.NewPagePagination(page, limit, total)}, nil
}

// loadViews параллельно загружает справочники и ассеты, затем гидратирует их.
// Ассеты, скрытые для вызывающего, пропускаются.
func loadViews(
	ctx context.Context,
	catalogStore ports.CatalogStorage,
	assetStore ports.AssetStorage,
	hydrator *Hydrator,
	caller domain.Caller,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.AssetView, error) {
	out := make(map[uuid.UUID]domain.AssetView, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var (
		idx    *catalog.Index
		assets []domain.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		idx, err = loadCatalog(gctx, catalogStore)
		return err
	})
	g.Go(func() (err error) {
		assets, err = assetStore.GetAssetsByIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	visible := assets[:0]
	for i := range assets {
		if visibleTo(caller, &assets[i]) {
			visible = append(visible, assets[i])
		}
	}

	views, err := hydrator.Hydrate(ctx, idx, visible)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		out[v.ID] = v
	}
	return out, nil
}
