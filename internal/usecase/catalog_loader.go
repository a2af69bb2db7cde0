package usecase

import (
	"context"
	"fmt"

	"github.com/GoArmGo/AssetHub/internal/catalog"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"golang.org/x/sync/errgroup"
)

// loadCatalog параллельно читает игры, категории и теги и строит индекс на время запроса.
func loadCatalog(ctx context.Context, store ports.CatalogStorage) (*catalog.Index, error) {
	var (
		games      []domain.Game
		categories []domain.Category
		tags       []domain.Tag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		games, err = store.ListGames(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = store.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		tags, err = store.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки справочников: %w", err)
	}

	return catalog.NewIndex(games, categories, tags), nil
}
