package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/catalog"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Hydrator собирает денормализованные ассеты для ответа.
// На страницу делается не больше одного запроса на тип связанной сущности.
type Hydrator struct {
	assets        ports.AssetStorage
	users         ports.UserStorage
	publicBaseURL string
}

func NewHydrator(assets ports.AssetStorage, users ports.UserStorage, publicBaseURL string) *Hydrator {
	return &Hydrator{
		assets:        assets,
		users:         users,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Hydrate сохраняет порядок входных ассетов. Удалённые связанные сущности
// заменяются заглушкой "Unknown" или nil, а не роняют весь ответ.
func (h *Hydrator) Hydrate(ctx context.Context, idx *catalog.Index, assets []domain.Asset) ([]domain.AssetView, error) {
	views := make([]domain.AssetView, 0, len(assets))
	if len(assets) == 0 {
		return views, nil
	}

	assetIDs := make([]uuid.UUID, 0, len(assets))
	uploaderIDs := make([]uuid.UUID, 0, len(assets))
	seenUploader := make(map[uuid.UUID]struct{}, len(assets))
	for _, a := range assets {
		assetIDs = append(assetIDs, a.ID)
		if _, ok := seenUploader[a.UploaderID]; !ok {
			seenUploader[a.UploaderID] = struct{}{}
			uploaderIDs = append(uploaderIDs, a.UploaderID)
		}
	}

	var (
		links []domain.AssetTag
		users []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		links, err = h.assets.TagLinks(gctx, assetIDs)
		return err
	})
	g.Go(func() (err error) {
		users, err = h.users.GetUsersByIDs(gctx, uploaderIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка гидратации ассетов: %w", err)
	}

	tagsByAsset := make(map[uuid.UUID][]domain.TagRef, len(assets))
	for _, l := range links {
		ref := domain.TagRef{ID: l.TagID, Name: domain.UnknownName}
		if t, ok := idx.Tags[l.TagID]; ok {
			ref = domain.TagRef{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color}
		}
		tagsByAsset[l.AssetID] = append(tagsByAsset[l.AssetID], ref)
	}

	usersByID := make(map[uuid.UUID]domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	for _, a := range assets {
		tags := tagsByAsset[a.ID]
		if tags == nil {
			tags = []domain.TagRef{}
		}
		sort.Slice(tags, func(i, j int) bool {
			if tags[i].Name != tags[j].Name {
				return tags[i].Name < tags[j].Name
			}
			return tags[i].ID.String() < tags[j].ID.String()
		})

		view := domain.AssetView{
			ID:            a.ID,
			Name:          a.Name,
			Game:          gameRef(idx, a.GameID),
			Category:      categoryRef(idx, a.CategoryID),
			Tags:          tags,
			Size:          a.Size,
			Extension:     a.Extension,
			CreatedAt:     a.CreatedAt,
			DownloadCount: a.DownloadCount,
			ViewCount:     a.ViewCount,
			Status:        a.Status,
			IsSuggestive:  a.IsSuggestive,
			Hash:          a.Hash,
		}
		if u, ok := usersByID[a.UploaderID]; ok {
			view.Uploader = &domain.UploaderRef{ID: u.ID, Name: u.Name, Image: u.Image}
		}
		if a.Status == domain.StatusApproved && h.publicBaseURL != "" {
			view.URL = h.publicBaseURL + "/" + domain.PublicKey(a.ID, a.Extension)
		}
		views = append(views, view)
	}
	return views, nil
}

func gameRef(idx *catalog.Index, id uuid.UUID) domain.GameRef {
	if g, ok := idx.Games[id]; ok {
		return domain.GameRef{ID: g.ID, Name: g.Name, Slug: g.Slug}
	}
	return domain.GameRef{ID: id, Name: domain.UnknownName}
}

func categoryRef(idx *catalog.Index, id uuid.UUID) domain.CategoryRef {
	if c, ok := idx.Categories[id]; ok {
		return domain.CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	return domain.CategoryRef{ID: id, Name: domain.UnknownName}
}
