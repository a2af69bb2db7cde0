package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
	"github.com/google/uuid"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAssetStore хранит ассеты в памяти и повторяет семантику SQL-запросов.
type fakeAssetStore struct {
	mu          sync.Mutex
	assets      map[uuid.UUID]*domain.Asset
	links       []domain.AssetTag
	searchCalls int
	lastFilter  domain.AssetFilter
	createErr   error
	approveErr  error
	viewErr     error
	tagIDsCalls int
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{assets: map[uuid.UUID]*domain.Asset{}}
}

func (f *fakeAssetStore) add(a domain.Asset, tags ...uuid.UUID) domain.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = domain.NewID()
	}
	if a.Status == "" {
		a.Status = domain.StatusApproved
	}
	if a.Extension == "" {
		a.Extension = "png"
	}
	cp := a
	f.assets[a.ID] = &cp
	for _, t := range tags {
		f.links = append(f.links, domain.AssetTag{AssetID: a.ID, TagID: t})
	}
	return a
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (f *fakeAssetStore) SearchAssets(ctx context.Context, flt domain.AssetFilter) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastFilter = flt

	var out []domain.Asset
	for _, a := range f.assets {
		if flt.Status != "" && a.Status != flt.Status {
			continue
		}
		if flt.Name != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(flt.Name)) {
			continue
		}
		if flt.GameIDs != nil && !contains(flt.GameIDs, a.GameID) {
			continue
		}
		if flt.CategoryIDs != nil && !contains(flt.CategoryIDs, a.CategoryID) {
			continue
		}
		if flt.AssetIDs != nil && !contains(flt.AssetIDs, a.ID) {
			continue
		}
		if flt.ExcludeSuggestive && a.IsSuggestive {
			continue
		}
		out = append(out, *a)
	}

	less := func(x, y domain.Asset) int {
		switch flt.SortBy {
		case domain.SortViews:
			return cmpInt(x.ViewCount, y.ViewCount)
		case domain.SortDownloads:
			return cmpInt(x.DownloadCount, y.DownloadCount)
		case domain.SortName:
			return strings.Compare(x.Name, y.Name)
		default:
			return x.CreatedAt.Compare(y.CreatedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if c == 0 {
			c = strings.Compare(out[i].ID.String(), out[j].ID.String())
		}
		if flt.SortOrder == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})

	if flt.Offset >= len(out) {
		return []domain.Asset{}, nil
	}
	out = out[flt.Offset:]
	if len(out) > flt.Limit+1 {
		out = out[:flt.Limit+1]
	}
	return out, nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (f *fakeAssetStore) AssetIDsWithAllTags(ctx context.Context, tagIDs []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagIDsCalls++
	counts := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, l := range f.links {
		if !contains(tagIDs, l.TagID) {
			continue
		}
		if counts[l.AssetID] == nil {
			counts[l.AssetID] = map[uuid.UUID]struct{}{}
		}
		counts[l.AssetID][l.TagID] = struct{}{}
	}
	ids := []uuid.UUID{}
	for id, set := range counts {
		if len(set) == len(tagIDs) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeAssetStore) GetAssetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssetStore) GetAssetsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Asset{}
	for _, id := range ids {
		if a, ok := f.assets[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssetStore) ExistingAssetIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := f.assets[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeAssetStore) TagLinks(ctx context.Context, assetIDs []uuid.UUID) ([]domain.AssetTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.AssetTag{}
	for _, l := range f.links {
		if contains(assetIDs, l.AssetID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeAssetStore) CreateAsset(ctx context.Context, a *domain.Asset, tagIDs []uuid.UUID) error {
	if f.createErr != nil {
		return f.createErr
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	f.add(*a, tagIDs...)
	return nil
}

func (f *fakeAssetStore) ApproveAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.approveErr != nil {
		return false, f.approveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	if !ok || a.Status != domain.StatusPending {
		return false, nil
	}
	a.Status = domain.StatusApproved
	return true, nil
}

func (f *fakeAssetStore) DeleteAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assets[id]; !ok {
		return false, nil
	}
	delete(f.assets, id)
	kept := f.links[:0]
	for _, l := range f.links {
		if l.AssetID != id {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return true, nil
}

func (f *fakeAssetStore) DenyAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	a, ok := f.assets[id]
	pending := ok && a.Status == domain.StatusPending
	f.mu.Unlock()
	if !pending {
		return false, nil
	}
	return f.DeleteAsset(ctx, id)
}

func (f *fakeAssetStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if f.viewErr != nil {
		return f.viewErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assets[id]; ok {
		a.ViewCount++
	}
	return nil
}

type fakeCatalogStore struct {
	mu         sync.Mutex
	games      []domain.Game
	categories []domain.Category
	tags       []domain.Tag
	pairs      map[[2]uuid.UUID]bool
	listErr    error
}

func newFakeCatalog() *fakeCatalogStore {
	return &fakeCatalogStore{pairs: map[[2]uuid.UUID]bool{}}
}

func (f *fakeCatalogStore) addGame(slug, name string) domain.Game {
	g := domain.Game{ID: domain.NewID(), Slug: slug, Name: name}
	f.games = append(f.games, g)
	return g
}

func (f *fakeCatalogStore) addCategory(slug, name string) domain.Category {
	c := domain.Category{ID: domain.NewID(), Slug: slug, Name: name}
	f.categories = append(f.categories, c)
	return c
}

func (f *fakeCatalogStore) addTag(slug, name string) domain.Tag {
	t := domain.Tag{ID: domain.NewID(), Slug: slug, Name: name}
	f.tags = append(f.tags, t)
	return t
}

func (f *fakeCatalogStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	return f.games, f.listErr
}

func (f *fakeCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, f.listErr
}

func (f *fakeCatalogStore) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return f.tags, f.listErr
}

func (f *fakeCatalogStore) CategoriesByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Category{}
	for _, c := range f.categories {
		if f.pairs[[2]uuid.UUID{gameID, c.ID}] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) GamesByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Game{}
	for _, g := range f.games {
		if f.pairs[[2]uuid.UUID{g.ID, categoryID}] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) GameCategoryExists(ctx context.Context, gameID, categoryID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pairs[[2]uuid.UUID{gameID, categoryID}], nil
}

func (f *fakeCatalogStore) LinkGameCategory(ctx context.Context, gameID, categoryID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs[[2]uuid.UUID{gameID, categoryID}] = true
	return nil
}

func (f *fakeCatalogStore) CreateGame(ctx context.Context, g *domain.Game) error {
	for _, x := range f.games {
		if x.Slug == g.Slug {
			return domain.Conflictf("game with slug %q already exists", g.Slug)
		}
	}
	g.ID = domain.NewID()
	f.games = append(f.games, *g)
	return nil
}

func (f *fakeCatalogStore) UpdateGame(ctx context.Context, g *domain.Game) error {
	for i := range f.games {
		if f.games[i].ID == g.ID {
			f.games[i] = *g
		}
	}
	return nil
}

func (f *fakeCatalogStore) GetGameByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			cp := g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = domain.NewID()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeCatalogStore) CreateTag(ctx context.Context, t *domain.Tag) error {
	t.ID = domain.NewID()
	f.tags = append(f.tags, *t)
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]domain.User
}

func newFakeUsers(users ...domain.User) *fakeUserStore {
	f := &fakeUserStore{users: map[uuid.UUID]domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetOrCreateUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if u, ok := f.users[id.UserID]; ok {
		return &u, nil
	}
	u := domain.User{ID: id.UserID, Name: id.Name, Email: id.Email, Role: domain.RoleUser}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username && u.ID != id {
			return nil, domain.Conflictf("username %q is already taken", username)
		}
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u.Username = &username
	f.users[id] = u
	return &u, nil
}

// fakeFiles это файловое хранилище в памяти.
type fakeFiles struct {
	mu        sync.Mutex
	objects   map[string][]byte
	copyErr   error
	uploadErr error

	// вызываются один раз перед операцией, чтобы вклинить конкурирующий запрос
	afterCopy    func()
	beforeDelete func()
}

func takeHook(h *func()) func() {
	fn := *h
	*h = nil
	return fn
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}}
}

func (f *fakeFiles) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeFiles) UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeFiles) FileExists(ctx context.Context, key string) (bool, error) {
	return f.has(key), nil
}

func (f *fakeFiles) CopyFile(ctx context.Context, src, dst string) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.mu.Lock()
	data, ok := f.objects[src]
	if !ok {
		f.mu.Unlock()
		return errors.New("no such key")
	}
	f.objects[dst] = data
	hook := takeHook(&f.afterCopy)
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	hook := takeHook(&f.beforeDelete)
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []payloads.ModerationEvent
	err    error
}

func (f *fakePublisher) PublishModerationEvent(ctx context.Context, e payloads.ModerationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeHistoryStore struct {
	recorded [][]uuid.UUID
	batches  []domain.DownloadHistory
	links    []domain.DownloadHistoryAsset
}

// RecordBatch повторяет транзакцию хранилища: вытесняет самые старые пачки сверх лимита и вставляет новую.
func (f *fakeHistoryStore) RecordBatch(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (uuid.UUID, error) {
	f.recorded = append(f.recorded, ids)

	existing := 0
	for _, b := range f.batches {
		if b.UserID == userID {
			existing++
		}
	}
	evict := domain.HistoryOverflow(existing)
	kept := f.batches[:0]
	evicted := map[uuid.UUID]bool{}
	for _, b := range f.batches {
		if b.UserID == userID && evict > 0 {
			evicted[b.ID] = true
			evict--
			continue
		}
		kept = append(kept, b)
	}
	f.batches = kept
	keptLinks := f.links[:0]
	for _, l := range f.links {
		if !evicted[l.HistoryID] {
			keptLinks = append(keptLinks, l)
		}
	}
	f.links = keptLinks

	id := domain.NewID()
	f.batches = append(f.batches, domain.DownloadHistory{ID: id, UserID: userID, CreatedAt: time.Now()})
	for _, a := range ids {
		f.links = append(f.links, domain.DownloadHistoryAsset{HistoryID: id, AssetID: a})
	}
	return id, nil
}

func (f *fakeHistoryStore) ListBatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.DownloadHistory, int, error) {
	var mine []domain.DownloadHistory
	for i := len(f.batches) - 1; i >= 0; i-- {
		if f.batches[i].UserID == userID {
			mine = append(mine, f.batches[i])
		}
	}
	total := len(mine)
	if offset >= total {
		return []domain.DownloadHistory{}, total, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, total, nil
}

func (f *fakeHistoryStore) BatchLinks(ctx context.Context, ids []uuid.UUID) ([]domain.DownloadHistoryAsset, error) {
	out := []domain.DownloadHistoryAsset{}
	for _, l := range f.links {
		if contains(ids, l.HistoryID) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeSavedStore struct {
	saved map[[2]uuid.UUID]time.Time
}

func newFakeSaved() *fakeSavedStore {
	return &fakeSavedStore{saved: map[[2]uuid.UUID]time.Time{}}
}

func (f *fakeSavedStore) SaveAsset(ctx context.Context, userID, assetID uuid.UUID) error {
	k := [2]uuid.UUID{userID, assetID}
	if _, ok := f.saved[k]; ok {
		return domain.Conflictf("asset is already saved")
	}
	f.saved[k] = time.Now()
	return nil
}

func (f *fakeSavedStore) UnsaveAsset(ctx context.Context, userID, assetID uuid.UUID) (bool, error) {
	k := [2]uuid.UUID{userID, assetID}
	if _, ok := f.saved[k]; !ok {
		return false, nil
	}
	delete(f.saved, k)
	return true, nil
}

func (f *fakeSavedStore) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SavedAsset, int, error) {
	out := []domain.SavedAsset{}
	for k, t := range f.saved {
		if k[0] == userID {
			out = append(out, domain.SavedAsset{UserID: k[0], AssetID: k[1], SavedAt: t})
		}
	}
	return out, len(out), nil
}
