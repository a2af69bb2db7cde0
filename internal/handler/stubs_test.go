package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/usecase"
	"github.com/google/uuid"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubAssets реализует AssetUseCase, ModerationUseCase и HistoryUseCase и запоминает аргументы.
type stubAssets struct {
	params  usecase.SearchParams
	caller  domain.Caller
	upload  usecase.UploadInput
	history []string
	err     error
}

func (s *stubAssets) Search(ctx context.Context, caller domain.Caller, p usecase.SearchParams) (*usecase.SearchResult, error) {
	s.caller, s.params = caller, p
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.SearchResult{
		Assets:     []domain.AssetView{{ID: uuid.New(), Name: "Raiden"}},
		Pagination: domain.OffsetPagination{Offset: p.Offset, Limit: p.Limit},
	}, nil
}

func (s *stubAssets) GetAsset(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.AssetView, error) {
	s.caller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &domain.AssetView{ID: id, Name: "Raiden"}, nil
}

func (s *stubAssets) Upload(ctx context.Context, uploader *domain.User, in usecase.UploadInput) (*domain.Asset, error) {
	s.upload = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Asset{ID: uuid.New(), Name: in.Name, Status: domain.StatusPending}, nil
}

func (s *stubAssets) Delete(ctx context.Context, id uuid.UUID) error { return s.err }

func (s *stubAssets) ApprovalQueue(ctx context.Context, p usecase.SearchParams) (*usecase.SearchResult, error) {
	s.params = p
	return &usecase.SearchResult{Assets: []domain.AssetView{}}, s.err
}

func (s *stubAssets) Approve(ctx context.Context, admin *domain.User, id uuid.UUID) error { return s.err }
func (s *stubAssets) Deny(ctx context.Context, admin *domain.User, id uuid.UUID) error    { return s.err }

func (s *stubAssets) Record(ctx context.Context, user *domain.User, ids []string) (uuid.UUID, error) {
	s.history = ids
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.MustParse("01890000-0000-7000-8000-000000000001"), nil
}

func (s *stubAssets) List(ctx context.Context, caller domain.Caller, page, limit int) (*usecase.HistoryPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.HistoryPage{
		History:    []domain.HistoryBatchView{{ID: uuid.New(), CreatedAt: time.Now(), Assets: []domain.AssetView{}}},
		Pagination: domain.NewPagePagination(page, limit, 1),
	}, nil
}

type stubUsers struct {
	user *domain.User
	err  error
	seen domain.Identity
}

func (s *stubUsers) ResolveSession(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	s.seen = identity
	return s.user, s.err
}

func (s *stubUsers) UpdateUsername(ctx context.Context, user *domain.User, username string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := *user
	u.Username = &username
	return &u, nil
}

type stubLimiter struct {
	count int
	err   error
	keys  []string
}

func (s *stubLimiter) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	s.keys = append(s.keys, key)
	s.count++
	return s.count, s.err
}
