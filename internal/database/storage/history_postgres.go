package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/database/dbx"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// HistoryStorage реализует журнал скачиваний с лимитом domain.MaxHistoryBatches пачек на пользователя.
type HistoryStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewHistoryStorage(db *sqlx.DB, logger *slog.Logger) *HistoryStorage {
	return &HistoryStorage{db: db, logger: logger}
}

// RecordBatch в одной транзакции блокирует строку пользователя, вытесняет самые старые
// пачки сверх лимита и вставляет новую пачку со ссылками на ассеты.
// Блокировка сериализует параллельные записи одного пользователя,
// иначе две транзакции могли бы обе увидеть count < лимита.
func (s *HistoryStorage) RecordBatch(ctx context.Context, userID uuid.UUID, assetIDs []uuid.UUID) (uuid.UUID, error) {
	start := time.Now()
	historyID := domain.NewID()
	evicted := 0

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		var locked int
		err := tx.GetContext(ctx, &locked, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("user %s not found", userID)
		}
		if err != nil {
			return fmt.Errorf("блокировка пользователя: %w", err)
		}

		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM download_history WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("подсчёт пачек истории: %w", err)
		}

		if excess := domain.HistoryOverflow(count); excess > 0 {
			_, err := tx.ExecContext(ctx, `
			DELETE FROM download_history WHERE id IN (
				SELECT id FROM download_history
				WHERE user_id = $1
				ORDER BY created_at ASC, id ASC
				LIMIT $2
			)`, userID, excess)
			if err != nil {
				return fmt.Errorf("вытеснение старых пачек: %w", err)
			}
			evicted = excess
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO download_history (id, user_id, created_at) VALUES ($1, $2, $3)`,
			historyID, userID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("вставка пачки истории: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO download_history_assets (history_id, asset_id) SELECT $1, UNNEST($2::uuid[])`,
			historyID, uuidArray(assetIDs))
		if err != nil {
			return fmt.Errorf("вставка ассетов пачки: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE assets SET download_count = download_count + 1 WHERE id = ANY($1::uuid[])`,
			uuidArray(assetIDs))
		if err != nil {
			return fmt.Errorf("обновление счётчиков скачиваний: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to record download batch", "user_id", userID, "error", err)
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("ошибка при записи истории скачиваний: %w", err)
	}

	s.logger.Info("download batch recorded",
		"user_id", userID,
		"history_id", historyID,
		"assets", len(assetIDs),
		"evicted", evicted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return historyID, nil
}

// ListBatches возвращает пачки пользователя от новых к старым и общее их число.
func (s *HistoryStorage) ListBatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.DownloadHistory, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM download_history WHERE user_id = $1`, userID); err != nil {
		s.logger.Error("failed to count history batches", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("ошибка при подсчёте истории: %w", err)
	}

	batches := []domain.DownloadHistory{}
	err := s.db.SelectContext(ctx, &batches, `
	SELECT id, user_id, created_at FROM download_history
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list history batches", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении истории: %w", err)
	}
	return batches, total, nil
}

func (s *HistoryStorage) BatchLinks(ctx context.Context, historyIDs []uuid.UUID) ([]domain.DownloadHistoryAsset, error) {
	links := []domain.DownloadHistoryAsset{}
	if len(historyIDs) == 0 {
		return links, nil
	}
	err := s.db.SelectContext(ctx, &links,
		`SELECT history_id, asset_id FROM download_history_assets WHERE history_id = ANY($1::uuid[])`,
		uuidArray(historyIDs))
	if err != nil {
		s.logger.Error("failed to load history links", "batches", len(historyIDs), "error", err)
		return nil, fmt.Errorf("ошибка при получении ассетов истории: %w", err)
	}
	return links, nil
}
