package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RateLimitStorage хранит счётчики запросов в фиксированных окнах.
type RateLimitStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRateLimitStorage(db *sqlx.DB) *RateLimitStorage {
	return &RateLimitStorage{db: db, now: time.Now}
}

func (s *RateLimitStorage) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	windowStart := s.now().UTC().Truncate(window)

	var count int
	err := s.db.GetContext(ctx, &count, `
	INSERT INTO rate_limits (key, window_start, count) VALUES ($1, $2, 1)
	ON CONFLICT (key, window_start) DO UPDATE SET count = rate_limits.count + 1
	RETURNING count
	`, key, windowStart)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления счётчика запросов: %w", err)
	}
	return count, nil
}

// Prune удаляет окна, закончившиеся раньше before.
func (s *RateLimitStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE window_start < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки счётчиков запросов: %w", err)
	}
	return res.RowsAffected()
}
