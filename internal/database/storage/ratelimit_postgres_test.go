package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitHit_UsesTruncatedWindow(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewRateLimitStorage(db)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC) }

	mock.ExpectQuery(`INSERT INTO rate_limits .* ON CONFLICT \(key, window_start\) DO UPDATE .* RETURNING count`).
		WithArgs("10.0.0.1", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.Hit(context.Background(), "10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitPrune(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewRateLimitStorage(db)
	before := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM rate_limits WHERE window_start < \$1`).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := s.Prune(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
