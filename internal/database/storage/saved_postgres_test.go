package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAsset_DuplicateIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSavedAssetStorage(db, testLogger())

	mock.ExpectExec(`INSERT INTO saved_assets`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := s.SaveAsset(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestUnsaveAsset_ReportsWhetherRemoved(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSavedAssetStorage(db, testLogger())

	mock.ExpectExec(`DELETE FROM saved_assets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM saved_assets`).WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := s.UnsaveAsset(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.UnsaveAsset(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestListSaved(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSavedAssetStorage(db, testLogger())
	userID, assetID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM saved_assets`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT user_id, asset_id, saved_at FROM saved_assets.*ORDER BY saved_at DESC`).
		WithArgs(userID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "asset_id", "saved_at"}).
			AddRow(userID.String(), assetID.String(), time.Now()))

	saved, total, err := s.ListSaved(context.Background(), userID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, saved, 1)
	assert.Equal(t, assetID, saved[0].AssetID)
}
