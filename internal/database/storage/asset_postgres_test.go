package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assetCols = []string{"id", "name", "game_id", "category_id", "uploader_id", "size", "extension", "created_at",
	"download_count", "view_count", "status", "is_suggestive", "hash"}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func assetRow(rows *sqlmock.Rows, id uuid.UUID, status domain.AssetStatus) *sqlmock.Rows {
	return rows.AddRow(id.String(), "Raiden", uuid.NewString(), uuid.NewString(), uuid.NewString(),
		int64(2048), "png", mustTime("2026-03-01T10:00:00Z"), int64(3), int64(9), string(status), false, "abc")
}

func TestSearchAssets_ScansRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, .* FROM assets WHERE status = \$1 ORDER BY view_count DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("approved", 3, 0).
		WillReturnRows(assetRow(sqlmock.NewRows(assetCols), id, domain.StatusApproved))

	got, err := s.SearchAssets(context.Background(), domain.AssetFilter{
		Status: domain.StatusApproved, SortBy: domain.SortViews, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, domain.StatusApproved, got[0].Status)
	assert.Equal(t, int64(9), got[0].ViewCount)
}

func TestAssetIDsWithAllTags_GroupsByDistinctCount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	a1 := uuid.New()

	mock.ExpectQuery(`(?s)SELECT asset_id FROM asset_tags.*GROUP BY asset_id.*HAVING COUNT\(DISTINCT tag_id\) = \$2`).
		WithArgs(sqlmock.AnyArg(), 2).
		WillReturnRows(sqlmock.NewRows([]string{"asset_id"}).AddRow(a1.String()))

	ids, err := s.AssetIDsWithAllTags(context.Background(), []uuid.UUID{uuid.New(), uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a1}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetByID_NotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())

	mock.ExpectQuery(`FROM assets WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(assetCols))

	got, err := s.GetAssetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateAsset_ApprovedBumpsGameCount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	asset := &domain.Asset{Name: "Key art", GameID: uuid.New(), CategoryID: uuid.New(), Status: domain.StatusApproved, Extension: "png"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO assets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO asset_tags \(asset_id, tag_id\) SELECT \$1, UNNEST`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE games SET asset_count`).WithArgs(asset.GameID, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.CreateAsset(context.Background(), asset, []uuid.UUID{uuid.New(), uuid.New()})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, asset.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAsset_PendingWithoutTags(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	asset := &domain.Asset{Name: "Wip", Status: domain.StatusPending, Extension: "jpg"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO assets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.CreateAsset(context.Background(), asset, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAsset_NotPending(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE assets SET status = 'approved' WHERE id = \$1 AND status = 'pending' RETURNING game_id`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}))
	mock.ExpectCommit()

	ok, err := s.ApproveAsset(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAsset_BumpsCount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	gameID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE assets SET status = 'approved'`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}).AddRow(gameID.String()))
	mock.ExpectExec(`UPDATE games SET asset_count`).WithArgs(gameID, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := s.ApproveAsset(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset_ApprovedDecrementsCount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	gameID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM assets WHERE id = \$1 RETURNING game_id, status`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "status"}).AddRow(gameID.String(), "approved"))
	mock.ExpectExec(`UPDATE games SET asset_count`).WithArgs(gameID, -1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := s.DeleteAsset(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset_PendingKeepsCount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM assets`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "status"}).AddRow(uuid.NewString(), "pending"))
	mock.ExpectCommit()

	ok, err := s.DeleteAsset(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsset_DBErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM assets`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := s.DeleteAsset(context.Background(), uuid.New())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDenyAsset_OnlyPending(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAssetStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1 AND status = 'pending'`).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1 AND status = 'pending'`).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.DenyAsset(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DenyAsset(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
