package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SavedAssetStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSavedAssetStorage(db *sqlx.DB, logger *slog.Logger) *SavedAssetStorage {
	return &SavedAssetStorage{db: db, logger: logger}
}

// SaveAsset добавляет ассет в избранное. Повторное сохранение это конфликт, а не слияние.
func (s *SavedAssetStorage) SaveAsset(ctx context.Context, userID, assetID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_assets (user_id, asset_id, saved_at) VALUES ($1, $2, $3)`,
		userID, assetID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("asset is already saved")
		}
		s.logger.Error("failed to save asset", "user_id", userID, "asset_id", assetID, "error", err)
		return fmt.Errorf("ошибка при сохранении в избранное: %w", err)
	}
	s.logger.Info("asset saved", "user_id", userID, "asset_id", assetID)
	return nil
}

func (s *SavedAssetStorage) UnsaveAsset(ctx context.Context, userID, assetID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_assets WHERE user_id = $1 AND asset_id = $2`, userID, assetID)
	if err != nil {
		s.logger.Error("failed to unsave asset", "user_id", userID, "asset_id", assetID, "error", err)
		return false, fmt.Errorf("ошибка при удалении из избранного: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении из избранного: %w", err)
	}
	return n > 0, nil
}

func (s *SavedAssetStorage) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SavedAsset, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM saved_assets WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте избранного: %w", err)
	}

	saved := []domain.SavedAsset{}
	err := s.db.SelectContext(ctx, &saved, `
	SELECT user_id, asset_id, saved_at FROM saved_assets
	WHERE user_id = $1
	ORDER BY saved_at DESC, asset_id DESC
	LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list saved assets", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("ошибка при получении избранного: %w", err)
	}
	return saved, total, nil
}
