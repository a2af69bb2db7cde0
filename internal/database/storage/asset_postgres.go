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

// AssetStorage реализует ports.AssetStorage поверх PostgreSQL.
type AssetStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewAssetStorage(db *sqlx.DB, logger *slog.Logger) *AssetStorage {
	return &AssetStorage{db: db, logger: logger}
}

// SearchAssets выполняет отфильтрованный, отсортированный и ограниченный поиск.
func (s *AssetStorage) SearchAssets(ctx context.Context, f domain.AssetFilter) ([]domain.Asset, error) {
	start := time.Now()

	q, args := buildSearchQuery(f)

	assets := []domain.Asset{}
	if err := s.db.SelectContext(ctx, &assets, q, args...); err != nil {
		s.logger.Error("failed to search assets", "status", f.Status, "offset", f.Offset, "error", err)
		return nil, fmt.Errorf("ошибка при поиске ассетов: %w", err)
	}

	s.logger.Debug("assets search completed",
		"found", len(assets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return assets, nil
}

// AssetIDsWithAllTags находит ассеты, у которых есть каждый из тегов:
// группировка связей по ассету и сравнение числа различных тегов с размером набора.
func (s *AssetStorage) AssetIDsWithAllTags(ctx context.Context, tagIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(tagIDs) == 0 {
		return ids, nil
	}

	q := `
	SELECT asset_id FROM asset_tags
	WHERE tag_id = ANY($1::uuid[])
	GROUP BY asset_id
	HAVING COUNT(DISTINCT tag_id) = $2
	`
	if err := s.db.SelectContext(ctx, &ids, q, uuidArray(tagIDs), len(tagIDs)); err != nil {
		s.logger.Error("failed to resolve tag intersection", "tags", len(tagIDs), "error", err)
		return nil, fmt.Errorf("ошибка при пересечении тегов: %w", err)
	}
	return ids, nil
}

// GetAssetByID получает ассет по ID, nil если не найден
func (s *AssetStorage) GetAssetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	err := s.db.GetContext(ctx, &asset, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("asset not found by id", "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get asset by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении ассета по ID: %w", err)
	}
	return &asset, nil
}

func (s *AssetStorage) GetAssetsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	if len(ids) == 0 {
		return assets, nil
	}
	err := s.db.SelectContext(ctx, &assets,
		`SELECT `+assetColumns+` FROM assets WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		s.logger.Error("failed to get assets by ids", "count", len(ids), "error", err)
		return nil, fmt.Errorf("ошибка при получении ассетов: %w", err)
	}
	return assets, nil
}

// ExistingAssetIDs возвращает подмножество ids, для которых есть строки в assets.
func (s *AssetStorage) ExistingAssetIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	found := []uuid.UUID{}
	if len(ids) == 0 {
		return found, nil
	}
	err := s.db.SelectContext(ctx, &found, `SELECT id FROM assets WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		s.logger.Error("failed to check asset ids", "count", len(ids), "error", err)
		return nil, fmt.Errorf("ошибка при проверке ассетов: %w", err)
	}
	return found, nil
}

// TagLinks одним запросом загружает связи ассет-тег для всей страницы.
func (s *AssetStorage) TagLinks(ctx context.Context, assetIDs []uuid.UUID) ([]domain.AssetTag, error) {
	links := []domain.AssetTag{}
	if len(assetIDs) == 0 {
		return links, nil
	}
	err := s.db.SelectContext(ctx, &links,
		`SELECT asset_id, tag_id FROM asset_tags WHERE asset_id = ANY($1::uuid[])`, uuidArray(assetIDs))
	if err != nil {
		s.logger.Error("failed to load tag links", "assets", len(assetIDs), "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов ассетов: %w", err)
	}
	return links, nil
}

// CreateAsset сохраняет ассет и его теги. Для одобренного ассета
// счётчик игры увеличивается в той же транзакции.
func (s *AssetStorage) CreateAsset(ctx context.Context, asset *domain.Asset, tagIDs []uuid.UUID) error {
	start := time.Now()

	if asset.ID == uuid.Nil {
		asset.ID = domain.NewID()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
		INSERT INTO assets (id, name, game_id, category_id, uploader_id, size, extension, created_at,
			download_count, view_count, status, is_suggestive, hash)
		VALUES (:id, :name, :game_id, :category_id, :uploader_id, :size, :extension, :created_at,
			:download_count, :view_count, :status, :is_suggestive, :hash)
		`, asset)
		if err != nil {
			return fmt.Errorf("вставка ассета: %w", err)
		}

		if len(tagIDs) > 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO asset_tags (asset_id, tag_id) SELECT $1, UNNEST($2::uuid[])`,
				asset.ID, uuidArray(tagIDs))
			if err != nil {
				return fmt.Errorf("вставка тегов ассета: %w", err)
			}
		}

		if asset.Status == domain.StatusApproved {
			if err := bumpAssetCount(ctx, tx, asset.GameID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create asset", "id", asset.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении ассета: %w", err)
	}

	s.logger.Info("asset created",
		"id", asset.ID,
		"status", asset.Status,
		"tags", len(tagIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ApproveAsset меняет статус только у ассета в pending.
func (s *AssetStorage) ApproveAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	approved := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		var gameID uuid.UUID
		err := tx.GetContext(ctx, &gameID,
			`UPDATE assets SET status = 'approved' WHERE id = $1 AND status = 'pending' RETURNING game_id`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("обновление статуса: %w", err)
		}
		approved = true
		return bumpAssetCount(ctx, tx, gameID, 1)
	})
	if err != nil {
		s.logger.Error("failed to approve asset", "id", id, "error", err)
		return false, fmt.Errorf("ошибка при одобрении ассета: %w", err)
	}
	return approved, nil
}

// DeleteAsset удаляет строку ассета, связи удаляются каскадно.
func (s *AssetStorage) DeleteAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		var row struct {
			GameID uuid.UUID          `db:"game_id"`
			Status domain.AssetStatus `db:"status"`
		}
		err := tx.GetContext(ctx, &row, `DELETE FROM assets WHERE id = $1 RETURNING game_id, status`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("удаление ассета: %w", err)
		}
		deleted = true
		if row.Status == domain.StatusApproved {
			return bumpAssetCount(ctx, tx, row.GameID, -1)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete asset", "id", id, "error", err)
		return false, fmt.Errorf("ошибка при удалении ассета: %w", err)
	}
	return deleted, nil
}

// DenyAsset удаляет строку, только пока ассет в pending. Счётчик игры не меняется:
// pending-ассеты в нём не учитываются.
func (s *AssetStorage) DenyAsset(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		s.logger.Error("failed to deny asset", "id", id, "error", err)
		return false, fmt.Errorf("ошибка при отклонении ассета: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при отклонении ассета: %w", err)
	}
	return n > 0, nil
}

func (s *AssetStorage) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE assets SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ошибка при обновлении счётчика просмотров: %w", err)
	}
	return nil
}

func bumpAssetCount(ctx context.Context, tx *sqlx.Tx, gameID uuid.UUID, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE games SET asset_count = GREATEST(asset_count + $2, 0), updated_at = NOW() WHERE id = $1`,
		gameID, delta)
	if err != nil {
		return fmt.Errorf("обновление счётчика игры: %w", err)
	}
	return nil
}
