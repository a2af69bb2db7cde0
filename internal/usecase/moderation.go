package usecase

import (
	"context"
	"fmt"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
	"github.com/google/uuid"
)

// ApprovalQueue возвращает ассеты в статусе pending, по умолчанию самые старые первыми.
func (uc *AssetInteractor) ApprovalQueue(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.SortBy == "" && params.SortOrder == "" {
		params.SortBy, params.SortOrder = domain.SortRecent, domain.SortAsc
	}
	return uc.search(ctx, params, domain.StatusPending, false)
}

// Approve переносит файл из limbo/ в asset/ и только затем меняет статус.
// Если обновление статуса упало с ошибкой, публичная копия удаляется.
func (uc *AssetInteractor) Approve(ctx context.Context, admin *domain.User, id uuid.UUID) error {
	asset, err := uc.pendingAsset(ctx, id)
	if err != nil {
		return err
	}

	limboKey := domain.LimboKey(asset.ID, asset.Extension)
	publicKey := domain.PublicKey(asset.ID, asset.Extension)

	exists, err := uc.files.FileExists(ctx, limboKey)
	if err != nil {
		return fmt.Errorf("usecase: ошибка проверки файла: %w", err)
	}
	if !exists {
		uc.logger.Error("quarantined file missing", "asset_id", id, "key", limboKey)
		return domain.NewError(domain.ErrFileNotFound, "file for asset %s not found in quarantine", id)
	}

	if err := uc.files.CopyFile(ctx, limboKey, publicKey); err != nil {
		return fmt.Errorf("usecase: ошибка переноса файла: %w", err)
	}

	approved, err := uc.assets.ApproveAsset(ctx, id)
	if err != nil {
		uc.rollbackPublicCopy(ctx, id, publicKey)
		return fmt.Errorf("usecase: %w", err)
	}
	if !approved {
		return uc.lostApproval(ctx, id, publicKey)
	}

	if err := uc.files.DeleteFile(ctx, limboKey); err != nil {
		uc.logger.Warn("failed to delete quarantined copy", "asset_id", id, "key", limboKey, "error", err)
	}

	uc.logger.Info("asset approved", "asset_id", id, "admin_id", actorID(admin))
	uc.notifier.Notify(ctx, moderationEvent(payloads.EventAssetApproved, asset, admin))
	return nil
}

// Deny удаляет файл из карантина и строку ассета, пока она в pending.
// Теги и сохранения удаляются каскадно.
func (uc *AssetInteractor) Deny(ctx context.Context, admin *domain.User, id uuid.UUID) error {
	asset, err := uc.pendingAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.files.DeleteFile(ctx, domain.LimboKey(asset.ID, asset.Extension)); err != nil {
		return fmt.Errorf("usecase: ошибка удаления файла: %w", err)
	}
	denied, err := uc.assets.DenyAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if !denied {
		return uc.notPendingAnymore(ctx, id)
	}

	uc.logger.Info("asset denied", "asset_id", id, "admin_id", actorID(admin))
	uc.notifier.Notify(ctx, moderationEvent(payloads.EventAssetDenied, asset, admin))
	return nil
}

// lostApproval разбирает случай, когда строка перестала быть pending между проверкой и обновлением.
// Публичный файл уже одобренного ассета не удаляется.
func (uc *AssetInteractor) lostApproval(ctx context.Context, id uuid.UUID, publicKey string) error {
	current, err := uc.assets.GetAssetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if current != nil && current.Status == domain.StatusApproved {
		uc.logger.Warn("asset approved concurrently", "asset_id", id)
		return domain.Conflictf("asset %s is already approved", id)
	}
	uc.rollbackPublicCopy(ctx, id, publicKey)
	if current == nil {
		return domain.NotFoundf("asset %s not found", id)
	}
	return domain.Conflictf("asset %s is no longer pending", id)
}

func (uc *AssetInteractor) rollbackPublicCopy(ctx context.Context, id uuid.UUID, publicKey string) {
	if err := uc.files.DeleteFile(ctx, publicKey); err != nil {
		uc.logger.Error("failed to roll back public copy", "asset_id", id, "key", publicKey, "error", err)
	}
}

func (uc *AssetInteractor) notPendingAnymore(ctx context.Context, id uuid.UUID) error {
	current, err := uc.assets.GetAssetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if current == nil {
		return domain.NotFoundf("asset %s not found", id)
	}
	uc.logger.Warn("asset left pending before deny", "asset_id", id, "status", current.Status)
	return domain.Conflictf("asset %s is no longer pending", id)
}

func (uc *AssetInteractor) pendingAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	asset, err := uc.assets.GetAssetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if asset == nil {
		return nil, domain.NotFoundf("asset %s not found", id)
	}
	if asset.Status != domain.StatusPending {
		return nil, domain.Conflictf("asset %s is not pending", id)
	}
	return asset, nil
}

func moderationEvent(kind string, a *domain.Asset, actor *domain.User) payloads.ModerationEvent {
	e := payloads.ModerationEvent{
		Type:       kind,
		AssetID:    a.ID,
		AssetName:  a.Name,
		GameID:     a.GameID,
		UploaderID: a.UploaderID,
	}
	e.ActorID = actorID(actor)
	return e
}

func actorID(u *domain.User) uuid.UUID {
	if u == nil {
		return uuid.Nil
	}
	return u.ID
}
