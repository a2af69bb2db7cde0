package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
	"github.com/google/uuid"
)

const (
	MaxUploadSize     = 10 << 20
	maxAssetNameRunes = 100
)

// допустимые расширения и соответствующий им MIME-тип
var allowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// Upload проверяет файл и метаданные, кладёт файл в хранилище и создаёт ассет.
// Загрузка администратора сразу одобрена и лежит в asset/, остальные ждут модерации в limbo/.
func (uc *AssetInteractor) Upload(ctx context.Context, uploader *domain.User, in UploadInput) (*domain.Asset, error) {
	if uploader == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}

	ext, err := validateUpload(&in)
	if err != nil {
		return nil, err
	}

	idx, err := loadCatalog(ctx, uc.catalog)
	if err != nil {
		return nil, err
	}
	if _, ok := idx.Games[in.GameID]; !ok {
		return nil, domain.Validationf("game %s does not exist", in.GameID)
	}
	if _, ok := idx.Categories[in.CategoryID]; !ok {
		return nil, domain.Validationf("category %s does not exist", in.CategoryID)
	}
	tagIDs := dedupeIDs(in.TagIDs)
	for _, id := range tagIDs {
		if _, ok := idx.Tags[id]; !ok {
			return nil, domain.Validationf("tag %s does not exist", id)
		}
	}

	if err := uc.ensureGameCategory(ctx, in.GameID, in.CategoryID, uploader.Role); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(in.Content)
	asset := &domain.Asset{
		ID:           domain.NewID(),
		Name:         in.Name,
		GameID:       in.GameID,
		CategoryID:   in.CategoryID,
		UploaderID:   uploader.ID,
		Size:         int64(len(in.Content)),
		Extension:    ext,
		Status:       domain.StatusPending,
		IsSuggestive: in.IsSuggestive,
		Hash:         hex.EncodeToString(sum[:]),
	}
	if uploader.IsAdmin() {
		asset.Status = domain.StatusApproved
	}

	key := asset.StorageKey()
	if err := uc.files.UploadFile(ctx, key, bytes.NewReader(in.Content), asset.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки файла: %w", err)
	}

	if err := uc.assets.CreateAsset(ctx, asset, tagIDs); err != nil {
		if delErr := uc.files.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Error("failed to remove orphaned upload", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("usecase: %w", err)
	}

	uc.logger.Info("asset uploaded",
		"asset_id", asset.ID,
		"uploader_id", uploader.ID,
		"status", asset.Status,
		"size", asset.Size,
	)

	if asset.Status == domain.StatusPending {
		uc.notifier.Notify(ctx, payloads.ModerationEvent{
			Type:       payloads.EventAssetSubmitted,
			AssetID:    asset.ID,
			AssetName:  asset.Name,
			GameID:     asset.GameID,
			UploaderID: asset.UploaderID,
			ActorID:    uploader.ID,
		})
	}
	return asset, nil
}

// ensureGameCategory требует существующую пару игра-категория.
// Администратор создаёт недостающую связь, остальным возвращается конфликт.
func (uc *AssetInteractor) ensureGameCategory(ctx context.Context, gameID, categoryID uuid.UUID, role domain.Role) error {
	exists, err := uc.catalog.GameCategoryExists(ctx, gameID, categoryID)
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	if exists {
		return nil
	}
	if role != domain.RoleAdmin {
		return domain.Conflictf("category %s is not available for game %s", categoryID, gameID)
	}
	if err := uc.catalog.LinkGameCategory(ctx, gameID, categoryID); err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	return nil
}

// validateUpload проверяет имя, тип, расширение и размер файла и возвращает нормализованное расширение.
func validateUpload(in *UploadInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", domain.Validationf("name is required")
	}
	if utf8.RuneCountInString(in.Name) > maxAssetNameRunes {
		return "", domain.Validationf("name must be at most %d characters", maxAssetNameRunes)
	}
	if in.GameID == uuid.Nil || in.CategoryID == uuid.Nil {
		return "", domain.Validationf("gameId and categoryId are required")
	}

	if len(in.Content) == 0 {
		return "", domain.Validationf("file is empty")
	}
	if len(in.Content) > MaxUploadSize {
		return "", domain.Validationf("file exceeds maximum size of %d bytes", MaxUploadSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.FileName), "."))
	mime, ok := allowedExtensions[ext]
	if !ok {
		return "", domain.Validationf("file extension must be png, jpg or jpeg")
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]))
	if declared != mime {
		return "", domain.Validationf("content type %q does not match extension %q", in.ContentType, ext)
	}
	if sniffed := http.DetectContentType(in.Content); sniffed != mime {
		return "", domain.Validationf("file content is not a valid %s image", ext)
	}
	in.ContentType = mime
	return ext, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
