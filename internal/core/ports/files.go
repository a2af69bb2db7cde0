package ports

import (
	"context"
	"io"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (S3, MinIO).
// Ключи имеют вид limbo/{id}.{ext} или asset/{id}.{ext}.
type FileStorage interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// FileExists возвращает false без ошибки, если объекта нет.
	FileExists(ctx context.Context, key string) (bool, error)
	CopyFile(ctx context.Context, srcKey, dstKey string) error
	DeleteFile(ctx context.Context, key string) error
}
