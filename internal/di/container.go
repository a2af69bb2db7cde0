package di

import (
	"context"
	"io"
	"log/slog"

	"github.com/GoArmGo/AssetHub/internal/adapter/storage/minio"
	"github.com/GoArmGo/AssetHub/internal/adapter/webhook"
	"github.com/GoArmGo/AssetHub/internal/app"
	"github.com/GoArmGo/AssetHub/internal/config"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/database/client"
	"github.com/GoArmGo/AssetHub/internal/database/storage"
	"github.com/GoArmGo/AssetHub/internal/logger"
	"github.com/GoArmGo/AssetHub/internal/rabbitmq"
	"github.com/GoArmGo/AssetHub/internal/usecase"
)

// BuildApp инициализирует зависимости нужного режима и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка и проверка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Mode:   mode,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	var (
		serverDeps *app.ServerDeps
		workerDeps *app.WorkerDeps
		closers    []io.Closer
	)

	switch mode {
	case app.ModeServer:
		serverDeps, closers, err = buildServer(ctx, cfg, dbClient, slogger)
	case app.ModeWorker:
		workerDeps, closers, err = buildWorker(cfg, dbClient, slogger)
	}
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	slogger.Info("all dependencies initialized", "mode", mode)
	return app.NewApp(cfg, slogger, dbClient, serverDeps, workerDeps, closers...), nil
}

func buildServer(ctx context.Context, cfg *config.Config, dbClient *client.Client, slogger *slog.Logger) (*app.ServerDeps, []io.Closer, error) {
	// 3. Инициализация хранилищ
	assetStorage := storage.NewAssetStorage(dbClient.DB, slogger)
	catalogStorage := storage.NewCatalogStorage(dbClient.Gorm, slogger)
	historyStorage := storage.NewHistoryStorage(dbClient.DB, slogger)
	savedStorage := storage.NewSavedAssetStorage(dbClient.DB, slogger)
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)

	// 4. Файловое хранилище S3 / MinIO
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
	if err != nil {
		return nil, nil, err
	}

	// 5. RabbitMQ опционален: без URL уведомления отключены
	var (
		publisher ports.ModerationPublisher
		closers   []io.Closer
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, nil, err
		}
		publisher = rabbitMQClient
		closers = append(closers, rabbitMQClient)
	} else {
		slogger.Warn("RABBITMQ_URL is empty, moderation notifications disabled")
	}

	// 6. Инициализация бизнес-логики (usecases)
	notifier := usecase.NewNotifier(publisher, slogger)
	hydrator := usecase.NewHydrator(assetStorage, userStorage, cfg.PublicAssetBaseURL)
	assets := usecase.NewAssetUseCase(assetStorage, catalogStorage, fileStorage, hydrator, notifier, slogger)

	return &app.ServerDeps{
		Assets:      assets,
		Moderation:  assets,
		History:     usecase.NewHistoryUseCase(historyStorage, assetStorage, catalogStorage, hydrator, slogger),
		Saved:       usecase.NewSavedAssetUseCase(savedStorage, assetStorage, catalogStorage, hydrator, slogger),
		Catalog:     usecase.NewCatalogUseCase(catalogStorage, slogger),
		Users:       usecase.NewUserUseCase(userStorage, slogger),
		Notifier:    notifier,
		RateLimiter: storage.NewRateLimitStorage(dbClient.DB),
	}, closers, nil
}

func buildWorker(cfg *config.Config, dbClient *client.Client, slogger *slog.Logger) (*app.WorkerDeps, []io.Closer, error) {
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.WebhookURL == "" {
		slogger.Warn("WEBHOOK_URL is empty, events will be consumed and dropped")
	}

	return &app.WorkerDeps{
		Consumer: rabbitMQClient,
		Webhook:  webhook.NewClient(cfg.WebhookURL),
		Pruner:   storage.NewRateLimitStorage(dbClient.DB),
	}, []io.Closer{rabbitMQClient}, nil
}
