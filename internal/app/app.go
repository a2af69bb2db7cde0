package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/AssetHub/internal/config"
	"github.com/GoArmGo/AssetHub/internal/database/client"
)

// Режимы запуска приложения.
const (
	ModeServer  = "server"
	ModeWorker  = "worker"
	ModeMigrate = "migrate"
)

type App struct {
	Config  *config.Config
	logger  *slog.Logger
	db      *client.Client
	server  *ServerDeps
	worker  *WorkerDeps
	closers []io.Closer
}

// NewApp собирает приложение. server и worker заполняются только для своего режима.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db *client.Client,
	server *ServerDeps,
	worker *WorkerDeps,
	closers ...io.Closer,
) *App {
	return &App{
		Config:  cfg,
		logger:  logger,
		db:      db,
		server:  server,
		worker:  worker,
		closers: closers,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает выбранный режим и блокируется до SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeMigrate:
		err = a.db.Migrate()

	case ModeServer:
		if a.server == nil {
			err = errors.New("зависимости сервера не инициализированы")
		} else if err = a.db.Migrate(); err == nil {
			err = runServer(ctx, a.Config, a.logger, a.db.Ping, a.server)
		}

	case ModeWorker:
		if a.worker == nil {
			err = errors.New("зависимости воркера не инициализированы")
		} else {
			err = runWorker(ctx, a.logger, a.worker)
		}

	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server', 'worker' или 'migrate')", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия БД: %w", err))
		}
	}
	return errors.Join(errs...)
}
