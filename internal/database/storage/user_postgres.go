package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, username, email, image, role, email_verified, created_at, updated_at`

// UserStorage реализует интерфейс ports.UserStorage
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// GetOrCreateUser получает пользователя по id из сессии или создаёт его при первом входе.
func (s *UserStorage) GetOrCreateUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, identity.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("user not found, creating new one", "user_id", identity.UserID)

		now := time.Now().UTC()
		newUser := domain.User{
			ID:            identity.UserID,
			Name:          identity.Name,
			Email:         identity.Email,
			Role:          domain.RoleUser,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if identity.Picture != "" {
			newUser.Image = &identity.Picture
		}

		_, err = s.db.NamedExecContext(ctx, `
			INSERT INTO users (id, name, email, image, role, email_verified, created_at, updated_at)
			VALUES (:id, :name, :email, :image, :role, :email_verified, :created_at, :updated_at)
			ON CONFLICT (id) DO NOTHING
		`, &newUser)
		if err != nil {
			s.logger.Error("failed to insert user", "user_id", identity.UserID, "error", err)
			return nil, fmt.Errorf("insert user: %w", err)
		}

		s.logger.Info("user created successfully",
			"user_id", newUser.ID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return &newUser, nil
	}

	if err != nil {
		s.logger.Error("failed to select user", "user_id", identity.UserID, "error", err)
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func (s *UserStorage) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		s.logger.Error("failed to get users by ids", "count", len(ids), "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователей: %w", err)
	}
	return users, nil
}

// UpdateUsername задаёт уникальное имя пользователя. nil, nil если пользователь не найден.
func (s *UserStorage) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`UPDATE users SET username = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("username %q is already taken", username)
		}
		s.logger.Error("failed to update username", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении имени пользователя: %w", err)
	}
	s.logger.Info("username updated", "user_id", id)
	return &user, nil
}
