package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,32}$`)

type userUseCase struct {
	users  ports.UserStorage
	logger *slog.Logger
}

func NewUserUseCase(users ports.UserStorage, logger *slog.Logger) UserUseCase {
	return &userUseCase{users: users, logger: logger}
}

func (uc *userUseCase) ResolveSession(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := uc.users.GetOrCreateUser(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return user, nil
}

// UpdateUsername задаёт имя пользователя; занятое имя даёт конфликт.
func (uc *userUseCase) UpdateUsername(ctx context.Context, user *domain.User, username string) (*domain.User, error) {
	if user == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, domain.Validationf("username must be 3-32 characters of a-z, 0-9, _ or -")
	}

	updated, err := uc.users.UpdateUsername(ctx, user.ID, username)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("user %s not found", user.ID)
	}
	return updated, nil
}
