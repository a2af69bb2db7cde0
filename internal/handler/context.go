package handler

import (
	"context"

	"github.com/GoArmGo/AssetHub/internal/domain"
)

type contextKey int

const (
	userKey contextKey = iota
	regionRestrictedKey
)

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext возвращает пользователя сессии или nil для анонимного запроса.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

func withRegionRestricted(ctx context.Context, restricted bool) context.Context {
	return context.WithValue(ctx, regionRestrictedKey, restricted)
}

// CallerFromContext собирает domain.Caller из данных, положенных middleware.
func CallerFromContext(ctx context.Context) domain.Caller {
	restricted, _ := ctx.Value(regionRestrictedKey).(bool)
	return domain.Caller{User: UserFromContext(ctx), RegionRestricted: restricted}
}
