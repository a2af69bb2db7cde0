package auth

import "github.com/GoArmGo/AssetHub/internal/domain"

// Authorize проверяет, что сессия есть и роль пользователя входит в roles.
// Без сессии возвращается ErrUnauthorized (401), с недостаточной ролью ErrForbidden (403).
// Пустой roles означает любого вошедшего пользователя.
func Authorize(user *domain.User, roles ...domain.Role) (*domain.User, error) {
	if user == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	if len(roles) == 0 {
		return user, nil
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	return nil, domain.NewError(domain.ErrForbidden, "insufficient role")
}
