// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет уровень доступа пользователя.
type Role string

const (
	RoleUser        Role = "user"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Username      *string   `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	Image         *string   `json:"image" db:"image"`
	Role          Role      `json:"role" db:"role"`
	EmailVerified bool      `json:"emailVerified" db:"email_verified"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity это данные сессии, выданной внешним провайдером идентификации.
type Identity struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	Picture string
}

// Caller описывает того, кто выполняет запрос: пользователь (может быть nil)
// и признак региона с ограничением контента.
type Caller struct {
	User             *User
	RegionRestricted bool
}

// SuppressSuggestive сообщает, нужно ли полностью скрыть откровенный контент.
func (c Caller) SuppressSuggestive() bool {
	return c.RegionRestricted && !c.User.IsAdmin()
}
