// Package auth проверяет токены сессий внешнего провайдера и права доступа по ролям.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims это утверждения токена сессии: sub содержит id пользователя.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// GenerateToken подписывает токен сессии. Используется в тестах и для локальной разработки,
// в проде токены выдаёт провайдер идентификации.
func GenerateToken(identity domain.Identity, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Name:    identity.Name,
		Email:   identity.Email,
		Picture: identity.Picture,
	})
	return token.SignedString(secretKey)
}

// ParseToken проверяет подпись и срок действия и возвращает личность из сессии.
func ParseToken(tokenString string, secretKey []byte) (domain.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return domain.Identity{
		UserID:  userID,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}
