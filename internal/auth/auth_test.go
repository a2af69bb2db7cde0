package auth

import (
	"testing"
	"time"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	id := domain.Identity{UserID: uuid.New(), Name: "Alice", Email: "alice@example.com", Picture: "https://cdn/a.png"}

	tok, err := GenerateToken(id, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseToken_Rejects(t *testing.T) {
	id := domain.Identity{UserID: uuid.New()}

	expired, err := GenerateToken(id, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongKey, err := GenerateToken(id, []byte("other"), time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(wrongKey, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("garbage", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_BadSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(s, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorize(t *testing.T) {
	_, err := Authorize(nil, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	user := &domain.User{Role: domain.RoleUser}
	_, err = Authorize(user, domain.RoleAdmin, domain.RoleContributor)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := Authorize(user)
	require.NoError(t, err)
	assert.Same(t, user, got)

	admin := &domain.User{Role: domain.RoleAdmin}
	got, err = Authorize(admin, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Same(t, admin, got)
}
