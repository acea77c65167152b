package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "u-1", Email: "jan@example.com", Role: domain.RoleCustomerAdmin}
}

func TestGenerateAndParseToken(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	token, expiresAt, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	identity, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jan@example.com", identity.Email)
	assert.Equal(t, domain.RoleCustomerAdmin, identity.Role)
	assert.NotEmpty(t, identity.TokenID)
	assert.True(t, identity.ExpiresAt.Equal(expiresAt))
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	a, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	b, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	ia, err := tm.ParseToken(a)
	require.NoError(t, err)
	ib, err := tm.ParseToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ia.TokenID, ib.TokenID)
}

func TestParseTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	tm.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.Error(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = tm.ParseToken(parts[0] + "." + parts[1] + "." + string(sig))
	assert.Error(t, err)

	_, err = tm.ParseToken("not.a.jwt")
	assert.Error(t, err)
}

func TestNewTokenManagerDefaultTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenManager("s", 0).TTL())
}
