package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_Generate(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", "bookcatalog", "bookcatalog-clients", time.Hour)

	token, expiresAt, err := ti.Generate("user@example.com", "User")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestTokenIssuer_Parse(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", "bookcatalog", "bookcatalog-clients", time.Hour)

	t.Run("valid token", func(t *testing.T) {
		token, _, err := ti.Generate("user@example.com", "User")
		require.NoError(t, err)

		claims, err := ti.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Sub)
		assert.Equal(t, "User", claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("invalid signature", func(t *testing.T) {
		other := NewTokenIssuer("wrong-secret", "bookcatalog", "bookcatalog-clients", time.Hour)
		token, _, err := other.Generate("user@example.com", "User")
		require.NoError(t, err)

		claims, err := ti.Parse(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewTokenIssuer("test-secret-key", "bookcatalog", "someone-else", time.Hour)
		token, _, err := other.Generate("user@example.com", "User")
		require.NoError(t, err)

		_, err = ti.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Sub:  "user@example.com",
			Role: "User",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "bookcatalog",
				Audience:  jwt.ClaimStrings{"bookcatalog-clients"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret-key"))
		require.NoError(t, err)

		claims, err := ti.Parse(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ti.Parse("not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestTokenIssuer_UniqueJTIs(t *testing.T) {
	ti := NewTokenIssuer("test-secret", "bookcatalog", "bookcatalog-clients", time.Hour)

	token1, _, err1 := ti.Generate("user@example.com", "User")
	token2, _, err2 := ti.Generate("user@example.com", "User")
	require.NoError(t, err1)
	require.NoError(t, err2)

	c1, err := ti.Parse(token1)
	require.NoError(t, err)
	c2, err := ti.Parse(token2)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.NotEqual(t, token1, token2)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("User#123")
	require.NoError(t, err)
	assert.NotEqual(t, "User#123", hash)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, "User#123"))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "user#123"))
	})

	t.Run("different hash each time", func(t *testing.T) {
		hash2, err := HashPassword("User#123")
		require.NoError(t, err)
		assert.NotEqual(t, hash, hash2)
		assert.True(t, VerifyPassword(hash2, "User#123"))
	})
}
