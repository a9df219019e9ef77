package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "storefront-test"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, expiresAt, err := m.GenerateAccessToken(7, "kim@example.com", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "kim@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestJWTManager_Rejects(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	t.Run("wrong secret: error", func(t *testing.T) {
		other := testConfig()
		other.JWT.Secret = "ffffffffffffffffffffffffffffffff"
		token, _, err := NewJWTManager(other).GenerateAccessToken(1, "a@example.com", false)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired: error", func(t *testing.T) {
		past := NewJWTManager(cfg)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.GenerateAccessToken(1, "a@example.com", false)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm: error", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "a@example.com"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage: error", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("shopping42")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("shopping42", hash))
	assert.Error(t, p.VerifyPassword("shopping43", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantError string
	}{
		{name: "letters and digits: ok", password: "shopping42"},
		{name: "too short: error", password: "ab1", wantError: "password must be at least 8 characters long"},
		{name: "no digit: error", password: "shoppingcart", wantError: "password must contain at least one number"},
		{name: "no letter: error", password: "1234567890", wantError: "password must contain at least one letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
