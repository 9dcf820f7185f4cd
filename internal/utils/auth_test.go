package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortoclub/platform-api/internal/config"
)

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			IdentitySecret:   "identity-secret",
			IdentityIssuer:   "https://accounts.example.com",
			IdentityAudience: "platform-api",
			APISecret:        "api-secret",
			APIIssuer:        "platform-api",
			APIAudience:      "content-api",
			APITokenHours:    24,
		},
	}
}

func signIdentityToken(t *testing.T, cfg *config.Config, mutate func(*IdentityClaims)) string {
	t.Helper()

	claims := &IdentityClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		CPF:   "52998224725",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-user-1",
			Issuer:    cfg.Auth.IdentityIssuer,
			Audience:  jwt.ClaimStrings{cfg.Auth.IdentityAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if mutate != nil {
		mutate(claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.IdentitySecret))
	require.NoError(t, err)
	return token
}

func TestVerifyIdentityToken(t *testing.T) {
	cfg := authTestConfig()

	claims, err := VerifyIdentityToken(signIdentityToken(t, cfg, nil), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ext-user-1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "52998224725", claims.CPF)
}

func TestVerifyIdentityTokenRejectsWrongIssuer(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, func(c *IdentityClaims) {
		c.Issuer = "https://evil.example.com"
	})

	_, err := VerifyIdentityToken(token, cfg)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenRejectsWrongAudience(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, func(c *IdentityClaims) {
		c.Audience = jwt.ClaimStrings{"other-api"}
	})

	_, err := VerifyIdentityToken(token, cfg)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenRejectsEmptySubject(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, func(c *IdentityClaims) {
		c.Subject = "  "
	})

	_, err := VerifyIdentityToken(token, cfg)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenRejectsExpired(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, func(c *IdentityClaims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})

	_, err := VerifyIdentityToken(token, cfg)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenRejectsWrongSecret(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, nil)

	other := authTestConfig()
	other.Auth.IdentitySecret = "different-secret"

	_, err := VerifyIdentityToken(token, other)
	assert.Error(t, err)
}

func TestAPITokenRoundTrip(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()

	token, err := GenerateAPIToken(userID, cfg)
	require.NoError(t, err)

	claims, err := ValidateAPIToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, cfg.Auth.APIIssuer, claims.Issuer)
}

// An identity token must never pass as an API token even though both are
// HMAC-signed; the secrets and issuer/audience pairs differ.
func TestIdentityTokenRejectedByAPIValidation(t *testing.T) {
	cfg := authTestConfig()
	token := signIdentityToken(t, cfg, nil)

	_, err := ValidateAPIToken(token, cfg)
	assert.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "LAUNCH50", NormalizeCouponCode(" launch50 "))
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Trauma do Joelho", "trauma-do-joelho"},
		{"  Modulo_1: Basico  ", "modulo-1-basico"},
		{"---", ""},
		{"Coluna -- Avancado", "coluna-avancado"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSlug(tt.in), tt.in)
	}
}
