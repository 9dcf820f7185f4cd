package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ortoclub/platform-api/internal/config"
)

// IdentityClaims are the claims of a token issued by the external identity
// provider. Subject carries the provider-side user id; cpf is the viewer
// document the provider collected at registration, used for the playback
// watermark.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	CPF   string `json:"cpf,omitempty"`
	jwt.RegisteredClaims
}

// APIClaims are the claims of the backend-scoped token minted by this
// service after a successful session exchange.
type APIClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// VerifyIdentityToken validates a token from the identity provider against
// the configured secret, issuer and audience. Any failure, including an
// empty subject, means unauthenticated; there is no anonymous-but-allowed
// outcome.
func VerifyIdentityToken(tokenString string, cfg *config.Config) (*IdentityClaims, error) {
	claims := &IdentityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Auth.IdentitySecret), nil
	},
		jwt.WithIssuer(cfg.Auth.IdentityIssuer),
		jwt.WithAudience(cfg.Auth.IdentityAudience),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("identity token has no subject")
	}

	return claims, nil
}

// GenerateAPIToken mints the backend-scoped token with the fixed
// issuer/audience pair the API's own middleware verifies.
func GenerateAPIToken(userID uuid.UUID, cfg *config.Config) (string, error) {
	expirationTime := time.Now().Add(time.Duration(cfg.Auth.APITokenHours) * time.Hour)

	claims := &APIClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    cfg.Auth.APIIssuer,
			Audience:  jwt.ClaimStrings{cfg.Auth.APIAudience},
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.Auth.APISecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateAPIToken validates a backend-scoped token and returns its claims.
func ValidateAPIToken(tokenString string, cfg *config.Config) (*APIClaims, error) {
	claims := &APIClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Auth.APISecret), nil
	},
		jwt.WithIssuer(cfg.Auth.APIIssuer),
		jwt.WithAudience(cfg.Auth.APIAudience),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCouponCode uppercases and trims a coupon code so uniqueness is
// case-insensitive per tenant.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
