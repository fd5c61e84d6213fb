package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// MintToken issues an HS256 JWT for the user: sub, role and email claims,
// expiring after cfg.TTL.
func MintToken(cfg TokenConfig, u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   cfg.Issuer,
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(cfg.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken validates the signature, issuer and expiry, and returns the
// caller identity.
func ParseToken(cfg TokenConfig, raw string) (*Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if cfg.Issuer != "" && claims["iss"] != cfg.Issuer {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}
	id := &Identity{UserID: int64(sub)}
	if s, ok := claims["email"].(string); ok {
		id.Email = s
	}
	if s, ok := claims["role"].(string); ok {
		id.Role = s
	}
	return id, nil
}
