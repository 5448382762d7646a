package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "pet-pal-app"
	audience = "pet-pal-users"
)

var (
	ErrInvalid = errors.New("invalid token")
)

// Claims es la identidad que viaja dentro del bearer token.
type Claims struct {
	Email string
	Role  string
	Name  string
}

// New firma un HS256 con la identidad del usuario. Sin exp: el backend
// original emitía tokens que no vencen, y el cliente no tiene refresh.
func New(secret string, c Claims) (string, error) {
	claims := jwt.MapClaims{
		"email": c.Email,
		"role":  c.Role,
		"name":  c.Name,
		"iss":   issuer,
		"aud":   audience,
		"iat":   time.Now().UTC().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifica firma, issuer y audience, y devuelve la identidad.
func Parse(secret, raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrInvalid
	}

	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalid
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}

	c := Claims{
		Email: stringClaim(mc, "email"),
		Role:  stringClaim(mc, "role"),
		Name:  stringClaim(mc, "name"),
	}
	if c.Email == "" {
		return Claims{}, ErrInvalid
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return strings.TrimSpace(v)
}
