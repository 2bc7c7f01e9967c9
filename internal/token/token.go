package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
)

// TTL is the only invalidation path for a session token; there is no
// revocation list.
const TTL = 7 * 24 * time.Hour

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

func (i *Identity) IsAdmin() bool { return i.Role == "admin" }

func Sign(userID uint, email, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(TTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func Parse(raw string, secret []byte) (*Identity, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return nil, apperr.New(apperr.ErrAuthInvalid, "invalid or expired token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.ErrAuthInvalid, "invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, apperr.New(apperr.ErrAuthInvalid, "invalid subject claim")
	}
	email, _ := claims["email"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return nil, apperr.New(apperr.ErrAuthInvalid, "invalid role claim")
	}

	return &Identity{UserID: uint(sub), Email: email, Role: role}, nil
}

// FromRequest extracts and verifies the bearer token. A missing credential
// and a bad credential are distinct error kinds (401 vs 403).
func FromRequest(r *http.Request, secret []byte) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperr.New(apperr.ErrAuthRequired, "authentication required")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header || raw == "" {
		return nil, apperr.New(apperr.ErrAuthRequired, "authentication required")
	}
	return Parse(raw, secret)
}
