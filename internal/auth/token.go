// Package auth issues and verifies bearer tokens and decides which role may
// perform which operation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"swiftlink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a verified token tells us about the caller.
type Claims struct {
	UserID domain.ID
	Role   domain.Role
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(userID domain.ID, role domain.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(userID),
		"role":    string(role),
		"exp":     t.now().Add(t.ttl).Unix(),
	})
	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry and returns the caller identity.
func (t *TokenIssuer) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token claims"}
	}
	uid, ok := mc["user_id"].(float64)
	if !ok || uid <= 0 {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token claims", Err: errors.New("user_id missing")}
	}
	roleStr, _ := mc["role"].(string)
	role, ok := domain.ParseRole(roleStr)
	if !ok {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token claims", Err: errors.New("unknown role")}
	}
	return Claims{UserID: domain.ID(int64(uid)), Role: role}, nil
}
