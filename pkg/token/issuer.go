// Package token signs and verifies the access/refresh JWT pair.
package token

import (
	"errors"
	"fmt"
	"time"

	"local-market/internal/data/entity"
	"local-market/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by both tokens.
type Claims struct {
	ID    uuid.UUID       `json:"id"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Pair is never persisted; only a hash of RefreshToken is stored.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(cfg utils.JWTConfig) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// Issue signs two independent tokens with identical identity claims.
// Each token gets its own jti so a rotated refresh token never equals the previous one.
func (i *Issuer) Issue(userID uuid.UUID, email string, role entity.UserRole) (*Pair, error) {
	now := i.now()

	access, err := i.sign(i.accessSecret, i.claims(userID, email, role, now, i.accessTTL))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := i.sign(i.refreshSecret, i.claims(userID, email, role, now, i.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) VerifyAccess(raw string) (*Claims, error) {
	return i.verify(raw, i.accessSecret)
}

func (i *Issuer) VerifyRefresh(raw string) (*Claims, error) {
	return i.verify(raw, i.refreshSecret)
}

func (i *Issuer) claims(userID uuid.UUID, email string, role entity.UserRole, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		ID:    userID,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
}

func (i *Issuer) sign(secret []byte, claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) verify(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !tkn.Valid || claims.ID == uuid.Nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
