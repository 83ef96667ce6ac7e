package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"local-market/internal/data/entity"
	"local-market/pkg/token"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVerifier is satisfied by *token.Issuer.
type TokenVerifier interface {
	VerifyAccess(raw string) (*token.Claims, error)
	VerifyRefresh(raw string) (*token.Claims, error)
}

// RoleAuthorizer is satisfied by usecase.RoleGuard.
type RoleAuthorizer interface {
	Authorize(ctx context.Context, userID uuid.UUID, required []entity.UserRole) bool
}

// AuthAccess requires a valid access token from the access_token cookie or,
// failing that, an Authorization bearer header.
func AuthAccess(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractToken(r, utils.AccessTokenCookie)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing access token")
				return
			}

			claims, err := verifier.VerifyAccess(raw)
			if err != nil {
				if errors.Is(err, token.ErrTokenExpired) {
					utils.ResponseUnauthorized(w, "Access token expired")
					return
				}
				logger.Warn("Invalid access token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid access token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.ID, claims.Email, string(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthRefresh accepts a refresh token the same way and keeps the raw value in
// the request context for the rotation check. Any failure is a 403.
func AuthRefresh(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractToken(r, utils.RefreshTokenCookie)
			if !ok {
				utils.ResponseForbidden(w, "Access Denied")
				return
			}

			claims, err := verifier.VerifyRefresh(raw)
			if err != nil {
				logger.Warn("Invalid refresh token", zap.Error(err))
				utils.ResponseForbidden(w, "Access Denied")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.ID, claims.Email, string(claims.Role))
			ctx = utils.SetRefreshTokenContext(ctx, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles must run after AuthAccess. With no roles it only checks that
// a caller is present.
func RequireRoles(guard RoleAuthorizer, logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !guard.Authorize(r.Context(), userID, roles) {
				logger.Warn("Role check denied",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Forbidden resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request, cookieName string) (string, bool) {
	if v, ok := utils.CookieValue(r, cookieName); ok {
		return v, true
	}

	raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return "", false
	}
	return raw, true
}
