package adaptor

import (
	"errors"
	"net/http"

	"local-market/internal/dto/request"
	"local-market/internal/dto/response"
	"local-market/internal/usecase"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	cookie  utils.CookieConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, cookie utils.CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	pair, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		// a taken email is reported as 403, like any other credential problem
		if errors.Is(err, usecase.ErrConflict) {
			h.log.Warn("signup failed - email taken")
			utils.ResponseForbidden(w, "Credentials taken")
			return
		}
		handleServiceError(h.log, w, err, "signup")
		return
	}

	utils.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.cookie.MaxAge)
	utils.ResponseCreated(w, "User created successfully", response.TokenToResponse(pair))
}

// Signin handles POST /auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req request.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	pair, err := h.service.Signin(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "signin")
		return
	}

	utils.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.cookie.MaxAge)
	utils.ResponseSuccess(w, "Signin successful", response.TokenToResponse(pair))
}

// Logout handles POST /auth/logout. Cookies are cleared on every outcome,
// including a failed write of the stored hash.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	utils.ClearAuthCookies(w)

	if err := h.service.Logout(r.Context(), userID); err != nil {
		handleServiceError(h.log, w, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "User logged out successfully", nil)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, usecase.ErrAuth.Error())
		return
	}
	refreshToken, ok := utils.GetRefreshTokenFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, usecase.ErrAuth.Error())
		return
	}

	pair, err := h.service.RefreshTokens(r.Context(), userID, refreshToken)
	if err != nil {
		handleServiceError(h.log, w, err, "refresh")
		return
	}

	utils.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.cookie.MaxAge)
	utils.ResponseSuccess(w, "Tokens refreshed", response.TokenToResponse(pair))
}
