package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"local-market/internal/dto/request"
	"local-market/internal/usecase"
	"local-market/pkg/token"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	pair       *token.Pair
	err        error
	loggedOut  []uuid.UUID
	refreshed  string
	signupSeen *request.SignupRequest
}

func (f *fakeAuthService) Signup(_ context.Context, req *request.SignupRequest) (*token.Pair, error) {
	f.signupSeen = req
	return f.pair, f.err
}

func (f *fakeAuthService) Signin(context.Context, *request.SigninRequest) (*token.Pair, error) {
	return f.pair, f.err
}

func (f *fakeAuthService) Logout(_ context.Context, userID uuid.UUID) error {
	f.loggedOut = append(f.loggedOut, userID)
	return f.err
}

func (f *fakeAuthService) RefreshTokens(_ context.Context, _ uuid.UUID, rt string) (*token.Pair, error) {
	f.refreshed = rt
	return f.pair, f.err
}

func newAuthHandler(svc usecase.AuthService) *AuthHandler {
	return NewAuthHandler(svc, utils.CookieConfig{MaxAge: 600}, zap.NewNop())
}

func cookieMap(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSignin_SetsCookies(t *testing.T) {
	svc := &fakeAuthService{pair: &token.Pair{AccessToken: "at", RefreshToken: "rt"}}
	h := newAuthHandler(svc)

	r := httptest.NewRequest(http.MethodPost, "/auth/signin",
		strings.NewReader(`{"email":"a@example.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h.Signin(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := cookieMap(rec)
	assert.Equal(t, "at", cookies[utils.AccessTokenCookie].Value)
	assert.Equal(t, "rt", cookies[utils.RefreshTokenCookie].Value)
	assert.Equal(t, 600, cookies[utils.AccessTokenCookie].MaxAge)

	body := decodeBody(t, rec)
	assert.True(t, body.Status)
	assert.Equal(t, "Signin successful", body.Message)
}

func TestSignin_Denied(t *testing.T) {
	h := newAuthHandler(&fakeAuthService{err: usecase.ErrAuth})

	r := httptest.NewRequest(http.MethodPost, "/auth/signin",
		strings.NewReader(`{"email":"a@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Signin(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access Denied", decodeBody(t, rec).Message)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "created",
			body:     `{"email":"a@example.com","name":"Ana","password":"s3cret","role":"ADMIN"}`,
			wantCode: http.StatusCreated,
			wantMsg:  "User created successfully",
		},
		{
			name:     "email taken",
			body:     `{"email":"a@example.com","name":"Ana","password":"s3cret","role":"ADMIN"}`,
			err:      fmt.Errorf("%w: email a@example.com", usecase.ErrConflict),
			wantCode: http.StatusForbidden,
			wantMsg:  "Credentials taken",
		},
		{
			name:     "client without cep",
			body:     `{"email":"c@example.com","name":"Caio","password":"s3cret","role":"CLIENT"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Validation failed",
		},
		{
			name:     "malformed json",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "unexpected failure",
			body:     `{"email":"a@example.com","name":"Ana","password":"s3cret","role":"ADMIN"}`,
			err:      fmt.Errorf("insert: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{pair: &token.Pair{AccessToken: "at", RefreshToken: "rt"}, err: tt.err}
			h := newAuthHandler(svc)

			rec := httptest.NewRecorder()
			h.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Message)
			if tt.wantCode == http.StatusCreated {
				assert.Len(t, rec.Result().Cookies(), 2)
			}
		})
	}
}

func TestLogout_ClearsCookies(t *testing.T) {
	svc := &fakeAuthService{}
	h := newAuthHandler(svc)
	userID := uuid.New()

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r = r.WithContext(utils.SetUserContext(r.Context(), userID, "a@example.com", "CLIENT"))
	rec := httptest.NewRecorder()
	h.Logout(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{userID}, svc.loggedOut)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRefresh(t *testing.T) {
	t.Run("rotates", func(t *testing.T) {
		svc := &fakeAuthService{pair: &token.Pair{AccessToken: "at2", RefreshToken: "rt2"}}
		h := newAuthHandler(svc)

		r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		ctx := utils.SetUserContext(r.Context(), uuid.New(), "a@example.com", "CLIENT")
		r = r.WithContext(utils.SetRefreshTokenContext(ctx, "rt1"))
		rec := httptest.NewRecorder()
		h.Refresh(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "rt1", svc.refreshed)
		assert.Equal(t, "rt2", cookieMap(rec)[utils.RefreshTokenCookie].Value)
	})

	t.Run("no refresh context", func(t *testing.T) {
		svc := &fakeAuthService{}
		h := newAuthHandler(svc)

		rec := httptest.NewRecorder()
		h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, svc.refreshed)
	})

	t.Run("stale token", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthService{err: usecase.ErrAuth})

		r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		ctx := utils.SetUserContext(r.Context(), uuid.New(), "a@example.com", "CLIENT")
		r = r.WithContext(utils.SetRefreshTokenContext(ctx, "old"))
		rec := httptest.NewRecorder()
		h.Refresh(rec, r)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Access Denied", decodeBody(t, rec).Message)
	})
}

func TestLogout_StorageFailureStillClearsCookies(t *testing.T) {
	h := newAuthHandler(&fakeAuthService{err: fmt.Errorf("update users: connection reset")})

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r = r.WithContext(utils.SetUserContext(r.Context(), uuid.New(), "a@example.com", "CLIENT"))
	rec := httptest.NewRecorder()
	h.Logout(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, -1, cookieMap(rec)[utils.AccessTokenCookie].MaxAge)
}
