package utils

import (
	"net/http"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetAuthCookies attaches both tokens as httpOnly cookies on path "/".
// Secure stays off so plain-HTTP deployments keep working.
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, maxAge int) {
	cookies := []struct{ name, value string }{
		{AccessTokenCookie, accessToken},
		{RefreshTokenCookie, refreshToken},
	}
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    c.value,
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   false,
		})
	}
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   false,
		})
	}
}

// CookieValue returns the named cookie. A missing or empty cookie is not an
// error, the caller is simply anonymous.
func CookieValue(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
