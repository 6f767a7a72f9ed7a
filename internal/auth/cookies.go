package auth

import (
	"net/http"
	"time"
)

// Session cookie names mirror the hosted provider's conventions.
const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// sessionCookie builds a host-only, transport-secure, script-inaccessible
// cookie scoped to the whole origin.
func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetSessionCookies attaches the access and, when present, refresh cookies to
// the response.
func SetSessionCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, sessionCookie(AccessCookie, accessToken, AccessTokenTTL))
	if refreshToken != "" {
		http.SetCookie(w, sessionCookie(RefreshCookie, refreshToken, RefreshTokenTTL))
	}
}
