package checkout

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie is the client-side handle to the checkout intent slot. It is
// deliberately separate from the auth session: browsing and selecting tickets
// does not require being signed in.
const SessionCookie = "checkout_session"

// SessionFromRequest returns the checkout session id carried by the request,
// if any.
func SessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// EnsureSession returns the request's checkout session id, minting and
// setting a new one when absent.
func EnsureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := SessionFromRequest(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	return id
}
