package models

// AuthUser is the auth provider's identity record, distinct from Profile.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token pair issued by the auth provider on a password grant.
// ExpiresIn is in seconds.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}
