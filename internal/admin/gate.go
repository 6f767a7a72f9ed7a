package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ms-storefront/internal/config"
)

// ErrRejected is returned for credentials that do not match the configured
// admin pair.
var ErrRejected = errors.New("invalid admin credentials")

// Gate checks the single configured admin credential pair and issues signed,
// expiring session tokens. The token is verified server-side on every admin
// request; there is no client-held "is admin" flag and no server session
// state to clean up on logout.
type Gate struct {
	email    string
	password string
	secret   []byte
	ttl      time.Duration
}

func NewGate(cfg config.AdminConfig) *Gate {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Gate{
		email:    cfg.Email,
		password: cfg.Password,
		secret:   []byte(cfg.TokenSecret),
		ttl:      ttl,
	}
}

// Login exchanges the credential pair for a signed admin token.
func (g *Gate) Login(email, password string) (string, error) {
	if g.password == "" || len(g.secret) == 0 {
		return "", errors.New("admin access is not configured")
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(g.email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !emailOK || !passwordOK {
		return "", ErrRejected
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  g.email,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(g.ttl).Unix(),
	})
	return token.SignedString(g.secret)
}

// Verify validates an admin token's signature, expiry and role claim.
func (g *Gate) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid admin token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid admin token claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("token does not carry the admin role")
	}
	return nil
}

// Middleware guards admin routes with a bearer admin token.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "admin authorization required", http.StatusUnauthorized)
			return
		}
		if err := g.Verify(parts[1]); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
