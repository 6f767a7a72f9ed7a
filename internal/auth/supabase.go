package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ms-storefront/internal/config"
	"ms-storefront/internal/models"
)

// ProviderError carries the auth provider's own status and message so
// handlers can surface the provider's reason verbatim.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// SupabaseClient talks to the hosted auth/database service: the auth API for
// identities and sessions, the REST API for profile rows.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	client     *http.Client
}

func NewSupabaseClient(cfg config.SupabaseConfig, client *http.Client) *SupabaseClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &SupabaseClient{
		baseURL:    cfg.URL,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		client:     client,
	}
}

// SignInWithPassword performs the password grant and returns the provider
// session. Provider rejections come back as *ProviderError.
func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(resp)
	}

	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return &session, nil
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata"`
}

// AdminCreateUser creates a pre-verified identity with name/phone attached as
// account metadata. Requires the service role key.
func (c *SupabaseClient) AdminCreateUser(ctx context.Context, email, password, name, phone string) (*models.AuthUser, error) {
	metadata := map[string]string{"name": name}
	if phone != "" {
		metadata["phone"] = phone
	}
	body, _ := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: metadata,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/admin/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAdminHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, providerError(resp)
	}

	var user models.AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

type generateLinkResponse struct {
	Properties struct {
		AccessToken string `json:"access_token"`
	} `json:"properties"`
}

// GenerateSignupLink issues a sign-in artifact for a freshly created account
// and returns its access token. No refresh token exists for this artifact.
func (c *SupabaseClient) GenerateSignupLink(ctx context.Context, email string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"type":  "signup",
		"email": email,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/admin/generate_link", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setAdminHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", providerError(resp)
	}

	var link generateLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", fmt.Errorf("failed to decode link response: %w", err)
	}
	return link.Properties.AccessToken, nil
}

// GetProfile fetches exactly one profile row by identity id.
func (c *SupabaseClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	url := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&limit=1", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAdminHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(resp)
	}

	var rows []models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("expected one profile row for user %s, got %d", userID, len(rows))
	}
	return &rows[0], nil
}

// UpdateProfilePhone patches the phone field of one profile row.
func (c *SupabaseClient) UpdateProfilePhone(ctx context.Context, userID, phone string) error {
	body, _ := json.Marshal(map[string]string{"phone": phone})

	url := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAdminHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("profile store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return providerError(resp)
	}
	return nil
}

func (c *SupabaseClient) setAdminHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

// providerError extracts the provider's own error message from common GoTrue
// and PostgREST response shapes.
func providerError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Err              string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		case payload.Msg != "":
			message = payload.Msg
		case payload.Message != "":
			message = payload.Message
		case payload.Err != "":
			message = payload.Err
		}
	}
	if message == "" {
		message = fmt.Sprintf("auth provider returned status %d", resp.StatusCode)
	}
	return &ProviderError{Status: resp.StatusCode, Message: message}
}
