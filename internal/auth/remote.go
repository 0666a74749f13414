package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteVerifier asks the identity provider who a token belongs to.
type RemoteVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemoteVerifier(baseURL, apiKey string, client *http.Client) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteVerifier{baseURL: baseURL, apiKey: apiKey, client: client}
}

type remoteUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

// Verify calls GET /auth/v1/user. Any non-200 answer means the token is
// not accepted; transport failures are returned as plain errors.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: identity provider answered %d", ErrUnauthenticated, resp.StatusCode)
	}

	var u remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return Identity{}, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return Identity{}, fmt.Errorf("%w: user has no id", ErrUnauthenticated)
	}
	return Identity{UserID: u.ID, Email: u.Email, FullName: u.UserMetadata.FullName}, nil
}
