package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrAuth marks a failure to obtain a bearer credential. Handlers treat it as
// fatal to the current pass.
var ErrAuth = errors.New("authentication with catalogue provider failed")

const tokenExpirySkew = 30 * time.Second

// TokenSource fetches and caches a client-credentials bearer token.
// The token is reused across calls until shortly before its expiry, then
// transparently refetched. Safe for concurrent use.
type TokenSource struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

const authDefaultURL = "https://test.api.amadeus.com/v1/security/oauth2/token"

// NewTokenSource constructs a TokenSource using the production auth endpoint.
func NewTokenSource(clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      authDefaultURL,
		client:       newHTTPClient(),
	}
}

// NewTokenSourceWithURL constructs a TokenSource pointing at a custom auth
// endpoint (for tests).
func NewTokenSourceWithURL(baseURL, clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		client:       newHTTPClient(),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid bearer token, fetching a fresh one when the cached
// credential is absent or expired. Failures wrap ErrAuth and are not retried.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires) {
		return s.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: creating token request: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned status %d", ErrAuth, resp.StatusCode)
	}

	var raw tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrAuth, err)
	}
	if raw.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned empty token", ErrAuth)
	}

	s.token = raw.AccessToken
	s.expires = time.Now().Add(time.Duration(raw.ExpiresIn)*time.Second - tokenExpirySkew)

	return s.token, nil
}
