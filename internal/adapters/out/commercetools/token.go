package commercetools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pizzatools/internal/pkg/errs"
)

// tokenRefreshBuffer is how long before expiry a token is refreshed. Platform
// tokens live for hours; refreshing early keeps in-flight requests from ever
// racing an expiry.
const tokenRefreshBuffer = 5 * time.Minute

// TokenProvider supplies a bearer token for platform API calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSource implements the client-credentials flow against the platform
// auth service. The current token is cached under a mutex and refreshed
// before it expires; there are no package-level singletons, each client owns
// its source.
type TokenSource struct {
	httpClient   *http.Client
	authURL      string
	clientID     string
	clientSecret string
	scopes       string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a token source for the given auth endpoint and
// client credentials. A nil httpClient falls back to http.DefaultClient.
func NewTokenSource(httpClient *http.Client, authURL, clientID, clientSecret, scopes string) *TokenSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenSource{
		httpClient:   httpClient,
		authURL:      strings.TrimRight(authURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       scopes,
	}
}

// Token returns a valid bearer token, requesting a fresh one when the cached
// token is absent or inside the refresh buffer.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Until(s.expiresAt) > tokenRefreshBuffer {
		return s.token, nil
	}

	token, expiresIn, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return s.token, nil
}

func (s *TokenSource) fetch(ctx context.Context) (string, int64, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	if s.scopes != "" {
		form.Set("scope", s.scopes)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.authURL+"/oauth/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, errs.NewTransientNetworkError("auth token request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("auth token request failed with status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("auth token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", 0, fmt.Errorf("auth token response carried no token")
	}

	return body.AccessToken, body.ExpiresIn, nil
}

// StaticToken is a TokenProvider returning a fixed token, used in tests.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
