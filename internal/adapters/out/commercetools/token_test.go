package commercetools_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pizzatools/internal/adapters/out/commercetools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_Token(t *testing.T) {
	t.Run("requests token with client credentials", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/oauth/token", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "manage_project:demo", r.PostForm.Get("scope"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-1",
				"expires_in":   3600,
			})
		}))
		defer server.Close()

		source := commercetools.NewTokenSource(nil, server.URL, "client-id", "client-secret", "manage_project:demo")

		token, err := source.Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("reuses cached token until the refresh buffer", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-1",
				"expires_in":   3600,
			})
		}))
		defer server.Close()

		source := commercetools.NewTokenSource(nil, server.URL, "id", "secret", "")

		for range 3 {
			token, err := source.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "token-1", token)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("refreshes a token expiring within the buffer", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			n := calls.Add(1)
			// first token expires inside the 5 minute refresh buffer
			expiresIn := 60
			token := "short-lived"
			if n > 1 {
				expiresIn = 3600
				token = "fresh"
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": token,
				"expires_in":   expiresIn,
			})
		}))
		defer server.Close()

		source := commercetools.NewTokenSource(nil, server.URL, "id", "secret", "")

		first, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "short-lived", first)

		second, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", second)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("fails on non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		source := commercetools.NewTokenSource(nil, server.URL, "id", "wrong", "")

		_, err := source.Token(context.Background())

		assert.Error(t, err)
	})
}
