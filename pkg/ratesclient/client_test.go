package ratesclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal stand-in for the server. It accepts one access
// token at a time and can rotate it through the refresh endpoint.
type fakeAPI struct {
	validAccess   atomic.Value
	validRefresh  atomic.Value
	refreshCalls  atomic.Int32
	ratesCalls    atomic.Int32
	refuseRefresh atomic.Bool
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{}
	api.validAccess.Store("access-1")
	api.validRefresh.Store("refresh-1")

	return api
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":        f.validAccess.Load(),
			"refreshToken": f.validRefresh.Load(),
			"user":         map[string]any{"id": 1, "email": "admin@rsconstruction.shop", "role": "admin"},
		})
	})

	mux.HandleFunc("/api/v1/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)

		if f.refuseRefresh.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"status_code": 401, "error": "invalid token"})

			return
		}

		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != f.validRefresh.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"status_code": 401, "error": "invalid token"})

			return
		}

		f.validAccess.Store("access-2")
		f.validRefresh.Store("refresh-2")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":        "access-2",
			"refreshToken": "refresh-2",
		})
	})

	mux.HandleFunc("/api/v1/admin/daily-rates", func(w http.ResponseWriter, r *http.Request) {
		f.ratesCalls.Add(1)

		if r.Header.Get("Authorization") != "Bearer "+f.validAccess.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"status_code": 401, "error": "invalid token"})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"rates": []map[string]any{{"id": 1, "materialName": "OPC Cement", "currentPrice": 420}},
			"stats": map[string]any{"totalMaterials": 1},
		})
	})

	return mux
}

func TestClient_LoginStoresTokens(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL)

	user, err := c.Login(context.Background(), "admin@rsconstruction.shop", "passw0rd123")
	require.NoError(t, err)
	assert.Equal(t, "admin@rsconstruction.shop", user.Email)
	assert.Equal(t, "access-1", c.TokenStore().AccessToken())
	assert.Equal(t, "refresh-1", c.TokenStore().RefreshToken())
}

func TestClient_RefreshesOnceOn401(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "admin@rsconstruction.shop", "passw0rd123")
	require.NoError(t, err)

	// Expire the access token server-side; the stored refresh token stays good.
	api.validAccess.Store("access-rotated")

	page, err := c.ListRates(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Rates, 1)
	assert.Equal(t, "OPC Cement", page.Rates[0].MaterialName)

	// One 401, one refresh, one retry.
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, int32(2), api.ratesCalls.Load())
	assert.Equal(t, "access-2", c.TokenStore().AccessToken())
	assert.Equal(t, "refresh-2", c.TokenStore().RefreshToken())
}

func TestClient_FailedRefreshExpiresSession(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	expired := false
	c := New(srv.URL, WithSessionExpiredHook(func() { expired = true }))

	_, err := c.Login(context.Background(), "admin@rsconstruction.shop", "passw0rd123")
	require.NoError(t, err)

	// Both tokens are now worthless.
	api.validAccess.Store("access-rotated")
	api.refuseRefresh.Store(true)

	_, err = c.ListRates(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.True(t, expired)
	assert.Empty(t, c.TokenStore().AccessToken())
	assert.Empty(t, c.TokenStore().RefreshToken())

	// The retry never happened.
	assert.Equal(t, int32(1), api.ratesCalls.Load())
}

func TestClient_NoRefreshWithoutToken(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.ListRates(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestClient_APIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"status_code": 403, "error": "user 2 is not an admin"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.TokenStore().SetTokens("some-access", "some-refresh")

	_, err := c.ListRates(context.Background(), ListOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "user 2 is not an admin", apiErr.Message)
}
