package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resenas-io/resenas/internal/auth"
)

func TestGoogleLoginHandler(t *testing.T) {
	verifier := &stubVerifier{identity: &auth.Identity{
		Email:   "ana@example.com",
		Name:    "Ana",
		Subject: "g-123",
	}}
	env := setupTestAPI(t, verifier, &stubImageStore{}, &stubGeocoder{})

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/google-login", strings.NewReader(`{"token":"google-id-token"}`))
		w := env.do(req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp["access_token"])
		assert.Equal(t, "bearer", resp["token_type"])
		assert.Equal(t, "ana@example.com", resp["email"])

		// The minted token is accepted by the guard.
		claims, err := env.tokens.Validate(resp["access_token"])
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", claims.Subject)
		assert.Equal(t, "Ana", claims.Name)
	})

	t.Run("UserCreatedOnce", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/google-login", strings.NewReader(`{"token":"google-id-token"}`))
			w := env.do(req)
			require.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 1, env.store.UserCount())
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/google-login", strings.NewReader(`{not json`))
		w := env.do(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGoogleLoginHandlerInvalidCredential(t *testing.T) {
	verifier := &stubVerifier{err: auth.ErrInvalidCredential}
	env := setupTestAPI(t, verifier, &stubImageStore{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodPost, "/google-login", strings.NewReader(`{"token":"bad-token"}`))
	w := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// A rejected login must not create a user record.
	assert.Equal(t, 0, env.store.UserCount())
}

func TestSessionAuthMiddleware(t *testing.T) {
	env := setupTestAPI(t, &stubVerifier{}, &stubImageStore{}, &stubGeocoder{})

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{name: "missing header", authHeader: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc123", wantCode: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-token", wantCode: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expiredSessionToken(t, "ana@example.com"), wantCode: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + env.sessionToken(t, "ana@example.com", "Ana"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := env.do(req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRootAndHeartbeat(t *testing.T) {
	env := setupTestAPI(t, &stubVerifier{}, &stubImageStore{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp["message"])

	req = httptest.NewRequest(http.MethodGet, "/heartbeat", nil)
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var hb map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&hb))
	assert.Equal(t, "ok", hb["status"])
}
