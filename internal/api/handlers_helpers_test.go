package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/resenas-io/resenas/internal/auth"
	"github.com/resenas-io/resenas/internal/config"
	"github.com/resenas-io/resenas/internal/store"
)

// stubVerifier accepts every token with a fixed identity, or rejects all.
type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (s *stubVerifier) Verify(ctx context.Context, idToken string) (*auth.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

// stubImageStore counts uploads and can be made to fail at a given call
// (1-based). Returned URLs embed the original filename so tests can check
// upload order.
type stubImageStore struct {
	mu     sync.Mutex
	calls  int
	failAt int
}

func (s *stubImageStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failAt > 0 && s.calls >= s.failAt {
		return "", fmt.Errorf("upload rejected")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}

	return "https://cdn.example.test/reviews/" + filename, nil
}

func (s *stubImageStore) uploadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubGeocoder returns fixed coordinates.
type stubGeocoder struct {
	lat, lon float64
}

func (s *stubGeocoder) Lookup(ctx context.Context, address string) (float64, float64) {
	return s.lat, s.lon
}

type testEnv struct {
	api    *Api
	store  *store.Memory
	tokens *auth.TokenManager
	images *stubImageStore
}

func setupTestAPI(t *testing.T, verifier auth.Verifier, images *stubImageStore, geo Geocoder) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	mem := store.NewMemory()
	cfg := config.Config{APIPort: 8000}

	apiInstance, err := NewApi(cfg, Deps{
		Verifier: verifier,
		Tokens:   tokens,
		Users:    mem,
		Reviews:  mem,
		Images:   images,
		Geocoder: geo,
	})
	require.NoError(t, err)

	return &testEnv{
		api:    apiInstance,
		store:  mem,
		tokens: tokens,
		images: images,
	}
}

// sessionToken mints a valid session token for a test user.
func (e *testEnv) sessionToken(t *testing.T, email, name string) string {
	t.Helper()
	token, err := e.tokens.Generate(email, name)
	require.NoError(t, err)
	return token
}

// expiredSessionToken mints a token that is already past its expiry.
func expiredSessionToken(t *testing.T, email string) string {
	t.Helper()
	expired, err := auth.NewTokenManager("test-secret", "HS256", -time.Minute)
	require.NoError(t, err)
	token, err := expired.Generate(email, "Ana")
	require.NoError(t, err)
	return token
}

// newCreateReviewRequest builds the multipart POST /reviews request the
// frontend sends: establishment, address, rating plus image files.
func newCreateReviewRequest(t *testing.T, fields map[string]string, fileField string, filenames []string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range filenames {
		fw, err := mw.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.api.Router.ServeHTTP(w, req)
	return w
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
