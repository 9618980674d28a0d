package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// DefaultDisplayName is used when the identity token carries no name claim.
const DefaultDisplayName = "Usuario"

var ErrInvalidCredential = errors.New("invalid Google credential")

// Identity is the verified claim set extracted from an identity token.
type Identity struct {
	Email   string
	Name    string
	Subject string
}

// Verifier validates an externally issued identity token and extracts the
// verified identity claims.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifierConfig configures a GoogleVerifier.
type GoogleVerifierConfig struct {
	ClientID string

	// Overridable for tests.
	TokenInfoURL string
	HTTPClient   *http.Client
}

// GoogleVerifier validates Google ID tokens through the tokeninfo endpoint,
// which checks the token signature against Google's current public keys.
// Audience and expiry are checked locally against the configured client ID.
type GoogleVerifier struct {
	config GoogleVerifierConfig
	now    func() time.Time
}

// NewGoogleVerifier creates a GoogleVerifier.
func NewGoogleVerifier(config GoogleVerifierConfig) *GoogleVerifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultTokenInfoURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &GoogleVerifier{config: config, now: time.Now}
}

// tokenInfoResponse is the subset of the tokeninfo payload we consume.
// Numeric fields arrive as strings.
type tokenInfoResponse struct {
	Aud   string `json:"aud"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Exp   string `json:"exp"`
}

// Verify checks an ID token and returns the verified identity. Every failure
// mode maps to ErrInvalidCredential: the caller must reject the login and
// must not touch any user record.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidCredential
	}

	endpoint := v.config.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidCredential, err)
	}

	resp, err := v.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo request failed: %v", ErrInvalidCredential, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read tokeninfo response: %v", ErrInvalidCredential, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tokeninfo returned status %d", ErrInvalidCredential, resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: malformed tokeninfo response: %v", ErrInvalidCredential, err)
	}

	if info.Aud != v.config.ClientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidCredential)
	}

	exp, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed expiry claim", ErrInvalidCredential)
	}
	if !v.now().Before(time.Unix(exp, 0)) {
		return nil, fmt.Errorf("%w: token has expired", ErrInvalidCredential)
	}

	if info.Email == "" || info.Sub == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidCredential)
	}

	name := info.Name
	if name == "" {
		name = DefaultDisplayName
	}

	return &Identity{
		Email:   info.Email,
		Name:    name,
		Subject: info.Sub,
	}, nil
}

// compile-time interface check
var _ Verifier = (*GoogleVerifier)(nil)
