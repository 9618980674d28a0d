package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/resenas-io/resenas/internal/models"
)

type googleLoginRequest struct {
	Token string `json:"token"`
}

type googleLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Email       string `json:"email"`
}

// GoogleLoginHandler verifies a Google ID token, creates the user on first
// login and issues a session token.
func (api *Api) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := api.Deps.Verifier.Verify(r.Context(), req.Token)
	if err != nil {
		// No user record is created or touched on a failed verification.
		http.Error(w, "Invalid Google token", http.StatusUnauthorized)
		return
	}

	user := &models.User{
		Email:     identity.Email,
		Name:      identity.Name,
		GoogleID:  identity.Subject,
		CreatedAt: time.Now(),
	}
	if err := api.Deps.Users.EnsureUser(r.Context(), user); err != nil {
		http.Error(w, "Failed to store user", http.StatusInternalServerError)
		return
	}

	tokenString, err := api.Deps.Tokens.Generate(identity.Email, identity.Name)
	if err != nil {
		http.Error(w, "Failed to create session token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, googleLoginResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		Email:       identity.Email,
	})
}
