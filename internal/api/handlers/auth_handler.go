package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/referral-api/internal/auth"
	"github.com/lmoretti/referral-api/internal/models"
	"github.com/lmoretti/referral-api/internal/services"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles the OAuth2 password-grant style login: a form-encoded
// username/password pair exchanged for a bearer token. Bad credentials get
// one undifferentiated 401 regardless of which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			log.Error().Err(err).Msg("Store failure during authentication")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		log.Warn().Str("email", email).Msg("Failed authentication attempt")
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Incorrect mail or password")
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.ReferralCode)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "This email is already registered!")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "Registration failed due to a database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Registration Successful! Your unique ID is: %d", id),
	})
}
