package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/referral-api/internal/models"
	"github.com/lmoretti/referral-api/internal/services"
)

// UserHandler handles HTTP requests for profile and referral queries. Both
// routes sit behind the session guard; the guard has already resolved the
// caller by the time these run.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetDetails handles retrieving a user's profile by id.
func (h *UserHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user.NewProfile())
}

// GetReferralDetails lists the users referred by the given code, paginated.
// An empty result is a 404, matching the lookup contract; only a genuine
// store fault is a 500.
func (h *UserHandler) GetReferralDetails(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("referral_code")
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	users, err := h.service.GetUsersByReferralCode(r.Context(), code, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("referral_code", code).Msg("Failed to get users by referral code")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(users) == 0 {
		writeError(w, http.StatusNotFound, "At this moment, no users have utilized your referral code for referrals.")
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.NewProfile())
	}
	writeJSON(w, http.StatusOK, profiles)
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
