package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ecoTrackAPI/internal/user"
	"ecoTrackAPI/middleware"
	"ecoTrackAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetOrCreateProfile is hit right after sign-in; the identity fields come
// from the verified token, not the request body.
func (h *UserHandler) GetOrCreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	email, _ := middleware.GetEmail(ctx)
	displayName, _ := middleware.GetDisplayName(ctx)

	// The body may override the cosmetic fields only.
	var body struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.DisplayName != "" {
		displayName = body.DisplayName
	}

	req := &user.GetOrCreateProfileRequest{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    body.PhotoURL,
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid profile fields")
		return
	}

	profile, err := h.userService.GetOrCreateProfile(ctx, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.userService.GetByUserID(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	badges, err := h.userService.GetBadges(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, badges)
}
