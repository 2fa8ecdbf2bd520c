package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/resto-backoffice/internal/api/middleware"
	"github.com/example/resto-backoffice/internal/auth"
	"github.com/example/resto-backoffice/internal/infrastructure/store"
)

// AuthHandlers handles staff authentication
type AuthHandlers struct {
	staff      store.StaffStore
	jwtService *auth.JWTService
}

func NewAuthHandlers(staff store.StaffStore, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		staff:      staff,
		jwtService: jwtService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffResponse represents staff data in responses
type StaffResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the session token alongside the cookie for API clients
type LoginResponse struct {
	Staff     StaffResponse `json:"staff"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Login authenticates a staff member and opens a session
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, err := h.staff.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrStaffNotFound) {
			respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.Password, member.PasswordHash) {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateSessionToken(member.ID, member.Email, member.Role)
	if err != nil {
		respondJSONError(w, "Failed to open session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, LoginResponse{
		Staff: StaffResponse{
			ID:        member.ID,
			Email:     member.Email,
			Name:      member.Name,
			Role:      member.Role,
			CreatedAt: member.CreatedAt,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// Me returns the authenticated staff member's claims
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetStaffFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	member, err := h.staff.FindByEmail(r.Context(), claims.Email)
	if err != nil {
		respondJSONError(w, "Staff member not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, StaffResponse{
		ID:        member.ID,
		Email:     member.Email,
		Name:      member.Name,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	})
}
