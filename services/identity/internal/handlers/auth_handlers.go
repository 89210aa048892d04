package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/voyago/travelbook/pkg/response"
	"github.com/voyago/travelbook/services/identity/internal/domain"
)

const bearerPrefix = "Bearer "

// Register handles user registration.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	user, err := h.identity.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"email":   user.Email,
	})
}

// Login authenticates a user and returns a signed token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	resp, err := h.identity.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ForgotPassword generates a single-use reset token and hands it to the
// mailer. The token is echoed in the response for development flows.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	resetToken, err := h.identity.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message":    "Password reset link sent",
		"resetToken": resetToken,
	})
}

// ResetPassword consumes a reset token and writes a new password.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	email, err := h.identity.ResetPassword(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
		"email":   email,
	})
}

// ChangePassword rewrites the password of an authenticated user.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if err := h.identity.ChangePassword(r.Context(), &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
		"email":   req.Email,
	})
}

// Logout blacklists the presented token unconditionally.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		response.BadRequest(w, "Invalid or missing token")
		return
	}

	tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
	if err := h.identity.Logout(r.Context(), tokenString); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
