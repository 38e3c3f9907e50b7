package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.RegisterInput true "name, email and password"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} AuthErrorResponse "User exists"
// @Failure 422 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	_, token, err := authService.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, TokenResponse{Token: token})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} AuthErrorResponse "Invalid email or password"
// @Failure 429 {object} ErrorResponse
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials LoginRequest
	if err := readJSON(w, r, &credentials); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := authService.Login(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, TokenResponse{Token: token})
}

// LogoutHandler godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	if err := authService.Logout(r.Context(), principal.Claims); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}
