package handler

import (
	"encoding/json"
	"net/http"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
)

// AuthHandler handles login and registration requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	token, _, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Register creates a user with any role; admin access is enforced by
// the route middleware.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

// RegisterCustomer is the public self-registration path; the role is
// always customer regardless of the request.
func (h *AuthHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, forceCustomer bool) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req, forceCustomer)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, user)
}
