package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rosterd/rosterd/internal/handler/dto"
	"github.com/rosterd/rosterd/internal/service"
)

// Generic client-facing auth messages. Each operation has exactly one
// failure message so responses never reveal which internal check failed.
const (
	msgEmailExists        = "email already exists"
	msgInvalidCredentials = "invalid credentials"
	msgFederationFailed   = "federated login failed"
	msgInvalidBody        = "invalid request body"
	msgInternalError      = "internal error"
)

// AuthHandler handles signup, login, and federated login endpoints.
type AuthHandler struct {
	logger *slog.Logger
	svc    *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *slog.Logger, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		svc:    svc,
	}
}

// Signup handles POST /signup.
// Responds with a confirmation only; no session token is issued here.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	if err := h.svc.SignUp(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgEmailExists})
			return
		}
		h.logger.Error("signup failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "user created"})
}

// Login handles POST /login.
// An unknown email and a wrong password yield byte-identical responses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: msgInvalidCredentials})
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: result.Token, Name: result.Name})
}

// FederatedLogin handles POST /federated-login.
func (h *AuthHandler) FederatedLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.FederatedLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgFederationFailed})
		return
	}

	result, err := h.svc.FederatedLogin(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrFederationFailed) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgFederationFailed})
			return
		}
		h.logger.Error("federated login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: result.Token, Name: result.Name})
}
