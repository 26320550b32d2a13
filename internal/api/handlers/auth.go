package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Shreya728/pdfbot/internal/audit"
	"github.com/Shreya728/pdfbot/internal/auth"
	"github.com/Shreya728/pdfbot/internal/models"
	"github.com/Shreya728/pdfbot/internal/user"
)

type AuthHandler struct {
	users  *user.Service
	issuer *auth.TokenIssuer
	audit  *audit.Service
}

func NewAuthHandler(users *user.Service, issuer *auth.TokenIssuer, auditSvc *audit.Service) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, audit: auditSvc}
}

type credentialsRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password required"})
		return
	}

	created, err := h.users.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		slog.Error("register failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}
	if !created {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already taken"})
		return
	}

	h.logActivity(r, req.Username, models.ActivityRegister, "")
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ok, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Error("login failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := h.issuer.Issue(req.Username)
	if err != nil {
		slog.Error("token issue failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	h.logActivity(r, req.Username, models.ActivityLogin, "")
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": req.Username})
}

// Audit writes never fail the request they describe.
func (h *AuthHandler) logActivity(r *http.Request, username, activity, details string) {
	if err := h.audit.LogActivity(r.Context(), username, activity, details); err != nil {
		slog.Warn("activity log failed", "username", username, "activity", activity, "error", err)
	}
}
