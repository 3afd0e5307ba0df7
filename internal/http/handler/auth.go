package handler

import (
	"net/http"

	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	user, err := h.service.Register(ctx, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Usuário criado com sucesso.", user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	user, token, err := h.service.Login(ctx, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login realizado com sucesso.", map[string]any{
		"user":  user,
		"token": token,
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	user, err := h.service.Me(ctx, userID)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Usuário encontrado com sucesso.", user)
}

// ResetPassword handles POST /api/v1/auth/reset-password. The generated
// password is returned in the response body, once; that is the API contract.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	user, newPassword, err := h.service.ResetPassword(ctx, req.Email)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Senha resetada com sucesso.", map[string]any{
		"user":        user,
		"newPassword": newPassword,
	})
}

// ChangePassword handles PUT /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	var req domain.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	user, err := h.service.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Senha alterada com sucesso.", user)
}
