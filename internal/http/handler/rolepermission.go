package handler

import (
	"net/http"

	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type RolePermissionHandler struct {
	service *service.RolePermissionService
}

func NewRolePermissionHandler(service *service.RolePermissionService) *RolePermissionHandler {
	return &RolePermissionHandler{service: service}
}

// Attach handles POST /api/v1/roles-permissions/attach
func (h *RolePermissionHandler) Attach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.AttachPermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.Attach(ctx, req.RoleID, req.PermissionID); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Permissão de role associada com sucesso.", nil)
}

// Detach handles POST /api/v1/roles-permissions/detach
func (h *RolePermissionHandler) Detach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.AttachPermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.Detach(ctx, req.RoleID, req.PermissionID); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Permissão de role removida com sucesso.", nil)
}

// All handles GET /api/v1/roles-permissions/{roleId}/all
func (h *RolePermissionHandler) All(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roleID, err := urlID(r, "roleId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	permissions, err := h.service.All(ctx, roleID)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Permissões do papel listadas com sucesso.", permissions)
}
