package handler

import (
	"net/http"

	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type PermissionHandler struct {
	service *service.PermissionService
}

func NewPermissionHandler(service *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// Index handles GET /api/v1/permissions/all
func (h *PermissionHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	permissions, pagination, err := h.service.Index(ctx, parsePagination(r))
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writePage(w, "Permissões listadas com sucesso.", permissions, pagination)
}

// Show handles GET /api/v1/permissions/{id}
func (h *PermissionHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	permission, err := h.service.Show(ctx, id)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Permissão encontrada com sucesso.", permission)
}

// Create handles POST /api/v1/permissions
func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreatePermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	permission, err := h.service.Create(ctx, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Permissão criada com sucesso.", permission)
}

// Update handles PUT /api/v1/permissions/{id}
func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	var req domain.UpdatePermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	permission, err := h.service.Update(ctx, id, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Permissão atualizada com sucesso.", permission)
}

// Delete handles DELETE /api/v1/permissions/{id}
func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Permissão deletada com sucesso.", nil)
}
