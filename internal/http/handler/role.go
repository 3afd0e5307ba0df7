package handler

import (
	"net/http"

	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type RoleHandler struct {
	service *service.RoleService
}

func NewRoleHandler(service *service.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Index handles GET /api/v1/roles/all
func (h *RoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roles, pagination, err := h.service.Index(ctx, parsePagination(r))
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writePage(w, "Papéis listados com sucesso.", roles, pagination)
}

// Show handles GET /api/v1/roles/{id}
func (h *RoleHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	role, err := h.service.Show(ctx, id)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Papel encontrado com sucesso.", role)
}

// Create handles POST /api/v1/roles
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	role, err := h.service.Create(ctx, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Papel criado com sucesso.", role)
}

// Update handles PUT /api/v1/roles/{id}
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	var req domain.UpdateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	role, err := h.service.Update(ctx, id, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Papel atualizado com sucesso.", role)
}

// Delete handles DELETE /api/v1/roles/{id}
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	writeSuccess(w, http.StatusOK, "Papel deletado com sucesso.", nil)
}
