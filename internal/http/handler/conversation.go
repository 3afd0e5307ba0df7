package handler

import (
	"net/http"

	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type ConversationHandler struct {
	service *service.ConversationService
}

func NewConversationHandler(service *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Index handles GET /api/v1/conversations
func (h *ConversationHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	conversations, pagination, err := h.service.Index(ctx, userID, parsePagination(r))
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writePage(w, "Conversas listadas com sucesso.", conversations, pagination)
}

// Show handles GET /api/v1/conversations/{conversationId}
func (h *ConversationHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	conversation, err := h.service.Show(ctx, userID, id)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Conversa encontrada com sucesso.", conversation)
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	var req domain.CreateConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	conversation, err := h.service.Create(ctx, userID, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Conversa criada com sucesso.", conversation)
}

// Update handles PUT /api/v1/conversations/{conversationId}
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	var req domain.UpdateConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	conversation, err := h.service.Update(ctx, userID, id, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Conversa atualizada com sucesso.", conversation)
}

// Delete handles DELETE /api/v1/conversations/{conversationId}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Conversa deletada com sucesso.", nil)
}

// AddParticipants handles POST /api/v1/conversations/{conversationId}/participants
func (h *ConversationHandler) AddParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	var req domain.AddParticipantsRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	participants, err := h.service.AddParticipants(ctx, userID, id, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Participantes adicionados com sucesso.", participants)
}

// RemoveParticipant handles DELETE /api/v1/conversations/{conversationId}/participants/{userId}
func (h *ConversationHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	participantID, err := urlID(r, "userId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.RemoveParticipant(ctx, userID, id, participantID); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Participante removido com sucesso.", nil)
}

// GetParticipants handles GET /api/v1/conversations/{conversationId}/participants
func (h *ConversationHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	id, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	participants, err := h.service.GetParticipants(ctx, userID, id)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Participantes listados com sucesso.", participants)
}
