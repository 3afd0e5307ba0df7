package handler

import (
	"net/http"

	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
	"converso-api/internal/service"
)

type MessageHandler struct {
	service *service.MessageService
}

func NewMessageHandler(service *service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// messageScope bundles the subject user and path ids shared by every
// message route.
type messageScope struct {
	userID         int64
	conversationID int64
	messageID      int64
}

func (h *MessageHandler) scope(w http.ResponseWriter, r *http.Request, withMessageID bool) (messageScope, bool) {
	ctx := r.Context()

	userID, ok := auth.GetUserID(ctx)
	if !ok {
		httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
		return messageScope{}, false
	}

	conversationID, err := urlID(r, "conversationId")
	if err != nil {
		httperr.Write(w, ctx, err)
		return messageScope{}, false
	}

	s := messageScope{userID: userID, conversationID: conversationID}
	if withMessageID {
		if s.messageID, err = urlID(r, "messageId"); err != nil {
			httperr.Write(w, ctx, err)
			return messageScope{}, false
		}
	}
	return s, true
}

// Index handles GET /api/v1/conversations/{conversationId}/messages
func (h *MessageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, false)
	if !ok {
		return
	}

	messages, pagination, err := h.service.Index(ctx, s.userID, s.conversationID, parsePagination(r))
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writePage(w, "Mensagens listadas com sucesso.", messages, pagination)
}

// Show handles GET /api/v1/conversations/{conversationId}/messages/{messageId}
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, true)
	if !ok {
		return
	}

	message, err := h.service.Show(ctx, s.userID, s.conversationID, s.messageID)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Mensagem encontrada com sucesso.", message)
}

// Create handles POST /api/v1/conversations/{conversationId}/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, false)
	if !ok {
		return
	}

	var req domain.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	message, err := h.service.Create(ctx, s.userID, s.conversationID, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Mensagem criada com sucesso.", message)
}

// Update handles PUT /api/v1/conversations/{conversationId}/messages/{messageId}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, true)
	if !ok {
		return
	}

	var req domain.UpdateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	message, err := h.service.Update(ctx, s.userID, s.conversationID, s.messageID, &req)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Mensagem atualizada com sucesso.", message)
}

// Delete handles DELETE /api/v1/conversations/{conversationId}/messages/{messageId}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, true)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, s.userID, s.conversationID, s.messageID); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Mensagem deletada com sucesso.", nil)
}

// MarkAsRead handles POST /api/v1/conversations/{conversationId}/messages/mark-as-read
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, false)
	if !ok {
		return
	}

	var req domain.MarkAsReadRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	if err := h.service.MarkAsRead(ctx, s.userID, s.conversationID, &req); err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Mensagens marcadas como lidas com sucesso.", nil)
}

// UnreadCount handles GET /api/v1/conversations/{conversationId}/messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.scope(w, r, false)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(ctx, s.userID, s.conversationID)
	if err != nil {
		httperr.Write(w, ctx, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Contagem de mensagens não lidas obtida com sucesso.", map[string]int64{
		"unreadCount": count,
	})
}
