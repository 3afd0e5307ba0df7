package service

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/apperr"
	"converso-api/internal/domain"
	"converso-api/internal/observability/logger"
	"converso-api/internal/repo"

	"go.uber.org/zap"
)

// MessageStore é o recorte do repositório de mensagens usado pelo serviço.
type MessageStore interface {
	ListByConversation(ctx context.Context, conversationID int64, direction domain.OrderDirection, limit, offset int) ([]domain.Message, int64, error)
	FindByIDAndConversation(ctx context.Context, id, conversationID int64) (*domain.Message, error)
	Create(ctx context.Context, conversationID, senderID int64, content *string, msgType domain.MessageType, attachments []domain.AttachmentInput) (*domain.Message, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	MarkAsRead(ctx context.Context, conversationID int64, messageIDs []int64) error
	MissingInConversation(ctx context.Context, conversationID int64, messageIDs []int64) ([]int64, error)
	CountUnreadBySender(ctx context.Context, conversationID, senderID int64) (int64, error)
	LastMessage(ctx context.Context, conversationID int64) (*domain.Message, error)
}

type MessageService struct {
	messages      MessageStore
	conversations ConversationStore
	log           *logger.Logger
}

func NewMessageService(messages MessageStore, conversations ConversationStore, log *logger.Logger) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		log:           log,
	}
}

// verifyAccess libera criador ou participante. Toda operação de mensagem
// passa por aqui, diferente da gestão da conversa, que é só do criador.
func (s *MessageService) verifyAccess(ctx context.Context, userID, conversationID int64) error {
	_, err := s.conversations.FindByIDAndCreator(ctx, conversationID, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrConversationNotFound) {
		return fmt.Errorf("find conversation: %w", err)
	}

	isParticipant, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !isParticipant {
		return apperr.Forbidden("Você não tem acesso a esta conversa")
	}
	return nil
}

func (s *MessageService) Index(ctx context.Context, userID, conversationID int64, params *domain.PaginationParams) ([]domain.Message, *domain.Pagination, error) {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return nil, nil, err
	}

	params.Normalize()
	messages, total, err := s.messages.ListByConversation(ctx, conversationID, params.OrderDirection, params.PerPage, params.EffectiveOffset())
	if err != nil {
		return nil, nil, fmt.Errorf("list messages: %w", err)
	}

	pagination := domain.NewPagination(total, params.Page, params.PerPage)
	return messages, &pagination, nil
}

func (s *MessageService) Show(ctx context.Context, userID, conversationID, messageID int64) (*domain.Message, error) {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg, err := s.messages.FindByIDAndConversation(ctx, messageID, conversationID)
	if err != nil {
		if errors.Is(err, repo.ErrMessageNotFound) {
			return nil, apperr.NotFound("Mensagem não encontrada")
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

// Create envia uma mensagem na conversa. O remetente é sempre o usuário
// autenticado; o tipo é inferido do conteúdo e dos anexos quando omitido.
func (s *MessageService) Create(ctx context.Context, userID, conversationID int64, req *domain.CreateMessageRequest) (*domain.Message, error) {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg, err := s.messages.Create(ctx, conversationID, userID, req.Content, req.Type(), req.Attachments)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.log.Info(ctx, "message created",
		logger.Module("message"),
		logger.Action("create"),
		zap.Int64("conversation_id", conversationID),
		zap.Int64("message_id", msg.ID),
	)
	return msg, nil
}

// Update edita o conteúdo. Só o remetente pode editar.
func (s *MessageService) Update(ctx context.Context, userID, conversationID, messageID int64, req *domain.UpdateMessageRequest) (*domain.Message, error) {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg, err := s.messages.FindByIDAndConversation(ctx, messageID, conversationID)
	if err != nil {
		if errors.Is(err, repo.ErrMessageNotFound) {
			return nil, apperr.NotFound("Mensagem não encontrada")
		}
		return nil, fmt.Errorf("find message: %w", err)
	}

	if msg.SenderID != userID {
		return nil, apperr.Forbidden("Você só pode editar suas próprias mensagens")
	}

	if err := s.messages.UpdateContent(ctx, messageID, req.Content); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return s.messages.FindByIDAndConversation(ctx, messageID, conversationID)
}

// Delete remove a mensagem. Permitido ao remetente ou ao criador da conversa.
func (s *MessageService) Delete(ctx context.Context, userID, conversationID, messageID int64) error {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return err
	}

	msg, err := s.messages.FindByIDAndConversation(ctx, messageID, conversationID)
	if err != nil {
		if errors.Is(err, repo.ErrMessageNotFound) {
			return apperr.NotFound("Mensagem não encontrada")
		}
		return fmt.Errorf("find message: %w", err)
	}

	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("find conversation: %w", err)
	}

	if msg.SenderID != userID && conv.CreatedBy.ID != userID {
		return apperr.Forbidden("Você não tem permissão para deletar esta mensagem")
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	s.log.Info(ctx, "message deleted",
		logger.Module("message"),
		logger.Action("delete"),
		zap.Int64("conversation_id", conversationID),
		zap.Int64("message_id", messageID),
	)
	return nil
}

// MarkAsRead valida cada id contra a conversa antes de aplicar qualquer
// atualização; um id fora da conversa rejeita o lote inteiro. Remarcar uma
// mensagem já lida apenas renova o carimbo.
func (s *MessageService) MarkAsRead(ctx context.Context, userID, conversationID int64, req *domain.MarkAsReadRequest) error {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return err
	}

	missing, err := s.messages.MissingInConversation(ctx, conversationID, req.MessageIDs)
	if err != nil {
		return fmt.Errorf("check messages in conversation: %w", err)
	}
	if len(missing) > 0 {
		return apperr.BadRequestf("Mensagem %d não encontrada nesta conversa", missing[0])
	}

	if err := s.messages.MarkAsRead(ctx, conversationID, req.MessageIDs); err != nil {
		return fmt.Errorf("mark messages as read: %w", err)
	}
	return nil
}

// UnreadCount conta as mensagens não lidas enviadas pelo próprio usuário
// nesta conversa. O escopo pelo remetente reproduz o contrato da API: o
// contador responde "quantas das minhas mensagens ainda não foram lidas".
func (s *MessageService) UnreadCount(ctx context.Context, userID, conversationID int64) (int64, error) {
	if err := s.verifyAccess(ctx, userID, conversationID); err != nil {
		return 0, err
	}

	count, err := s.messages.CountUnreadBySender(ctx, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
