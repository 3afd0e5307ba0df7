package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"converso-api/internal/apperr"
	"converso-api/internal/domain"
	"converso-api/internal/observability/logger"
	"converso-api/internal/repo"

	"go.uber.org/zap"
)

// ConversationStore é o recorte do repositório de conversas usado pelos
// serviços de conversa e mensagem.
type ConversationStore interface {
	List(ctx context.Context, params repo.ConversationListParams) ([]domain.Conversation, int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Conversation, error)
	FindByIDAndCreator(ctx context.Context, id, createdBy int64) (*domain.Conversation, error)
	Create(ctx context.Context, createdBy int64, title string) (*domain.Conversation, error)
	Update(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
	AddParticipants(ctx context.Context, conversationID int64, userIDs []int64) error
	RemoveParticipant(ctx context.Context, conversationID, userID int64) error
	ListParticipants(ctx context.Context, conversationID int64) ([]domain.ConversationParticipant, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	ExistingParticipantIDs(ctx context.Context, conversationID int64, userIDs []int64) ([]int64, error)
}

// UserLookup valida ids de usuário em lote ao adicionar participantes.
type UserLookup interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type ConversationService struct {
	conversations ConversationStore
	users         UserLookup
	log           *logger.Logger
}

func NewConversationService(conversations ConversationStore, users UserLookup, log *logger.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		users:         users,
		log:           log,
	}
}

// Index lista somente as conversas criadas pelo usuário, nunca as que ele
// apenas participa.
func (s *ConversationService) Index(ctx context.Context, userID int64, params *domain.PaginationParams) ([]domain.Conversation, *domain.Pagination, error) {
	params.Normalize()

	conversations, total, err := s.conversations.List(ctx, repo.ConversationListParams{
		CreatedBy:      userID,
		Search:         params.Search,
		OrderBy:        params.OrderBy,
		OrderDirection: params.OrderDirection,
		Limit:          params.PerPage,
		Offset:         params.EffectiveOffset(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list conversations: %w", err)
	}

	pagination := domain.NewPagination(total, params.Page, params.PerPage)
	return conversations, &pagination, nil
}

// Show devolve a conversa somente ao criador. Uma conversa alheia responde
// 404, indistinguível de inexistente, para não vazar existência.
func (s *ConversationService) Show(ctx context.Context, userID, id int64) (*domain.Conversation, error) {
	conv, err := s.conversations.FindByIDAndCreator(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrConversationNotFound) {
			return nil, apperr.NotFound("Conversa não encontrada")
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationService) Create(ctx context.Context, userID int64, req *domain.CreateConversationRequest) (*domain.Conversation, error) {
	conv, err := s.conversations.Create(ctx, userID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.log.Info(ctx, "conversation created",
		logger.Module("conversation"),
		logger.Action("create"),
		zap.Int64("conversation_id", conv.ID),
	)
	return conv, nil
}

func (s *ConversationService) Update(ctx context.Context, userID, id int64, req *domain.UpdateConversationRequest) (*domain.Conversation, error) {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return nil, err
	}

	if err := s.conversations.Update(ctx, id, req.Title); err != nil {
		if errors.Is(err, repo.ErrConversationNotFound) {
			return nil, apperr.NotFound("Conversa não encontrada")
		}
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return s.conversations.FindByID(ctx, id)
}

func (s *ConversationService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return err
	}

	if err := s.conversations.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrConversationNotFound) {
			return apperr.NotFound("Conversa não encontrada")
		}
		return fmt.Errorf("delete conversation: %w", err)
	}

	s.log.Info(ctx, "conversation deleted",
		logger.Module("conversation"),
		logger.Action("delete"),
		zap.Int64("conversation_id", id),
	)
	return nil
}

// AddParticipants insere os usuários na conversa, tudo ou nada: um id
// desconhecido ou já participante rejeita a requisição inteira.
func (s *ConversationService) AddParticipants(ctx context.Context, userID, id int64, req *domain.AddParticipantsRequest) ([]domain.ConversationParticipant, error) {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return nil, err
	}

	known, err := s.users.ExistingIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, fmt.Errorf("check users exist: %w", err)
	}
	if missing := missingIDs(req.UserIDs, known); len(missing) > 0 {
		return nil, apperr.BadRequestf("Usuários não encontrados: %s", joinIDs(missing))
	}

	existing, err := s.conversations.ExistingParticipantIDs(ctx, id, req.UserIDs)
	if err != nil {
		return nil, fmt.Errorf("check existing participants: %w", err)
	}
	if len(existing) > 0 {
		return nil, apperr.BadRequestf("Usuários já são participantes desta conversa: %s", joinIDs(existing))
	}

	if err := s.conversations.AddParticipants(ctx, id, req.UserIDs); err != nil {
		return nil, fmt.Errorf("add participants: %w", err)
	}

	s.log.Info(ctx, "participants added",
		logger.Module("conversation"),
		logger.Action("add_participants"),
		zap.Int64("conversation_id", id),
		zap.Int("count", len(req.UserIDs)),
	)
	return s.conversations.ListParticipants(ctx, id)
}

func (s *ConversationService) RemoveParticipant(ctx context.Context, userID, id, participantUserID int64) error {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return err
	}

	if err := s.conversations.RemoveParticipant(ctx, id, participantUserID); err != nil {
		if errors.Is(err, repo.ErrParticipantNotFound) {
			return apperr.NotFound("Participante não encontrado")
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *ConversationService) GetParticipants(ctx context.Context, userID, id int64) ([]domain.ConversationParticipant, error) {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.conversations.ListParticipants(ctx, id)
}

func missingIDs(requested, found []int64) []int64 {
	seen := make(map[int64]struct{}, len(found))
	for _, id := range found {
		seen[id] = struct{}{}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
