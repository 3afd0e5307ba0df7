package repo

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrParticipantNotFound  = errors.New("participant not found")
)

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

// ConversationListParams narrows a creator's conversation listing.
type ConversationListParams struct {
	CreatedBy      int64
	Search         string
	OrderBy        string
	OrderDirection domain.OrderDirection
	Limit          int
	Offset         int
}

// conversationOrderColumns whitelists sortable columns. Anything else falls
// back to created_at.
var conversationOrderColumns = map[string]string{
	"created_at": "c.created_at",
	"title":      "c.title",
}

// List returns one page of the conversations created by a user, plus the
// total count for the same filter.
func (r *ConversationRepository) List(ctx context.Context, params ConversationListParams) ([]domain.Conversation, int64, error) {
	where := "WHERE c.created_by = $1"
	args := []any{params.CreatedBy}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where += fmt.Sprintf(" AND c.title ILIKE $%d", len(args))
	}

	var total int64
	countQuery := "SELECT count(*) FROM conversations c " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count conversations: %w", err)
	}

	orderCol, ok := conversationOrderColumns[params.OrderBy]
	if !ok {
		orderCol = "c.created_at"
	}
	direction := "DESC"
	if params.OrderDirection == domain.OrderAsc {
		direction = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT c.id, c.title, c.created_at, c.updated_at,
		       u.id, u.name, u.email
		FROM conversations c
		JOIN users u ON u.id = c.created_by
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, orderCol, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0, params.Limit)
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
			&conv.CreatedBy.ID, &conv.CreatedBy.Name, &conv.CreatedBy.Email,
		); err != nil {
			return nil, 0, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, total, rows.Err()
}

func (r *ConversationRepository) FindByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	return r.findOne(ctx, "c.id = $1", id)
}

// FindByIDAndCreator fetches a conversation only if it was created by the
// given user. Ownership checks on show/update/delete go through here so a
// foreign conversation is indistinguishable from a missing one.
func (r *ConversationRepository) FindByIDAndCreator(ctx context.Context, id, createdBy int64) (*domain.Conversation, error) {
	return r.findOne(ctx, "c.id = $1 AND c.created_by = $2", id, createdBy)
}

func (r *ConversationRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.title, c.created_at, c.updated_at,
		       u.id, u.name, u.email
		FROM conversations c
		JOIN users u ON u.id = c.created_by
		WHERE %s
	`, where)

	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
		&conv.CreatedBy.ID, &conv.CreatedBy.Name, &conv.CreatedBy.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) Create(ctx context.Context, createdBy int64, title string) (*domain.Conversation, error) {
	query := `
		INSERT INTO conversations (created_by, title)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, createdBy, title).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *ConversationRepository) Update(ctx context.Context, id int64, title string) error {
	query := `
		UPDATE conversations
		SET title = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, title)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Delete removes a conversation. Participants, messages and attachments go
// with it (ON DELETE CASCADE).
func (r *ConversationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// AddParticipants inserts all the given users into a conversation in one
// transaction. The caller has already rejected ids that are unknown or
// already present, so any row failing here rolls back the whole batch.
func (r *ConversationRepository) AddParticipants(ctx context.Context, conversationID int64, userIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add participants: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx, query, conversationID, userID); err != nil {
			return fmt.Errorf("insert participant %d: %w", userID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *ConversationRepository) RemoveParticipant(ctx context.Context, conversationID, userID int64) error {
	query := `DELETE FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, conversationID, userID)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// ListParticipants returns a conversation's participants with their user
// info, oldest joins first.
func (r *ConversationRepository) ListParticipants(ctx context.Context, conversationID int64) ([]domain.ConversationParticipant, error) {
	query := `
		SELECT cp.id, cp.conversation_id, cp.user_id,
		       u.id, u.name, u.email
		FROM conversation_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.conversation_id = $1
		ORDER BY cp.id ASC
	`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.ConversationParticipant
	for rows.Next() {
		var p domain.ConversationParticipant
		var ref domain.UserRef
		if err := rows.Scan(
			&p.ID, &p.ConversationID, &p.UserID,
			&ref.ID, &ref.Name, &ref.Email,
		); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.User = &ref
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// IsParticipant reports whether a user was added to a conversation.
func (r *ConversationRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, conversationID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query participant membership: %w", err)
	}
	return exists, nil
}

// ExistingParticipantIDs filters userIDs down to the ones already in the
// conversation.
func (r *ConversationRepository) ExistingParticipantIDs(ctx context.Context, conversationID int64, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT user_id
		FROM conversation_participants
		WHERE conversation_id = $1 AND user_id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, conversationID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query existing participants: %w", err)
	}
	defer rows.Close()

	var existing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan existing participant: %w", err)
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}
