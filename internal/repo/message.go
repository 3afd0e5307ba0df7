package repo

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `
	m.id, m.conversation_id, m.sender_id, m.content, m.message_type,
	m.read_at, m.created_at,
	u.id, u.name, u.email
`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	var sender domain.UserRef
	err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.MessageType,
		&msg.ReadAt, &msg.CreatedAt,
		&sender.ID, &sender.Name, &sender.Email,
	)
	if err != nil {
		return nil, err
	}
	msg.Sender = &sender
	return &msg, nil
}

// ListByConversation returns one page of a conversation's messages, newest
// first by default, with sender info and attachments loaded.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64, direction domain.OrderDirection, limit, offset int) ([]domain.Message, int64, error) {
	var total int64
	countQuery := `SELECT count(*) FROM messages WHERE conversation_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, conversationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	dir := "DESC"
	if direction == domain.OrderAsc {
		dir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at %s
		LIMIT $2 OFFSET $3
	`, messageColumns, dir)

	rows, err := r.pool.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0, limit)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadAttachments(ctx, messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// loadAttachments batch-loads attachments for a page of messages with a
// single query.
func (r *MessageRepository) loadAttachments(ctx context.Context, messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	ids := make([]int64, len(messages))
	byID := make(map[int64]*domain.Message, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
		byID[messages[i].ID] = &messages[i]
	}

	query := `
		SELECT id, message_id, file_url, file_type, file_size, created_at
		FROM message_attachments
		WHERE message_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var att domain.MessageAttachment
		if err := rows.Scan(&att.ID, &att.MessageID, &att.FileURL, &att.FileType, &att.FileSize, &att.CreatedAt); err != nil {
			return fmt.Errorf("scan attachment: %w", err)
		}
		if msg, ok := byID[att.MessageID]; ok {
			msg.Attachments = append(msg.Attachments, att)
		}
	}
	return rows.Err()
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	return r.findOne(ctx, "m.id = $1", id)
}

// FindByIDAndConversation fetches a message only if it belongs to the given
// conversation, so a message id from another conversation reads as missing.
func (r *MessageRepository) FindByIDAndConversation(ctx context.Context, id, conversationID int64) (*domain.Message, error) {
	return r.findOne(ctx, "m.id = $1 AND m.conversation_id = $2", id, conversationID)
}

func (r *MessageRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE %s
	`, messageColumns, where)

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	msgs := []domain.Message{*msg}
	if err := r.loadAttachments(ctx, msgs); err != nil {
		return nil, err
	}
	return &msgs[0], nil
}

// Create inserts a message and its attachments in one transaction.
func (r *MessageRepository) Create(ctx context.Context, conversationID, senderID int64, content *string, msgType domain.MessageType, attachments []domain.AttachmentInput) (*domain.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create message: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	insertMsg := `
		INSERT INTO messages (conversation_id, sender_id, content, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, insertMsg, conversationID, senderID, content, msgType).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	insertAtt := `
		INSERT INTO message_attachments (message_id, file_url, file_type, file_size)
		VALUES ($1, $2, $3, $4)
	`
	for _, att := range attachments {
		if _, err := tx.Exec(ctx, insertAtt, id, att.FileURL, att.FileType, att.FileSize); err != nil {
			return nil, fmt.Errorf("insert attachment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create message: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *MessageRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	query := `UPDATE messages SET content = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes a message. Attachments go with it (ON DELETE CASCADE).
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkAsRead stamps read_at = now() on the given messages. Re-marking an
// already read message just refreshes the timestamp.
func (r *MessageRepository) MarkAsRead(ctx context.Context, conversationID int64, messageIDs []int64) error {
	query := `
		UPDATE messages
		SET read_at = now()
		WHERE conversation_id = $1 AND id = ANY($2)
	`

	if _, err := r.pool.Exec(ctx, query, conversationID, messageIDs); err != nil {
		return fmt.Errorf("mark messages as read: %w", err)
	}
	return nil
}

// MissingInConversation returns which of the given message ids do not belong
// to the conversation.
func (r *MessageRepository) MissingInConversation(ctx context.Context, conversationID int64, messageIDs []int64) ([]int64, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id
		FROM messages
		WHERE conversation_id = $1 AND id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, conversationID, messageIDs)
	if err != nil {
		return nil, fmt.Errorf("query messages in conversation: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(messageIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan message id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range messageIDs {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CountUnreadBySender counts a sender's own unread messages in a
// conversation. The unread counter is scoped to the requester as sender, so
// it tracks "my messages not yet read by others" rather than the inbox.
func (r *MessageRepository) CountUnreadBySender(ctx context.Context, conversationID, senderID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM messages
		WHERE conversation_id = $1 AND sender_id = $2 AND read_at IS NULL
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, conversationID, senderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// LastMessage returns the newest message in a conversation, or nil when the
// conversation is empty.
func (r *MessageRepository) LastMessage(ctx context.Context, conversationID int64) (*domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC
		LIMIT 1
	`, messageColumns)

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last message: %w", err)
	}

	msgs := []domain.Message{*msg}
	if err := r.loadAttachments(ctx, msgs); err != nil {
		return nil, err
	}
	return &msgs[0], nil
}
