package service_test

import (
	"context"
	"time"

	"converso-api/internal/domain"
	"converso-api/internal/observability/logger"
	"converso-api/internal/repo"
)

func nopLogger() *logger.Logger {
	return logger.GetLogger(context.Background())
}

// fakeUserStore is an in-memory UserStore / UserLookup.
type fakeUserStore struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*domain.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		ID:        f.nextID,
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.nextID++
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repo.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var found []int64
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

// fakeConversationStore is an in-memory ConversationStore.
type fakeConversationStore struct {
	nextID        int64
	conversations map[int64]*domain.Conversation
	participants  map[int64][]int64 // conversation id -> user ids
	users         *fakeUserStore
}

func newFakeConversationStore(users *fakeUserStore) *fakeConversationStore {
	return &fakeConversationStore{
		nextID:        1,
		conversations: map[int64]*domain.Conversation{},
		participants:  map[int64][]int64{},
		users:         users,
	}
}

func (f *fakeConversationStore) List(_ context.Context, params repo.ConversationListParams) ([]domain.Conversation, int64, error) {
	var all []domain.Conversation
	for _, c := range f.conversations {
		if c.CreatedBy.ID == params.CreatedBy {
			all = append(all, *c)
		}
	}
	total := int64(len(all))
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[params.Offset:end], total, nil
}

func (f *fakeConversationStore) FindByID(_ context.Context, id int64) (*domain.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, repo.ErrConversationNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationStore) FindByIDAndCreator(ctx context.Context, id, createdBy int64) (*domain.Conversation, error) {
	c, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy.ID != createdBy {
		return nil, repo.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeConversationStore) Create(ctx context.Context, createdBy int64, title string) (*domain.Conversation, error) {
	creator, err := f.users.FindByID(ctx, createdBy)
	if err != nil {
		return nil, err
	}
	c := &domain.Conversation{
		ID:        f.nextID,
		Title:     title,
		CreatedBy: creator.Ref(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.nextID++
	f.conversations[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeConversationStore) Update(_ context.Context, id int64, title string) error {
	c, ok := f.conversations[id]
	if !ok {
		return repo.ErrConversationNotFound
	}
	c.Title = title
	return nil
}

func (f *fakeConversationStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.conversations[id]; !ok {
		return repo.ErrConversationNotFound
	}
	delete(f.conversations, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeConversationStore) AddParticipants(_ context.Context, conversationID int64, userIDs []int64) error {
	f.participants[conversationID] = append(f.participants[conversationID], userIDs...)
	return nil
}

func (f *fakeConversationStore) RemoveParticipant(_ context.Context, conversationID, userID int64) error {
	ids := f.participants[conversationID]
	for i, id := range ids {
		if id == userID {
			f.participants[conversationID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repo.ErrParticipantNotFound
}

func (f *fakeConversationStore) ListParticipants(ctx context.Context, conversationID int64) ([]domain.ConversationParticipant, error) {
	var out []domain.ConversationParticipant
	for i, userID := range f.participants[conversationID] {
		u, err := f.users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		ref := u.Ref()
		out = append(out, domain.ConversationParticipant{
			ID:             int64(i + 1),
			ConversationID: conversationID,
			UserID:         userID,
			User:           &ref,
		})
	}
	return out, nil
}

func (f *fakeConversationStore) IsParticipant(_ context.Context, conversationID, userID int64) (bool, error) {
	for _, id := range f.participants[conversationID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConversationStore) ExistingParticipantIDs(_ context.Context, conversationID int64, userIDs []int64) ([]int64, error) {
	var existing []int64
	for _, want := range userIDs {
		for _, id := range f.participants[conversationID] {
			if id == want {
				existing = append(existing, want)
				break
			}
		}
	}
	return existing, nil
}

// fakeMessageStore is an in-memory MessageStore.
type fakeMessageStore struct {
	nextID   int64
	messages map[int64]*domain.Message
	users    *fakeUserStore
}

func newFakeMessageStore(users *fakeUserStore) *fakeMessageStore {
	return &fakeMessageStore{nextID: 1, messages: map[int64]*domain.Message{}, users: users}
}

func (f *fakeMessageStore) ListByConversation(_ context.Context, conversationID int64, _ domain.OrderDirection, limit, offset int) ([]domain.Message, int64, error) {
	var all []domain.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			all = append(all, *m)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeMessageStore) FindByIDAndConversation(_ context.Context, id, conversationID int64) (*domain.Message, error) {
	m, ok := f.messages[id]
	if !ok || m.ConversationID != conversationID {
		return nil, repo.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessageStore) Create(ctx context.Context, conversationID, senderID int64, content *string, msgType domain.MessageType, attachments []domain.AttachmentInput) (*domain.Message, error) {
	sender, err := f.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	ref := sender.Ref()
	m := &domain.Message{
		ID:             f.nextID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Sender:         &ref,
		Content:        content,
		MessageType:    msgType,
		CreatedAt:      time.Now(),
	}
	for i, att := range attachments {
		m.Attachments = append(m.Attachments, domain.MessageAttachment{
			ID:        int64(i + 1),
			MessageID: m.ID,
			FileURL:   att.FileURL,
			FileType:  att.FileType,
			FileSize:  att.FileSize,
			CreatedAt: time.Now(),
		})
	}
	f.nextID++
	f.messages[m.ID] = m
	cp := *m
	return &cp, nil
}

func (f *fakeMessageStore) UpdateContent(_ context.Context, id int64, content string) error {
	m, ok := f.messages[id]
	if !ok {
		return repo.ErrMessageNotFound
	}
	m.Content = &content
	return nil
}

func (f *fakeMessageStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return repo.ErrMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

func (f *fakeMessageStore) MarkAsRead(_ context.Context, conversationID int64, messageIDs []int64) error {
	now := time.Now()
	for _, id := range messageIDs {
		if m, ok := f.messages[id]; ok && m.ConversationID == conversationID {
			m.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeMessageStore) MissingInConversation(_ context.Context, conversationID int64, messageIDs []int64) ([]int64, error) {
	var missing []int64
	for _, id := range messageIDs {
		m, ok := f.messages[id]
		if !ok || m.ConversationID != conversationID {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeMessageStore) CountUnreadBySender(_ context.Context, conversationID, senderID int64) (int64, error) {
	var count int64
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID == senderID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) LastMessage(_ context.Context, conversationID int64) (*domain.Message, error) {
	var last *domain.Message
	for _, m := range f.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if last == nil || m.ID > last.ID {
			last = m
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}
