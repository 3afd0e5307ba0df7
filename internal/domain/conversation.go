package domain

import (
	"strings"
	"time"
)

// Conversation is owned by its creator. The creator has management rights
// (update/delete/participants) that plain participants do not.
type Conversation struct {
	ID        int64     `json:"id"`
	CreatedBy UserRef   `json:"createdBy"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationParticipant links a user to a conversation. A user is "in" a
// conversation either by being its creator or by holding one of these rows.
type ConversationParticipant struct {
	ID             int64    `json:"id"`
	ConversationID int64    `json:"conversationId"`
	UserID         int64    `json:"userId"`
	User           *UserRef `json:"user,omitempty"`
}

type CreateConversationRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

func (r *CreateConversationRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validateStruct(r)
}

type UpdateConversationRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

func (r *UpdateConversationRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validateStruct(r)
}

type AddParticipantsRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,gt=0"`
}

func (r *AddParticipantsRequest) Validate() error {
	return validateStruct(r)
}
