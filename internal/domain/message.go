package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// MessageType distingue mensagens de texto, arquivo ou mistas.
// Schema: messages.message_type ('text', 'file', 'mixed')
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeFile  MessageType = "file"
	MessageTypeMixed MessageType = "mixed"
)

// IsValid valida se o valor de MessageType é válido.
func (m MessageType) IsValid() bool {
	switch m {
	case MessageTypeText, MessageTypeFile, MessageTypeMixed:
		return true
	}
	return false
}

// Scan implementa sql.Scanner para ler o valor do PostgreSQL.
func (m *MessageType) Scan(src interface{}) error {
	if src == nil {
		*m = MessageTypeText
		return nil
	}

	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MessageType", src)
	}

	*m = MessageType(str)
	if !m.IsValid() {
		return fmt.Errorf("invalid MessageType value: %s", str)
	}
	return nil
}

// Value implementa driver.Valuer para escrever o valor no PostgreSQL.
func (m MessageType) Value() (driver.Value, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid MessageType value: %s", string(m))
	}
	return string(m), nil
}

// Message belongs to a conversation. ReadAt is the read receipt: NULL until
// explicitly marked, and re-marking is not rejected.
type Message struct {
	ID             int64               `json:"id"`
	ConversationID int64               `json:"conversationId"`
	SenderID       int64               `json:"senderId"`
	Sender         *UserRef            `json:"sender,omitempty"`
	Content        *string             `json:"content"`
	MessageType    MessageType         `json:"messageType"`
	ReadAt         *time.Time          `json:"readAt"`
	CreatedAt      time.Time           `json:"created_at"`
	Attachments    []MessageAttachment `json:"attachments,omitempty"`
}

type MessageAttachment struct {
	ID        int64     `json:"id"`
	MessageID int64     `json:"messageId"`
	FileURL   string    `json:"fileUrl"`
	FileType  string    `json:"fileType"`
	FileSize  int64     `json:"fileSize"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachmentInput struct {
	FileURL  string `json:"fileUrl" validate:"required,url"`
	FileType string `json:"fileType" validate:"required,max=100"`
	FileSize int64  `json:"fileSize" validate:"required,gt=0"`
}

type CreateMessageRequest struct {
	Content     *string           `json:"content,omitempty" validate:"omitempty,min=1"`
	MessageType *string           `json:"messageType,omitempty" validate:"omitempty,oneof=text file mixed"`
	Attachments []AttachmentInput `json:"attachments,omitempty" validate:"omitempty,dive"`
}

func (r *CreateMessageRequest) Validate() error {
	return validateStruct(r)
}

// Type resolves the effective message type: explicit value wins, otherwise
// inferred from whether attachments and content are present.
func (r *CreateMessageRequest) Type() MessageType {
	if r.MessageType != nil {
		return MessageType(*r.MessageType)
	}
	if len(r.Attachments) == 0 {
		return MessageTypeText
	}
	if r.Content != nil && *r.Content != "" {
		return MessageTypeMixed
	}
	return MessageTypeFile
}

type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

func (r *UpdateMessageRequest) Validate() error {
	return validateStruct(r)
}

type MarkAsReadRequest struct {
	MessageIDs []int64 `json:"messageIds" validate:"required,min=1,dive,gt=0"`
}

func (r *MarkAsReadRequest) Validate() error {
	return validateStruct(r)
}
