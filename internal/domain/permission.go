package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// PermissionAction é a ação CRUD coberta por uma permissão.
// Schema: permissions.action ('create', 'read', 'update', 'delete')
type PermissionAction string

const (
	ActionCreate PermissionAction = "create"
	ActionRead   PermissionAction = "read"
	ActionUpdate PermissionAction = "update"
	ActionDelete PermissionAction = "delete"
)

// IsValid valida se o valor de PermissionAction é válido.
func (a PermissionAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Scan implementa sql.Scanner para ler o valor do PostgreSQL.
func (a *PermissionAction) Scan(src interface{}) error {
	if src == nil {
		return fmt.Errorf("permission action cannot be null")
	}

	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionAction", src)
	}

	*a = PermissionAction(str)
	if !a.IsValid() {
		return fmt.Errorf("invalid PermissionAction value: %s", str)
	}
	return nil
}

// Value implementa driver.Valuer para escrever o valor no PostgreSQL.
func (a PermissionAction) Value() (driver.Value, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("invalid PermissionAction value: %s", string(a))
	}
	return string(a), nil
}

// Permission is a grantable (name, action) capability. Uniqueness is on the
// pair, not the name alone.
type Permission struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Action      PermissionAction `json:"action"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PermissionCheck names one (name, action) pair to verify against a user's
// roles.
type PermissionCheck struct {
	Name   string
	Action PermissionAction
}

func (c PermissionCheck) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Action)
}

type CreatePermissionRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Action      string  `json:"action" validate:"required,oneof=create read update delete"`
}

func (r *CreatePermissionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateStruct(r)
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Action      *string `json:"action,omitempty" validate:"omitempty,oneof=create read update delete"`
}

func (r *UpdatePermissionRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	return validateStruct(r)
}
