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

// RolePermissionStore é o recorte do repositório de vínculos papel-permissão.
type RolePermissionStore interface {
	Attach(ctx context.Context, roleID, permissionID int64) error
	Detach(ctx context.Context, roleID, permissionID int64) error
	ListByRoleID(ctx context.Context, roleID int64) ([]domain.Permission, error)
}

// PermissionLookup valida a existência da permissão antes do attach.
type PermissionLookup interface {
	FindByID(ctx context.Context, id int64) (*domain.Permission, error)
}

type RolePermissionService struct {
	rolePerms   RolePermissionStore
	permissions PermissionLookup
	log         *logger.Logger
}

func NewRolePermissionService(rolePerms RolePermissionStore, permissions PermissionLookup, log *logger.Logger) *RolePermissionService {
	return &RolePermissionService{
		rolePerms:   rolePerms,
		permissions: permissions,
		log:         log,
	}
}

// Attach vincula uma permissão a um papel. A permissão é validada antes; um
// papel inexistente sobe como violação de chave estrangeira e vira 409.
func (s *RolePermissionService) Attach(ctx context.Context, roleID, permissionID int64) error {
	if _, err := s.permissions.FindByID(ctx, permissionID); err != nil {
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return apperr.NotFound("Permissão não encontrada")
		}
		return fmt.Errorf("find permission: %w", err)
	}

	if err := s.rolePerms.Attach(ctx, roleID, permissionID); err != nil {
		return err
	}

	s.log.Info(ctx, "permission attached to role",
		logger.Module("role_permission"),
		logger.Action("attach"),
		zap.Int64("role_id", roleID),
		zap.Int64("permission_id", permissionID),
	)
	return nil
}

func (s *RolePermissionService) Detach(ctx context.Context, roleID, permissionID int64) error {
	if err := s.rolePerms.Detach(ctx, roleID, permissionID); err != nil {
		if errors.Is(err, repo.ErrRolePermissionNotFound) {
			return apperr.NotFound("Vínculo não encontrado")
		}
		return fmt.Errorf("detach permission: %w", err)
	}

	s.log.Info(ctx, "permission detached from role",
		logger.Module("role_permission"),
		logger.Action("detach"),
		zap.Int64("role_id", roleID),
		zap.Int64("permission_id", permissionID),
	)
	return nil
}

// All lista as permissões vinculadas a um papel.
func (s *RolePermissionService) All(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	permissions, err := s.rolePerms.ListByRoleID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return permissions, nil
}
