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

// PermissionStore é o recorte do repositório de permissões usado pelo serviço.
type PermissionStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Permission, error)
	List(ctx context.Context, limit, offset int) ([]domain.Permission, int64, error)
	Create(ctx context.Context, name string, action domain.PermissionAction, description *string) (*domain.Permission, error)
	Update(ctx context.Context, id int64, name *string, action *domain.PermissionAction, description *string) (*domain.Permission, error)
	Delete(ctx context.Context, id int64) error
}

type PermissionService struct {
	permissions PermissionStore
	log         *logger.Logger
}

func NewPermissionService(permissions PermissionStore, log *logger.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, log: log}
}

func (s *PermissionService) Index(ctx context.Context, params *domain.PaginationParams) ([]domain.Permission, *domain.Pagination, error) {
	params.Normalize()

	permissions, total, err := s.permissions.List(ctx, params.PerPage, params.EffectiveOffset())
	if err != nil {
		return nil, nil, fmt.Errorf("list permissions: %w", err)
	}

	pagination := domain.NewPagination(total, params.Page, params.PerPage)
	return permissions, &pagination, nil
}

func (s *PermissionService) Show(ctx context.Context, id int64) (*domain.Permission, error) {
	perm, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return nil, apperr.NotFound("Permissão não encontrada")
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return perm, nil
}

func (s *PermissionService) Create(ctx context.Context, req *domain.CreatePermissionRequest) (*domain.Permission, error) {
	perm, err := s.permissions.Create(ctx, req.Name, domain.PermissionAction(req.Action), req.Description)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "permission created",
		logger.Module("permission"),
		logger.Action("create"),
		zap.Int64("permission_id", perm.ID),
	)
	return perm, nil
}

func (s *PermissionService) Update(ctx context.Context, id int64, req *domain.UpdatePermissionRequest) (*domain.Permission, error) {
	var action *domain.PermissionAction
	if req.Action != nil {
		a := domain.PermissionAction(*req.Action)
		action = &a
	}

	perm, err := s.permissions.Update(ctx, id, req.Name, action, req.Description)
	if err != nil {
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return nil, apperr.NotFound("Permissão não encontrada")
		}
		return nil, err
	}
	return perm, nil
}

func (s *PermissionService) Delete(ctx context.Context, id int64) error {
	if err := s.permissions.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return apperr.NotFound("Permissão não encontrada")
		}
		return fmt.Errorf("delete permission: %w", err)
	}

	s.log.Info(ctx, "permission deleted",
		logger.Module("permission"),
		logger.Action("delete"),
		zap.Int64("permission_id", id),
	)
	return nil
}
