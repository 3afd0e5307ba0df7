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

// RoleStore é o recorte do repositório de papéis usado pelo serviço.
type RoleStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context, limit, offset int) ([]domain.Role, int64, error)
	Create(ctx context.Context, name string, description *string) (*domain.Role, error)
	Update(ctx context.Context, id int64, name *string, description *string) (*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}

type RoleService struct {
	roles RoleStore
	log   *logger.Logger
}

func NewRoleService(roles RoleStore, log *logger.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

func (s *RoleService) Index(ctx context.Context, params *domain.PaginationParams) ([]domain.Role, *domain.Pagination, error) {
	params.Normalize()

	roles, total, err := s.roles.List(ctx, params.PerPage, params.EffectiveOffset())
	if err != nil {
		return nil, nil, fmt.Errorf("list roles: %w", err)
	}

	pagination := domain.NewPagination(total, params.Page, params.PerPage)
	return roles, &pagination, nil
}

func (s *RoleService) Show(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrRoleNotFound) {
			return nil, apperr.NotFound("Papel não encontrado")
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, req *domain.CreateRoleRequest) (*domain.Role, error) {
	role, err := s.roles.Create(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "role created",
		logger.Module("role"),
		logger.Action("create"),
		zap.Int64("role_id", role.ID),
	)
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, req *domain.UpdateRoleRequest) (*domain.Role, error) {
	role, err := s.roles.Update(ctx, id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repo.ErrRoleNotFound) {
			return nil, apperr.NotFound("Papel não encontrado")
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrRoleNotFound) {
			return apperr.NotFound("Papel não encontrado")
		}
		return fmt.Errorf("delete role: %w", err)
	}

	s.log.Info(ctx, "role deleted",
		logger.Module("role"),
		logger.Action("delete"),
		zap.Int64("role_id", id),
	)
	return nil
}
