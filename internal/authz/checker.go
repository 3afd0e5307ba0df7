// Package authz resolve papéis e permissões de usuários contra o banco.
// Cada verificação consulta o estado atual, sem cache, para que revogações
// tenham efeito imediato.
package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"converso-api/internal/apperr"
	"converso-api/internal/domain"
	"converso-api/internal/repo"
)

// UserStore é o recorte do repositório de usuários usado pelo verificador.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// RoleStore resolve os papéis atribuídos a um usuário.
type RoleStore interface {
	ListByUserID(ctx context.Context, userID int64) ([]domain.Role, error)
}

// PermissionStore localiza permissões pelo par (recurso, ação).
type PermissionStore interface {
	FindByNameAction(ctx context.Context, name string, action domain.PermissionAction) (*domain.Permission, error)
}

// RolePermissionStore responde quais permissões os papéis de um usuário carregam.
type RolePermissionStore interface {
	ExistsForRoles(ctx context.Context, roleIDs []int64, permissionID int64) (bool, error)
	HeldPermissionIDs(ctx context.Context, roleIDs []int64, permissionIDs []int64) ([]int64, error)
}

type Checker struct {
	users       UserStore
	roles       RoleStore
	permissions PermissionStore
	rolePerms   RolePermissionStore
}

func NewChecker(users UserStore, roles RoleStore, permissions PermissionStore, rolePerms RolePermissionStore) *Checker {
	return &Checker{
		users:       users,
		roles:       roles,
		permissions: permissions,
		rolePerms:   rolePerms,
	}
}

// userRoles carrega os papéis do usuário, validando que o usuário existe.
func (c *Checker) userRoles(ctx context.Context, userID int64) ([]domain.Role, error) {
	if _, err := c.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperr.Unauthorized("Usuário não encontrado")
		}
		return nil, fmt.Errorf("load user for authorization: %w", err)
	}

	roles, err := c.roles.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}
	return roles, nil
}

func roleIDs(roles []domain.Role) []int64 {
	ids := make([]int64, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	return ids
}

// HasPermission autoriza uma única permissão (recurso, ação). Uma permissão
// desconhecida nega o acesso em vez de falhar, nomeando o par ausente.
func (c *Checker) HasPermission(ctx context.Context, userID int64, name string, action domain.PermissionAction) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return apperr.Forbidden("Usuário não possui nenhum papel atribuído")
	}

	perm, err := c.permissions.FindByNameAction(ctx, name, action)
	if err != nil {
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return apperr.Forbiddenf("Permissão %s:%s não encontrada no sistema", name, action)
		}
		return fmt.Errorf("load permission: %w", err)
	}

	held, err := c.rolePerms.ExistsForRoles(ctx, roleIDs(roles), perm.ID)
	if err != nil {
		return fmt.Errorf("check permission held: %w", err)
	}
	if !held {
		return apperr.Forbidden("Usuário não tem permissão para realizar esta ação")
	}
	return nil
}

// HasAllPermissions exige que o usuário possua todas as permissões listadas.
// As mensagens de negação enumeram exatamente os pares ausentes.
func (c *Checker) HasAllPermissions(ctx context.Context, userID int64, checks []domain.PermissionCheck) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return apperr.Forbidden("Usuário não possui nenhum papel atribuído")
	}

	found, missing, err := c.resolveChecks(ctx, checks)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Forbiddenf("Permissões não encontradas no sistema: %s", strings.Join(missing, ", "))
	}

	permIDs := make([]int64, len(found))
	for i, p := range found {
		permIDs[i] = p.ID
	}
	held, err := c.rolePerms.HeldPermissionIDs(ctx, roleIDs(roles), permIDs)
	if err != nil {
		return fmt.Errorf("check permissions held: %w", err)
	}

	if len(held) != len(found) {
		heldSet := make(map[int64]struct{}, len(held))
		for _, id := range held {
			heldSet[id] = struct{}{}
		}
		var lacking []string
		for _, p := range found {
			if _, ok := heldSet[p.ID]; !ok {
				lacking = append(lacking, fmt.Sprintf("%s:%s", p.Name, p.Action))
			}
		}
		return apperr.Forbiddenf("Usuário não possui as seguintes permissões: %s", strings.Join(lacking, ", "))
	}
	return nil
}

// HasAnyPermission exige ao menos uma das permissões listadas.
func (c *Checker) HasAnyPermission(ctx context.Context, userID int64, checks []domain.PermissionCheck) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return apperr.Forbidden("Usuário não possui nenhum papel atribuído")
	}

	found, _, err := c.resolveChecks(ctx, checks)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		requested := make([]string, len(checks))
		for i, ch := range checks {
			requested[i] = ch.String()
		}
		return apperr.Forbiddenf("Nenhuma das permissões especificadas foi encontrada: %s", strings.Join(requested, ", "))
	}

	permIDs := make([]int64, len(found))
	for i, p := range found {
		permIDs[i] = p.ID
	}
	held, err := c.rolePerms.HeldPermissionIDs(ctx, roleIDs(roles), permIDs)
	if err != nil {
		return fmt.Errorf("check permissions held: %w", err)
	}
	if len(held) == 0 {
		available := make([]string, len(found))
		for i, p := range found {
			available[i] = fmt.Sprintf("%s:%s", p.Name, p.Action)
		}
		return apperr.Forbiddenf("Usuário não possui nenhuma das seguintes permissões: %s", strings.Join(available, ", "))
	}
	return nil
}

// resolveChecks separa os pares pedidos entre permissões cadastradas e
// inexistentes, preservando a ordem pedida na lista de ausentes.
func (c *Checker) resolveChecks(ctx context.Context, checks []domain.PermissionCheck) ([]domain.Permission, []string, error) {
	var found []domain.Permission
	var missing []string
	for _, ch := range checks {
		perm, err := c.permissions.FindByNameAction(ctx, ch.Name, ch.Action)
		if err != nil {
			if errors.Is(err, repo.ErrPermissionNotFound) {
				missing = append(missing, ch.String())
				continue
			}
			return nil, nil, fmt.Errorf("load permission: %w", err)
		}
		found = append(found, *perm)
	}
	return found, missing, nil
}

// HasRole exige um papel específico, pelo nome.
func (c *Checker) HasRole(ctx context.Context, userID int64, roleName string) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.Name == roleName {
			return nil
		}
	}
	return apperr.Forbidden("Você não possui acesso a este recurso.")
}

// HasAnyRole exige ao menos um dos papéis listados.
func (c *Checker) HasAnyRole(ctx context.Context, userID int64, roleNames []string) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	names := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		names[r.Name] = struct{}{}
	}
	for _, want := range roleNames {
		if _, ok := names[want]; ok {
			return nil
		}
	}
	return apperr.Forbidden("Você não possui acesso a este recurso.")
}

// HasAllRoles exige todos os papéis listados.
func (c *Checker) HasAllRoles(ctx context.Context, userID int64, roleNames []string) error {
	roles, err := c.userRoles(ctx, userID)
	if err != nil {
		return err
	}
	names := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		names[r.Name] = struct{}{}
	}
	for _, want := range roleNames {
		if _, ok := names[want]; !ok {
			return apperr.Forbidden("Você não possui todas as permissões necessárias para este recurso.")
		}
	}
	return nil
}
