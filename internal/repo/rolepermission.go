package repo

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRolePermissionNotFound = errors.New("role permission not found")

// RolePermissionRepository manages the role_permissions join table and the
// permission lookups the authorization checker runs on every gated request.
type RolePermissionRepository struct {
	pool *pgxpool.Pool
}

func NewRolePermissionRepository(pool *pgxpool.Pool) *RolePermissionRepository {
	return &RolePermissionRepository{pool: pool}
}

// Attach links a permission to a role. A duplicate pair surfaces as a
// unique-violation pgx error for the caller to translate.
func (r *RolePermissionRepository) Attach(ctx context.Context, roleID, permissionID int64) error {
	query := `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("attach permission to role: %w", err)
	}
	return nil
}

// AttachIdempotent links a permission to a role, ignoring an existing link.
// Used by the seeder.
func (r *RolePermissionRepository) AttachIdempotent(ctx context.Context, roleID, permissionID int64) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("attach permission to role: %w", err)
	}
	return nil
}

func (r *RolePermissionRepository) Detach(ctx context.Context, roleID, permissionID int64) error {
	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`

	tag, err := r.pool.Exec(ctx, query, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("detach permission from role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRolePermissionNotFound
	}
	return nil
}

// ListByRoleID returns every permission attached to a role.
func (r *RolePermissionRepository) ListByRoleID(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	query := `
		SELECT p.id, p.name, p.action, p.description, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name ASC, p.action ASC
	`

	rows, err := r.pool.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

// ExistsForRoles reports whether any of the given roles holds the given
// permission.
func (r *RolePermissionRepository) ExistsForRoles(ctx context.Context, roleIDs []int64, permissionID int64) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM role_permissions
			WHERE role_id = ANY($1) AND permission_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, roleIDs, permissionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query permission held by roles: %w", err)
	}
	return exists, nil
}

// HeldPermissionIDs filters permissionIDs down to the ones held by at least
// one of the given roles.
func (r *RolePermissionRepository) HeldPermissionIDs(ctx context.Context, roleIDs []int64, permissionIDs []int64) ([]int64, error) {
	if len(roleIDs) == 0 || len(permissionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT permission_id
		FROM role_permissions
		WHERE role_id = ANY($1) AND permission_id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, roleIDs, permissionIDs)
	if err != nil {
		return nil, fmt.Errorf("query permissions held by roles: %w", err)
	}
	defer rows.Close()

	var held []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan held permission id: %w", err)
		}
		held = append(held, id)
	}
	return held, rows.Err()
}
