package repo

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPermissionNotFound = errors.New("permission not found")

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) FindByID(ctx context.Context, id int64) (*domain.Permission, error) {
	query := `
		SELECT id, name, action, description, created_at, updated_at
		FROM permissions
		WHERE id = $1
	`

	var perm domain.Permission
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("query permission by id: %w", err)
	}
	return &perm, nil
}

// FindByNameAction looks up the permission identified by the (resource name,
// action) pair, which is unique.
func (r *PermissionRepository) FindByNameAction(ctx context.Context, name string, action domain.PermissionAction) (*domain.Permission, error) {
	query := `
		SELECT id, name, action, description, created_at, updated_at
		FROM permissions
		WHERE name = $1 AND action = $2
	`

	var perm domain.Permission
	err := r.pool.QueryRow(ctx, query, name, action).Scan(
		&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("query permission by name/action: %w", err)
	}
	return &perm, nil
}

func (r *PermissionRepository) List(ctx context.Context, limit, offset int) ([]domain.Permission, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM permissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count permissions: %w", err)
	}

	query := `
		SELECT id, name, action, description, created_at, updated_at
		FROM permissions
		ORDER BY name ASC, action ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]domain.Permission, 0, limit)
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, perm)
	}
	return perms, total, rows.Err()
}

func (r *PermissionRepository) Create(ctx context.Context, name string, action domain.PermissionAction, description *string) (*domain.Permission, error) {
	query := `
		INSERT INTO permissions (name, action, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, action, description, created_at, updated_at
	`

	var perm domain.Permission
	err := r.pool.QueryRow(ctx, query, name, action, description).Scan(
		&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return &perm, nil
}

func (r *PermissionRepository) Update(ctx context.Context, id int64, name *string, action *domain.PermissionAction, description *string) (*domain.Permission, error) {
	query := `
		UPDATE permissions
		SET name = COALESCE($2, name),
		    action = COALESCE($3, action),
		    description = COALESCE($4, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, action, description, created_at, updated_at
	`

	var perm domain.Permission
	err := r.pool.QueryRow(ctx, query, id, name, action, description).Scan(
		&perm.ID, &perm.Name, &perm.Action, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}
	return &perm, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}
