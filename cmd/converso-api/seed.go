package main

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/auth"
	"converso-api/internal/config"
	"converso-api/internal/database"
	"converso-api/internal/domain"
	"converso-api/internal/observability/logger"
	"converso-api/internal/repo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed baseline roles, permissions and users",
	Long:  `Create the permission matrix, the admin/user/guest roles and the default users. Safe to re-run.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// Matriz base de permissões: cada recurso administrável recebe as quatro
// ações CRUD.
var seedResources = []string{"roles", "permissions", "conversations"}

var seedActions = []domain.PermissionAction{
	domain.ActionCreate,
	domain.ActionRead,
	domain.ActionUpdate,
	domain.ActionDelete,
}

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var seedUsers = []seedUser{
	{name: "Admin User", email: "admin@example.com", password: "admin123", role: "admin"},
	{name: "Regular User", email: "user@example.com", password: "user123", role: "user"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.OTELServiceName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)
	roles := repo.NewRoleRepository(pool)
	permissions := repo.NewPermissionRepository(pool)
	rolePerms := repo.NewRolePermissionRepository(pool)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	log.Info(ctx, "starting database seeding", logger.Module("seed"), logger.Action("run"))

	// Permissões: recurso × ação.
	permByKey := make(map[string]*domain.Permission)
	for _, resource := range seedResources {
		for _, action := range seedActions {
			perm, err := ensurePermission(ctx, permissions, resource, action)
			if err != nil {
				return err
			}
			permByKey[fmt.Sprintf("%s:%s", resource, action)] = perm
		}
	}
	log.Info(ctx, "permissions seeded", logger.Module("seed"), zap.Int("count", len(permByKey)))

	roleByName := make(map[string]*domain.Role)
	for _, name := range []string{"admin", "user", "guest"} {
		role, err := ensureRole(ctx, roles, name)
		if err != nil {
			return err
		}
		roleByName[name] = role
	}
	log.Info(ctx, "roles seeded", logger.Module("seed"), zap.Int("count", len(roleByName)))

	// admin recebe a matriz inteira; user e guest recebem subconjuntos.
	for _, perm := range permByKey {
		if err := rolePerms.AttachIdempotent(ctx, roleByName["admin"].ID, perm.ID); err != nil {
			return fmt.Errorf("attach permission to admin: %w", err)
		}
	}
	for _, key := range []string{"conversations:read", "conversations:update", "roles:read"} {
		if err := rolePerms.AttachIdempotent(ctx, roleByName["user"].ID, permByKey[key].ID); err != nil {
			return fmt.Errorf("attach permission to user: %w", err)
		}
	}
	if err := rolePerms.AttachIdempotent(ctx, roleByName["guest"].ID, permByKey["conversations:read"].ID); err != nil {
		return fmt.Errorf("attach permission to guest: %w", err)
	}
	log.Info(ctx, "role permissions seeded", logger.Module("seed"))

	for _, su := range seedUsers {
		user, err := ensureUser(ctx, users, hasher, su)
		if err != nil {
			return err
		}
		if err := roles.AssignToUser(ctx, user.ID, roleByName[su.role].ID); err != nil {
			return fmt.Errorf("assign role %s to %s: %w", su.role, su.email, err)
		}
	}
	log.Info(ctx, "users seeded", logger.Module("seed"), zap.Int("count", len(seedUsers)))

	fmt.Println("✓ Seeding completed successfully")
	return nil
}

func ensurePermission(ctx context.Context, permissions *repo.PermissionRepository, resource string, action domain.PermissionAction) (*domain.Permission, error) {
	perm, err := permissions.FindByNameAction(ctx, resource, action)
	if err == nil {
		return perm, nil
	}
	if !errors.Is(err, repo.ErrPermissionNotFound) {
		return nil, fmt.Errorf("lookup permission %s:%s: %w", resource, action, err)
	}

	description := fmt.Sprintf("Permite %s em %s", action, resource)
	perm, err = permissions.Create(ctx, resource, action, &description)
	if err != nil {
		return nil, fmt.Errorf("create permission %s:%s: %w", resource, action, err)
	}
	return perm, nil
}

func ensureRole(ctx context.Context, roles *repo.RoleRepository, name string) (*domain.Role, error) {
	role, err := roles.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, repo.ErrRoleNotFound) {
		return nil, fmt.Errorf("lookup role %s: %w", name, err)
	}

	description := fmt.Sprintf("Papel %s", name)
	role, err = roles.Create(ctx, name, &description)
	if err != nil {
		return nil, fmt.Errorf("create role %s: %w", name, err)
	}
	return role, nil
}

func ensureUser(ctx context.Context, users *repo.UserRepository, hasher *auth.PasswordHasher, su seedUser) (*domain.User, error) {
	user, err := users.FindByEmail(ctx, su.email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user %s: %w", su.email, err)
	}

	hash, err := hasher.Hash(su.password)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", su.email, err)
	}
	user, err = users.Create(ctx, su.name, su.email, hash)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", su.email, err)
	}
	return user, nil
}
