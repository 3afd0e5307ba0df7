package service

import (
	"context"
	"errors"
	"fmt"

	"converso-api/internal/apperr"
	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/observability/logger"
	"converso-api/internal/repo"

	"go.uber.org/zap"
)

const resetPasswordLength = 8

// UserStore é o recorte do repositório de usuários usado pelo serviço de
// autenticação.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	hasher *auth.PasswordHasher
	log    *logger.Logger
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, hasher *auth.PasswordHasher, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		log:    log,
	}
}

// Register cria um usuário com a senha já em hash. E-mail duplicado sobe
// como violação de unicidade e vira 409 na borda HTTP.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered",
		logger.Module("auth"),
		logger.Action("register"),
		zap.Int64("user_id", user.ID),
	)
	return user, nil
}

// Login valida as credenciais e emite um token. E-mail desconhecido e senha
// incorreta respondem com a mesma mensagem para não sinalizar quais e-mails
// existem.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, *domain.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, nil, apperr.Unauthorized("Credenciais inválidas")
		}
		return nil, nil, fmt.Errorf("find user by email: %w", err)
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		s.log.Warn(ctx, "login with wrong password",
			logger.Module("auth"),
			logger.Action("login"),
			zap.Int64("user_id", user.ID),
		)
		return nil, nil, apperr.Unauthorized("Credenciais inválidas")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "user logged in",
		logger.Module("auth"),
		logger.Action("login"),
		zap.Int64("user_id", user.ID),
	)
	return user, &domain.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.Expiry().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Me resolve o usuário autenticado. O token pode sobreviver à conta.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperr.NotFound("Usuário não encontrado")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// ResetPassword gera uma senha aleatória de 8 caracteres, persiste o hash e
// devolve a senha em claro uma única vez, como o contrato da API define.
func (s *AuthService) ResetPassword(ctx context.Context, email string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, "", apperr.NotFound("Usuário não encontrado")
		}
		return nil, "", fmt.Errorf("find user by email: %w", err)
	}

	newPassword, err := auth.GeneratePassword(resetPasswordLength)
	if err != nil {
		return nil, "", fmt.Errorf("generate password: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, "", fmt.Errorf("update password: %w", err)
	}

	s.log.Info(ctx, "password reset",
		logger.Module("auth"),
		logger.Action("reset_password"),
		zap.Int64("user_id", user.ID),
	)
	return user, newPassword, nil
}

// ChangePassword troca a senha após conferir a atual.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperr.NotFound("Usuário não encontrado")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	if !s.hasher.Compare(user.Password, currentPassword) {
		return nil, apperr.Unauthorized("Senha atual incorreta")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	s.log.Info(ctx, "password changed",
		logger.Module("auth"),
		logger.Action("change_password"),
		zap.Int64("user_id", user.ID),
	)
	return user, nil
}
