package service_test

import (
	"context"
	"testing"
	"time"

	"converso-api/internal/apperr"
	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(users *fakeUserStore) *service.AuthService {
	tokens := auth.NewTokenManager([]byte("unit-test-secret-of-sufficient-length"), time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return service.NewAuthService(users, tokens, hasher, nopLogger())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := newAuthService(users)

	user, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "senha-forte",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "senha-forte", user.Password, "password must be stored hashed")

	loggedIn, token, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "maria@example.com",
		Password: "senha-forte",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
}

func TestAuthService_LoginRejectsWithoutEnumeration(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := newAuthService(users)

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Maria", Email: "maria@example.com", Password: "senha-forte",
	})
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable
	_, _, errUnknown := svc.Login(ctx, &domain.LoginRequest{Email: "ninguem@example.com", Password: "x"})
	_, _, errWrong := svc.Login(ctx, &domain.LoginRequest{Email: "maria@example.com", Password: "errada"})

	for _, err := range []error{errUnknown, errWrong} {
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindUnauthorized, appErr.Kind)
		assert.Equal(t, "Credenciais inválidas", appErr.Message)
	}
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := newAuthService(users)

	user, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Maria", Email: "maria@example.com", Password: "senha-forte",
	})
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", me.Email)

	_, err = svc.Me(ctx, 999)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, "Usuário não encontrado", appErr.Message)
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := newAuthService(users)

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Maria", Email: "maria@example.com", Password: "senha-forte",
	})
	require.NoError(t, err)

	user, newPassword, err := svc.ResetPassword(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Len(t, newPassword, 8)
	assert.Equal(t, "maria@example.com", user.Email)

	// Old password no longer works, the generated one does
	_, _, err = svc.Login(ctx, &domain.LoginRequest{Email: "maria@example.com", Password: "senha-forte"})
	assert.Error(t, err)
	_, _, err = svc.Login(ctx, &domain.LoginRequest{Email: "maria@example.com", Password: newPassword})
	assert.NoError(t, err)

	_, _, err = svc.ResetPassword(ctx, "ninguem@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := newAuthService(users)

	user, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Maria", Email: "maria@example.com", Password: "senha-forte",
	})
	require.NoError(t, err)

	// Wrong current password fails regardless of the new one
	_, err = svc.ChangePassword(ctx, user.ID, "errada", "nova-senha")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthorized, appErr.Kind)

	_, err = svc.ChangePassword(ctx, user.ID, "senha-forte", "nova-senha")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &domain.LoginRequest{Email: "maria@example.com", Password: "nova-senha"})
	assert.NoError(t, err)
}
