package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

type userRepo struct{ users []entity.User }

func (r *userRepo) Create(context.Context, *entity.User) error { return nil }
func (r *userRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}
func (r *userRepo) Update(context.Context, *entity.User) error { return nil }
func (r *userRepo) List(context.Context, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (r *userRepo) Delete(context.Context, string) error { return nil }

func newAuth(t *testing.T, active bool) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &userRepo{users: []entity.User{{
		ID: "u1", Email: "gestor@example.com", PasswordHash: string(hash), Role: entity.RoleStockManager, Active: active,
	}}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "gestion-stock-test"})
}

func TestLogin_IssuesTokenWithRole(t *testing.T) {
	uc := newAuth(t, true)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "Gestor@example.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, entity.RoleStockManager, claims.Role)
	assert.Equal(t, "gestor@example.com", claims.Email)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := newAuth(t, true).Login(ctx, dto.LoginRequest{Email: "gestor@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = newAuth(t, true).Login(ctx, dto.LoginRequest{Email: "otro@example.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = newAuth(t, false).Login(ctx, dto.LoginRequest{Email: "gestor@example.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = newAuth(t, true).Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
