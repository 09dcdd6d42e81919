package service_test

import (
	"context"
	"testing"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndLogin(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.Create(ctx, &domain.CreateUserRequest{
		Username: "anita",
		Password: "correct-horse",
		Email:    "anita@example.com",
		Role:     domain.RoleFinance,
		Name:     "Anita Desai",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFinance, user.Role)

	var stored domain.User
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "correct-horse", stored.Password)

	resp, err := s.users.Login(ctx, &domain.LoginRequest{Username: "anita", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	userCtx, err := s.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)

	_, err = s.users.Login(ctx, &domain.LoginRequest{Username: "anita", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = s.users.Login(ctx, &domain.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = s.users.Create(ctx, &domain.CreateUserRequest{Username: "anita", Password: "another-pass", Email: "x@example.com", Name: "Dup"})
	assert.ErrorIs(t, err, service.ErrConflict)
}
