package service

import (
	"context"
	"testing"

	"lojalink/internal/dto"
	"lojalink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*stubUserRepo, AuthService) {
	t.Helper()
	users := newStubUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.add(&model.User{
		Name:         "Admin",
		Email:        "admin@x.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	})
	return users, NewAuthService(users, testSecret, 1, 24)
}

func TestLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "senha123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email gets the exact same answer
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@x.com", Password: "senha123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	users, svc := newAuthFixture(t)
	for _, u := range users.byID {
		u.Active = false
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "senha123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	_, svc := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "senha123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	users, svc := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "senha123"})
	require.NoError(t, err)

	for _, u := range users.byID {
		u.Active = false
	}
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestCreateUserValidatesRole(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "X", Email: "x@x.com", Password: "1234", Role: "root",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Outro", Email: "admin@x.com", Password: "1234", Role: "seller",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserHashesPassword(t *testing.T) {
	users, svc := newAuthFixture(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Nova", Email: "nova@x.com", Password: "segredo", Role: "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "seller", resp.Role)
	assert.True(t, resp.Active)

	stored := users.byEmail["nova@x.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "segredo", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("segredo")))
}
