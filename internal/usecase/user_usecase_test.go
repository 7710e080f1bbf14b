package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/gomocks"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func newUserUseCase(repo usecase.UserRepository) *usecase.UserUseCase {
	return usecase.NewUserUseCase(repo, &mocks.MockTokenIssuer{}, mocks.NewMockIDGenerator(), nil)
}

func TestUserUseCase_Register(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := newUserUseCase(repo)

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "  Alice@Example.COM ",
		Name:     " Alice ",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestUserUseCase_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr error
	}{
		{name: "invalid email", input: usecase.RegisterInput{Email: "not-an-email", Password: "longenough"}, wantErr: domain.ErrInvalidEmail},
		{name: "display name in email", input: usecase.RegisterInput{Email: "Alice <alice@example.com>", Password: "longenough"}, wantErr: domain.ErrInvalidEmail},
		{name: "short password", input: usecase.RegisterInput{Email: "a@example.com", Password: "short"}, wantErr: domain.ErrPasswordTooWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUserUseCase(mocks.NewMockUserRepository()).Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	uc := newUserUseCase(mocks.NewMockUserRepository())
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, usecase.RegisterInput{Email: "A@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserUseCase_Register_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockUserRepository(ctrl)

	repo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(nil, errBoom)

	_, err := newUserUseCase(repo).Register(context.Background(), usecase.RegisterInput{Email: "a@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, errBoom)
}

func TestUserUseCase_Login(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := newUserUseCase(repo)
	ctx := context.Background()

	registered, err := uc.Register(ctx, usecase.RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    usecase.LoginInput
		wantErr  error
		wantUser string
	}{
		{name: "valid credentials", input: usecase.LoginInput{Email: "A@Example.com", Password: "longenough"}, wantUser: registered.ID},
		{name: "wrong password", input: usecase.LoginInput{Email: "a@example.com", Password: "wrong-password"}, wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", input: usecase.LoginInput{Email: "b@example.com", Password: "longenough"}, wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, result.User.ID)
			assert.Equal(t, "token-"+tt.wantUser, result.Token)
			assert.Empty(t, result.User.PasswordHash)
		})
	}
}

func TestUserUseCase_Login_TokenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gomocks.NewMockUserRepository(ctrl)
	tokens := gomocks.NewMockTokenIssuer(ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{ID: "user-1", Email: "a@example.com", PasswordHash: string(hash)}
	repo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(user, nil)
	tokens.EXPECT().Generate(user).Return("", errBoom)

	uc := usecase.NewUserUseCase(repo, tokens, mocks.NewMockIDGenerator(), nil)
	_, err = uc.Login(context.Background(), usecase.LoginInput{Email: "a@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, errBoom)
}

func TestUserUseCase_GetUser(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := newUserUseCase(repo)

	registered, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)

	got, err := uc.GetUser(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Empty(t, got.PasswordHash)

	_, err = uc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
