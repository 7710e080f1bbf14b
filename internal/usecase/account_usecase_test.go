package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func newAccountUseCase(repo *mocks.MockAccountRepository, cache *mocks.MockBalanceCache) *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(repo, cache, mocks.NewMockIDGenerator(), zerolog.Nop(), metrics.NewWithRegisterer(prometheus.NewRegistry()))
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	apr := decimal.NewFromFloat(19.99)
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		setupMocks  func(*mocks.MockAccountRepository)
		expectError error
	}{
		{
			name: "asset account",
			input: usecase.CreateAccountInput{
				UserID:         testUser,
				Name:           "Checking",
				Kind:           "asset",
				Currency:       "usd",
				OpeningBalance: decimal.NewFromInt(1000),
			},
		},
		{
			name: "debt account with apr",
			input: usecase.CreateAccountInput{
				UserID:   testUser,
				Name:     "Card",
				Kind:     "DEBT",
				Currency: "USD",
				APR:      &apr,
			},
		},
		{
			name:        "unknown kind",
			input:       usecase.CreateAccountInput{UserID: testUser, Name: "Broker", Kind: "EQUITY", Currency: "USD"},
			expectError: domain.ErrInvalidAccountKind,
		},
		{
			name:        "unknown currency",
			input:       usecase.CreateAccountInput{UserID: testUser, Name: "Cash", Kind: "ASSET", Currency: "XYZ"},
			expectError: domain.ErrInvalidCurrency,
		},
		{
			name:        "empty name",
			input:       usecase.CreateAccountInput{UserID: testUser, Name: "  ", Kind: "ASSET", Currency: "USD"},
			expectError: domain.ErrInvalidAccountName,
		},
		{
			name:        "negative credit limit",
			input:       usecase.CreateAccountInput{UserID: testUser, Name: "Card", Kind: "DEBT", Currency: "USD", CreditLimit: &negative},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:  "repository error",
			input: usecase.CreateAccountInput{UserID: testUser, Name: "Cash", Kind: "ASSET", Currency: "USD"},
			setupMocks: func(repo *mocks.MockAccountRepository) {
				repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
					return errBoom
				}
			},
			expectError: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}

			uc := newAccountUseCase(repo, mocks.NewMockBalanceCache())
			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, account)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, account.ID)
			assert.Equal(t, "USD", account.Currency)
			assert.False(t, account.Archived)

			stored, err := repo.GetByID(context.Background(), testUser, account.ID)
			require.NoError(t, err)
			assert.Equal(t, account.Kind, stored.Kind)
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Seed(account("acc-1", "Checking", domain.AccountKindAsset, "USD", 10))
	uc := newAccountUseCase(repo, mocks.NewMockBalanceCache())

	got, err := uc.GetAccount(context.Background(), testUser, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)

	_, err = uc.GetAccount(context.Background(), "user-2", "acc-1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ListAccountsInput
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", input: usecase.ListAccountsInput{}, wantLimit: 20},
		{name: "capped", input: usecase.ListAccountsInput{Limit: 500, Offset: 3}, wantLimit: 100, wantOffset: 3},
		{name: "negative offset", input: usecase.ListAccountsInput{Limit: 5, Offset: -2}, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			var gotLimit, gotOffset int
			repo.ListFunc = func(ctx context.Context, userID string, includeArchived bool, limit, offset int) ([]*domain.Account, error) {
				gotLimit, gotOffset = limit, offset
				return nil, nil
			}

			uc := newAccountUseCase(repo, mocks.NewMockBalanceCache())
			_, err := uc.ListAccounts(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)
		})
	}
}

func TestAccountUseCase_ListAccounts_HidesArchived(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	archived := account("acc-2", "Old", domain.AccountKindAsset, "USD", 0)
	archived.Archived = true
	repo.Seed(account("acc-1", "Checking", domain.AccountKindAsset, "USD", 0), archived)

	uc := newAccountUseCase(repo, mocks.NewMockBalanceCache())

	active, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{UserID: testUser})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{UserID: testUser, IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAccountUseCase_UpdateAccount(t *testing.T) {
	newName := "Main checking"
	newOpening := decimal.NewFromInt(250)
	sameOpening := decimal.NewFromInt(1000)

	tests := []struct {
		name            string
		input           usecase.UpdateAccountInput
		wantInvalidated bool
		expectError     error
	}{
		{
			name:  "rename keeps cache",
			input: usecase.UpdateAccountInput{UserID: testUser, ID: "acc-1", Name: &newName},
		},
		{
			name:            "opening balance change drops cache",
			input:           usecase.UpdateAccountInput{UserID: testUser, ID: "acc-1", OpeningBalance: &newOpening},
			wantInvalidated: true,
		},
		{
			name:  "unchanged opening balance keeps cache",
			input: usecase.UpdateAccountInput{UserID: testUser, ID: "acc-1", OpeningBalance: &sameOpening},
		},
		{
			name:        "unknown account",
			input:       usecase.UpdateAccountInput{UserID: testUser, ID: "missing", Name: &newName},
			expectError: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			repo.Seed(account("acc-1", "Checking", domain.AccountKindAsset, "USD", 1000))
			cache := mocks.NewMockBalanceCache()

			uc := newAccountUseCase(repo, cache)
			updated, err := uc.UpdateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				return
			}

			require.NoError(t, err)
			if tt.input.Name != nil {
				assert.Equal(t, *tt.input.Name, updated.Name)
			}
			if tt.wantInvalidated {
				assert.Equal(t, []string{"acc-1"}, cache.Invalidated)
			} else {
				assert.Empty(t, cache.Invalidated)
			}
		})
	}
}

func TestAccountUseCase_ArchiveAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Seed(account("acc-1", "Checking", domain.AccountKindAsset, "USD", 1000))
	cache := mocks.NewMockBalanceCache()
	uc := newAccountUseCase(repo, cache)
	ctx := context.Background()

	archived, err := uc.ArchiveAccount(ctx, testUser, "acc-1")
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.WithinDuration(t, time.Now(), archived.UpdatedAt, time.Minute)
	assert.Equal(t, []string{"acc-1"}, cache.Invalidated)

	// archiving twice is a no-op
	_, err = uc.ArchiveAccount(ctx, testUser, "acc-1")
	require.NoError(t, err)
	assert.Len(t, cache.Invalidated, 1)

	restored, err := uc.UnarchiveAccount(ctx, testUser, "acc-1")
	require.NoError(t, err)
	assert.False(t, restored.Archived)

	stored, err := repo.GetByID(ctx, testUser, "acc-1")
	require.NoError(t, err)
	assert.False(t, stored.Archived)
}

func TestAccountUseCase_ArchiveAccount_InvalidateFailureIsLogged(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Seed(account("acc-1", "Checking", domain.AccountKindAsset, "USD", 1000))
	cache := mocks.NewMockBalanceCache()
	cache.InvalidateAccountFunc = func(ctx context.Context, accountID string) error {
		return errBoom
	}

	uc := newAccountUseCase(repo, cache)
	archived, err := uc.ArchiveAccount(context.Background(), testUser, "acc-1")
	require.NoError(t, err)
	assert.True(t, archived.Archived)
}
