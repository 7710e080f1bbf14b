package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	balances    BalanceCache
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	balances BalanceCache,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		balances:    balances,
		idGen:       idGen,
		logger:      logger,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID         string
	Name           string
	Kind           string
	Currency       string
	OpeningBalance decimal.Decimal
	APR            *decimal.Decimal
	CreditLimit    *decimal.Decimal
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	kind, err := domain.ParseAccountKind(input.Kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		UserID:         input.UserID,
		Name:           input.Name,
		Kind:           kind,
		Currency:       domain.NormalizeCurrency(input.Currency),
		OpeningBalance: input.OpeningBalance,
		APR:            input.APR,
		CreditLimit:    input.CreditLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, userID, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	UserID          string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.accountRepo.List(ctx, input.UserID, input.IncludeArchived, input.Limit, input.Offset)
}

// UpdateAccountInput changes the fields that are set.
type UpdateAccountInput struct {
	UserID         string
	ID             string
	Name           *string
	OpeningBalance *decimal.Decimal
	APR            *decimal.Decimal
	CreditLimit    *decimal.Decimal
}

// UpdateAccount applies a partial update. Changing the opening balance
// shifts every balance of the account, so its cache is dropped.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	openingChanged := false

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.OpeningBalance != nil && !input.OpeningBalance.Equal(account.OpeningBalance) {
		account.OpeningBalance = *input.OpeningBalance
		openingChanged = true
	}
	if input.APR != nil {
		account.APR = input.APR
	}
	if input.CreditLimit != nil {
		account.CreditLimit = input.CreditLimit
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.recordOperation("update")

	if openingChanged {
		uc.invalidate(ctx, account.ID)
	}

	return account, nil
}

// ArchiveAccount hides an account from active balance computation. Its
// transactions are kept.
func (uc *AccountUseCase) ArchiveAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	return uc.setArchived(ctx, userID, id, true)
}

// UnarchiveAccount restores an archived account.
func (uc *AccountUseCase) UnarchiveAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	return uc.setArchived(ctx, userID, id, false)
}

func (uc *AccountUseCase) setArchived(ctx context.Context, userID, id string, archived bool) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if account.Archived == archived {
		return account, nil
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.SetArchived(ctx, userID, id, archived, now); err != nil {
		return nil, err
	}

	account.Archived = archived
	account.UpdatedAt = now

	if archived {
		uc.recordOperation("archive")
		uc.invalidate(ctx, account.ID)
	} else {
		uc.recordOperation("unarchive")
	}

	return account, nil
}

func (uc *AccountUseCase) invalidate(ctx context.Context, accountID string) {
	if err := uc.balances.InvalidateAccount(ctx, accountID); err != nil {
		uc.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to invalidate daily balances")
	}
}

func (uc *AccountUseCase) recordOperation(op string) {
	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues(op).Inc()
	}
}
