package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// LedgerService defines the behavior needed by TransactionHandler.
type LedgerService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionResult, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string, mode domain.DeleteMode) (*usecase.DeleteResult, error)
	GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error)
	TransactionState(ctx context.Context, userID, id string) (domain.RecurrenceState, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
	GetRecurringRule(ctx context.Context, userID, id string) (*domain.RecurringRule, error)
	ListRecurringRules(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error)
}

// TransactionHandler handles transaction and recurring rule requests.
type TransactionHandler struct {
	ledgerUC LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// Create records a transaction, optionally starting a recurring series.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ledgerUC.CreateTransaction(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateTransactionFromResult(result))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists transactions, optionally filtered by account and date range.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}

	input := usecase.ListTransactionsInput{
		UserID:    user.ID,
		AccountID: r.URL.Query().Get("account_id"),
		From:      from,
		To:        to,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	txns, err := h.ledgerUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Count:        len(txns),
		Limit:        input.Limit,
		Offset:       input.Offset,
	})
}

// Update replaces a transaction's fields.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.ledgerUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(user.ID, chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction. With mode=future on a recurring
// transaction it also removes later occurrences and ends the rule.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	mode, err := domain.ParseDeleteMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delete mode", err.Error())
		return
	}

	result, err := h.ledgerUC.DeleteTransaction(r.Context(), user.ID, chi.URLParam(r, "id"), mode)
	if err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteTransactionResponse{
		Mode:            string(result.Mode),
		Deleted:         result.Deleted,
		RuleDeactivated: result.RuleDeactivated,
	})
}

// Recurrence reports whether a transaction is standalone, a rule origin or
// a generated instance.
func (h *TransactionHandler) Recurrence(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	state, err := h.ledgerUC.TransactionState(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get recurrence state", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurrenceStateResponse{
		State:  string(state.Kind),
		RuleID: state.RuleID,
	})
}

// GetRule retrieves a recurring rule.
func (h *TransactionHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rule, err := h.ledgerUC.GetRecurringRule(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get recurring rule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringRuleFromDomain(rule))
}

// ListRules lists recurring rules.
func (h *TransactionHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rules, err := h.ledgerUC.ListRecurringRules(
		r.Context(),
		user.ID,
		parseBoolQuery(r, "active", false),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, r, "failed to list recurring rules", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recurring_rules": dto.RecurringRulesFromDomain(rules),
	})
}
