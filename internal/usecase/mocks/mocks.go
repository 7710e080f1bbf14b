package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	locks    *rowLocks

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, userID, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Tx, userID string, ids []string) ([]*domain.Account, error)
	UpdateFunc            func(ctx context.Context, account *domain.Account) error
	SetArchivedFunc       func(ctx context.Context, userID, id string, archived bool, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, userID string, includeArchived bool, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
		locks:    newRowLocks(),
	}
}

// Seed stores accounts directly.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range accounts {
		c := *acc
		m.accounts[acc.ID] = &c
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, userID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.UserID == userID {
		c := *acc
		return &c, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Tx, userID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, userID, ids)
	}
	if mtx, ok := tx.(*MockTx); ok {
		for _, id := range ids {
			m.locks.acquire(mtx, id)
		}
	}
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, err := m.GetByID(ctx, userID, id); err == nil {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	c := *account
	m.accounts[account.ID] = &c
	return nil
}

func (m *MockAccountRepository) SetArchived(ctx context.Context, userID, id string, archived bool, updatedAt time.Time) error {
	if m.SetArchivedFunc != nil {
		return m.SetArchivedFunc(ctx, userID, id, archived, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok || acc.UserID != userID {
		return domain.ErrAccountNotFound
	}
	acc.Archived = archived
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, userID string, includeArchived bool, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, includeArchived, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.UserID != userID || (acc.Archived && !includeArchived) {
			continue
		}
		c := *acc
		accounts = append(accounts, &c)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return page(accounts, limit, offset), nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc            func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
	CreateBatchFunc       func(ctx context.Context, tx usecase.Tx, txns []*domain.Transaction) error
	GetByIDFunc           func(ctx context.Context, userID, id string) (*domain.Transaction, error)
	UpdateFunc            func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
	DeleteFunc            func(ctx context.Context, tx usecase.Tx, userID, id string) error
	DeleteByRuleFromFunc  func(ctx context.Context, tx usecase.Tx, ruleID string, from time.Time) ([]*domain.Transaction, error)
	SetRecurringRuleFunc  func(ctx context.Context, tx usecase.Tx, id, ruleID string) error
	ListByAccountUpToFunc func(ctx context.Context, accountID string, upTo time.Time) ([]*domain.Transaction, error)
	ListFunc              func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

// Seed stores transactions directly.
func (m *MockTransactionRepository) Seed(txns ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range txns {
		m.txns[txn.ID] = txn.Clone()
	}
}

// All returns every stored transaction ordered by date then ID.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(m.txns))
	for _, txn := range m.txns {
		out = append(out, txn.Clone())
	}
	sortTransactions(out)
	return out
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; ok {
		return fmt.Errorf("duplicate transaction id %s", txn.ID)
	}
	m.txns[txn.ID] = txn.Clone()
	return nil
}

func (m *MockTransactionRepository) CreateBatch(ctx context.Context, tx usecase.Tx, txns []*domain.Transaction) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, txns)
	}
	for _, txn := range txns {
		if err := m.Create(ctx, tx, txn); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok && txn.UserID == userID {
		return txn.Clone(), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, userID, id string) (*domain.Transaction, error) {
	return m.GetByID(ctx, userID, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.txns[txn.ID] = txn.Clone()
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Tx, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok || txn.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.txns, id)
	return nil
}

func (m *MockTransactionRepository) DeleteByRuleFrom(ctx context.Context, tx usecase.Tx, ruleID string, from time.Time) ([]*domain.Transaction, error) {
	if m.DeleteByRuleFromFunc != nil {
		return m.DeleteByRuleFromFunc(ctx, tx, ruleID, from)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted []*domain.Transaction
	for id, txn := range m.txns {
		if txn.RecurringRuleID == nil || *txn.RecurringRuleID != ruleID {
			continue
		}
		if calendar.Before(txn.Date, from) {
			continue
		}
		deleted = append(deleted, txn)
		delete(m.txns, id)
	}
	sortTransactions(deleted)
	return deleted, nil
}

func (m *MockTransactionRepository) SetRecurringRule(ctx context.Context, tx usecase.Tx, id, ruleID string) error {
	if m.SetRecurringRuleFunc != nil {
		return m.SetRecurringRuleFunc(ctx, tx, id, ruleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.RecurringRuleID = &ruleID
	return nil
}

func (m *MockTransactionRepository) ListByAccountUpTo(ctx context.Context, accountID string, upTo time.Time) ([]*domain.Transaction, error) {
	if m.ListByAccountUpToFunc != nil {
		return m.ListByAccountUpToFunc(ctx, accountID, upTo)
	}
	var out []*domain.Transaction
	for _, txn := range m.All() {
		if calendar.Before(upTo, txn.Date) {
			continue
		}
		if txn.AccountID == accountID || (txn.ToAccountID != nil && *txn.ToAccountID == accountID) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	var out []*domain.Transaction
	for _, txn := range m.All() {
		if txn.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != "" && txn.AccountID != filter.AccountID &&
			(txn.ToAccountID == nil || *txn.ToAccountID != filter.AccountID) {
			continue
		}
		if filter.From != nil && calendar.Before(txn.Date, *filter.From) {
			continue
		}
		if filter.To != nil && calendar.Before(*filter.To, txn.Date) {
			continue
		}
		out = append(out, txn)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

// MockRecurringRuleRepository is a mock implementation of RecurringRuleRepository.
type MockRecurringRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.RecurringRule

	CreateFunc     func(ctx context.Context, tx usecase.Tx, rule *domain.RecurringRule) error
	GetByIDFunc    func(ctx context.Context, userID, id string) (*domain.RecurringRule, error)
	DeactivateFunc func(ctx context.Context, tx usecase.Tx, id string, updatedAt time.Time) error
	ListFunc       func(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error)
}

func NewMockRecurringRuleRepository() *MockRecurringRuleRepository {
	return &MockRecurringRuleRepository{
		rules: make(map[string]*domain.RecurringRule),
	}
}

func (m *MockRecurringRuleRepository) Create(ctx context.Context, tx usecase.Tx, rule *domain.RecurringRule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *rule
	m.rules[rule.ID] = &c
	return nil
}

func (m *MockRecurringRuleRepository) GetByID(ctx context.Context, userID, id string) (*domain.RecurringRule, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rule, ok := m.rules[id]; ok && rule.UserID == userID {
		c := *rule
		return &c, nil
	}
	return nil, domain.ErrRuleNotFound
}

func (m *MockRecurringRuleRepository) Deactivate(ctx context.Context, tx usecase.Tx, id string, updatedAt time.Time) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, tx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[id]
	if !ok {
		return domain.ErrRuleNotFound
	}
	rule.Active = false
	rule.UpdatedAt = updatedAt
	return nil
}

func (m *MockRecurringRuleRepository) List(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, activeOnly, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.RecurringRule
	for _, rule := range m.rules {
		if rule.UserID != userID || (activeOnly && !rule.Active) {
			continue
		}
		c := *rule
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// MockDailyBalanceRepository is a mock implementation of DailyBalanceRepository.
type MockDailyBalanceRepository struct {
	mu   sync.RWMutex
	rows map[string]map[time.Time]domain.DailyBalance

	GetFunc             func(ctx context.Context, accountID string, date time.Time) (*domain.DailyBalance, error)
	ListRangeFunc       func(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyBalance, error)
	UpsertBatchFunc     func(ctx context.Context, tx usecase.Tx, rows []domain.DailyBalance) error
	LatestDateFunc      func(ctx context.Context, accountID string) (time.Time, bool, error)
	DeleteFromFunc      func(ctx context.Context, accountID string, from time.Time) error
	DeleteByAccountFunc func(ctx context.Context, accountID string) error
}

func NewMockDailyBalanceRepository() *MockDailyBalanceRepository {
	return &MockDailyBalanceRepository{
		rows: make(map[string]map[time.Time]domain.DailyBalance),
	}
}

// Seed stores cached rows directly.
func (m *MockDailyBalanceRepository) Seed(rows ...domain.DailyBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.put(row)
	}
}

// Count returns the number of cached rows for an account.
func (m *MockDailyBalanceRepository) Count(accountID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows[accountID])
}

func (m *MockDailyBalanceRepository) put(row domain.DailyBalance) {
	row.Date = calendar.Normalize(row.Date)
	if m.rows[row.AccountID] == nil {
		m.rows[row.AccountID] = make(map[time.Time]domain.DailyBalance)
	}
	m.rows[row.AccountID][row.Date] = row
}

func (m *MockDailyBalanceRepository) Get(ctx context.Context, accountID string, date time.Time) (*domain.DailyBalance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row, ok := m.rows[accountID][calendar.Normalize(date)]; ok {
		return &row, nil
	}
	return nil, domain.ErrDailyBalanceNotFound
}

func (m *MockDailyBalanceRepository) ListRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyBalance, error) {
	if m.ListRangeFunc != nil {
		return m.ListRangeFunc(ctx, accountID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.DailyBalance
	for date, row := range m.rows[accountID] {
		if calendar.Before(date, start) || calendar.Before(end, date) {
			continue
		}
		r := row
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MockDailyBalanceRepository) UpsertBatch(ctx context.Context, tx usecase.Tx, rows []domain.DailyBalance) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, tx, rows)
	}
	m.Seed(rows...)
	return nil
}

func (m *MockDailyBalanceRepository) LatestDate(ctx context.Context, accountID string) (time.Time, bool, error) {
	if m.LatestDateFunc != nil {
		return m.LatestDateFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest time.Time
	found := false
	for date := range m.rows[accountID] {
		if !found || date.After(latest) {
			latest = date
			found = true
		}
	}
	return latest, found, nil
}

func (m *MockDailyBalanceRepository) DeleteFrom(ctx context.Context, accountID string, from time.Time) error {
	if m.DeleteFromFunc != nil {
		return m.DeleteFromFunc(ctx, accountID, from)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for date := range m.rows[accountID] {
		if !calendar.Before(date, from) {
			delete(m.rows[accountID], date)
		}
	}
	return nil
}

func (m *MockDailyBalanceRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if m.DeleteByAccountFunc != nil {
		return m.DeleteByAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, accountID)
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		c := *user
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockTxManager is a mock implementation of TxManager. It records every
// transaction it hands out.
type MockTxManager struct {
	mu  sync.Mutex
	txs []*MockTx

	BeginFunc func(ctx context.Context) (usecase.Tx, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTx{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Commits returns how many transactions were committed.
func (m *MockTxManager) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.txs {
		if tx.Committed {
			n++
		}
	}
	return n
}

// MockTx is a mock implementation of Tx. Row locks taken through it are
// released when it commits or rolls back.
type MockTx struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu       sync.Mutex
	ended    bool
	releases []func()
}

func (m *MockTx) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		err := m.CommitFunc(ctx)
		if err == nil {
			m.end()
		}
		return err
	}
	m.Committed = true
	m.end()
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	defer m.end()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

func (m *MockTx) onEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases = append(m.releases, fn)
}

func (m *MockTx) end() {
	m.mu.Lock()
	if m.ended {
		m.mu.Unlock()
		return
	}
	m.ended = true
	releases := m.releases
	m.releases = nil
	m.mu.Unlock()

	for _, release := range releases {
		release()
	}
}

// rowLocks models SELECT ... FOR UPDATE: a row stays locked by the
// transaction that selected it until that transaction ends.
type rowLocks struct {
	mu     sync.Mutex
	cond   *sync.Cond
	owners map[string]*MockTx
}

func newRowLocks() *rowLocks {
	l := &rowLocks{owners: make(map[string]*MockTx)}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *rowLocks) acquire(tx *MockTx, id string) {
	l.mu.Lock()
	for {
		owner, held := l.owners[id]
		if !held {
			break
		}
		if owner == tx {
			l.mu.Unlock()
			return
		}
		l.cond.Wait()
	}
	l.owners[id] = tx
	l.mu.Unlock()

	tx.onEnd(func() { l.release(tx, id) })
}

func (l *rowLocks) release(tx *MockTx, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owners[id] == tx {
		delete(l.owners, id)
		l.cond.Broadcast()
	}
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier is a mock implementation of Retrier. By default it runs the
// operation once.
type MockRetrier struct {
	Calls int

	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.Calls++
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	GenerateFunc func(user *domain.User) (string, error)
}

func (m *MockTokenIssuer) Generate(user *domain.User) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(user)
	}
	return "token-" + user.ID, nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func sortTransactions(txns []*domain.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// RecomputeCall records one BalanceCache.Recompute invocation.
type RecomputeCall struct {
	AccountID string
	From      time.Time
}

// MockBalanceCache is a mock implementation of BalanceCache.
type MockBalanceCache struct {
	mu          sync.Mutex
	Recomputes  []RecomputeCall
	Invalidated []string

	InvalidateAccountFunc func(ctx context.Context, accountID string) error
}

func NewMockBalanceCache() *MockBalanceCache {
	return &MockBalanceCache{}
}

func (m *MockBalanceCache) Recompute(ctx context.Context, account *domain.Account, from time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recomputes = append(m.Recomputes, RecomputeCall{AccountID: account.ID, From: from})
}

func (m *MockBalanceCache) InvalidateAccount(ctx context.Context, accountID string) error {
	if m.InvalidateAccountFunc != nil {
		return m.InvalidateAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, accountID)
	return nil
}
