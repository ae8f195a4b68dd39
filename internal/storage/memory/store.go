package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces" // interface AccountStore
	"github.com/sheikh-saqib/accounts-ledger/internal/ledger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
)

// MemoryAccountStore is an in-memory implementation of interfaces.AccountStore.
// It keeps every account in a ledger.Accounts registry and is safe for
// concurrent use.
type MemoryAccountStore struct {
	mu       sync.Mutex       // serializes every operation on the registry
	accounts *ledger.Accounts // account id -> ledger
}

// NewMemoryAccountStore creates and returns an empty store drawing ids from gen.
func NewMemoryAccountStore(gen idgen.Generator) *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: ledger.NewAccounts(gen),
	}
}

func (m *MemoryAccountStore) NewAccount(ctx context.Context, holderID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accounts.NewAccount(models.NewAccountParams{HolderID: holderID})
}

func (m *MemoryAccountStore) Info(ctx context.Context, id string) (models.AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accounts.Account(models.AccountParams{ID: id})
	if err != nil {
		return models.AccountInfo{}, err
	}
	return account.Info(), nil
}

// NewAct validates and appends an act. A rejected act leaves the account as it was.
func (m *MemoryAccountStore) NewAct(ctx context.Context, id string, act models.ActParams) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accounts.Account(models.AccountParams{ID: id})
	if err != nil {
		return models.Transaction{}, err
	}
	return account.Post(act)
}

func (m *MemoryAccountStore) Query(ctx context.Context, id string, q models.QueryParams) ([]models.TransactionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accounts.Account(models.AccountParams{ID: id})
	if err != nil {
		return nil, err
	}
	return account.Query(q)
}

func (m *MemoryAccountStore) Statement(ctx context.Context, id string, s models.StatementParams) ([]models.StatementLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accounts.Account(models.AccountParams{ID: id})
	if err != nil {
		return nil, err
	}
	return account.Statement(s)
}

func (m *MemoryAccountStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts.Clear()
	return nil
}

// Close is a no-op; there is nothing to release in memory.
func (m *MemoryAccountStore) Close(ctx context.Context) error {
	return nil
}

// Compile-time check: ensure MemoryAccountStore implements AccountStore interface
var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
