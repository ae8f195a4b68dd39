package ledger

import (
	"fmt"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
)

// Accounts is the registry of every account, keyed by account id.
//
// It performs no locking; callers that share an Accounts across goroutines
// serialize access themselves (see storage/memory).
type Accounts struct {
	gen      idgen.Generator
	accounts map[string]*Account
}

// NewAccounts creates an empty registry drawing account and act ids from gen.
func NewAccounts(gen idgen.Generator) *Accounts {
	return &Accounts{
		gen:      gen,
		accounts: make(map[string]*Account),
	}
}

// NewAccount opens an account with no acts for p.HolderID and returns its id.
func (r *Accounts) NewAccount(p models.NewAccountParams) (string, error) {
	holderID := strings.TrimSpace(p.HolderID)
	if holderID == "" {
		return "", apperr.New(apperr.BadRequest, "account holderId must be provided")
	}
	id := r.gen.NewID()
	if _, exists := r.accounts[id]; exists {
		return "", apperr.New(apperr.Exists, fmt.Sprintf("account %q already exists", id))
	}
	r.accounts[id] = newAccount(id, holderID, r.gen)
	return id, nil
}

// Account looks up p.ID.
func (r *Accounts) Account(p models.AccountParams) (*Account, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return nil, apperr.New(apperr.BadRequest, "account id must be provided")
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, fmt.Sprintf("account %q not found", id))
	}
	return a, nil
}

// Clear drops every account.
func (r *Accounts) Clear() {
	r.accounts = make(map[string]*Account)
}
