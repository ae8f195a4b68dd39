package interfaces

import (
	"context"

	"github.com/sheikh-saqib/accounts-ledger/internal/models"
)

// AccountStore persists accounts and their acts. Implementations return
// apperr.List errors: NOT_FOUND for unknown accounts, EXISTS for duplicate
// ids and DB for storage failures.
type AccountStore interface {
	NewAccount(ctx context.Context, holderID string) (string, error)
	Info(ctx context.Context, id string) (models.AccountInfo, error)
	NewAct(ctx context.Context, id string, act models.ActParams) (models.Transaction, error)
	Query(ctx context.Context, id string, q models.QueryParams) ([]models.TransactionView, error)
	Statement(ctx context.Context, id string, s models.StatementParams) ([]models.StatementLine, error)
	// Clear removes every account and act.
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}
