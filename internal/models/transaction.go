package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	"github.com/sheikh-saqib/accounts-ledger/internal/parse"
)

// Transaction is a single act posted to an account. It is never modified
// after construction.
type Transaction struct {
	ID    string
	Cents int64  // signed, deposits >= 0 by convention only
	Date  string // canonical YYYY-MM-DD
	Memo  string
}

// TransactionView is the outward projection of a Transaction.
type TransactionView struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Memo   string          `json:"memo"`
}

// StatementLine is a TransactionView annotated with the account balance
// immediately after the act.
type StatementLine struct {
	TransactionView
	Balance decimal.Decimal `json:"balance"`
}

// NewTransaction validates amount, date and memo, collecting every failure,
// and only then takes a fresh id from gen.
func NewTransaction(gen idgen.Generator, p ActParams) (Transaction, error) {
	var errs apperr.List
	cents, _ := parse.AmountCents(p.Amount, &errs)
	date, _ := parse.Date(p.Date, &errs)
	memo := strings.TrimSpace(p.Memo)
	if memo == "" {
		errs.Add(apperr.BadRequest, "memo required")
	}
	if err := errs.Err(); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:    gen.NewID(),
		Cents: cents,
		Date:  date,
		Memo:  memo,
	}, nil
}

func (t Transaction) View() TransactionView {
	return TransactionView{
		ID:     t.ID,
		Amount: parse.CentsToDecimal(t.Cents),
		Date:   t.Date,
		Memo:   t.Memo,
	}
}

// Compare orders by date only. Acts sharing a date keep their insertion
// order because the ledger sorts stably.
func (t Transaction) Compare(other Transaction) int {
	return strings.Compare(t.Date, other.Date)
}
