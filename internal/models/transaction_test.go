package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
)

type countingGen struct{ calls int }

func (g *countingGen) NewID() string {
	g.calls++
	return "act"
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(idgen.NewSequence(), ActParams{Amount: "-12.34", Date: "2021-01-05", Memo: "  rent  "})
	require.NoError(t, err)

	assert.Equal(t, int64(-1234), tx.Cents)
	assert.Equal(t, "2021-01-05", tx.Date)
	assert.Equal(t, "rent", tx.Memo)
	assert.NotEmpty(t, tx.ID)

	v := tx.View()
	assert.Equal(t, "-12.34", v.Amount.StringFixed(2))
	assert.Equal(t, tx.ID, v.ID)
}

func TestNewTransactionAccumulatesErrors(t *testing.T) {
	gen := &countingGen{}
	_, err := NewTransaction(gen, ActParams{Amount: "1.1", Date: "2021-02-29", Memo: "   "})
	require.Error(t, err)

	errs := apperr.Errors(err)
	assert.Len(t, errs, 3)
	assert.True(t, errs.Has(apperr.BadValue))
	assert.True(t, errs.Has(apperr.BadRequest))
	assert.Zero(t, gen.calls, "no id is generated for a rejected act")
}

func TestCompare(t *testing.T) {
	a := Transaction{Date: "2021-01-05"}
	b := Transaction{Date: "2021-02-01"}

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(Transaction{Date: "2021-01-05"}))
}
