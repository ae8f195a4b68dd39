package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
)

func testSpec() Spec {
	return Spec{
		"id":     {Name: "account ID", Required: true},
		"amount": {Name: "amount", Required: true, Check: Pattern(`[-+]?\d+\.\d\d`)},
		"kind":   {Name: "kind", Check: OneOf("deposit", "withdrawal")},
		"count":  {Name: "count", Default: "5", Check: Predicate(func(s string) string {
			if s == "0" {
				return "must be positive"
			}
			return ""
		})},
	}
}

func TestValidateOK(t *testing.T) {
	out, err := testSpec().Validate(map[string]string{
		"id":      " 1.23 ",
		"amount":  "10.00",
		"kind":    "deposit",
		"unknown": "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"id":     "1.23",
		"amount": "10.00",
		"kind":   "deposit",
		"count":  "5",
	}, out)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	_, err := testSpec().Validate(map[string]string{
		"amount": "10.0",
		"kind":   "refund",
		"count":  "0",
	})
	require.Error(t, err)

	errs := apperr.Errors(err)
	require.Len(t, errs, 4)
	codes := map[string]int{}
	for _, e := range errs {
		codes[e.Code]++
	}
	assert.Equal(t, map[string]int{apperr.BadRequest: 1, apperr.BadValue: 3}, codes)
}

func TestPatternIsAnchored(t *testing.T) {
	_, err := testSpec().Validate(map[string]string{"id": "x", "amount": "abc10.00xyz"})
	assert.Error(t, err)
}

func TestSpecCheck(t *testing.T) {
	require.NoError(t, testSpec().Check())

	bad := Spec{
		"a": {Check: OneOf()},
		"b": {Name: "b", Check: Check{Kind: KindPredicate}},
		"c": {Name: "c", Check: Check{Kind: Kind(42)}},
	}
	err := bad.Check()
	require.Error(t, err)
	errs := apperr.Errors(err)
	assert.Len(t, errs, 4)
	assert.True(t, errs.Has(apperr.Internal))
}

func TestKeysRequiredFirst(t *testing.T) {
	assert.Equal(t, []string{"amount", "id", "count", "kind"}, testSpec().Keys())
}
