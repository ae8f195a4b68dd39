package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
)

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		code string
	}{
		{"2021-01-05", true, ""},
		{"2020-02-29", true, ""},
		{"2000-02-29", true, ""},
		{"2021-02-29", false, apperr.BadValue},
		{"1900-02-29", false, apperr.BadValue},
		{"2021-04-31", false, apperr.BadValue},
		{"2021-12-31", true, ""},
		{"2021-13-01", false, apperr.BadValue},
		{"2021-00-10", false, apperr.BadValue},
		{"2021-01-00", false, apperr.BadValue},
		{"2021-1-05", false, apperr.BadValue},
		{"20210105", false, apperr.BadValue},
		{"", false, apperr.BadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var errs apperr.List
			got, ok := Date(tt.in, &errs)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.in, got)
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestAmountCents(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"-12.34", -1234, true},
		{"+5.00", 500, true},
		{"100.00", 10000, true},
		{"0.07", 7, true},
		{"1.1", 0, false},
		{"1.111", 0, false},
		{"12", 0, false},
		{".50", 0, false},
		{"abc", 0, false},
		{"99999999999999999999.00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var errs apperr.List
			cents, ok := AmountCents(tt.in, &errs)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cents, cents)
			if !tt.ok {
				assert.True(t, errs.Has(apperr.BadValue))
			}
		})
	}
}

func TestAmountCentsMissing(t *testing.T) {
	var errs apperr.List
	_, ok := AmountCents("  ", &errs)
	assert.False(t, ok)
	assert.True(t, errs.Has(apperr.BadRequest))
}

func TestPositiveAndNonNegativeInt(t *testing.T) {
	var errs apperr.List

	n, ok := PositiveInt("3", &errs)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = PositiveInt("0", &errs)
	assert.False(t, ok)

	n, ok = NonNegativeInt("0", &errs)
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	_, ok = NonNegativeInt("-1", &errs)
	assert.False(t, ok)

	_, ok = PositiveInt("1.5", &errs)
	assert.False(t, ok)

	assert.Len(t, errs, 3)
}

func TestCentsToDecimal(t *testing.T) {
	var errs apperr.List
	cents, ok := AmountCents("-12.34", &errs)
	require.True(t, ok)
	assert.Equal(t, "-12.34", CentsToDecimal(cents).StringFixed(2))
	assert.True(t, CentsToDecimal(700).Equal(CentsToDecimal(-300).Add(CentsToDecimal(1000))))
}
