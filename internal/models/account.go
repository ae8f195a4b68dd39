package models

import "github.com/shopspring/decimal"

// DefaultCount is the number of acts a query returns when count is omitted.
const DefaultCount = 5

// AccountInfo is the summary returned for an account.
type AccountInfo struct {
	ID       string          `json:"id"`
	HolderID string          `json:"holderId"`
	Balance  decimal.Decimal `json:"balance"`
}

// NewAccountParams carries the holder of the account to create.
type NewAccountParams struct {
	HolderID string `json:"holderId"`
}

// AccountParams identifies an existing account.
type AccountParams struct {
	ID string `json:"id"`
}

// ActParams are the raw string inputs for a new act.
type ActParams struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Memo   string `json:"memo"`
}

// QueryParams filter and page an account's acts. Every field is optional;
// empty strings mean "not given".
type QueryParams struct {
	ActID    string `json:"actId,omitempty"`
	Date     string `json:"date,omitempty"`
	MemoText string `json:"memoText,omitempty"`
	Count    string `json:"count,omitempty"`
	Index    string `json:"index,omitempty"`
}

// StatementParams bound a statement by date, both ends inclusive.
type StatementParams struct {
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}
