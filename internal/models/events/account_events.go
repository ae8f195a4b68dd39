package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event names, also used as the Kafka message "event" header.
const (
	AccountOpenedName = "account_opened"
	ActPostedName     = "act_posted"
)

type AccountOpened struct {
	AccountID  string    `json:"account_id"`
	HolderID   string    `json:"holder_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ActPosted struct {
	AccountID  string          `json:"account_id"`
	ActID      string          `json:"act_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Memo       string          `json:"memo"`
	OccurredAt time.Time       `json:"occurred_at"`
}
