package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
	"github.com/sheikh-saqib/accounts-ledger/internal/parse"
)

// Account owns the ordered act history of one account.
//
// acts is always sorted by date; acts sharing a date stay in the order they
// were added.
type Account struct {
	id       string
	holderID string
	acts     []models.Transaction
	gen      idgen.Generator
}

func newAccount(id, holderID string, gen idgen.Generator) *Account {
	return &Account{id: id, holderID: holderID, gen: gen}
}

// Restore rebuilds an account from persisted acts. acts must already be in
// (date, insertion) order; a stable sort keeps that order for equal dates.
func Restore(id, holderID string, acts []models.Transaction, gen idgen.Generator) *Account {
	a := newAccount(id, holderID, gen)
	a.acts = append(make([]models.Transaction, 0, len(acts)), acts...)
	a.sort()
	return a
}

func (a *Account) ID() string       { return a.id }
func (a *Account) HolderID() string { return a.holderID }

// Info returns the id, holder and current balance.
func (a *Account) Info() models.AccountInfo {
	return models.AccountInfo{
		ID:       a.id,
		HolderID: a.holderID,
		Balance:  parse.CentsToDecimal(sumCents(a.acts)),
	}
}

// AddTransaction validates p, appends the act and returns its id.
func (a *Account) AddTransaction(p models.ActParams) (string, error) {
	tx, err := a.Post(p)
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

// Post is AddTransaction returning the whole act. An act that would push the
// balance, or any running balance of a statement, outside int64 cents is
// rejected and the ledger is left unchanged.
func (a *Account) Post(p models.ActParams) (models.Transaction, error) {
	tx, err := models.NewTransaction(a.gen, p)
	if err != nil {
		return models.Transaction{}, err
	}
	acts := append(make([]models.Transaction, 0, len(a.acts)+1), a.acts...)
	acts = append(acts, tx)
	sortActs(acts)
	if !balancesFit(acts) {
		return models.Transaction{}, apperr.New(apperr.BadValue,
			fmt.Sprintf("transaction amount %s would overflow the account balance", p.Amount))
	}
	a.acts = acts
	return tx, nil
}

// Transactions returns a copy of the ordered acts.
func (a *Account) Transactions() []models.Transaction {
	return append([]models.Transaction(nil), a.acts...)
}

func (a *Account) sort() {
	sortActs(a.acts)
}

func sortActs(acts []models.Transaction) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Compare(acts[j]) < 0
	})
}

// Query filters the acts conjunctively by actId, date and a case-insensitive
// memo substring, then returns the window [index, index+count) of the
// result.
func (a *Account) Query(p models.QueryParams) ([]models.TransactionView, error) {
	var errs apperr.List
	index, count := 0, models.DefaultCount
	var date string
	if p.Index != "" {
		index, _ = parse.NonNegativeInt(p.Index, &errs)
	}
	if p.Count != "" {
		count, _ = parse.PositiveInt(p.Count, &errs)
	}
	if p.Date != "" {
		date, _ = parse.Date(p.Date, &errs)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	memo := strings.ToLower(p.MemoText)
	matches := make([]models.Transaction, 0, len(a.acts))
	for _, tx := range a.acts {
		if p.ActID != "" && tx.ID != p.ActID {
			continue
		}
		if date != "" && tx.Date != date {
			continue
		}
		if memo != "" && !strings.Contains(strings.ToLower(tx.Memo), memo) {
			continue
		}
		matches = append(matches, tx)
	}

	views := []models.TransactionView{}
	if index >= len(matches) {
		return views, nil
	}
	end := len(matches)
	if count < end-index {
		end = index + count
	}
	for _, tx := range matches[index:end] {
		views = append(views, tx.View())
	}
	return views, nil
}

// Statement lists the acts dated within [fromDate, toDate], each with the
// running balance after it. The running balance starts from the total of
// every act before fromDate.
func (a *Account) Statement(p models.StatementParams) ([]models.StatementLine, error) {
	var errs apperr.List
	var from, to string
	if p.FromDate != "" {
		from, _ = parse.Date(p.FromDate, &errs)
	}
	if p.ToDate != "" {
		to, _ = parse.Date(p.ToDate, &errs)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	start := 0
	if from != "" {
		start = sort.Search(len(a.acts), func(i int) bool { return a.acts[i].Date >= from })
	}
	end := len(a.acts)
	if to != "" {
		end = sort.Search(len(a.acts), func(i int) bool { return a.acts[i].Date > to })
	}

	lines := []models.StatementLine{}
	if end <= start {
		return lines, nil
	}
	balance := sumCents(a.acts[:start])
	for _, tx := range a.acts[start:end] {
		balance += tx.Cents
		lines = append(lines, models.StatementLine{
			TransactionView: tx.View(),
			Balance:         parse.CentsToDecimal(balance),
		})
	}
	return lines, nil
}

// balancesFit reports whether every prefix sum of acts fits in int64.
func balancesFit(acts []models.Transaction) bool {
	var total int64
	for _, tx := range acts {
		sum := total + tx.Cents
		if (tx.Cents > 0 && sum < total) || (tx.Cents < 0 && sum > total) {
			return false
		}
		total = sum
	}
	return true
}

func sumCents(acts []models.Transaction) int64 {
	var total int64
	for _, tx := range acts {
		total += tx.Cents
	}
	return total
}
