package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces" // interface AccountStore
	"github.com/sheikh-saqib/accounts-ledger/internal/ledger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
)

// uniqueViolation is the SQLSTATE for duplicate keys.
const uniqueViolation = pq.ErrorCode("23505")

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id        TEXT PRIMARY KEY,
	holder_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS acts (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	cents      BIGINT NOT NULL,
	date       TEXT NOT NULL,
	memo       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS acts_account_date_seq ON acts (account_id, date, seq);
`

type PostgresAccountStore struct {
	db  *sql.DB
	gen idgen.Generator
}

// Open connects to url with the lib/pq driver and checks the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, apperr.Wrap(apperr.DB, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.DB, fmt.Errorf("ping postgres: %w", err))
	}
	return db, nil
}

func NewPostgresAccountStore(db *sql.DB, gen idgen.Generator) *PostgresAccountStore {
	return &PostgresAccountStore{
		db:  db,
		gen: gen,
	}
}

// Migrate creates the tables and index if they do not exist yet.
func (p *PostgresAccountStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return classify("migrate", err)
}

func (p *PostgresAccountStore) NewAccount(ctx context.Context, holderID string) (string, error) {
	holderID = strings.TrimSpace(holderID)
	if holderID == "" {
		return "", apperr.New(apperr.BadRequest, "account holderId must be provided")
	}

	const query = `INSERT INTO accounts (id, holder_id) VALUES ($1, $2)`

	id := p.gen.NewID()
	if _, err := p.db.ExecContext(ctx, query, id, holderID); err != nil {
		return "", classify(fmt.Sprintf("insert account %q", id), err)
	}
	return id, nil
}

func (p *PostgresAccountStore) Info(ctx context.Context, id string) (models.AccountInfo, error) {
	account, err := p.load(ctx, id)
	if err != nil {
		return models.AccountInfo{}, err
	}
	return account.Info(), nil
}

// NewAct locks the account row, rebuilds its ledger inside the same
// transaction and posts the act to it before inserting the row, so the
// account is resolved first and balance checks see every committed act.
func (p *PostgresAccountStore) NewAct(ctx context.Context, id string, act models.ActParams) (models.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Transaction{}, apperr.New(apperr.BadRequest, "account id must be provided")
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, classify("begin", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const lock = `SELECT holder_id FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := p.loadAccount(ctx, dbTx, lock, id)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := account.Post(act)
	if err != nil {
		return models.Transaction{}, err
	}

	const insert = `INSERT INTO acts (id, account_id, cents, date, memo)
	VALUES ($1, $2, $3, $4, $5)`

	if _, err = dbTx.ExecContext(ctx, insert, tx.ID, id, tx.Cents, tx.Date, tx.Memo); err != nil {
		err = classify(fmt.Sprintf("insert act %q", tx.ID), err)
		return models.Transaction{}, err
	}
	if err = dbTx.Commit(); err != nil {
		err = classify("commit", err)
		return models.Transaction{}, err
	}
	return tx, nil
}

func (p *PostgresAccountStore) Query(ctx context.Context, id string, q models.QueryParams) ([]models.TransactionView, error) {
	account, err := p.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Query(q)
}

func (p *PostgresAccountStore) Statement(ctx context.Context, id string, s models.StatementParams) ([]models.StatementLine, error) {
	account, err := p.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Statement(s)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const accountQuery = `SELECT holder_id FROM accounts WHERE id = $1`

func (p *PostgresAccountStore) load(ctx context.Context, id string) (*ledger.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.New(apperr.BadRequest, "account id must be provided")
	}
	return p.loadAccount(ctx, p.db, accountQuery, id)
}

// loadAccount rebuilds the ledger of id from its rows, acts in (date, seq)
// order. accountSQL selects the holder id and may lock the row.
func (p *PostgresAccountStore) loadAccount(ctx context.Context, q querier, accountSQL, id string) (*ledger.Account, error) {
	var holderID string
	err := q.QueryRowContext(ctx, accountSQL, id).Scan(&holderID)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, classify("select account", err)
	}

	const actsQuery = `SELECT id, cents, date, memo FROM acts
	WHERE account_id = $1 ORDER BY date, seq`

	rows, err := q.QueryContext(ctx, actsQuery, id)
	if err != nil {
		return nil, classify("select acts", err)
	}

	defer rows.Close()

	var acts []models.Transaction
	for rows.Next() {
		var act models.Transaction
		if err := rows.Scan(&act.ID, &act.Cents, &act.Date, &act.Memo); err != nil {
			return nil, classify("scan act", err)
		}
		acts = append(acts, act)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("select acts", err)
	}
	return ledger.Restore(id, holderID, acts, p.gen), nil
}

func (p *PostgresAccountStore) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `TRUNCATE acts, accounts`)
	return classify("clear", err)
}

func (p *PostgresAccountStore) Close(ctx context.Context) error {
	return classify("close", p.db.Close())
}

func notFound(id string) error {
	return apperr.New(apperr.NotFound, fmt.Sprintf("account %q not found", id))
}

// classify maps driver errors onto the apperr codes: unique violations become
// EXISTS, everything else DB.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperr.New(apperr.Exists, fmt.Sprintf("%s: already exists", op))
	}
	return apperr.New(apperr.DB, fmt.Sprintf("%s: %v", op, err))
}

var _ interfaces.AccountStore = (*PostgresAccountStore)(nil)
