package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
	"github.com/sheikh-saqib/accounts-ledger/internal/models/events"
	"github.com/sheikh-saqib/accounts-ledger/internal/parse"
)

// Services validates requests against the command table and forwards them
// to the account store. Successful mutations are announced through the
// optional publisher.
type Services struct {
	store     interfaces.AccountStore
	publisher interfaces.EventPublisher // nil disables events
	log       *logger.Logger
	commands  map[string]command
	now       func() time.Time

	muMap map[string]*accountLock // held locks only, serializes acts per account id
	mapMu sync.Mutex              // protects muMap itself
}

type accountLock struct {
	mu   sync.Mutex
	refs int // callers holding or waiting for mu
}

// NewServices builds the command table and rejects it if any entry is
// malformed.
func NewServices(store interfaces.AccountStore, publisher interfaces.EventPublisher, log *logger.Logger) (*Services, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Services{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		muMap:     make(map[string]*accountLock),
	}
	s.commands = s.commandTable()
	if err := checkCommands(s.commands); err != nil {
		return nil, err
	}
	return s, nil
}

// lockAccount serializes acts on accountID. The returned func releases the
// lock and drops the map entry once nobody else holds or waits for it.
func (s *Services) lockAccount(accountID string) (unlock func()) {
	s.mapMu.Lock()
	l, exists := s.muMap[accountID]
	if !exists {
		l = &accountLock{}
		s.muMap[accountID] = l
	}
	l.refs++
	s.mapMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mapMu.Lock()
		defer s.mapMu.Unlock()
		if l.refs--; l.refs == 0 {
			delete(s.muMap, accountID)
		}
	}
}

// Execute runs the named command with raw string parameters. Dashed names
// ("new-act") are accepted as well as camel case ("newAct").
func (s *Services) Execute(ctx context.Context, name string, params map[string]string) (any, error) {
	cmd, ok := s.commands[CommandName(name)]
	if !ok {
		return nil, apperr.New(apperr.BadRequest, fmt.Sprintf("invalid command %q", name))
	}
	valid, err := cmd.fields.Validate(params)
	if err != nil {
		return nil, err
	}
	return cmd.run(ctx, valid)
}

// NewAccount opens an account for holderID and returns its id.
func (s *Services) NewAccount(ctx context.Context, holderID string) (string, error) {
	v, err := s.validate(cmdNewAccount, map[string]string{"holderId": holderID})
	if err != nil {
		return "", err
	}
	return s.newAccount(ctx, v)
}

func (s *Services) newAccount(ctx context.Context, v map[string]string) (string, error) {
	id, err := s.store.NewAccount(ctx, v["holderId"])
	if err != nil {
		s.logFailure("new account failed", err)
		return "", err
	}
	s.log.Info("account opened", "account_id", id)
	s.publish(ctx, events.AccountOpenedName, id, events.AccountOpened{
		AccountID:  id,
		HolderID:   v["holderId"],
		OccurredAt: s.now().UTC(),
	})
	return id, nil
}

// Info returns {id, holderId, balance} for account id.
func (s *Services) Info(ctx context.Context, id string) (models.AccountInfo, error) {
	v, err := s.validate(cmdInfo, map[string]string{"id": id})
	if err != nil {
		return models.AccountInfo{}, err
	}
	return s.info(ctx, v)
}

func (s *Services) info(ctx context.Context, v map[string]string) (models.AccountInfo, error) {
	return s.store.Info(ctx, v["id"])
}

// NewAct posts an act to account id and returns the act id.
func (s *Services) NewAct(ctx context.Context, id string, act models.ActParams) (string, error) {
	v, err := s.validate(cmdNewAct, map[string]string{
		"id":     id,
		"amount": act.Amount,
		"date":   act.Date,
		"memo":   act.Memo,
	})
	if err != nil {
		return "", err
	}
	return s.newAct(ctx, v)
}

func (s *Services) newAct(ctx context.Context, v map[string]string) (string, error) {
	accountID := v["id"]
	unlock := s.lockAccount(accountID)
	defer unlock()

	tx, err := s.store.NewAct(ctx, accountID, models.ActParams{
		Amount: v["amount"],
		Date:   v["date"],
		Memo:   v["memo"],
	})
	if err != nil {
		s.logFailure("new act failed", err, "account_id", accountID)
		return "", err
	}
	s.log.Info("act posted", "account_id", accountID, "act_id", tx.ID)
	s.publish(ctx, events.ActPostedName, accountID, events.ActPosted{
		AccountID:  accountID,
		ActID:      tx.ID,
		Amount:     parse.CentsToDecimal(tx.Cents),
		Date:       tx.Date,
		Memo:       tx.Memo,
		OccurredAt: s.now().UTC(),
	})
	return tx.ID, nil
}

// Query lists the acts of account id matching q.
func (s *Services) Query(ctx context.Context, id string, q models.QueryParams) ([]models.TransactionView, error) {
	v, err := s.validate(cmdQuery, map[string]string{
		"id":       id,
		"actId":    q.ActID,
		"date":     q.Date,
		"memoText": q.MemoText,
		"count":    q.Count,
		"index":    q.Index,
	})
	if err != nil {
		return nil, err
	}
	return s.query(ctx, v)
}

func (s *Services) query(ctx context.Context, v map[string]string) ([]models.TransactionView, error) {
	return s.store.Query(ctx, v["id"], models.QueryParams{
		ActID:    v["actId"],
		Date:     v["date"],
		MemoText: v["memoText"],
		Count:    v["count"],
		Index:    v["index"],
	})
}

// Statement lists the acts of account id between the optional dates with
// running balances.
func (s *Services) Statement(ctx context.Context, id string, st models.StatementParams) ([]models.StatementLine, error) {
	v, err := s.validate(cmdStatement, map[string]string{
		"id":       id,
		"fromDate": st.FromDate,
		"toDate":   st.ToDate,
	})
	if err != nil {
		return nil, err
	}
	return s.statement(ctx, v)
}

func (s *Services) statement(ctx context.Context, v map[string]string) ([]models.StatementLine, error) {
	return s.store.Statement(ctx, v["id"], models.StatementParams{
		FromDate: v["fromDate"],
		ToDate:   v["toDate"],
	})
}

// Clear empties the store.
func (s *Services) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *Services) validate(name string, params map[string]string) (map[string]string, error) {
	return s.commands[name].fields.Validate(params)
}

func (s *Services) publish(ctx context.Context, name, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, name, key, event); err != nil {
		s.log.Warn("publish event failed", "event", name, "key", key, "error", err)
	}
}

// logFailure logs storage problems; validation and lookup errors are the
// caller's to report.
func (s *Services) logFailure(msg string, err error, keysAndValues ...interface{}) {
	switch apperr.CodeOf(err) {
	case apperr.DB, apperr.Internal, apperr.Exists:
		s.log.Error(msg, append(keysAndValues, "error", err)...)
	}
}
