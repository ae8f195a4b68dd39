package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger/internal/ledger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
)

const (
	accountsCollection = "accounts"
	actsCollection     = "acts"
)

type accountDoc struct {
	ID       string `bson:"_id"`
	HolderID string `bson:"holderId"`
	// ActCount is incremented for every act and doubles as its insertion
	// sequence number.
	ActCount int64 `bson:"actCount"`
}

type actDoc struct {
	ID        string `bson:"_id"`
	AccountID string `bson:"accountId"`
	Seq       int64  `bson:"seq"`
	Cents     int64  `bson:"cents"`
	Date      string `bson:"date"`
	Memo      string `bson:"memo"`
}

// MongoAccountStore keeps accounts and acts in two collections.
type MongoAccountStore struct {
	client   *mongo.Client
	accounts *mongo.Collection
	acts     *mongo.Collection
	gen      idgen.Generator
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.DB, fmt.Errorf("mongo connect: %w", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.DB, fmt.Errorf("mongo ping: %w", err))
	}
	return client, nil
}

func NewMongoAccountStore(client *mongo.Client, database string, gen idgen.Generator) *MongoAccountStore {
	db := client.Database(database)
	return &MongoAccountStore{
		client:   client,
		accounts: db.Collection(accountsCollection),
		acts:     db.Collection(actsCollection),
		gen:      gen,
	}
}

// EnsureIndexes creates the (accountId, date, seq) index used to reload a
// ledger in order.
func (m *MongoAccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.acts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "date", Value: 1}, {Key: "seq", Value: 1}},
	})
	return classify("create index", err)
}

func (m *MongoAccountStore) NewAccount(ctx context.Context, holderID string) (string, error) {
	holderID = strings.TrimSpace(holderID)
	if holderID == "" {
		return "", apperr.New(apperr.BadRequest, "account holderId must be provided")
	}
	doc := accountDoc{ID: m.gen.NewID(), HolderID: holderID}
	if _, err := m.accounts.InsertOne(ctx, doc); err != nil {
		return "", classify(fmt.Sprintf("insert account %q", doc.ID), err)
	}
	return doc.ID, nil
}

func (m *MongoAccountStore) Info(ctx context.Context, id string) (models.AccountInfo, error) {
	account, err := m.loadAccount(ctx, id)
	if err != nil {
		return models.AccountInfo{}, err
	}
	return account.Info(), nil
}

// NewAct resolves the account, posts the act to its rebuilt ledger, then
// takes the next sequence number from the account document and inserts the
// act.
func (m *MongoAccountStore) NewAct(ctx context.Context, id string, act models.ActParams) (models.Transaction, error) {
	ledgerAccount, err := m.loadAccount(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	id = ledgerAccount.ID()
	tx, err := ledgerAccount.Post(act)
	if err != nil {
		return models.Transaction{}, err
	}

	var account accountDoc
	err = m.accounts.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"actCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Transaction{}, notFound(id)
	}
	if err != nil {
		return models.Transaction{}, classify("increment act count", err)
	}

	doc := actDoc{
		ID:        tx.ID,
		AccountID: id,
		Seq:       account.ActCount,
		Cents:     tx.Cents,
		Date:      tx.Date,
		Memo:      tx.Memo,
	}
	if _, err := m.acts.InsertOne(ctx, doc); err != nil {
		return models.Transaction{}, classify(fmt.Sprintf("insert act %q", tx.ID), err)
	}
	return tx, nil
}

func (m *MongoAccountStore) Query(ctx context.Context, id string, q models.QueryParams) ([]models.TransactionView, error) {
	account, err := m.loadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Query(q)
}

func (m *MongoAccountStore) Statement(ctx context.Context, id string, s models.StatementParams) ([]models.StatementLine, error) {
	account, err := m.loadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Statement(s)
}

func (m *MongoAccountStore) loadAccount(ctx context.Context, id string) (*ledger.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.New(apperr.BadRequest, "account id must be provided")
	}

	var account accountDoc
	err := m.accounts.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, classify("find account", err)
	}

	cursor, err := m.acts.Find(ctx,
		bson.M{"accountId": id},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, classify("find acts", err)
	}
	var docs []actDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("decode acts", err)
	}

	acts := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		acts = append(acts, models.Transaction{ID: d.ID, Cents: d.Cents, Date: d.Date, Memo: d.Memo})
	}
	return ledger.Restore(account.ID, account.HolderID, acts, m.gen), nil
}

func (m *MongoAccountStore) Clear(ctx context.Context) error {
	if _, err := m.acts.DeleteMany(ctx, bson.M{}); err != nil {
		return classify("clear acts", err)
	}
	_, err := m.accounts.DeleteMany(ctx, bson.M{})
	return classify("clear accounts", err)
}

func (m *MongoAccountStore) Close(ctx context.Context) error {
	return classify("disconnect", m.client.Disconnect(ctx))
}

func notFound(id string) error {
	return apperr.New(apperr.NotFound, fmt.Sprintf("account %q not found", id))
}

// classify maps driver errors onto apperr codes: duplicate keys become
// EXISTS, everything else DB.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperr.New(apperr.Exists, fmt.Sprintf("%s: already exists", op))
	}
	return apperr.New(apperr.DB, fmt.Sprintf("%s: %v", op, err))
}

var _ interfaces.AccountStore = (*MongoAccountStore)(nil)
