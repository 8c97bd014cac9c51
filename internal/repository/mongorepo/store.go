// Package mongorepo stores funds in MongoDB. Writes run inside multi-document transactions,
// so the server must be a replica set.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

const (
	collFunds     = "funds"
	collFundTypes = "fund_types"
	collCounters  = "counters"

	codeDuplicateKey         = 11000
	codeWriteConflict        = 112
	codeIndexOptionsConflict = 85
	codeNamespaceExists      = 48
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *slog.Logger
}

func NewStore(client *mongo.Client, database string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{client: client, db: client.Database(database), log: log.With("cmp", "mongorepo")}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("mongo start session: %w", err)
	}
	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(txOpts); err != nil {
		sess.EndSession(ctx)
		return nil, fmt.Errorf("mongo start transaction: %w", err)
	}
	return &tx{store: s, sess: sess}, nil
}

func (s *Store) Queries() repository.FundQueries {
	return &queries{db: s.db, log: s.log}
}

// Migrate cria as coleções (não podem nascer dentro de transação em servidores antigos) e os índices.
func (s *Store) Migrate(ctx context.Context) error {
	for _, name := range []string{collFunds, collFundTypes, collCounters} {
		err := s.db.CreateCollection(ctx, name)
		var ce mongo.CommandError
		if err != nil && !(errors.As(err, &ce) && ce.Code == codeNamespaceExists) {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		s.log.Error("mongo_indexes_error", "err", err)
		return err
	}
	s.log.Info("mongo_migrated")
	return nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	funds := s.db.Collection(collFunds)
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_code"),
	}
	_, err := funds.Indexes().CreateOne(ctx, model)
	if err != nil {
		// Se já existir com outra opção, tenta dropar e recriar
		var ce mongo.CommandError
		if !errors.As(err, &ce) || ce.Code != codeIndexOptionsConflict {
			return err
		}
		if _, dropErr := funds.Indexes().DropOne(ctx, "uniq_code"); dropErr != nil {
			return fmt.Errorf("drop index uniq_code: %w", dropErr)
		}
		if _, err := funds.Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}

	_, err = funds.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type_id", Value: 1}},
		Options: options.Index().SetName("idx_type_id"),
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type tx struct {
	store *Store
	sess  mongo.Session
}

// sc amarra ctx à sessão; toda operação do repositório passa por aqui.
func (t *tx) sc(ctx context.Context) mongo.SessionContext {
	return mongo.NewSessionContext(ctx, t.sess)
}

func (t *tx) Funds() repository.FundRepository {
	return &fundRepo{tx: t, coll: t.store.db.Collection(collFunds), types: t.store.db.Collection(collFundTypes)}
}

func (t *tx) FundTypes() repository.FundTypeRepository {
	return &fundTypeRepo{tx: t, coll: t.store.db.Collection(collFundTypes)}
}

func (t *tx) Commit(ctx context.Context) error {
	defer t.sess.EndSession(context.WithoutCancel(ctx))
	if err := t.sess.CommitTransaction(ctx); err != nil {
		return translate(err)
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	defer t.sess.EndSession(ctx)
	return t.sess.AbortTransaction(ctx)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == codeDuplicateKey {
				return errors.Join(repository.ErrDuplicateCode, err)
			}
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(repository.ErrDuplicateCode, err)
	}
	return err
}

// translateInsert trata WriteConflict num insert de fundo como código duplicado:
// o _id vem do counters, então o único conflito possível é no índice uniq_code.
func translateInsert(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeWriteConflict) && !se.HasErrorCode(codeDuplicateKey) {
		return errors.Join(repository.ErrDuplicateCode, err)
	}
	return translate(err)
}
