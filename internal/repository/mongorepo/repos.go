package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

type fundRepo struct {
	tx    *tx
	coll  *mongo.Collection
	types *mongo.Collection
}

func (r *fundRepo) Exists(ctx context.Context, code string) (bool, error) {
	n, err := r.coll.CountDocuments(r.tx.sc(ctx), bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *fundRepo) Add(ctx context.Context, f *models.Fund) (int64, error) {
	sc := r.tx.sc(ctx)

	// sem FK no Mongo: a checagem roda no snapshot da transação
	n, err := r.types.CountDocuments(sc, bson.M{"_id": f.TypeID()}, options.Count().SetLimit(1))
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, repository.ErrFundTypeMissing
	}

	patrimony, err := toDecimal128(f.Patrimony())
	if err != nil {
		return 0, err
	}
	id, err := nextID(ctx, r.tx.store.db, collFunds)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	doc := fundDoc{
		ID:        id,
		Code:      f.Code(),
		Name:      f.Name(),
		Cnpj:      f.Cnpj().Value(),
		TypeID:    f.TypeID(),
		Patrimony: patrimony,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(sc, doc); err != nil {
		return 0, translateInsert(err)
	}
	return id, nil
}

func (r *fundRepo) Update(ctx context.Context, f *models.Fund) error {
	sc := r.tx.sc(ctx)

	n, err := r.types.CountDocuments(sc, bson.M{"_id": f.TypeID()}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrFundTypeMissing
	}

	res, err := r.coll.UpdateOne(sc, bson.M{"code": f.Code()}, bson.M{"$set": bson.M{
		"name":       f.Name(),
		"cnpj":       f.Cnpj().Value(),
		"type_id":    f.TypeID(),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *fundRepo) Remove(ctx context.Context, f *models.Fund) error {
	res, err := r.coll.DeleteOne(r.tx.sc(ctx), bson.M{"code": f.Code()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *fundRepo) GetAll(ctx context.Context) ([]*models.Fund, error) {
	sc := r.tx.sc(ctx)
	cur, err := r.coll.Find(sc, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(sc)

	list := []*models.Fund{}
	for cur.Next(sc) {
		var d fundDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		f, err := d.toModel()
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, cur.Err()
}

func (r *fundRepo) GetByCode(ctx context.Context, code string) (*models.Fund, error) {
	var d fundDoc
	if err := r.coll.FindOne(r.tx.sc(ctx), bson.M{"code": code}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	return d.toModel()
}

// AdjustPatrimony usa $inc em Decimal128; o documento fica travado pela transação até o commit.
func (r *fundRepo) AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error {
	delta, err := toDecimal128(amount)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(r.tx.sc(ctx), bson.M{"code": code}, bson.M{
		"$inc": bson.M{"patrimony": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type fundTypeRepo struct {
	tx   *tx
	coll *mongo.Collection
}

func (r *fundTypeRepo) Add(ctx context.Context, ft *models.FundType) (int64, error) {
	id := ft.ID()
	if id > 0 {
		if err := bumpCounter(ctx, r.tx.store.db, collFundTypes, id); err != nil {
			return 0, err
		}
	} else {
		var err error
		if id, err = nextID(ctx, r.tx.store.db, collFundTypes); err != nil {
			return 0, err
		}
	}

	if _, err := r.coll.InsertOne(r.tx.sc(ctx), fundTypeDoc{ID: id, Name: ft.Name()}); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *fundTypeRepo) Update(ctx context.Context, ft *models.FundType) error {
	res, err := r.coll.UpdateByID(r.tx.sc(ctx), ft.ID(), bson.M{"$set": bson.M{"name": ft.Name()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *fundTypeRepo) GetAll(ctx context.Context) ([]*models.FundType, error) {
	sc := r.tx.sc(ctx)
	cur, err := r.coll.Find(sc, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(sc)

	list := []*models.FundType{}
	for cur.Next(sc) {
		var d fundTypeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, models.RestoreFundType(d.ID, d.Name))
	}
	return list, cur.Err()
}

func (r *fundTypeRepo) GetByID(ctx context.Context, id int64) (*models.FundType, error) {
	var d fundTypeDoc
	err := r.coll.FindOne(r.tx.sc(ctx), bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find fund type %d: %w", id, err)
	}
	return models.RestoreFundType(d.ID, d.Name), nil
}
