package mongorepo

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

type queries struct {
	db  *mongo.Database
	log *slog.Logger
}

// fundView junta funds com fund_types ($lookup), equivalente ao JOIN do Postgres.
func fundView(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collFundTypes,
			"localField":   "type_id",
			"foreignField": "_id",
			"as":           "type",
		}}},
		{{Key: "$unwind", Value: "$type"}},
		{{Key: "$sort", Value: bson.D{{Key: "code", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"code":      1,
			"name":      1,
			"cnpj":      1,
			"type_id":   1,
			"type_name": "$type.name",
			"patrimony": 1,
		}}},
	}
}

func (q *queries) run(ctx context.Context, match bson.M) ([]models.FundDTO, error) {
	cur, err := q.db.Collection(collFunds).Aggregate(ctx, fundView(match))
	if err != nil {
		q.log.Error("mongo_aggregate_error", "err", err)
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.FundDTO{}
	for cur.Next(ctx) {
		var d fundViewDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		dto, err := d.toDTO()
		if err != nil {
			return nil, err
		}
		list = append(list, dto)
	}
	return list, cur.Err()
}

func (q *queries) GetFund(ctx context.Context, code string) (models.FundDTO, error) {
	list, err := q.run(ctx, bson.M{"code": code})
	if err != nil {
		return models.FundDTO{}, err
	}
	if len(list) == 0 {
		return models.FundDTO{}, repository.ErrNotFound
	}
	return list[0], nil
}

func (q *queries) ListFunds(ctx context.Context) ([]models.FundDTO, error) {
	return q.run(ctx, bson.M{})
}

func (q *queries) ListFundTypes(ctx context.Context) ([]models.FundType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := q.db.Collection(collFundTypes).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.FundType{}
	for cur.Next(ctx) {
		var d fundTypeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, *models.RestoreFundType(d.ID, d.Name))
	}
	return list, cur.Err()
}
