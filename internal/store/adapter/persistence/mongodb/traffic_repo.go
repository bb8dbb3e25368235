package mongodb

import (
	"context"
	"time"

	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTrafficRepository implements repository.TrafficRepository.
type MongoTrafficRepository struct {
	traffic *mongo.Collection
}

// NewMongoTrafficRepository creates a new traffic repository. Visits are
// indexed by creation time since every dashboard window filters on it.
func NewMongoTrafficRepository(db *mongo.Database) (*MongoTrafficRepository, error) {
	repo := &MongoTrafficRepository{traffic: db.Collection("traffic")}

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}
	if _, err := repo.traffic.Indexes().CreateOne(context.Background(), index); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoTrafficRepository) RecordVisit(ctx context.Context, visit *model.TrafficVisit) error {
	visit.CreatedAt = time.Now()
	visit.ObjectID = primitive.NewObjectID()

	_, err := r.traffic.InsertOne(ctx, visit)
	return err
}

func (r *MongoTrafficRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.traffic.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": from, "$lt": to},
	})
}

func (r *MongoTrafficRepository) UniqueBrowsersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{"_id": "$browser"}}},
		{{Key: "$count", Value: "uniqueBrowsers"}},
	}

	cursor, err := r.traffic.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Unique int64 `bson:"uniqueBrowsers"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Unique, nil
}

func (r *MongoTrafficRepository) CountByDevice(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$device", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.traffic.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Device string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Device] = row.Count
	}
	return counts, nil
}

func (r *MongoTrafficRepository) ClicksBySource(ctx context.Context) ([]repository.SourceClicks, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$source", "clicks": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"clicks": -1}}},
	}

	cursor, err := r.traffic.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.SourceClicks
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoTrafficRepository) TopPages(ctx context.Context, limit int) ([]repository.PageClicks, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$pageUrl", "clicks": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"clicks": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.traffic.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.PageClicks
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoTrafficRepository) CountByBrowser(ctx context.Context) ([]repository.BrowserCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$browser", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.traffic.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.BrowserCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

var _ repository.TrafficRepository = (*MongoTrafficRepository)(nil)
