package mongodb

import (
	"context"
	"time"

	apperrors "artdash/internal/shared/errors"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepository implements repository.ContactRepository.
type MongoContactRepository struct {
	messages *mongo.Collection
}

func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{messages: db.Collection("contactmessages")}
}

func (r *MongoContactRepository) CreateMessage(ctx context.Context, msg *model.ContactMessage) error {
	msg.CreatedAt = time.Now()
	msg.ObjectID = primitive.NewObjectID()
	msg.HydrateID()

	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

func (r *MongoContactRepository) ListMessages(ctx context.Context) ([]*model.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.messages.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*model.ContactMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for _, m := range messages {
		m.HydrateID()
	}
	return messages, nil
}

func (r *MongoContactRepository) MarkMessageRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var msg model.ContactMessage
	err = r.messages.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"isRead": true}},
		opts,
	).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	msg.HydrateID()
	return &msg, nil
}

func (r *MongoContactRepository) DeleteMessage(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	result, err := r.messages.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoContactRepository) DeleteMessagesByEmail(ctx context.Context, email string) (int64, error) {
	result, err := r.messages.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MongoContactRepository) MonthlyLeadCounts(ctx context.Context) ([]repository.MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$exists": true, "$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$createdAt"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.messages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.MonthlyCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MongoReviewRepository implements repository.ReviewRepository.
type MongoReviewRepository struct {
	reviews *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{reviews: db.Collection("reviews")}
}

func (r *MongoReviewRepository) CreateReview(ctx context.Context, review *model.Review) error {
	review.CreatedAt = time.Now()
	review.ObjectID = primitive.NewObjectID()
	review.HydrateID()

	_, err := r.reviews.InsertOne(ctx, review)
	return err
}

func (r *MongoReviewRepository) ListReviewsByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.reviews.Find(ctx, bson.M{"productId": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	for _, rv := range reviews {
		rv.HydrateID()
	}
	return reviews, nil
}

func (r *MongoReviewRepository) AverageRating(ctx context.Context, productID string) (float64, int64, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return 0, 0, apperrors.ErrNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": objectID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"avgRating": bson.M{"$avg": "$rating"},
			"count":     bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg   float64 `bson:"avgRating"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Avg, rows[0].Count, nil
}

// MongoActivityRepository implements repository.ActivityRepository.
type MongoActivityRepository struct {
	activities *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{activities: db.Collection("activities")}
}

func (r *MongoActivityRepository) RecordActivity(ctx context.Context, activity *model.Activity) error {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	activity.ObjectID = primitive.NewObjectID()

	_, err := r.activities.InsertOne(ctx, activity)
	return err
}

func (r *MongoActivityRepository) ListActivitiesByUser(ctx context.Context, userID string, limit int) ([]*model.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.activities.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *MongoActivityRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.activities.CountDocuments(ctx, bson.M{"userId": userID})
}

func (r *MongoActivityRepository) DeleteActivitiesByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.activities.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

var (
	_ repository.ContactRepository  = (*MongoContactRepository)(nil)
	_ repository.ReviewRepository   = (*MongoReviewRepository)(nil)
	_ repository.ActivityRepository = (*MongoActivityRepository)(nil)
)
