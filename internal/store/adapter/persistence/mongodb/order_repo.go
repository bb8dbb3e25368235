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

// MongoOrderRepository implements repository.OrderRepository.
type MongoOrderRepository struct {
	orders *mongo.Collection
}

// NewMongoOrderRepository creates a new order repository with the indexes the
// listing and aggregation queries lean on.
func NewMongoOrderRepository(db *mongo.Database) (*MongoOrderRepository, error) {
	repo := &MongoOrderRepository{orders: db.Collection("orders")}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "customerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := repo.orders.Indexes().CreateMany(context.Background(), indexes); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoOrderRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.ObjectID = primitive.NewObjectID()
	order.HydrateID()

	_, err := r.orders.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepository) ListOrders(ctx context.Context) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeOrders(ctx, cursor)
}

func (r *MongoOrderRepository) ListOrdersByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, bson.M{"customerEmail": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeOrders(ctx, cursor)
}

func (r *MongoOrderRepository) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	var order model.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	order.HydrateID()
	return &order, nil
}

// UpdateStatus sets the new status and appends the timeline entry in one
// atomic update.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	change := bson.M{
		"$set": bson.M{
			"status":    update.Status,
			"updatedAt": time.Now(),
		},
		"$push": bson.M{
			"statusUpdates": update,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order model.Order
	err = r.orders.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, change, opts).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	order.HydrateID()
	return &order, nil
}

func (r *MongoOrderRepository) UpdateDeliveryWeeks(ctx context.Context, id string, weeks int) (*model.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	change := bson.M{
		"$set": bson.M{
			"deliveryWeeks": weeks,
			"updatedAt":     time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order model.Order
	err = r.orders.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, change, opts).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	order.HydrateID()
	return &order, nil
}

func (r *MongoOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) DeleteOrdersByEmail(ctx context.Context, email string) (int64, error) {
	result, err := r.orders.DeleteMany(ctx, bson.M{"customerEmail": email})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MongoOrderRepository) CountBetween(ctx context.Context, from, to time.Time, statuses []string) (int64, error) {
	filter := bson.M{
		"createdAt": bson.M{"$gte": from, "$lt": to},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.orders.CountDocuments(ctx, filter)
}

func (r *MongoOrderRepository) SumDelivered(ctx context.Context) (repository.DeliveredTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.StatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalSales": bson.M{"$sum": "$totalAmount"},
			"count":      bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return repository.DeliveredTotals{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"totalSales"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return repository.DeliveredTotals{}, err
	}
	if len(rows) == 0 {
		return repository.DeliveredTotals{}, nil
	}
	return repository.DeliveredTotals{Total: rows[0].Total, Count: rows[0].Count}, nil
}

func (r *MongoOrderRepository) MonthlyDeliveredTotals(ctx context.Context) ([]repository.MonthlyAmount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.StatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$month": "$createdAt"},
			"totalAmount": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.MonthlyAmount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoOrderRepository) SalesByCountry(ctx context.Context, from, to time.Time) ([]repository.CountrySales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": from, "$lt": to},
			"status":    model.StatusDelivered,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$shippingAddress.country",
			"totalSales": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"totalSales": -1}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.CountrySales
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoOrderRepository) DeliveredByPaymentMethod(ctx context.Context) ([]repository.PaymentMethodSales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.StatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$paymentMethod",
			"totalSales": bson.M{"$sum": "$totalAmount"},
			"count":      bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"totalSales": -1}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.PaymentMethodSales
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeOrders(ctx context.Context, cursor *mongo.Cursor) ([]*model.Order, error) {
	var orders []*model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.HydrateID()
	}
	return orders, nil
}

var _ repository.OrderRepository = (*MongoOrderRepository)(nil)
