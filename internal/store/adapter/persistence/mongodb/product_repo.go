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

// MongoProductRepository implements repository.ProductRepository.
type MongoProductRepository struct {
	products *mongo.Collection
}

// NewMongoProductRepository creates a new product repository and ensures the
// click_count index the popularity queries sort on.
func NewMongoProductRepository(db *mongo.Database) (*MongoProductRepository, error) {
	repo := &MongoProductRepository{products: db.Collection("products")}

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "click_count", Value: -1}},
	}
	if _, err := repo.products.Indexes().CreateOne(context.Background(), index); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.ObjectID = primitive.NewObjectID()
	product.HydrateID()

	_, err := r.products.InsertOne(ctx, product)
	return err
}

func (r *MongoProductRepository) ListProducts(ctx context.Context) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "click_count", Value: -1}})
	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (r *MongoProductRepository) TopSelling(ctx context.Context, limit int) ([]*model.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "click_count", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

// GetAndIncrementClick bumps the click counter and returns the resulting
// document in one findAndModify round trip.
func (r *MongoProductRepository) GetAndIncrementClick(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	update := bson.M{"$inc": bson.M{"click_count": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err = r.products.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	product.HydrateID()
	return &product, nil
}

func (r *MongoProductRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	var product model.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	product.HydrateID()
	return &product, nil
}

func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id string, update map[string]interface{}) (*model.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range update {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err = r.products.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	product.HydrateID()
	return &product, nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	result, err := r.products.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]*model.Product, error) {
	var products []*model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		p.HydrateID()
	}
	return products, nil
}

var _ repository.ProductRepository = (*MongoProductRepository)(nil)
