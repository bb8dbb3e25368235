package mongodb

import (
	"context"
	"strings"
	"time"

	"artdash/internal/auth/domain/model"
	"artdash/internal/auth/domain/repository"
	apperrors "artdash/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements the UserRepository interface using MongoDB.
// Sessions live as a bounded embedded array on the user document, so every
// session mutation is a single atomic update.
type MongoUserRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) (*MongoUserRepository, error) {
	repo := &MongoUserRepository{
		db:    db,
		users: db.Collection("users"),
	}

	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sessions.sessionId", Value: 1}},
		},
	}

	if _, err := repo.users.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser inserts a new user document. Duplicate username/email surfaces
// as *model.DuplicateKeyError naming the conflicting field.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	user.ObjectID = primitive.NewObjectID()
	user.HydrateID()

	if user.Sessions == nil {
		user.Sessions = []model.Session{}
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &model.DuplicateKeyError{Field: DuplicateKeyField(err)}
		}
		return err
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	user.HydrateID()
	return &user, nil
}

// GetUserByID retrieves a user by its hex ObjectID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	var user model.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	user.HydrateID()
	return &user, nil
}

// RecordLogin appends the session while trimming the array to the newest
// maxSessions entries, and refreshes the activity tracking fields. The push
// and the trim happen in one update, so the cap holds under concurrent logins.
func (r *MongoUserRepository) RecordLogin(ctx context.Context, userID string, session model.Session, maxSessions int) error {
	filter, err := idFilter(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	update := bson.M{
		"$push": bson.M{
			"sessions": bson.M{
				"$each":  []model.Session{session},
				"$slice": -maxSessions,
			},
		},
		"$set": bson.M{
			"lastActivity":  session.LoginTime,
			"currentDevice": session.Device,
			"currentIP":     session.IP,
			"updatedAt":     time.Now(),
		},
	}

	result, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// RemoveSession pulls one session entry by id. The boolean reports whether an
// entry was actually removed.
func (r *MongoUserRepository) RemoveSession(ctx context.Context, userID, sessionID string) (bool, error) {
	filter, err := idFilter(userID)
	if err != nil {
		return false, apperrors.ErrUserNotFound
	}

	update := bson.M{
		"$pull": bson.M{
			"sessions": bson.M{"sessionId": sessionID},
		},
	}

	result, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 0 {
		return false, apperrors.ErrUserNotFound
	}
	return result.ModifiedCount > 0, nil
}

// PruneOtherSessions removes every session except keepSessionID.
func (r *MongoUserRepository) PruneOtherSessions(ctx context.Context, userID, keepSessionID string) error {
	filter, err := idFilter(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	update := bson.M{
		"$pull": bson.M{
			"sessions": bson.M{"sessionId": bson.M{"$ne": keepSessionID}},
		},
	}

	result, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	filter, err := idFilter(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"password":  passwordHash,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateProfile applies the non-empty fields of the update and returns the
// resulting document.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*model.User, error) {
	filter, err := idFilter(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.FirstName != "" {
		set["firstName"] = update.FirstName
	}
	if update.LastName != "" {
		set["lastName"] = update.LastName
	}
	if update.Username != "" {
		set["username"] = update.Username
	}
	if update.Email != "" {
		set["email"] = update.Email
	}
	if update.Phone != "" {
		set["phone"] = update.Phone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err = r.users.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &model.DuplicateKeyError{Field: DuplicateKeyField(err)}
		}
		return nil, err
	}

	user.HydrateID()
	return &user, nil
}

// TouchActivity refreshes the activity tracking fields.
func (r *MongoUserRepository) TouchActivity(ctx context.Context, userID, ip, device string) error {
	filter, err := idFilter(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	set := bson.M{"lastActivity": time.Now()}
	if ip != "" {
		set["currentIP"] = ip
	}
	if device != "" {
		set["currentDevice"] = device
	}

	result, err := r.users.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListUsers returns all non-admin accounts, newest first.
func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	filter := bson.M{"role": bson.M{"$ne": model.RoleAdmin}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		u.HydrateID()
	}
	return users, nil
}

// DeleteUser removes the user document.
func (r *MongoUserRepository) DeleteUser(ctx context.Context, userID string) error {
	filter, err := idFilter(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	result, err := r.users.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// PromoteToAdmin sets the admin role on the account matching email and
// returns the updated document.
func (r *MongoUserRepository) PromoteToAdmin(ctx context.Context, email string) (*model.User, error) {
	update := bson.M{
		"$set": bson.M{
			"role":      model.RoleAdmin,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	user.HydrateID()
	return &user, nil
}

func idFilter(id string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": objectID}, nil
}

// DuplicateKeyField extracts which unique index a duplicate key error hit.
// The driver only exposes the index name inside the message text.
func DuplicateKeyField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "email"):
		return "email"
	default:
		return "field"
	}
}

var _ repository.UserRepository = (*MongoUserRepository)(nil)
