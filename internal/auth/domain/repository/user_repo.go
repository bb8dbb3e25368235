package repository

import (
	"context"

	"artdash/internal/auth/domain/model"
)

// ProfileUpdate carries the mutable profile fields. Nil-zero fields are left
// untouched by the store.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Phone     string
}

// UserRepository defines the persistence contract for the credential store.
// Users returned by Get* methods include the password hash; callers are
// responsible for sanitizing before serialization.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// RecordLogin atomically appends the session, trims the list to
	// maxSessions from the front, and updates the activity tracking fields.
	RecordLogin(ctx context.Context, userID string, session model.Session, maxSessions int) error

	// RemoveSession pulls one session entry. removed is false when no entry
	// matched.
	RemoveSession(ctx context.Context, userID, sessionID string) (removed bool, err error)

	// PruneOtherSessions removes every session except keepSessionID.
	PruneOtherSessions(ctx context.Context, userID, keepSessionID string) error

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error)
	TouchActivity(ctx context.Context, userID, ip, device string) error

	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	PromoteToAdmin(ctx context.Context, email string) (*model.User, error)
}
