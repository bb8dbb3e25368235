package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultProfilePic is assigned to accounts created without an avatar.
const DefaultProfilePic = "/images/default_avatar.png"

// User represents an account with its embedded, bounded session list.
// PasswordHash is never serialized to JSON.
type User struct {
	ObjectID     primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID           string             `json:"id" bson:"-"`
	FirstName    string             `json:"firstName" bson:"firstName"`
	LastName     string             `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string             `json:"-" bson:"password"`
	Role         string             `json:"role" bson:"role"`
	ProfilePic   string             `json:"profilePic" bson:"profilePic"`

	LastActivity  time.Time `json:"lastActivity" bson:"lastActivity"`
	CurrentDevice string    `json:"currentDevice" bson:"currentDevice"`
	CurrentIP     string    `json:"currentIP" bson:"currentIP"`

	Sessions []Session `json:"sessions" bson:"sessions"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HydrateID populates the string ID from the stored ObjectID.
func (u *User) HydrateID() {
	if u.ID == "" && !u.ObjectID.IsZero() {
		u.ID = u.ObjectID.Hex()
	}
}

// Sanitize clears the password hash before the user leaves the domain layer.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasSession reports whether sessionID is still present in the user's
// session list. This is the cross-check that makes remote revocation work:
// a signed, unexpired token dies the moment its backing entry is removed.
func (u *User) HasSession(sessionID string) bool {
	for _, s := range u.Sessions {
		if s.SessionID == sessionID {
			return true
		}
	}
	return false
}

// DuplicateKeyError reports a unique-index collision on a named field.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s is already registered", e.Field)
}
