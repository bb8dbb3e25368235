package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage is one submitted contact-form entry.
type ContactMessage struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID       string             `json:"id" bson:"-"`

	FirstName      string `json:"firstName" bson:"firstName"`
	LastName       string `json:"lastName" bson:"lastName"`
	Email          string `json:"email" bson:"email"`
	ContactDetails string `json:"contactDetails" bson:"contactDetails"`
	Message        string `json:"message" bson:"message"`

	IsRead    bool      `json:"isRead" bson:"isRead"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// HydrateID populates the string ID from the stored ObjectID.
func (m *ContactMessage) HydrateID() {
	if m.ID == "" && !m.ObjectID.IsZero() {
		m.ID = m.ObjectID.Hex()
	}
}

// Review is one product review with a 1-5 rating.
type Review struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID       string             `json:"id" bson:"-"`

	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Review    string             `json:"review" bson:"review"`
	Rating    int                `json:"rating" bson:"rating"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// HydrateID populates the string ID from the stored ObjectID.
func (r *Review) HydrateID() {
	if r.ID == "" && !r.ObjectID.IsZero() {
		r.ID = r.ObjectID.Hex()
	}
}

// Activity is one tracked user event (page view, login, order).
type Activity struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID       string             `json:"id" bson:"-"`

	UserID      string `json:"userId,omitempty" bson:"userId,omitempty"`
	Type        string `json:"type" bson:"type"`
	PageRoute   string `json:"pageRoute" bson:"pageRoute"`
	DurationMs  int64  `json:"durationMs" bson:"durationMs"`
	Description string `json:"description" bson:"description"`

	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
