package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one artwork in the catalog. ClickCount doubles as the popularity
// signal for listing order and the top-selling endpoint.
type Product struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID       string             `json:"id" bson:"-"`

	Title  string  `json:"title" bson:"title"`
	Artist string  `json:"artist" bson:"artist"`
	Price  float64 `json:"price" bson:"price"`

	PriceRange  string   `json:"priceRange,omitempty" bson:"priceRange,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Size        string   `json:"size,omitempty" bson:"size,omitempty"`
	Category    string   `json:"category,omitempty" bson:"category,omitempty"`
	Medium      string   `json:"medium,omitempty" bson:"medium,omitempty"`
	Style       string   `json:"style,omitempty" bson:"style,omitempty"`
	Subject     string   `json:"subject,omitempty" bson:"subject,omitempty"`
	Orientation string   `json:"orientation,omitempty" bson:"orientation,omitempty"`
	Country     []string `json:"country,omitempty" bson:"country,omitempty"`
	Palette     []string `json:"palette,omitempty" bson:"palette,omitempty"`

	MainImage   string   `json:"mainImage,omitempty" bson:"mainImage,omitempty"`
	SmallImages []string `json:"smallImages,omitempty" bson:"smallImages,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	ArtistBio   string   `json:"artistBio,omitempty" bson:"artistBio,omitempty"`

	ClickCount int64 `json:"click_count" bson:"click_count"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HydrateID populates the string ID from the stored ObjectID.
func (p *Product) HydrateID() {
	if p.ID == "" && !p.ObjectID.IsZero() {
		p.ID = p.ObjectID.Hex()
	}
}
