package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status machine. Requested marks a customer-initiated cancellation
// awaiting admin review.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusRequested  = "Requested"
)

// DefaultDeliveryWeeks is the estimated delivery window seeded on new orders.
const DefaultDeliveryWeeks = 2

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRequested:
		return true
	}
	return false
}

// ShippingAddress is the delivery destination of an order.
type ShippingAddress struct {
	StreetAddress string `json:"streetAddress" bson:"streetAddress"`
	City          string `json:"city" bson:"city"`
	Province      string `json:"province" bson:"province"`
	Country       string `json:"country" bson:"country"`
	ZipCode       string `json:"zipCode" bson:"zipCode"`
}

// GeoLocation carries optional coordinates captured at checkout.
type GeoLocation struct {
	Latitude  float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID   string  `json:"productId" bson:"productId"`
	ProductName string  `json:"productName" bson:"productName"`
	Variant     string  `json:"variant,omitempty" bson:"variant,omitempty"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// StatusUpdate is one entry of the order's timeline history.
type StatusUpdate struct {
	Status string    `json:"status" bson:"status"`
	Date   time.Time `json:"date" bson:"date"`
	Note   string    `json:"note,omitempty" bson:"note,omitempty"`
}

// Order is a customer purchase with its full status history.
type Order struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID       string             `json:"id" bson:"-"`

	CustomerName  string `json:"customerName" bson:"customerName"`
	CustomerEmail string `json:"customerEmail" bson:"customerEmail"`
	CustomerPhone string `json:"customerPhone" bson:"customerPhone"`

	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	GeoLocation     *GeoLocation    `json:"geoLocation,omitempty" bson:"geoLocation,omitempty"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`

	Items []OrderItem `json:"items" bson:"items"`

	SubtotalAmount float64 `json:"subtotalAmount" bson:"subtotalAmount"`
	ShippingFee    float64 `json:"shippingFee" bson:"shippingFee"`
	DiscountCode   string  `json:"discountCode,omitempty" bson:"discountCode,omitempty"`
	DiscountAmount float64 `json:"discountAmount" bson:"discountAmount"`
	TotalAmount    float64 `json:"totalAmount" bson:"totalAmount"`

	PaymentMethod string `json:"paymentMethod" bson:"paymentMethod"`

	Status        string         `json:"status" bson:"status"`
	DeliveryWeeks int            `json:"deliveryWeeks" bson:"deliveryWeeks"`
	StatusUpdates []StatusUpdate `json:"statusUpdates" bson:"statusUpdates"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HydrateID populates the string ID from the stored ObjectID.
func (o *Order) HydrateID() {
	if o.ID == "" && !o.ObjectID.IsZero() {
		o.ID = o.ObjectID.Hex()
	}
}

// CanRequestCancellation reports whether the customer may still ask to cancel:
// once an order is shipped or terminal the request is refused.
func (o *Order) CanRequestCancellation() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}
