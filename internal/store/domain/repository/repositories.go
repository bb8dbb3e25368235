package repository

import (
	"context"
	"time"

	"artdash/internal/store/domain/model"
)

// ProductRepository persists the catalog.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	ListProducts(ctx context.Context) ([]*model.Product, error)
	TopSelling(ctx context.Context, limit int) ([]*model.Product, error)

	// GetAndIncrementClick fetches a product and bumps its click counter in
	// one atomic operation.
	GetAndIncrementClick(ctx context.Context, id string) (*model.Product, error)

	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, update map[string]interface{}) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// MonthlyAmount is one month bucket of an aggregation (1-12).
type MonthlyAmount struct {
	Month int     `bson:"_id"`
	Total float64 `bson:"totalAmount"`
}

// MonthlyCount is one month bucket of a count aggregation (1-12).
type MonthlyCount struct {
	Month int   `bson:"_id"`
	Count int64 `bson:"count"`
}

// CountrySales is the delivered sales total for one destination country.
type CountrySales struct {
	Country string  `bson:"_id"`
	Total   float64 `bson:"totalSales"`
}

// PaymentMethodSales groups delivered sales by payment channel.
type PaymentMethodSales struct {
	Method string  `bson:"_id"`
	Total  float64 `bson:"totalSales"`
	Count  int64   `bson:"count"`
}

// DeliveredTotals summarizes all delivered orders.
type DeliveredTotals struct {
	Total float64
	Count int64
}

// OrderRepository persists orders and answers the sales aggregations.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	ListOrders(ctx context.Context) ([]*model.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]*model.Order, error)
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)

	// UpdateStatus sets the status and appends a history entry atomically.
	UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Order, error)

	UpdateDeliveryWeeks(ctx context.Context, id string, weeks int) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	DeleteOrdersByEmail(ctx context.Context, email string) (int64, error)

	CountBetween(ctx context.Context, from, to time.Time, statuses []string) (int64, error)
	SumDelivered(ctx context.Context) (DeliveredTotals, error)
	MonthlyDeliveredTotals(ctx context.Context) ([]MonthlyAmount, error)
	SalesByCountry(ctx context.Context, from, to time.Time) ([]CountrySales, error)
	DeliveredByPaymentMethod(ctx context.Context) ([]PaymentMethodSales, error)
}

// ContactRepository persists contact-form submissions.
type ContactRepository interface {
	CreateMessage(ctx context.Context, msg *model.ContactMessage) error
	ListMessages(ctx context.Context) ([]*model.ContactMessage, error)
	MarkMessageRead(ctx context.Context, id string) (*model.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error
	DeleteMessagesByEmail(ctx context.Context, email string) (int64, error)
	MonthlyLeadCounts(ctx context.Context) ([]MonthlyCount, error)
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	ListReviewsByProduct(ctx context.Context, productID string) ([]*model.Review, error)

	// AverageRating returns the mean rating and review count for a product.
	AverageRating(ctx context.Context, productID string) (float64, int64, error)
}

// ActivityRepository persists tracked user events.
type ActivityRepository interface {
	RecordActivity(ctx context.Context, activity *model.Activity) error
	ListActivitiesByUser(ctx context.Context, userID string, limit int) ([]*model.Activity, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteActivitiesByUser(ctx context.Context, userID string) (int64, error)
}

// SourceClicks is the visit count for one traffic source.
type SourceClicks struct {
	Source string `bson:"_id"`
	Clicks int64  `bson:"clicks"`
}

// PageClicks is the visit count for one page.
type PageClicks struct {
	PageURL string `bson:"_id"`
	Clicks  int64  `bson:"clicks"`
}

// BrowserCount is the visit count for one browser.
type BrowserCount struct {
	Browser string `bson:"_id"`
	Count   int64  `bson:"count"`
}

// TrafficRepository records visits and answers the traffic aggregations.
type TrafficRepository interface {
	RecordVisit(ctx context.Context, visit *model.TrafficVisit) error
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	UniqueBrowsersBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByDevice(ctx context.Context) (map[string]int64, error)
	ClicksBySource(ctx context.Context) ([]SourceClicks, error)
	TopPages(ctx context.Context, limit int) ([]PageClicks, error)
	CountByBrowser(ctx context.Context) ([]BrowserCount, error)
}

// ImageHost stores product images and returns their public URLs.
type ImageHost interface {
	// Upload resolves an image reference: http(s) URLs pass through
	// untouched, data URLs are uploaded, anything else is rejected.
	Upload(ctx context.Context, image string) (string, error)
}
