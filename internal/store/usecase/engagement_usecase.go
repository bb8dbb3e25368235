package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"artdash/internal/shared/logger"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMessageNotFound      = errors.New("message not found")
	ErrIncompleteMessage    = errors.New("all contact form fields are required")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrIncompleteReview     = errors.New("review name and content are required")
	ErrReviewProductMissing = errors.New("review must reference a product")
)

const recentActivityLimit = 20

// ContactInput carries a contact-form submission.
type ContactInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ContactDetails string `json:"contactDetails"`
	Message        string `json:"message"`
}

// ReviewInput carries a new product review.
type ReviewInput struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Review    string `json:"review"`
	Rating    int    `json:"rating"`
}

// ProductReviews bundles a product's reviews with their aggregate rating.
type ProductReviews struct {
	Reviews       []*model.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	Count         int64           `json:"count"`
}

// EngagementUsecase covers contact messages, reviews and activity logging.
// It also implements the hooks the auth module calls on account deletion,
// activity tracking and the admin user detail view.
type EngagementUsecase struct {
	contacts   repository.ContactRepository
	reviews    repository.ReviewRepository
	activities repository.ActivityRepository
	orders     repository.OrderRepository
	log        logger.Logger
}

// NewEngagementUsecase creates a new engagement usecase.
func NewEngagementUsecase(
	contacts repository.ContactRepository,
	reviews repository.ReviewRepository,
	activities repository.ActivityRepository,
	orders repository.OrderRepository,
	log logger.Logger,
) *EngagementUsecase {
	return &EngagementUsecase{
		contacts:   contacts,
		reviews:    reviews,
		activities: activities,
		orders:     orders,
		log:        log,
	}
}

// SubmitMessage stores a contact-form submission.
func (uc *EngagementUsecase) SubmitMessage(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.ContactDetails == "" || in.Message == "" {
		return nil, ErrIncompleteMessage
	}

	msg := &model.ContactMessage{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		ContactDetails: in.ContactDetails,
		Message:        in.Message,
	}
	if err := uc.contacts.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// ListMessages returns all contact messages, newest first.
func (uc *EngagementUsecase) ListMessages(ctx context.Context) ([]*model.ContactMessage, error) {
	messages, err := uc.contacts.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkMessageRead flags one contact message as handled.
func (uc *EngagementUsecase) MarkMessageRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := uc.contacts.MarkMessageRead(ctx, id)
	if err != nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// DeleteMessage removes one contact message.
func (uc *EngagementUsecase) DeleteMessage(ctx context.Context, id string) error {
	if err := uc.contacts.DeleteMessage(ctx, id); err != nil {
		return ErrMessageNotFound
	}
	return nil
}

// SubmitReview stores a product review.
func (uc *EngagementUsecase) SubmitReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if in.ProductID == "" {
		return nil, ErrReviewProductMissing
	}
	if in.Name == "" || in.Review == "" {
		return nil, ErrIncompleteReview
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	productOID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	review := &model.Review{
		ProductID: productOID,
		Name:      in.Name,
		Review:    in.Review,
		Rating:    in.Rating,
	}
	if err := uc.reviews.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// ReviewsForProduct returns a product's reviews with the rounded average.
func (uc *EngagementUsecase) ReviewsForProduct(ctx context.Context, productID string) (*ProductReviews, error) {
	reviews, err := uc.reviews.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	avg, count, err := uc.reviews.AverageRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	return &ProductReviews{
		Reviews:       reviews,
		AverageRating: math.Round(avg*10) / 10,
		Count:         count,
	}, nil
}

// RecordActivity implements the auth module's activity hook.
func (uc *EngagementUsecase) RecordActivity(ctx context.Context, userID, activityType, pageRoute, description string, durationMs int64) error {
	if pageRoute == "" {
		pageRoute = "N/A"
	}
	if description == "" {
		description = "User activity tracked."
	}

	activity := &model.Activity{
		UserID:      userID,
		Type:        activityType,
		PageRoute:   pageRoute,
		DurationMs:  durationMs,
		Description: description,
	}
	if err := uc.activities.RecordActivity(ctx, activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// PurgeUserData implements the auth module's deletion hook: it removes the
// user's orders, contact messages and activity log.
func (uc *EngagementUsecase) PurgeUserData(ctx context.Context, userID, email string) error {
	orders, err := uc.orders.DeleteOrdersByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to delete user orders: %w", err)
	}
	messages, err := uc.contacts.DeleteMessagesByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to delete user messages: %w", err)
	}
	activities, err := uc.activities.DeleteActivitiesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user activities: %w", err)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"orders":     orders,
		"messages":   messages,
		"activities": activities,
	}).Info("purged user data")
	return nil
}

// UserInsights implements the auth module's admin detail hook: order count,
// spend, activity count and the most recent activity entries.
func (uc *EngagementUsecase) UserInsights(ctx context.Context, userID, email string) (map[string]interface{}, error) {
	orders, err := uc.orders.ListOrdersByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user orders: %w", err)
	}

	var totalSpent float64
	for _, o := range orders {
		totalSpent += o.TotalAmount
	}

	activityCount, err := uc.activities.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user activities: %w", err)
	}

	recent, err := uc.activities.ListActivitiesByUser(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load user activities: %w", err)
	}

	return map[string]interface{}{
		"orderCount":     len(orders),
		"totalSpent":     totalSpent,
		"orders":         orders,
		"activityCount":  activityCount,
		"recentActivity": recent,
	}, nil
}
