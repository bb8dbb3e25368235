package usecase

import (
	"context"
	"errors"
	"testing"

	"artdash/internal/shared/logger"
	"artdash/internal/store/domain/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EngagementUsecaseTestSuite struct {
	suite.Suite
	contacts   *MockContactRepository
	reviews    *MockReviewRepository
	activities *MockActivityRepository
	orders     *MockOrderRepository
	usecase    *EngagementUsecase
	ctx        context.Context
}

func (s *EngagementUsecaseTestSuite) SetupTest() {
	s.contacts = new(MockContactRepository)
	s.reviews = new(MockReviewRepository)
	s.activities = new(MockActivityRepository)
	s.orders = new(MockOrderRepository)
	s.usecase = NewEngagementUsecase(s.contacts, s.reviews, s.activities, s.orders, logger.NewLogger())
	s.ctx = context.Background()
}

func (s *EngagementUsecaseTestSuite) TestSubmitMessage() {
	s.contacts.On("CreateMessage", s.ctx, mock.AnythingOfType("*model.ContactMessage")).Return(nil)

	msg, err := s.usecase.SubmitMessage(s.ctx, ContactInput{
		FirstName:      "Ada",
		LastName:       "Obi",
		Email:          "ada@example.com",
		ContactDetails: "+44 20 7946 0958",
		Message:        "Interested in a commission.",
	})

	s.NoError(err)
	s.Equal("ada@example.com", msg.Email)
}

func (s *EngagementUsecaseTestSuite) TestSubmitMessageRequiresAllFields() {
	_, err := s.usecase.SubmitMessage(s.ctx, ContactInput{FirstName: "Ada", Email: "ada@example.com"})

	s.ErrorIs(err, ErrIncompleteMessage)
	s.contacts.AssertNotCalled(s.T(), "CreateMessage", mock.Anything, mock.Anything)
}

func (s *EngagementUsecaseTestSuite) TestSubmitReviewValidation() {
	productID := primitive.NewObjectID().Hex()

	cases := []struct {
		name    string
		input   ReviewInput
		wantErr error
	}{
		{"missing product", ReviewInput{Name: "Ada", Review: "Lovely", Rating: 5}, ErrReviewProductMissing},
		{"missing name", ReviewInput{ProductID: productID, Review: "Lovely", Rating: 5}, ErrIncompleteReview},
		{"rating too low", ReviewInput{ProductID: productID, Name: "Ada", Review: "Lovely", Rating: 0}, ErrInvalidRating},
		{"rating too high", ReviewInput{ProductID: productID, Name: "Ada", Review: "Lovely", Rating: 6}, ErrInvalidRating},
		{"bad product id", ReviewInput{ProductID: "not-an-id", Name: "Ada", Review: "Lovely", Rating: 4}, ErrProductNotFound},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.usecase.SubmitReview(s.ctx, tc.input)
			s.ErrorIs(err, tc.wantErr)
		})
	}
	s.reviews.AssertNotCalled(s.T(), "CreateReview", mock.Anything, mock.Anything)
}

func (s *EngagementUsecaseTestSuite) TestSubmitReview() {
	productID := primitive.NewObjectID()
	s.reviews.On("CreateReview", s.ctx, mock.AnythingOfType("*model.Review")).Return(nil)

	review, err := s.usecase.SubmitReview(s.ctx, ReviewInput{
		ProductID: productID.Hex(),
		Name:      "Ada",
		Review:    "Stunning colours.",
		Rating:    5,
	})

	s.NoError(err)
	s.Equal(productID, review.ProductID)
	s.Equal(5, review.Rating)
}

func (s *EngagementUsecaseTestSuite) TestReviewsForProductRoundsAverage() {
	productID := primitive.NewObjectID().Hex()
	s.reviews.On("ListReviewsByProduct", s.ctx, productID).Return([]*model.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}, nil)
	s.reviews.On("AverageRating", s.ctx, productID).Return(4.333333, int64(3), nil)

	result, err := s.usecase.ReviewsForProduct(s.ctx, productID)

	s.Require().NoError(err)
	s.Equal(4.3, result.AverageRating)
	s.Equal(int64(3), result.Count)
	s.Len(result.Reviews, 3)
}

func (s *EngagementUsecaseTestSuite) TestRecordActivityDefaults() {
	s.activities.On("RecordActivity", s.ctx, mock.MatchedBy(func(a *model.Activity) bool {
		return a.UserID == "user-1" && a.PageRoute == "N/A" && a.Description == "User activity tracked."
	})).Return(nil)

	err := s.usecase.RecordActivity(s.ctx, "user-1", "PAGE_VIEW", "", "", 0)

	s.NoError(err)
	s.activities.AssertExpectations(s.T())
}

func (s *EngagementUsecaseTestSuite) TestPurgeUserData() {
	s.orders.On("DeleteOrdersByEmail", s.ctx, "ada@example.com").Return(int64(2), nil)
	s.contacts.On("DeleteMessagesByEmail", s.ctx, "ada@example.com").Return(int64(1), nil)
	s.activities.On("DeleteActivitiesByUser", s.ctx, "user-1").Return(int64(14), nil)

	err := s.usecase.PurgeUserData(s.ctx, "user-1", "ada@example.com")

	s.NoError(err)
	s.orders.AssertExpectations(s.T())
	s.contacts.AssertExpectations(s.T())
	s.activities.AssertExpectations(s.T())
}

func (s *EngagementUsecaseTestSuite) TestPurgeUserDataStopsOnFailure() {
	s.orders.On("DeleteOrdersByEmail", s.ctx, "ada@example.com").Return(int64(0), errors.New("connection reset"))

	err := s.usecase.PurgeUserData(s.ctx, "user-1", "ada@example.com")

	s.Error(err)
	s.contacts.AssertNotCalled(s.T(), "DeleteMessagesByEmail", mock.Anything, mock.Anything)
}

func (s *EngagementUsecaseTestSuite) TestUserInsights() {
	orders := []*model.Order{
		{ID: "order-1", TotalAmount: 450},
		{ID: "order-2", TotalAmount: 150},
	}
	s.orders.On("ListOrdersByEmail", s.ctx, "ada@example.com").Return(orders, nil)
	s.activities.On("CountByUser", s.ctx, "user-1").Return(int64(30), nil)
	s.activities.On("ListActivitiesByUser", s.ctx, "user-1", recentActivityLimit).Return([]*model.Activity{{Type: "PAGE_VIEW"}}, nil)

	insights, err := s.usecase.UserInsights(s.ctx, "user-1", "ada@example.com")

	s.Require().NoError(err)
	s.Equal(2, insights["orderCount"])
	s.Equal(float64(600), insights["totalSpent"])
	s.Equal(int64(30), insights["activityCount"])
}

func (s *EngagementUsecaseTestSuite) TestMarkMessageRead() {
	msg := &model.ContactMessage{ID: "msg-1", IsRead: true}
	s.contacts.On("MarkMessageRead", s.ctx, "msg-1").Return(msg, nil)

	got, err := s.usecase.MarkMessageRead(s.ctx, "msg-1")

	s.NoError(err)
	s.True(got.IsRead)
}

func (s *EngagementUsecaseTestSuite) TestDeleteMessageNotFound() {
	s.contacts.On("DeleteMessage", s.ctx, "missing").Return(errors.New("not found"))

	err := s.usecase.DeleteMessage(s.ctx, "missing")

	s.ErrorIs(err, ErrMessageNotFound)
}

func TestEngagementUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(EngagementUsecaseTestSuite))
}
