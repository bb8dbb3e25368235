package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"artdash/internal/shared/logger"
	"artdash/internal/store/domain/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderUsecaseTestSuite struct {
	suite.Suite
	repo    *MockOrderRepository
	usecase *OrderUsecase
	ctx     context.Context
	now     time.Time
}

func (s *OrderUsecaseTestSuite) SetupTest() {
	s.repo = new(MockOrderRepository)
	s.usecase = NewOrderUsecase(s.repo, logger.NewLogger())
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.usecase.now = func() time.Time { return s.now }
}

func (s *OrderUsecaseTestSuite) validInput() OrderInput {
	return OrderInput{
		CustomerName:  "Jordan Blake",
		CustomerEmail: "jordan@example.com",
		CustomerPhone: "+1-202-555-0147",
		ShippingAddress: model.ShippingAddress{
			StreetAddress: "12 Gallery Row",
			City:          "Wellington",
			Country:       "New Zealand",
		},
		Items: []model.OrderItem{
			{ProductID: "prod-1", ProductName: "Harbour Dusk", Quantity: 1, Price: 450},
		},
		SubtotalAmount: 450,
		TotalAmount:    470,
		ShippingFee:    20,
	}
}

func (s *OrderUsecaseTestSuite) TestCreateOrderSeedsStatusHistory() {
	s.repo.On("CreateOrder", s.ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := s.usecase.CreateOrder(s.ctx, s.validInput())

	s.NoError(err)
	s.Equal(model.StatusPending, order.Status)
	s.Equal(model.DefaultDeliveryWeeks, order.DeliveryWeeks)
	s.Require().Len(order.StatusUpdates, 1)
	s.Equal(model.StatusPending, order.StatusUpdates[0].Status)
	s.Equal("Order placed", order.StatusUpdates[0].Note)
	s.Equal(s.now, order.StatusUpdates[0].Date)
}

func (s *OrderUsecaseTestSuite) TestCreateOrderDefaultsPaymentMethod() {
	s.repo.On("CreateOrder", s.ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := s.usecase.CreateOrder(s.ctx, s.validInput())

	s.NoError(err)
	s.Equal("cod", order.PaymentMethod)
}

func (s *OrderUsecaseTestSuite) TestCreateOrderRequiresCustomer() {
	in := s.validInput()
	in.CustomerEmail = ""

	_, err := s.usecase.CreateOrder(s.ctx, in)

	s.ErrorIs(err, ErrMissingCustomer)
	s.repo.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (s *OrderUsecaseTestSuite) TestCreateOrderRequiresItems() {
	in := s.validInput()
	in.Items = nil

	_, err := s.usecase.CreateOrder(s.ctx, in)

	s.ErrorIs(err, ErrEmptyOrder)
}

func (s *OrderUsecaseTestSuite) TestUpdateStatusAppendsHistoryEntry() {
	current := &model.Order{ID: "order-1", Status: model.StatusPending}
	updated := &model.Order{ID: "order-1", Status: model.StatusShipped}

	s.repo.On("GetOrderByID", s.ctx, "order-1").Return(current, nil)
	s.repo.On("UpdateStatus", s.ctx, "order-1", model.StatusUpdate{
		Status: model.StatusShipped,
		Date:   s.now,
		Note:   "Left the warehouse",
	}).Return(updated, nil)

	order, err := s.usecase.UpdateStatus(s.ctx, "order-1", model.StatusShipped, "Left the warehouse")

	s.NoError(err)
	s.Equal(model.StatusShipped, order.Status)
}

func (s *OrderUsecaseTestSuite) TestUpdateStatusDefaultsNote() {
	current := &model.Order{ID: "order-1", Status: model.StatusPending}
	updated := &model.Order{ID: "order-1", Status: model.StatusProcessing}

	s.repo.On("GetOrderByID", s.ctx, "order-1").Return(current, nil)
	s.repo.On("UpdateStatus", s.ctx, "order-1", model.StatusUpdate{
		Status: model.StatusProcessing,
		Date:   s.now,
		Note:   "Status changed to Processing",
	}).Return(updated, nil)

	_, err := s.usecase.UpdateStatus(s.ctx, "order-1", model.StatusProcessing, "")

	s.NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *OrderUsecaseTestSuite) TestUpdateStatusRejectsUnknownStatus() {
	_, err := s.usecase.UpdateStatus(s.ctx, "order-1", "Teleported", "")

	s.ErrorIs(err, ErrInvalidStatus)
	s.repo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderUsecaseTestSuite) TestUpdateStatusCancelledIsFinal() {
	current := &model.Order{ID: "order-1", Status: model.StatusCancelled}
	s.repo.On("GetOrderByID", s.ctx, "order-1").Return(current, nil)

	_, err := s.usecase.UpdateStatus(s.ctx, "order-1", model.StatusPending, "")

	s.ErrorIs(err, ErrOrderAlreadyFinal)
	s.repo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderUsecaseTestSuite) TestRequestCancellationWhilePending() {
	current := &model.Order{ID: "order-1", Status: model.StatusPending}
	updated := &model.Order{ID: "order-1", Status: model.StatusRequested}

	s.repo.On("GetOrderByID", s.ctx, "order-1").Return(current, nil)
	s.repo.On("UpdateStatus", s.ctx, "order-1", model.StatusUpdate{
		Status: model.StatusRequested,
		Date:   s.now,
		Note:   "Cancellation requested by customer",
	}).Return(updated, nil)

	order, err := s.usecase.RequestCancellation(s.ctx, "order-1")

	s.NoError(err)
	s.Equal(model.StatusRequested, order.Status)
}

func (s *OrderUsecaseTestSuite) TestRequestCancellationRefusedOnceShipped() {
	for _, status := range []string{model.StatusShipped, model.StatusDelivered, model.StatusCancelled, model.StatusRequested} {
		repo := new(MockOrderRepository)
		uc := NewOrderUsecase(repo, logger.NewLogger())
		repo.On("GetOrderByID", s.ctx, "order-1").Return(&model.Order{ID: "order-1", Status: status}, nil)

		_, err := uc.RequestCancellation(s.ctx, "order-1")

		s.ErrorIs(err, ErrCancellationNotAllowed, "status %s", status)
		repo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	}
}

func (s *OrderUsecaseTestSuite) TestUpdateDeliveryTimeRejectsZeroWeeks() {
	_, err := s.usecase.UpdateDeliveryTime(s.ctx, "order-1", 0)

	s.ErrorIs(err, ErrInvalidDeliveryWeeks)
	s.repo.AssertNotCalled(s.T(), "UpdateDeliveryWeeks", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderUsecaseTestSuite) TestUpdateDeliveryTime() {
	updated := &model.Order{ID: "order-1", DeliveryWeeks: 4}
	s.repo.On("UpdateDeliveryWeeks", s.ctx, "order-1", 4).Return(updated, nil)

	order, err := s.usecase.UpdateDeliveryTime(s.ctx, "order-1", 4)

	s.NoError(err)
	s.Equal(4, order.DeliveryWeeks)
}

func (s *OrderUsecaseTestSuite) TestGetOrderNotFound() {
	s.repo.On("GetOrderByID", s.ctx, "missing").Return(nil, errors.New("no documents in result"))

	_, err := s.usecase.GetOrder(s.ctx, "missing")

	s.ErrorIs(err, ErrOrderNotFound)
}

func TestOrderUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(OrderUsecaseTestSuite))
}
