package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artdash/internal/shared/logger"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrOrderAlreadyFinal      = errors.New("order is already in a final state")
	ErrCancellationNotAllowed = errors.New("cancellation can no longer be requested for this order")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrInvalidDeliveryWeeks   = errors.New("delivery time must be at least one week")
	ErrMissingCustomer        = errors.New("customer name, email and phone are required")
)

// OrderInput carries the checkout payload.
type OrderInput struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	GeoLocation     *model.GeoLocation    `json:"geoLocation"`
	Notes           string                `json:"notes"`

	Items []model.OrderItem `json:"items"`

	SubtotalAmount float64 `json:"subtotalAmount"`
	ShippingFee    float64 `json:"shippingFee"`
	DiscountCode   string  `json:"discountCode"`
	DiscountAmount float64 `json:"discountAmount"`
	TotalAmount    float64 `json:"totalAmount"`

	PaymentMethod string `json:"paymentMethod"`
}

// OrderUsecase manages the order lifecycle and its status machine.
type OrderUsecase struct {
	orders repository.OrderRepository
	log    logger.Logger
	now    func() time.Time
}

// NewOrderUsecase creates a new order usecase.
func NewOrderUsecase(orders repository.OrderRepository, log logger.Logger) *OrderUsecase {
	return &OrderUsecase{
		orders: orders,
		log:    log,
		now:    time.Now,
	}
}

// CreateOrder persists a new order seeded with the Pending status and its
// first timeline entry.
func (uc *OrderUsecase) CreateOrder(ctx context.Context, in OrderInput) (*model.Order, error) {
	if in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "" {
		return nil, ErrMissingCustomer
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	order := &model.Order{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		GeoLocation:     in.GeoLocation,
		Notes:           in.Notes,
		Items:           in.Items,
		SubtotalAmount:  in.SubtotalAmount,
		ShippingFee:     in.ShippingFee,
		DiscountCode:    in.DiscountCode,
		DiscountAmount:  in.DiscountAmount,
		TotalAmount:     in.TotalAmount,
		PaymentMethod:   paymentMethod,
		Status:          model.StatusPending,
		DeliveryWeeks:   model.DefaultDeliveryWeeks,
		StatusUpdates: []model.StatusUpdate{
			{Status: model.StatusPending, Date: uc.now(), Note: "Order placed"},
		},
	}

	if err := uc.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	uc.log.WithContext(ctx).Info("order created", "orderId", order.ID, "total", order.TotalAmount)
	return order, nil
}

// ListOrders returns all orders, newest first.
func (uc *OrderUsecase) ListOrders(ctx context.Context) ([]*model.Order, error) {
	orders, err := uc.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order by id.
func (uc *OrderUsecase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := uc.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus transitions the order and appends the timeline entry. Orders
// that already reached Cancelled cannot move again.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id, status, note string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	current, err := uc.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if current.Status == model.StatusCancelled {
		return nil, ErrOrderAlreadyFinal
	}

	if note == "" {
		note = fmt.Sprintf("Status changed to %s", status)
	}

	order, err := uc.orders.UpdateStatus(ctx, id, model.StatusUpdate{
		Status: status,
		Date:   uc.now(),
		Note:   note,
	})
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// RequestCancellation is the customer-facing transition into Requested. It is
// only allowed while the order has not shipped.
func (uc *OrderUsecase) RequestCancellation(ctx context.Context, id string) (*model.Order, error) {
	current, err := uc.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !current.CanRequestCancellation() {
		return nil, ErrCancellationNotAllowed
	}

	order, err := uc.orders.UpdateStatus(ctx, id, model.StatusUpdate{
		Status: model.StatusRequested,
		Date:   uc.now(),
		Note:   "Cancellation requested by customer",
	})
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateDeliveryTime changes the estimated delivery window.
func (uc *OrderUsecase) UpdateDeliveryTime(ctx context.Context, id string, weeks int) (*model.Order, error) {
	if weeks < 1 {
		return nil, ErrInvalidDeliveryWeeks
	}

	order, err := uc.orders.UpdateDeliveryWeeks(ctx, id, weeks)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// DeleteOrder removes an order.
func (uc *OrderUsecase) DeleteOrder(ctx context.Context, id string) error {
	if err := uc.orders.DeleteOrder(ctx, id); err != nil {
		return ErrOrderNotFound
	}
	return nil
}
