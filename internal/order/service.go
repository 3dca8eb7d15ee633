package order

import (
	"context"
	"errors"
	"time"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/events"
	"github.com/chanchalmahajan01/GKT/internal/logger"
	"github.com/chanchalmahajan01/GKT/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// codeRetries bounds the regenerate-on-collision loop for order codes.
const codeRetries = 3

// Notifier pushes order events to the connected parties. Delivery is
// fire-and-forget: a failed or dropped notification never rolls back the
// persisted mutation.
type Notifier interface {
	NewOrder(o *Order)
	OrderStatusUpdated(o *Order)
}

type PlaceInput struct {
	ProviderID      string
	Items           []Item
	TotalAmount     float64
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	Notes           string
}

type Service interface {
	Place(ctx context.Context, customerID uuid.UUID, in PlaceInput) (*Order, error)
	UpdateStatus(ctx context.Context, providerID uuid.UUID, orderID string, target Status) (*Order, error)
	SubmitReview(ctx context.Context, customerID uuid.UUID, orderID string, rating int, text string) (*Order, error)
	CustomerOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]*Order, error)
	CustomerOrderDetail(ctx context.Context, customerID uuid.UUID, orderID string) (*Order, error)
	ProviderOrders(ctx context.Context, providerID uuid.UUID, limit int) ([]*Order, error)
	ProviderStats(ctx context.Context, providerID uuid.UUID) (*ProviderStats, error)
}

type service struct {
	repo      Repository
	accounts  account.Repository
	notifier  Notifier
	publisher events.Publisher
}

func NewService(repo Repository, accounts account.Repository, notifier Notifier, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		accounts:  accounts,
		notifier:  notifier,
		publisher: publisher,
	}
}

func validatePlace(in PlaceInput) *ValidationError {
	var fields []string

	if in.ProviderID == "" {
		fields = append(fields, "providerId")
	}
	if len(in.Items) == 0 {
		fields = append(fields, "items")
	}
	for _, item := range in.Items {
		if item.Name == "" || item.Price < 0 || item.Quantity < 1 {
			fields = append(fields, "items")
			break
		}
	}
	if in.TotalAmount <= 0 {
		fields = append(fields, "totalAmount")
	}
	if in.DeliveryAddress == "" {
		fields = append(fields, "deliveryAddress")
	}
	if in.PaymentMethod != "" && in.PaymentMethod != PaymentCash && in.PaymentMethod != PaymentOnline {
		fields = append(fields, "paymentMethod")
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (s *service) Place(ctx context.Context, customerID uuid.UUID, in PlaceInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("customer_id", customerID.String()))

	if verr := validatePlace(in); verr != nil {
		return nil, verr
	}

	providerID, err := uuid.Parse(in.ProviderID)
	if err != nil {
		return nil, ErrMalformedReference
	}

	if _, err := s.accounts.FindVerifiedProvider(ctx, providerID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = PaymentCash
	}

	o := &Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		ProviderID:      providerID,
		Items:           in.Items,
		TotalAmount:     in.TotalAmount,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   method,
		PaymentStatus:   PaymentPending,
		Notes:           in.Notes,
		Status:          StatusPending,
	}

	// The random code suffix is only softly unique; the table constraint
	// is authoritative and a collision just means another draw.
	for attempt := 0; ; attempt++ {
		o.Code = NewCode(time.Now())
		err = s.repo.Create(ctx, o)
		if !errors.Is(err, ErrCodeConflict) {
			break
		}
		if attempt+1 >= codeRetries {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	log.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("code", o.Code),
		zap.String("provider_id", providerID.String()),
	)

	if s.notifier != nil {
		s.notifier.NewOrder(o)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.Event{
			Type:    events.TypeOrderPlaced,
			Key:     o.ID.String(),
			Payload: o,
		})
	}

	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, providerID uuid.UUID, orderID string, target Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("provider_id", providerID.String()),
		zap.String("order_id", orderID),
	)

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrMalformedReference
	}
	if !target.Valid() {
		return nil, &ValidationError{Fields: []string{"status"}}
	}

	o, err := s.repo.FindForProvider(ctx, id, providerID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, target) {
		metrics.TransitionsRejected.Inc()
		return nil, &TransitionError{From: o.Status, To: target}
	}

	ok, err := s.repo.UpdateStatusCAS(ctx, id, providerID, o.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: some other request moved the order first. Report
		// the edge against the fresh state.
		metrics.TransitionsRejected.Inc()
		fresh, ferr := s.repo.FindForProvider(ctx, id, providerID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &TransitionError{From: fresh.Status, To: target}
	}

	o.Status = target
	metrics.StatusTransitions.Inc()
	log.Info("order status updated",
		zap.String("status", string(target)),
	)

	if s.notifier != nil {
		s.notifier.OrderStatusUpdated(o)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.Event{
			Type:    events.TypeOrderStatusChanged,
			Key:     o.ID.String(),
			Payload: map[string]any{"orderId": o.ID, "status": o.Status},
		})
	}

	return o, nil
}

func (s *service) SubmitReview(ctx context.Context, customerID uuid.UUID, orderID string, rating int, text string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("customer_id", customerID.String()),
		zap.String("order_id", orderID),
	)

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrMalformedReference
	}
	if rating < 1 || rating > 5 {
		return nil, &ValidationError{Fields: []string{"rating"}}
	}

	o, err := s.repo.FindForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDelivered {
		return nil, ErrNotDelivered
	}
	if o.IsReviewed {
		return nil, ErrAlreadyReviewed
	}

	rev := &Review{Rating: rating, Text: text, CreatedAt: time.Now()}
	ok, err := s.repo.AttachReview(ctx, id, customerID, rev)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The guarded write found the precondition gone, meaning a
		// concurrent review won.
		return nil, ErrAlreadyReviewed
	}

	o.Review = rev
	o.IsReviewed = true

	if err := s.accounts.ApplyReviewRating(ctx, o.ProviderID, rating); err != nil {
		log.Error("failed to fold review into provider rating", zap.Error(err))
		return nil, err
	}

	metrics.ReviewsSubmitted.Inc()
	log.Info("review submitted", zap.Int("rating", rating))

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.Event{
			Type:    events.TypeReviewSubmitted,
			Key:     o.ID.String(),
			Payload: map[string]any{"orderId": o.ID, "provider": o.ProviderID, "rating": rating},
		})
	}

	return o, nil
}

func (s *service) CustomerOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit)
}

func (s *service) CustomerOrderDetail(ctx context.Context, customerID uuid.UUID, orderID string) (*Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrMalformedReference
	}
	return s.repo.FindForCustomer(ctx, id, customerID)
}

func (s *service) ProviderOrders(ctx context.Context, providerID uuid.UUID, limit int) ([]*Order, error) {
	return s.repo.ListByProvider(ctx, providerID, limit)
}

func (s *service) ProviderStats(ctx context.Context, providerID uuid.UUID) (*ProviderStats, error) {
	stats, err := s.repo.ProviderStats(ctx, providerID)
	if err != nil {
		return nil, err
	}

	provider, err := s.accounts.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	stats.AverageRating = provider.Rating

	return stats, nil
}
