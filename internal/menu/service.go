package menu

import (
	"context"
	"time"

	"github.com/chanchalmahajan01/GKT/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier broadcasts menu changes to connected clients. Delivery is
// best-effort; failures never surface to the caller.
type Notifier interface {
	MenuUpdated(m *Menu)
}

type UpsertInput struct {
	Date         time.Time
	Cadence      Cadence
	FoodType     string
	Price        float64
	Items        []Item
	MessTime     ServiceWindow
	HomeDelivery bool
}

type Service interface {
	Upsert(ctx context.Context, providerID uuid.UUID, in UpsertInput) (*Menu, error)
	GetByDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*Menu, error)
	TodayMenu(ctx context.Context, providerID uuid.UUID) (*Menu, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Upsert(ctx context.Context, providerID uuid.UUID, in UpsertInput) (*Menu, error) {
	if in.Date.IsZero() || in.FoodType == "" || in.MessTime.Open == "" || in.MessTime.Close == "" {
		return nil, ErrMissingFields
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	for _, item := range in.Items {
		if item.Name == "" {
			return nil, ErrUnnamedItem
		}
	}

	cadence := in.Cadence
	if cadence == "" {
		cadence = CadenceDaily
	}

	m := &Menu{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Date:         DayStart(in.Date),
		Cadence:      cadence,
		FoodType:     in.FoodType,
		Price:        in.Price,
		Items:        in.Items,
		MessTime:     in.MessTime,
		HomeDelivery: in.HomeDelivery,
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("menu published",
		zap.String("provider_id", providerID.String()),
		zap.Time("date", m.Date),
		zap.Int("items", len(m.Items)),
	)

	if s.notifier != nil {
		s.notifier.MenuUpdated(m)
	}

	return m, nil
}

func (s *service) GetByDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*Menu, error) {
	return s.repo.FindByProviderAndDate(ctx, providerID, date)
}

func (s *service) TodayMenu(ctx context.Context, providerID uuid.UUID) (*Menu, error) {
	return s.repo.FindByProviderAndDate(ctx, providerID, time.Now())
}
