package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/chanchalmahajan01/GKT/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Upsert(ctx context.Context, m *Menu) error
	FindByProviderAndDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*Menu, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Upsert writes the menu wholesale. A second submission for the same
// (provider, date) replaces every column, including the items list.
func (r *repository) Upsert(ctx context.Context, m *Menu) error {
	log := logger.FromCtx(ctx)

	items, err := json.Marshal(m.Items)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO menus (id, provider_id, menu_date, cadence, food_type, price,
			items, open_time, close_time, home_delivery)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (provider_id, menu_date) DO UPDATE SET
			cadence       = EXCLUDED.cadence,
			food_type     = EXCLUDED.food_type,
			price         = EXCLUDED.price,
			items         = EXCLUDED.items,
			open_time     = EXCLUDED.open_time,
			close_time    = EXCLUDED.close_time,
			home_delivery = EXCLUDED.home_delivery,
			updated_at    = NOW()
		RETURNING id, created_at, updated_at`,
		m.ID, m.ProviderID, m.Date, m.Cadence, m.FoodType, m.Price,
		items, m.MessTime.Open, m.MessTime.Close, m.HomeDelivery,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		log.Error("db: failed to upsert menu",
			zap.String("provider_id", m.ProviderID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) FindByProviderAndDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*Menu, error) {
	var (
		m        Menu
		rawItems []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, provider_id, menu_date, cadence, food_type, price,
			items, open_time, close_time, home_delivery, created_at, updated_at
		FROM menus WHERE provider_id = $1 AND menu_date = $2`,
		providerID, DayStart(date),
	).Scan(
		&m.ID, &m.ProviderID, &m.Date, &m.Cadence, &m.FoodType, &m.Price,
		&rawItems, &m.MessTime.Open, &m.MessTime.Close, &m.HomeDelivery,
		&m.CreatedAt, &m.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawItems, &m.Items); err != nil {
		return nil, err
	}
	return &m, nil
}
