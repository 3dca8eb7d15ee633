package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/chanchalmahajan01/GKT/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*Order, error)
	FindForProvider(ctx context.Context, orderID, providerID uuid.UUID) (*Order, error)
	UpdateStatusCAS(ctx context.Context, orderID, providerID uuid.UUID, from, to Status) (bool, error)
	AttachReview(ctx context.Context, orderID, customerID uuid.UUID, rev *Review) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Order, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]*Order, error)
	ProviderStats(ctx context.Context, providerID uuid.UUID) (*ProviderStats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, code, customer_id, provider_id, items, total_amount,
	delivery_address, payment_method, payment_status, notes, status,
	review, is_reviewed, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o         Order
		rawItems  []byte
		rawReview []byte
	)

	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerID, &o.ProviderID, &rawItems, &o.TotalAmount,
		&o.DeliveryAddress, &o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.Status,
		&rawReview, &o.IsReviewed, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawItems, &o.Items); err != nil {
		return nil, err
	}
	if len(rawReview) > 0 {
		o.Review = &Review{}
		if err := json.Unmarshal(rawReview, o.Review); err != nil {
			return nil, err
		}
	}

	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx)

	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, code, customer_id, provider_id, items, total_amount,
			delivery_address, payment_method, payment_status, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		o.ID, o.Code, o.CustomerID, o.ProviderID, items, o.TotalAmount,
		o.DeliveryAddress, o.PaymentMethod, o.PaymentStatus, o.Notes, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation &&
			strings.Contains(pqErr.Constraint, "code") {
			return ErrCodeConflict
		}
		log.Error("db: failed to insert order",
			zap.String("customer_id", o.CustomerID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *repository) FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND customer_id = $2`,
		orderID, customerID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) FindForProvider(ctx context.Context, orderID, providerID uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND provider_id = $2`,
		orderID, providerID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// UpdateStatusCAS persists the transition only if the row still holds the
// expected current status, closing the concurrent lost-update window. A
// false return means the precondition no longer held.
func (r *repository) UpdateStatusCAS(ctx context.Context, orderID, providerID uuid.UUID, from, to Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND provider_id = $3 AND status = $4`,
		to, orderID, providerID, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// AttachReview flips the one-way reviewed flag and stores the review in a
// single row write, guarded by the delivered/not-yet-reviewed precondition.
func (r *repository) AttachReview(ctx context.Context, orderID, customerID uuid.UUID, rev *Review) (bool, error) {
	payload, err := json.Marshal(rev)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET review = $1, is_reviewed = TRUE, updated_at = NOW()
		WHERE id = $2 AND customer_id = $3 AND status = 'delivered' AND is_reviewed = FALSE`,
		payload, orderID, customerID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Order, error) {
	return r.list(ctx, "customer_id", customerID, limit)
}

func (r *repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]*Order, error) {
	return r.list(ctx, "provider_id", providerID, limit)
}

func (r *repository) list(ctx context.Context, column string, id uuid.UUID, limit int) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = $1 ORDER BY created_at DESC`
	args := []any{id}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) ProviderStats(ctx context.Context, providerID uuid.UUID) (*ProviderStats, error) {
	var stats ProviderStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('pending','preparing','out_for_delivery')),
			COUNT(DISTINCT customer_id),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'delivered'), 0)
		FROM orders WHERE provider_id = $1`,
		providerID,
	).Scan(&stats.TotalOrders, &stats.PendingOrders, &stats.TotalCustomers, &stats.TotalRevenue)

	if err != nil {
		return nil, err
	}
	return &stats, nil
}
