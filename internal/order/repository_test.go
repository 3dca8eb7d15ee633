package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsJSON(t *testing.T, items []Item) []byte {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	return raw
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	o := &Order{
		ID:              uuid.New(),
		Code:            "TF202503141234",
		CustomerID:      uuid.New(),
		ProviderID:      uuid.New(),
		Items:           []Item{{Name: "Thali", Price: 120, Quantity: 2}},
		TotalAmount:     240,
		DeliveryAddress: "12 MG Road",
		PaymentMethod:   PaymentCash,
		PaymentStatus:   PaymentPending,
		Status:          StatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)INSERT INTO orders .* RETURNING created_at, updated_at`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))

		assert.NoError(t, repo.Create(ctx, o))
		assert.False(t, o.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CodeCollision", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)INSERT INTO orders .*`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_code_key"})

		assert.ErrorIs(t, repo.Create(ctx, o), ErrCodeConflict)
	})

	t.Run("OtherUniqueViolationPassesThrough", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)INSERT INTO orders .*`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_pkey"})

		err = repo.Create(ctx, o)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCodeConflict)
	})
}

func TestRepository_FindForCustomer(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	customerID := uuid.New()
	providerID := uuid.New()

	columns := []string{
		"id", "code", "customer_id", "provider_id", "items", "total_amount",
		"delivery_address", "payment_method", "payment_status", "notes", "status",
		"review", "is_reviewed", "created_at", "updated_at",
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		items := []Item{{Name: "Thali", Price: 120, Quantity: 1}}
		mock.ExpectQuery(`(?s)SELECT .* FROM orders WHERE id = \$1 AND customer_id = \$2`).
			WithArgs(orderID, customerID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				orderID, "TF202503141234", customerID, providerID, itemsJSON(t, items), 120.0,
				"12 MG Road", "cash", "pending", "", "preparing",
				nil, false, time.Now(), time.Now(),
			))

		o, err := repo.FindForCustomer(ctx, orderID, customerID)
		require.NoError(t, err)
		assert.Equal(t, StatusPreparing, o.Status)
		assert.Equal(t, items, o.Items)
		assert.Nil(t, o.Review)
	})

	t.Run("ReviewUnmarshalled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		review := []byte(`{"rating":5,"text":"great","createdAt":"2025-03-14T12:00:00Z"}`)
		mock.ExpectQuery(`(?s)SELECT .* FROM orders WHERE id = \$1 AND customer_id = \$2`).
			WithArgs(orderID, customerID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				orderID, "TF202503141234", customerID, providerID, itemsJSON(t, nil), 120.0,
				"12 MG Road", "cash", "pending", "", "delivered",
				review, true, time.Now(), time.Now(),
			))

		o, err := repo.FindForCustomer(ctx, orderID, customerID)
		require.NoError(t, err)
		require.NotNil(t, o.Review)
		assert.Equal(t, 5, o.Review.Rating)
		assert.True(t, o.IsReviewed)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM orders`).
			WillReturnError(sql.ErrNoRows)

		_, err = repo.FindForCustomer(ctx, orderID, customerID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_UpdateStatusCAS(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	t.Run("Applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders SET status = \$1.*WHERE id = \$2 AND provider_id = \$3 AND status = \$4`).
			WithArgs(StatusPreparing, orderID, providerID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatusCAS(ctx, orderID, providerID, StatusPending, StatusPreparing)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("PreconditionGone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders SET status = \$1.*`).
			WithArgs(StatusPreparing, orderID, providerID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatusCAS(ctx, orderID, providerID, StatusPending, StatusPreparing)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_AttachReview(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	customerID := uuid.New()
	rev := &Review{Rating: 5, Text: "great", CreatedAt: time.Now()}

	t.Run("Attached", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders SET review = \$1, is_reviewed = TRUE.*status = 'delivered' AND is_reviewed = FALSE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AttachReview(ctx, orderID, customerID, rev)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("GuardRejects", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders SET review = \$1.*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AttachReview(ctx, orderID, customerID, rev)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_ProviderStats(t *testing.T) {
	ctx := context.Background()
	providerID := uuid.New()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`(?s)SELECT.*FROM orders WHERE provider_id = \$1`).
		WithArgs(providerID).
		WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "customers", "revenue"}).
			AddRow(10, 2, 6, 1500.0))

	stats, err := repo.ProviderStats(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 2, stats.PendingOrders)
	assert.Equal(t, 6, stats.TotalCustomers)
	assert.Equal(t, 1500.0, stats.TotalRevenue)
}
