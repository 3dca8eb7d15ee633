package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chanchalmahajan01/GKT/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByEmailAndRole(ctx context.Context, email string, role Role) (*Account, error)
	FindVerifiedProvider(ctx context.Context, id uuid.UUID) (*Account, error)
	ListVerifiedProviders(ctx context.Context, limit int) ([]*Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error
	ApplyReviewRating(ctx context.Context, providerID uuid.UUID, rating int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const accountColumns = `id, email, password_hash, role, name, mess_name, owner_name,
	mobile_no, address, profile_image, is_verified, rating, review_count, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	var (
		a         Account
		name      sql.NullString
		messName  sql.NullString
		ownerName sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Role, &name, &messName, &ownerName,
		&a.MobileNo, &a.Address, &a.ProfileImage, &a.IsVerified,
		&a.Rating, &a.ReviewCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch a.Role {
	case RoleCustomer:
		a.Customer = &CustomerProfile{Name: name.String}
	case RoleProvider:
		a.Provider = &ProviderProfile{MessName: messName.String, OwnerName: ownerName.String}
	}

	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Account) error {
	log := logger.FromCtx(ctx)

	var name, messName, ownerName sql.NullString
	if a.Customer != nil {
		name = sql.NullString{String: a.Customer.Name, Valid: true}
	}
	if a.Provider != nil {
		messName = sql.NullString{String: a.Provider.MessName, Valid: true}
		ownerName = sql.NullString{String: a.Provider.OwnerName, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, role, name, mess_name, owner_name,
			mobile_no, address, profile_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		a.ID, a.Email, a.PasswordHash, a.Role, name, messName, ownerName,
		a.MobileNo, a.Address, a.ProfileImage,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrEmailExists
		}
		log.Error("db: failed to insert account",
			zap.String("email", a.Email),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (r *repository) FindByEmailAndRole(ctx context.Context, email string, role Role) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1 AND role = $2`, email, role)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (r *repository) FindVerifiedProvider(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE id = $1 AND role = 'provider' AND is_verified = TRUE`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (r *repository) ListVerifiedProviders(ctx context.Context, limit int) ([]*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE role = 'provider' AND is_verified = TRUE
		ORDER BY rating DESC, created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, a)
	}

	return providers, rows.Err()
}

func (r *repository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET
			name        = COALESCE($2, name),
			mess_name   = COALESCE($3, mess_name),
			owner_name  = COALESCE($4, owner_name),
			mobile_no   = COALESCE($5, mobile_no),
			address     = COALESCE($6, address),
			updated_at  = NOW()
		WHERE id = $1`,
		id, params.Name, params.MessName, params.OwnerName, params.MobileNo, params.Address,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ApplyReviewRating folds one incoming rating into the provider's running
// mean inside a single UPDATE, so concurrent reviews never lose an update.
func (r *repository) ApplyReviewRating(ctx context.Context, providerID uuid.UUID, rating int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET
			rating       = (rating * review_count + $2) / (review_count + 1),
			review_count = review_count + 1,
			updated_at   = NOW()
		WHERE id = $1 AND role = 'provider'`,
		providerID, float64(rating),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
