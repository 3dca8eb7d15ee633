package account

import (
	"context"
	"errors"
	"testing"

	"github.com/chanchalmahajan01/GKT/internal/otp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) FindByEmailAndRole(ctx context.Context, email string, role Role) (*Account, error) {
	args := m.Called(ctx, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) FindVerifiedProvider(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) ListVerifiedProviders(ctx context.Context, limit int) ([]*Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Account), args.Error(1)
}

func (m *MockRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *MockRepository) ApplyReviewRating(ctx context.Context, providerID uuid.UUID, rating int) error {
	args := m.Called(ctx, providerID, rating)
	return args.Error(0)
}

// memStore is an in-memory otp.Store for tests.
type memStore struct {
	codes map[string]string
}

func newMemStore() *memStore { return &memStore{codes: map[string]string{}} }

func (s *memStore) Save(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func (s *memStore) Get(_ context.Context, email string) (string, error) {
	code, ok := s.codes[email]
	if !ok {
		return "", otp.ErrCodeNotFound
	}
	return code, nil
}

func (s *memStore) Delete(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

// MockMailer mocks mail.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func customerInput() RegisterCustomerInput {
	return RegisterCustomerInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		MobileNo: "9876543210",
		Address:  "12 MG Road",
		Password: "password123",
	}
}

func TestService_RegisterCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		store := newMemStore()
		mailer := new(MockMailer)
		svc := NewService(repo, store, mailer)

		var created *Account
		repo.On("Create", ctx, mock.AnythingOfType("*account.Account")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*Account) }).
			Return(nil)
		mailer.On("SendOTP", "asha@example.com", mock.AnythingOfType("string")).Return(nil)

		err := svc.RegisterCustomer(ctx, customerInput())

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, RoleCustomer, created.Role)
		assert.Equal(t, "Asha", created.Customer.Name)
		assert.False(t, created.IsVerified)

		// Password is stored hashed, never verbatim.
		assert.NotEqual(t, "password123", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))

		// The issued code is waiting in the store.
		assert.NotEmpty(t, store.codes["asha@example.com"])
		mailer.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		in := customerInput()
		in.Email = ""

		err := svc.RegisterCustomer(ctx, in)
		assert.ErrorIs(t, err, ErrMissingFields)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists)

		err := svc.RegisterCustomer(ctx, customerInput())
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("MailFailureRollsBack", func(t *testing.T) {
		repo := new(MockRepository)
		mailer := new(MockMailer)
		svc := NewService(repo, newMemStore(), mailer)

		var createdID uuid.UUID
		repo.On("Create", ctx, mock.AnythingOfType("*account.Account")).
			Run(func(args mock.Arguments) { createdID = args.Get(1).(*Account).ID }).
			Return(nil)
		mailer.On("SendOTP", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		repo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

		err := svc.RegisterCustomer(ctx, customerInput())

		assert.ErrorIs(t, err, ErrEmailDelivery)
		repo.AssertCalled(t, "Delete", ctx, createdID)
	})
}

func TestService_RegisterProvider(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	store := newMemStore()
	mailer := new(MockMailer)
	svc := NewService(repo, store, mailer)

	var created *Account
	repo.On("Create", ctx, mock.AnythingOfType("*account.Account")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Account) }).
		Return(nil)
	mailer.On("SendOTP", mock.Anything, mock.Anything).Return(nil)

	err := svc.RegisterProvider(ctx, RegisterProviderInput{
		MessName:  "Sharma Tiffins",
		OwnerName: "R. Sharma",
		Email:     "mess@example.com",
		MobileNo:  "9876543210",
		Address:   "4 Station Road",
		Password:  "password123",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, RoleProvider, created.Role)
	assert.Equal(t, "Sharma Tiffins", created.Provider.MessName)
	assert.Equal(t, "R. Sharma", created.Provider.OwnerName)
}

func TestService_VerifyOTP(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()
	email := "asha@example.com"

	pending := func() *Account {
		return &Account{
			ID:    uuid.New(),
			Email: email,
			Role:  RoleCustomer,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		store := newMemStore()
		svc := NewService(repo, store, new(MockMailer))

		a := pending()
		store.codes[email] = "482913"
		repo.On("FindByEmail", ctx, email).Return(a, nil)
		repo.On("MarkVerified", ctx, a.ID).Return(nil)

		token, verified, err := svc.VerifyOTP(ctx, email, "482913")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, verified.IsVerified)

		// The code is single use.
		_, ok := store.codes[email]
		assert.False(t, ok)
	})

	t.Run("WrongCode", func(t *testing.T) {
		repo := new(MockRepository)
		store := newMemStore()
		svc := NewService(repo, store, new(MockMailer))

		store.codes[email] = "482913"
		repo.On("FindByEmail", ctx, email).Return(pending(), nil)

		_, _, err := svc.VerifyOTP(ctx, email, "000000")
		assert.ErrorIs(t, err, ErrInvalidOTP)
		repo.AssertNotCalled(t, "MarkVerified")
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		repo.On("FindByEmail", ctx, email).Return(pending(), nil)

		_, _, err := svc.VerifyOTP(ctx, email, "482913")
		assert.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		repo.On("FindByEmail", ctx, email).Return(nil, ErrAccountNotFound)

		_, _, err := svc.VerifyOTP(ctx, email, "482913")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()
	email := "asha@example.com"

	hashed, err := HashPassword("password123")
	require.NoError(t, err)

	verified := func() *Account {
		return &Account{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hashed,
			Role:         RoleCustomer,
			IsVerified:   true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		a := verified()
		repo.On("FindByEmailAndRole", ctx, email, RoleCustomer).Return(a, nil)

		token, got, err := svc.Login(ctx, email, "password123", RoleCustomer)

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		repo.On("FindByEmailAndRole", ctx, email, RoleCustomer).Return(verified(), nil)

		_, _, err := svc.Login(ctx, email, "wrong", RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemStore(), new(MockMailer))

		repo.On("FindByEmailAndRole", ctx, email, RoleCustomer).Return(nil, ErrAccountNotFound)

		_, _, err := svc.Login(ctx, email, "password123", RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnverifiedGetsFreshCode", func(t *testing.T) {
		repo := new(MockRepository)
		store := newMemStore()
		mailer := new(MockMailer)
		svc := NewService(repo, store, mailer)

		a := verified()
		a.IsVerified = false
		repo.On("FindByEmailAndRole", ctx, email, RoleCustomer).Return(a, nil)
		mailer.On("SendOTP", email, mock.AnythingOfType("string")).Return(nil)

		_, _, err := svc.Login(ctx, email, "password123", RoleCustomer)

		assert.ErrorIs(t, err, ErrNotVerified)
		assert.NotEmpty(t, store.codes[email])
		mailer.AssertExpectations(t)
	})
}
