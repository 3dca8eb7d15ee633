package account

import (
	"context"
	"errors"

	"github.com/chanchalmahajan01/GKT/internal/logger"
	"github.com/chanchalmahajan01/GKT/internal/mail"
	"github.com/chanchalmahajan01/GKT/internal/otp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterCustomerInput struct {
	Name     string
	Email    string
	MobileNo string
	Address  string
	Password string
}

type RegisterProviderInput struct {
	MessName     string
	OwnerName    string
	Email        string
	MobileNo     string
	Address      string
	Password     string
	ProfileImage string
}

var ErrMissingFields = errors.New("all fields are required")

type Service interface {
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) error
	RegisterProvider(ctx context.Context, in RegisterProviderInput) error
	VerifyOTP(ctx context.Context, email, code string) (string, *Account, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string, role Role) (string, *Account, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*Account, error)
	ApplyReviewRating(ctx context.Context, providerID uuid.UUID, rating int) error
	ListMesses(ctx context.Context, limit int) ([]*Account, error)
	GetMess(ctx context.Context, id uuid.UUID) (*Account, error)
}

type service struct {
	repo   Repository
	codes  otp.Store
	mailer mail.Mailer
}

func NewService(repo Repository, codes otp.Store, mailer mail.Mailer) Service {
	return &service{repo: repo, codes: codes, mailer: mailer}
}

func (s *service) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) error {
	if in.Name == "" || in.Email == "" || in.MobileNo == "" || in.Address == "" || in.Password == "" {
		return ErrMissingFields
	}

	a := &Account{
		ID:       uuid.New(),
		Email:    in.Email,
		Role:     RoleCustomer,
		MobileNo: in.MobileNo,
		Address:  in.Address,
		Customer: &CustomerProfile{Name: in.Name},
	}

	return s.register(ctx, a, in.Password)
}

func (s *service) RegisterProvider(ctx context.Context, in RegisterProviderInput) error {
	if in.MessName == "" || in.OwnerName == "" || in.Email == "" ||
		in.MobileNo == "" || in.Address == "" || in.Password == "" {
		return ErrMissingFields
	}

	a := &Account{
		ID:           uuid.New(),
		Email:        in.Email,
		Role:         RoleProvider,
		MobileNo:     in.MobileNo,
		Address:      in.Address,
		ProfileImage: in.ProfileImage,
		Provider:     &ProviderProfile{MessName: in.MessName, OwnerName: in.OwnerName},
	}

	return s.register(ctx, a, in.Password)
}

func (s *service) register(ctx context.Context, a *Account, password string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("email", a.Email),
		zap.String("role", string(a.Role)),
	)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return err
	}
	a.PasswordHash = hashed

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return ErrEmailExists
		}
		log.Error("failed to create account", zap.Error(err))
		return err
	}

	// Email delivery failure rolls back the just-created account so an
	// unverifiable record is never left behind.
	if err := s.issueOTP(ctx, a.Email); err != nil {
		log.Error("otp delivery failed, rolling back account", zap.Error(err))
		if delErr := s.repo.Delete(ctx, a.ID); delErr != nil {
			log.Error("failed to roll back unverified account", zap.Error(delErr))
		}
		return ErrEmailDelivery
	}

	log.Info("account registered, awaiting verification",
		zap.String("account_id", a.ID.String()))
	return nil
}

func (s *service) issueOTP(ctx context.Context, email string) error {
	code := otp.GenerateCode()
	if err := s.codes.Save(ctx, email, code); err != nil {
		return err
	}
	return s.mailer.SendOTP(email, code)
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (string, *Account, error) {
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrCodeNotFound) {
			return "", nil, ErrOTPExpired
		}
		return "", nil, err
	}
	if stored != code {
		return "", nil, ErrInvalidOTP
	}

	if err := s.repo.MarkVerified(ctx, a.ID); err != nil {
		return "", nil, err
	}
	a.IsVerified = true
	_ = s.codes.Delete(ctx, email)

	token, err := GenerateJWT(a.ID, a.Role, a.Email)
	if err != nil {
		return "", nil, err
	}

	logger.FromCtx(ctx).Info("account verified",
		zap.String("account_id", a.ID.String()))
	return token, a, nil
}

func (s *service) ResendOTP(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return err
	}
	if err := s.issueOTP(ctx, email); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

func (s *service) Login(ctx context.Context, email, password string, role Role) (string, *Account, error) {
	a, err := s.repo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, a.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if !a.IsVerified {
		// A fresh code is sent so the user can complete verification.
		if err := s.issueOTP(ctx, email); err != nil {
			logger.FromCtx(ctx).Error("failed to reissue otp", zap.Error(err))
		}
		return "", nil, ErrNotVerified
	}

	token, err := GenerateJWT(a.ID, a.Role, a.Email)
	if err != nil {
		return "", nil, err
	}

	return token, a, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*Account, error) {
	if err := s.repo.UpdateProfile(ctx, id, params); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ApplyReviewRating(ctx context.Context, providerID uuid.UUID, rating int) error {
	return s.repo.ApplyReviewRating(ctx, providerID, rating)
}

func (s *service) ListMesses(ctx context.Context, limit int) ([]*Account, error) {
	return s.repo.ListVerifiedProviders(ctx, limit)
}

func (s *service) GetMess(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.FindVerifiedProvider(ctx, id)
}
