package account

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// Account is either a customer or a provider. Shared fields live on the
// struct; role-specific fields live on exactly one of the two profile
// variants, matching the account's Role.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	MobileNo     string
	Address      string
	ProfileImage string
	IsVerified   bool
	Rating       float64
	ReviewCount  int
	Customer     *CustomerProfile
	Provider     *ProviderProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CustomerProfile struct {
	Name string
}

type ProviderProfile struct {
	MessName  string
	OwnerName string
}

// DisplayName returns the role-appropriate public name.
func (a *Account) DisplayName() string {
	switch a.Role {
	case RoleProvider:
		if a.Provider != nil {
			return a.Provider.MessName
		}
	case RoleCustomer:
		if a.Customer != nil {
			return a.Customer.Name
		}
	}
	return ""
}

type UpdateProfileParams struct {
	Name      *string
	MessName  *string
	OwnerName *string
	MobileNo  *string
	Address   *string
}
