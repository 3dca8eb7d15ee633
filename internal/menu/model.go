package menu

import (
	"time"

	"github.com/google/uuid"
)

type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Item is one named dish on a menu.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ServiceWindow is the mess's open/close time for the day, "HH:MM" strings.
type ServiceWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Menu is a provider's published offering for one calendar day. There is at
// most one Menu per (provider, date); submissions replace the whole document.
type Menu struct {
	ID           uuid.UUID     `json:"_id"`
	ProviderID   uuid.UUID     `json:"provider"`
	Date         time.Time     `json:"date"`
	Cadence      Cadence       `json:"menuType"`
	FoodType     string        `json:"foodType"`
	Price        float64       `json:"price"`
	Items        []Item        `json:"items"`
	MessTime     ServiceWindow `json:"messTime"`
	HomeDelivery bool          `json:"homeDelivery"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// DayStart truncates t to day granularity, the menu key resolution.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
