package order

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Item is a line snapshotted at order time. It is copied from the menu and
// never changes when the menu does.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Review is attached once, after delivery, and is immutable afterwards.
type Review struct {
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Order struct {
	ID              uuid.UUID     `json:"_id"`
	Code            string        `json:"orderId"`
	CustomerID      uuid.UUID     `json:"customer"`
	ProviderID      uuid.UUID     `json:"provider"`
	Items           []Item        `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	DeliveryAddress string        `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	Notes           string        `json:"notes,omitempty"`
	Status          Status        `json:"status"`
	Review          *Review       `json:"review,omitempty"`
	IsReviewed      bool          `json:"isReviewed"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// ProviderStats is the provider dashboard summary.
type ProviderStats struct {
	TotalOrders    int     `json:"totalOrders"`
	PendingOrders  int     `json:"pendingOrders"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AverageRating  float64 `json:"averageRating"`
}
