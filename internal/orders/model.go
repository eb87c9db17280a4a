// README: Order aggregate owned by the in-memory store.
package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"courierd/internal/status"
	"courierd/internal/types"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// NormalizePaymentMethod folds arbitrary backend payment strings into the
// closed set. Anything unrecognized falls back to cash; this is a lossy
// default, not an error.
func NormalizePaymentMethod(raw string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "card", "credit_card", "debit_card":
		return PaymentCard
	case "upi":
		return PaymentUPI
	default:
		return PaymentCash
	}
}

type Location struct {
	Address  string
	Position types.Point
}

type Item struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Order is the internal representation of a delivery assignment. Status
// and StatusID always agree per the status registry; they are only ever
// updated together. The store owns every Order; views get copies.
type Order struct {
	ID            int64
	OrderNumber   string
	Status        string
	StatusID      status.Code
	CustomerName  string
	CustomerPhone string
	Pickup        Location
	Drop          Location
	Items         []Item
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	PickedAt      *time.Time
	DeliveredAt   *time.Time
	Instructions  string
}
