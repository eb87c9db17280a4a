// README: Earnings records derived from delivered orders.
package earnings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery is one archived delivered order. The fee is what the courier
// earned on it.
type Delivery struct {
	OrderID       int64
	OrderNumber   string
	Fee           decimal.Decimal
	PaymentMethod string
	DeliveredAt   time.Time
}

// DaySummary aggregates deliveries per calendar day for the earnings
// screen.
type DaySummary struct {
	Day        string
	Deliveries int
	Total      decimal.Decimal
}
