// README: Pure mapping from backend order records to the internal aggregate.
package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"courierd/internal/backend"
	"courierd/internal/status"
	"courierd/internal/types"
)

// DefaultDeliveryFee is applied when the backend record carries none.
var DefaultDeliveryFee = decimal.NewFromInt(30)

const createdAtLayout = "2006-01-02 15:04:05"

// MapOrder translates one raw backend record. An unregistered status code
// fails the mapping of that single order with status.ErrUnknownStatus;
// the caller decides whether to drop or surface it.
func MapOrder(raw backend.RawOrder) (Order, error) {
	info, err := status.Lookup(status.Code(raw.StatusID))
	if err != nil {
		return Order{}, fmt.Errorf("order %d: %w", raw.ID, err)
	}

	fee := DefaultDeliveryFee
	if raw.DeliveryFee != nil {
		fee = *raw.DeliveryFee
	}

	items := make([]Item, 0, len(raw.Items))
	for _, it := range raw.Items {
		items = append(items, Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	return Order{
		ID:            raw.ID,
		OrderNumber:   raw.OrderNumber,
		Status:        info.Name,
		StatusID:      info.Code,
		CustomerName:  raw.CustomerName,
		CustomerPhone: raw.CustomerPhone,
		Pickup: Location{
			Address:  raw.PickupAddress,
			Position: types.Point{Lat: raw.PickupLat, Lng: raw.PickupLng},
		},
		Drop: Location{
			Address:  raw.DropAddress,
			Position: types.Point{Lat: raw.DropLat, Lng: raw.DropLng},
		},
		Items:         items,
		Subtotal:      raw.Subtotal,
		DeliveryFee:   fee,
		Total:         raw.Total,
		PaymentMethod: NormalizePaymentMethod(raw.PaymentMethod),
		CreatedAt:     synthesizeCreatedAt(raw.OrderDate, raw.OrderTime),
		Instructions:  raw.Instructions,
	}, nil
}

// synthesizeCreatedAt joins the backend's separate date and time fields.
// A malformed pair yields the zero time; the timestamp is display
// metadata and must not fail the mapping.
func synthesizeCreatedAt(date, clock string) time.Time {
	t, err := time.ParseInLocation(createdAtLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
