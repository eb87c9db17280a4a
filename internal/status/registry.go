// README: Static registry mapping backend status codes to lifecycle stages.
package status

import (
	"errors"
	"fmt"
)

// Code is the backend-authoritative integer identifying an order's
// lifecycle stage. It is assigned by the backend and never invented
// locally.
type Code int

const (
	Pending         Code = 4
	Accepted        Code = 5
	Cancelled       Code = 8
	Assigned        Code = 52
	HeadingToPickup Code = 53
	PickedUp        Code = 54
	MissingItems    Code = 55
	OutForDelivery  Code = 56
	Reached         Code = 57
	Delivered       Code = 58
	NotPicked       Code = 59
	ReachedPickup   Code = 65
	NoShow          Code = 263
)

type Info struct {
	Code        Code
	Name        string
	Description string
}

// ErrUnknownStatus reports a status code with no registry entry. A code
// outside the registry in live data is a data-integrity problem on the
// backend side; callers drop the offending order rather than fail the
// whole batch.
var ErrUnknownStatus = errors.New("unknown status code")

var registry = map[Code]Info{
	Pending:         {Pending, "pending", "Order placed, awaiting restaurant confirmation"},
	Accepted:        {Accepted, "accepted", "Order accepted, available for delivery staff"},
	Cancelled:       {Cancelled, "cancelled", "Order cancelled"},
	Assigned:        {Assigned, "assigned", "Order assigned to delivery staff"},
	HeadingToPickup: {HeadingToPickup, "heading_to_pickup", "Delivery staff heading to pickup point"},
	PickedUp:        {PickedUp, "picked_up", "Order picked up from store"},
	MissingItems:    {MissingItems, "missing_items", "Items missing at pickup"},
	OutForDelivery:  {OutForDelivery, "out_for_delivery", "Order en route to customer"},
	Reached:         {Reached, "reached", "Delivery staff reached customer location"},
	Delivered:       {Delivered, "delivered", "Order delivered to customer"},
	NotPicked:       {NotPicked, "not_picked", "Order was not picked up"},
	ReachedPickup:   {ReachedPickup, "reached_pickup", "Delivery staff arrived at store"},
	NoShow:          {NoShow, "no_show", "Customer did not show up"},
}

// Lookup resolves a backend status code to its registry entry.
func Lookup(code Code) (Info, error) {
	info, ok := registry[code]
	if !ok {
		return Info{}, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}
	return info, nil
}

// Known reports whether the code has a registry entry.
func Known(code Code) bool {
	_, ok := registry[code]
	return ok
}
