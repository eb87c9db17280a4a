// README: Forward progression table and transition rules for the delivery lifecycle.
package status

// progression represents the delivery flow (diagram) as code. Each claimed
// order advances through exactly one successor per stage; codes absent
// from the table are terminal for forward progression.
var progression = map[Code]Code{
	Assigned:        HeadingToPickup,
	HeadingToPickup: ReachedPickup,
	ReachedPickup:   PickedUp,
	PickedUp:        OutForDelivery,
	OutForDelivery:  Reached,
	Reached:         Delivered,
}

// NextStatus returns the common-case next status for the current code.
// At Reached the fork (Delivered vs NoShow) is intentionally collapsed to
// Delivered here; callers that must present both outcomes special-case
// Reached via ReachedSuccessors.
func NextStatus(current Code) (Code, bool) {
	next, ok := progression[current]
	return next, ok
}

// ReachedSuccessors lists both legal outcomes once the staff is at the
// customer's door.
func ReachedSuccessors() []Code {
	return []Code{Delivered, NoShow}
}

// CanTransition reports whether moving current→requested is a legal
// forward transition. Claiming an available order (Accepted→Assigned) is
// a distinct operation and is deliberately not part of this table.
func CanTransition(current, requested Code) bool {
	if current == Reached {
		return requested == Delivered || requested == NoShow
	}
	next, ok := progression[current]
	return ok && requested == next
}

// CanDisplayStatusControl reports whether status-update controls may be
// offered for the code. Below the claim threshold the order is not owned
// by this staff member yet.
func CanDisplayStatusControl(code Code) bool {
	return code >= Assigned
}

// InProgress reports whether the code denotes a claimed, not yet
// concluded delivery. Used to block going offline mid-delivery.
func InProgress(code Code) bool {
	_, ok := progression[code]
	return ok
}
