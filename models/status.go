package models

import "fmt"

// Status is an order's position in the laundry workflow.
// Orders only move forward:
//
//	pending -> pickup -> washing -> delivery -> completed
//	                             \-> completed
//
// "cancelled" is a recognised terminal value kept for history filtering,
// but no API operation currently produces it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPickup    Status = "pickup"
	StatusWashing   Status = "washing"
	StatusDelivery  Status = "delivery"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// forwardTransitions maps each status to the set of statuses an operator
// may advance it to. Terminal statuses have no entries.
var forwardTransitions = map[Status][]Status{
	StatusPending:  {StatusPickup},
	StatusPickup:   {StatusWashing},
	StatusWashing:  {StatusDelivery, StatusCompleted},
	StatusDelivery: {StatusCompleted},
}

// IsValid reports whether s is one of the recognised status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPickup, StatusWashing, StatusDelivery, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanAdvanceTo reports whether target is a legal forward transition from s.
func (s Status) CanAdvanceTo(target Status) bool {
	for _, next := range forwardTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Advance validates and performs a forward transition, returning the new
// status or a *TransitionError if the move is not in the forward table.
func (s Status) Advance(target Status) (Status, error) {
	if !target.IsValid() {
		return "", &TransitionError{From: s, To: target, Reason: "unknown status"}
	}
	if !s.CanAdvanceTo(target) {
		reason := "not a forward transition"
		if s.IsTerminal() {
			reason = "order is already " + string(s)
		}
		return "", &TransitionError{From: s, To: target, Reason: reason}
	}
	return target, nil
}

// TransitionError is returned when a status change is rejected.
type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %q to %q: %s", e.From, e.To, e.Reason)
}

// PaymentStatus is the bill state of an order. It is orthogonal to Status
// and may be toggled at any point in the lifecycle.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)
