package domain

import "errors"

// ReservationStatus represents the lifecycle state of a door reservation.
type ReservationStatus string

const (
	ReservationPaid      ReservationStatus = "PAID"
	ReservationPending   ReservationStatus = "PENDING"
	ReservationCheckedIn ReservationStatus = "CHECKED_IN"
)

var ErrReservationNotFound = errors.New("reservation not found")

// BecameCheckedIn reports whether the transition from old to s is a fresh
// check-in. Edge-triggered on purpose: a record updated for unrelated reasons
// while already checked in must not count again.
func (s ReservationStatus) BecameCheckedIn(old ReservationStatus) bool {
	return s == ReservationCheckedIn && old != ReservationCheckedIn
}

// Reservation is a guest-list entry at the entrance.
type Reservation struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	TenantID     string            `json:"tenant_id" bson:"tenant_id"`
	CustomerName string            `json:"customer_name" bson:"customer_name"`
	Type         string            `json:"type" bson:"type"`
	PeopleCount  int               `json:"people_count" bson:"people_count"`
	Status       ReservationStatus `json:"status" bson:"status"`
}
