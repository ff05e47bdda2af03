package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// EntranceService backs the door screen: guest list, QR lookup, check-in.
// Confirming a check-in only writes the status change; the checkins counter
// moves when the update echoes back through the reservation feed.
type EntranceService struct {
	reservations ports.ReservationRepository
	notifier     ports.Notifier
	tenantID     string
	log          zerolog.Logger
}

func NewEntranceService(reservations ports.ReservationRepository, notifier ports.Notifier, tenantID string, log zerolog.Logger) *EntranceService {
	return &EntranceService{
		reservations: reservations,
		notifier:     notifier,
		tenantID:     tenantID,
		log:          log,
	}
}

// List returns the tenant's reservations, optionally filtered by a
// case-insensitive match on customer name or reservation id.
func (s *EntranceService) List(ctx context.Context, search string) ([]*domain.Reservation, error) {
	all, err := s.reservations.List(ctx, s.tenantID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if search == "" {
		return all, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]*domain.Reservation, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.CustomerName), needle) ||
			strings.Contains(strings.ToLower(r.ID), needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Lookup resolves a decoded QR string to a reservation. Scanning hardware is
// external; by the time the string reaches here it is plain text.
func (s *EntranceService) Lookup(ctx context.Context, decoded string) (*domain.Reservation, error) {
	res, err := s.reservations.FindByID(ctx, s.tenantID, decoded)
	if err != nil {
		s.notifier.Notify("QR code invalid or not found")
		return nil, err
	}
	return res, nil
}

// CheckIn marks a reservation CHECKED_IN. Write failures surface as a
// notification and are not retried; the operator re-triggers the action.
func (s *EntranceService) CheckIn(ctx context.Context, reservationID string) error {
	res, err := s.reservations.FindByID(ctx, s.tenantID, reservationID)
	if err != nil {
		return err
	}

	if err := s.reservations.UpdateStatus(ctx, res.ID, domain.ReservationCheckedIn); err != nil {
		s.notifier.Notify("Check-in failed: " + err.Error())
		return fmt.Errorf("check in %s: %w", reservationID, err)
	}

	s.log.Info().Str("reservation_id", res.ID).Str("customer", res.CustomerName).Msg("check-in confirmed")
	s.notifier.Notify("Entry cleared: " + res.CustomerName)
	return nil
}
