package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

func seededReservations() *stubReservationRepo {
	return &stubReservationRepo{list: []*domain.Reservation{
		{ID: "res-1", TenantID: "club_1", CustomerName: "Ana Lima", Type: "VIP Booth", PeopleCount: 4, Status: domain.ReservationPaid},
		{ID: "res-2", TenantID: "club_1", CustomerName: "Bruno Costa", Type: "Standard", PeopleCount: 1, Status: domain.ReservationPending},
	}}
}

func newEntrance(repo *stubReservationRepo, notifier *recordingNotifier) *EntranceService {
	return NewEntranceService(repo, notifier, "club_1", zerolog.Nop())
}

func TestEntrance_ListFiltersByNameOrID(t *testing.T) {
	svc := newEntrance(seededReservations(), &recordingNotifier{})

	all, err := svc.List(context.Background(), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("unfiltered list = %d, err %v", len(all), err)
	}

	byName, _ := svc.List(context.Background(), "ana")
	if len(byName) != 1 || byName[0].ID != "res-1" {
		t.Errorf("name search returned %v", byName)
	}

	byID, _ := svc.List(context.Background(), "RES-2")
	if len(byID) != 1 || byID[0].CustomerName != "Bruno Costa" {
		t.Errorf("id search returned %v", byID)
	}
}

func TestEntrance_LookupUnknownQRNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newEntrance(seededReservations(), notifier)

	if _, err := svc.Lookup(context.Background(), "deadbeef"); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Errorf("lookup = %v, want ErrReservationNotFound", err)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("expected an invalid-QR notification")
	}
}

func TestEntrance_CheckInUpdatesStatusAndNotifies(t *testing.T) {
	repo := seededReservations()
	notifier := &recordingNotifier{}
	svc := newEntrance(repo, notifier)

	if err := svc.CheckIn(context.Background(), "res-1"); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if len(repo.updated) != 1 || repo.updated[0] != "res-1" {
		t.Errorf("status not updated: %v", repo.updated)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("expected an entry-cleared notification")
	}
}

func TestEntrance_CheckInWriteFailureNotifies(t *testing.T) {
	repo := seededReservations()
	repo.updateErr = errors.New("write refused")
	notifier := &recordingNotifier{}
	svc := newEntrance(repo, notifier)

	if err := svc.CheckIn(context.Background(), "res-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(notifier.messages) != 1 {
		t.Errorf("write failure must surface as a notification")
	}
}
