package domain

import "testing"

func TestResolveTenant(t *testing.T) {
	cases := []struct {
		hostname string
		want     string
	}{
		{"boatepremium.nightflow.com", "boatepremium"},
		{"club.eu.nightflow.com", "club"},
		{"127.0.0.1", "127"}, // >2 labels always yield the first, even for IP literals
		{"nightflow.com", "admin"},
		{"localhost", "admin"},
		{"", "admin"},
	}

	for _, tc := range cases {
		if got := ResolveTenant(tc.hostname); got != tc.want {
			t.Errorf("ResolveTenant(%q) = %q, want %q", tc.hostname, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "staff", "promoter"} {
		role, ok := ParseRole(valid)
		if !ok || string(role) != valid {
			t.Errorf("ParseRole(%q) = (%q, %v), want valid", valid, role, ok)
		}
	}

	for _, invalid := range []string{"", "Admin", "root", "superuser"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted, want rejection", invalid)
		}
	}
}

func TestBecameCheckedIn(t *testing.T) {
	cases := []struct {
		old, new ReservationStatus
		want     bool
	}{
		{ReservationPending, ReservationCheckedIn, true},
		{ReservationPaid, ReservationCheckedIn, true},
		{ReservationCheckedIn, ReservationCheckedIn, false},
		{ReservationCheckedIn, ReservationPending, false},
		{ReservationPaid, ReservationPending, false},
	}

	for _, tc := range cases {
		if got := tc.new.BecameCheckedIn(tc.old); got != tc.want {
			t.Errorf("(%s -> %s).BecameCheckedIn = %v, want %v", tc.old, tc.new, got, tc.want)
		}
	}
}
