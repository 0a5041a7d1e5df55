package domain

import "testing"

func TestBookingTransitions(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending:    {BookingConfirmed: true, BookingCancelled: true},
		BookingConfirmed:  {BookingInProgress: true, BookingCancelled: true},
		BookingInProgress: {BookingCompleted: true, BookingCancelled: true},
		BookingCompleted:  {},
		BookingCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !BookingCompleted.Terminal() || !BookingCancelled.Terminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	if _, err := ParseBookingStatus("confirmed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseBookingStatus("shipped"); err == nil {
		t.Fatal("expected validation error for unknown status")
	} else if !IsValidation(err) {
		t.Fatalf("expected validation error kind, got %v", err)
	}
}
