package services

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestNumberGeneratorFormat(t *testing.T) {
	g := NumberGenerator{
		Exists:  func(string) (bool, error) { return false, nil },
		Now:     fixedClock,
		Rand:    func(int) int { return 42 },
		Backoff: time.Nanosecond,
	}
	got := g.Next(BookingNumberPrefix)
	if got != "BKG-20250615-0042" {
		t.Fatalf("got %q, want BKG-20250615-0042", got)
	}
}

func TestNumberGeneratorRetriesOnCollision(t *testing.T) {
	calls := 0
	g := NumberGenerator{
		Exists: func(string) (bool, error) {
			calls++
			return calls <= 3, nil
		},
		Now:     fixedClock,
		Backoff: time.Nanosecond,
	}
	got := g.Next(PaymentNumberPrefix)
	if calls != 4 {
		t.Fatalf("existence checked %d times, want 4 (three collisions then success)", calls)
	}
	if !strings.HasPrefix(got, "PAY-20250615-") {
		t.Fatalf("got %q, want dated format after retries", got)
	}
}

func TestNumberGeneratorFallbackAfterBudget(t *testing.T) {
	calls := 0
	g := NumberGenerator{
		Exists: func(string) (bool, error) {
			calls++
			return true, nil
		},
		Now:     fixedClock,
		Backoff: time.Nanosecond,
	}
	got := g.Next(BookingNumberPrefix)

	if calls != defaultMaxRetries {
		t.Fatalf("existence checked %d times, want %d", calls, defaultMaxRetries)
	}
	fallback := regexp.MustCompile(`^BKG-\d{8}-\d{4}$`)
	if !fallback.MatchString(got) {
		t.Fatalf("fallback %q does not match PREFIX-<8 digits>-<4 digits>", got)
	}
	if strings.Contains(got, "20250615") {
		t.Fatalf("fallback %q should use the unix-derived part, not the date", got)
	}
}

func TestNumberGeneratorCheckErrorTreatedAsCollision(t *testing.T) {
	calls := 0
	g := NumberGenerator{
		Exists: func(string) (bool, error) {
			calls++
			if calls == 1 {
				return false, errors.New("connection reset")
			}
			return false, nil
		},
		Now:     fixedClock,
		Backoff: time.Nanosecond,
	}
	got := g.Next(BookingNumberPrefix)
	if calls != 2 {
		t.Fatalf("existence checked %d times, want 2 (error then success)", calls)
	}
	if got == "" {
		t.Fatal("generator must never return an empty number")
	}
}

func TestNumberGeneratorDistinctCandidates(t *testing.T) {
	seen := map[string]bool{}
	n := 0
	g := NumberGenerator{
		Exists: func(candidate string) (bool, error) {
			if seen[candidate] {
				t.Fatalf("candidate %q offered twice with a distinct rand sequence", candidate)
			}
			seen[candidate] = true
			return len(seen) < 5, nil
		},
		Now:     fixedClock,
		Rand:    func(int) int { n++; return n },
		Backoff: time.Nanosecond,
	}
	_ = g.Next(BookingNumberPrefix)
	if len(seen) != 5 {
		t.Fatalf("generated %d candidates, want 5", len(seen))
	}
}
