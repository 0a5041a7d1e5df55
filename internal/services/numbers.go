package services

import (
	"fmt"
	"math/rand"
	"time"

	"backend/internal/utils"
)

const (
	BookingNumberPrefix = "BKG"
	PaymentNumberPrefix = "PAY"

	defaultMaxRetries = 10
	defaultBackoff    = 10 * time.Millisecond
)

// NumberGenerator produces human-readable business identifiers of the form
// PREFIX-YYYYMMDD-NNNN, collision-checked against the store. After the retry
// budget is spent it degrades to an unchecked timestamp variant instead of
// failing the request; the UNIQUE index on the number column is the backstop.
type NumberGenerator struct {
	Exists     func(number string) (bool, error)
	MaxRetries int
	Backoff    time.Duration
	RequestID  string

	// Overridable for tests.
	Now  func() time.Time
	Rand func(n int) int
}

func (g NumberGenerator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g NumberGenerator) randInt(n int) int {
	if g.Rand != nil {
		return g.Rand(n)
	}
	return rand.Intn(n)
}

func (g NumberGenerator) maxRetries() int {
	if g.MaxRetries > 0 {
		return g.MaxRetries
	}
	return defaultMaxRetries
}

func (g NumberGenerator) backoff() time.Duration {
	if g.Backoff > 0 {
		return g.Backoff
	}
	return defaultBackoff
}

// Next returns a fresh identifier. It never returns an error: when every
// checked candidate collides (or the existence check itself keeps failing) it
// falls back to an unchecked timestamp-based number.
func (g NumberGenerator) Next(prefix string) string {
	datePart := g.now().Format("20060102")

	for attempt := 0; attempt < g.maxRetries(); attempt++ {
		candidate := fmt.Sprintf("%s-%s-%04d", prefix, datePart, g.randInt(10000))

		if g.Exists == nil {
			return candidate
		}
		exists, err := g.Exists(candidate)
		if err != nil {
			// Treat a failing check like a collision and keep trying.
			utils.LogEvent(g.RequestID, "numbers", "exists_check", "check failed: "+err.Error())
		} else if !exists {
			return candidate
		}
		time.Sleep(g.backoff())
	}

	fallback := fmt.Sprintf("%s-%08d-%04d", prefix, g.now().Unix()%100000000, g.randInt(10000))
	utils.LogEvent(g.RequestID, "numbers", "fallback", "retry budget spent, returning "+fallback)
	return fallback
}
