package postgres

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator issues ULIDs for users, accounts, transactions and rules. IDs
// from one generator sort in issue order even within a millisecond, which
// keeps "ORDER BY date, id" listings in creation order for same-day rows.
type IDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates an IDGenerator using the wall clock.
func NewIDGenerator() *IDGenerator {
	return newIDGeneratorWithClock(time.Now)
}

func newIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate returns the next ID.
func (g *IDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// the monotonic counter overflowed within one millisecond
		return ulid.Make().String()
	}
	return id.String()
}
