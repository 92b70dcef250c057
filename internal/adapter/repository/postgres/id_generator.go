package postgres

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator hands out ULIDs that sort in generation order, even for ids
// minted in the same millisecond (a settlement writes several outbox rows at
// once). Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate returns the next id.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
