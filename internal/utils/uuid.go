package utils

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// TempIDPrefix marks identifiers minted locally for entities the remote
// store has not acknowledged yet.
const TempIDPrefix = "tmp-"

// UUIDGenerator mints remote-store entity identifiers (UUIDv7).
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// TempIDGenerator mints temporary local markers. Markers are ULIDs, so they
// sort by creation time within one process.
type TempIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewTempIDGenerator() *TempIDGenerator {
	return &TempIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *TempIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return TempIDPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// IsTempID reports whether id is a temporary local marker.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
