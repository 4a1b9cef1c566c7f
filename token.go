package vette

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid"
)

// NewToken returns a fresh opaque token for pending records and held
// message identifiers.
func NewToken() ulid.ULID {
	seed := time.Now().UnixNano()
	entropy := rand.New(rand.NewSource(seed))
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}
