package calculation

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// seedFunc returns a fresh seed for runs that did not ask for one
// (override for deterministic tests).
var seedFunc = newSeed

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
