// Package id provides unique identifier generation for harvest jobs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Prefix starts every generated ID.
const Prefix = "harvest"

// Generate creates a new unique job ID.
// Format: harvest-<unix seconds>-<12 hex chars>
// Example: harvest-1701432000-a1b2c3d4e5f6
func Generate() string {
	random := make([]byte, 6)
	if _, err := rand.Read(random); err != nil {
		// crypto/rand failing is not recoverable in a meaningful way;
		// nanoseconds keep IDs distinct within this process.
		return fmt.Sprintf("%s-%d", Prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", Prefix, time.Now().Unix(), hex.EncodeToString(random))
}
