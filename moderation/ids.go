package moderation

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
)

// Infraction IDs are drawn from a 31-character alphabet (no 0/O/1/I/L) at a
// fixed length of 10, an ID space of roughly 8.2e14. Even at a million stored
// infractions the odds of generating a taken ID are about one in a billion
// per allocation, so the retry loop below is expected to run exactly once.
const (
	idAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	idLength   = 10
)

// GenerateInfractionID produces one candidate infraction ID.
func GenerateInfractionID() string {
	buf := make([]byte, idLength)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the OS entropy source is broken;
			// nothing sensible to do but abort.
			log.Fatalf("Failed to read random bytes for infraction ID: %v", err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf)
}

// AllocateInfractionID generates candidate IDs until one is not already
// taken according to exists. Collisions are logged and retried without bound;
// in practice a single retry has never been observed. The store's primary
// key constraint remains the authoritative guard, so a concurrent allocation
// of the same ID still cannot produce two records.
func AllocateInfractionID(exists func(id string) (bool, error)) (string, error) {
	for {
		id := GenerateInfractionID()
		taken, err := exists(id)
		if err != nil {
			return "", fmt.Errorf("failed to check infraction ID %s: %w", id, err)
		}
		if !taken {
			return id, nil
		}
		log.Printf("Infraction ID collision on %s, regenerating", id)
	}
}
