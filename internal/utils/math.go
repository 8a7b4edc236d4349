package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// float64Mantissa is the number of random bits that fit exactly in a float64 in [0, 1)
const float64Mantissa = 53

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // retry jitter only
}

// SecureRandomFloat returns a uniformly distributed float64 in [0.0, 1.0) read from crypto/rand.
// Prize draws use this so outcomes cannot be predicted from earlier rolls.
func SecureRandomFloat() (float64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read crypto random: %w", err)
	}
	bits := binary.BigEndian.Uint64(buf[:]) >> (64 - float64Mantissa)
	return float64(bits) / float64(uint64(1)<<float64Mantissa), nil
}
