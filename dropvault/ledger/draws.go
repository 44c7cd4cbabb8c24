package ledger

import (
	"crypto/rand"
	"encoding/binary"
)

// DrawSource produces independent uniform draws in [0, 100). The roller and
// the wager engine take all randomness through this so tests can force
// outcomes.
type DrawSource func() float64

// CryptoDraws returns a DrawSource backed by crypto/rand.
func CryptoDraws() DrawSource {
	return func() float64 {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0
		}
		// 53 bits of entropy, same construction as math/rand.Float64.
		return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53) * 100
	}
}

// FixedDraws returns a DrawSource that replays the given values in order and
// repeats the last one when exhausted. Test helper.
func FixedDraws(values ...float64) DrawSource {
	i := 0
	return func() float64 {
		v := values[len(values)-1]
		if i < len(values) {
			v = values[i]
			i++
		}
		return v
	}
}
