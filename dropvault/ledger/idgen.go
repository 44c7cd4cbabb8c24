package ledger

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
)

// IDGenerator mints identifiers for item instances, trades and wagers.
// A monotonic sequence guarantees uniqueness within a process; the random
// base36 suffix keeps IDs unique across restarts without consulting storage.
type IDGenerator struct {
	mu  sync.Mutex
	seq uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand never fails on supported platforms; the sequence alone
		// still keeps IDs unique within the process.
		return fmt.Sprintf("%s-%d", prefix, seq)
	}

	suffix := base36encode(bytes)
	if len(suffix) < 4 {
		suffix = fmt.Sprintf("%04s", suffix)
	}
	return fmt.Sprintf("%s-%d%s", prefix, seq, suffix)
}

func base36encode(bytes []byte) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	number := uint64(binary.BigEndian.Uint32(bytes))
	for number > 0 {
		b.WriteByte(alphabet[number%36])
		number /= 36
	}
	return b.String()
}
