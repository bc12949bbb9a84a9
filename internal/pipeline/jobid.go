package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: a 48-bit millisecond timestamp followed by 80 bits of
// randomness, written as 26 Crockford base32 characters. IDs issued within
// the same millisecond carry an increasing sequence so they sort in
// submission order.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu     sync.Mutex
	idLastMs uint64
	idSeq    uint16
)

// NewJobID returns a new lexically sortable job identifier.
func NewJobID() string {
	return jobIDAt(time.Now())
}

func jobIDAt(t time.Time) string {
	idMu.Lock()
	ms := uint64(t.UnixMilli())
	if ms == idLastMs {
		idSeq++
	} else {
		idLastMs = ms
		idSeq = 0
	}
	seq := idSeq
	idMu.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], ms<<16)
	_, _ = rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], seq)
	return encodeCrockford(b)
}

// encodeCrockford writes 128 bits as 26 base32 digits, most significant
// first. The leading digit holds the top 3 bits.
func encodeCrockford(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
