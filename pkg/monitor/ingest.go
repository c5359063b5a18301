package monitor

import "time"

// BufferCap is the RX accumulation buffer capacity.
const BufferCap = 256

// Ingest is the bounded RX accumulation buffer with the shared
// last-arrival timestamp the gap timer compares against.
type Ingest struct {
	buf      []byte
	last     time.Time
	capacity int
}

// NewIngest creates an Ingest with the given capacity (BufferCap when
// zero).
func NewIngest(capacity int) *Ingest {
	if capacity <= 0 {
		capacity = BufferCap
	}
	return &Ingest{buf: make([]byte, 0, capacity), capacity: capacity}
}

// Len returns the number of accumulated bytes.
func (in *Ingest) Len() int { return len(in.buf) }

// Empty reports whether nothing is accumulated.
func (in *Ingest) Empty() bool { return len(in.buf) == 0 }

// LastArrival returns the arrival time of the most recent byte.
func (in *Ingest) LastArrival() time.Time { return in.last }

// GapExpired reports whether accumulated bytes have been sitting for
// at least threshold since the last arrival. An empty buffer never
// expires.
func (in *Ingest) GapExpired(t time.Time, threshold time.Duration) bool {
	return len(in.buf) > 0 && t.Sub(in.last) >= threshold
}

// Append adds one byte, stamping its arrival time. If the buffer is
// full, it is taken and returned first so no byte is ever dropped; the
// forced flush may split one logical frame across two buffers, which
// is accepted boundary behavior.
func (in *Ingest) Append(b byte, t time.Time) (flushed []byte) {
	if len(in.buf) >= in.capacity {
		flushed = in.Take()
	}
	in.buf = append(in.buf, b)
	in.last = t
	return
}

// Take removes and returns the accumulated bytes, leaving the buffer
// empty.
func (in *Ingest) Take() []byte {
	if len(in.buf) == 0 {
		return nil
	}
	out := in.buf
	in.buf = make([]byte, 0, in.capacity)
	return out
}
