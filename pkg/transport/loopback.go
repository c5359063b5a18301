package transport

import (
	"errors"
	"sync"
)

// ErrClosed is returned for operations on a closed transport.
var ErrClosed = errors.New("transport closed")

// Loopback is an in-memory Transport endpoint. Writes to one endpoint
// become readable on its peer. Read never blocks: with no data it
// returns (0, nil), matching the poll semantics of a serial port with
// a read timeout.
type Loopback struct {
	peer *Loopback

	lock   sync.Mutex
	buf    []byte
	closed bool
}

// NewLoopback creates a connected pair of endpoints.
func NewLoopback() (a, b *Loopback) {
	a, b = &Loopback{}, &Loopback{}
	a.peer, b.peer = b, a
	return
}

// Read implements io.Reader.
func (l *Loopback) Read(b []byte) (int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.buf) == 0 {
		if l.closed {
			return 0, ErrClosed
		}
		return 0, nil
	}
	n := copy(b, l.buf)
	l.buf = l.buf[n:]
	return n, nil
}

// Write implements io.Writer, delivering to the peer endpoint.
func (l *Loopback) Write(b []byte) (int, error) {
	p := l.peer
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	p.buf = append(p.buf, b...)
	return len(b), nil
}

// Inject queues bytes for reading on this endpoint directly, as if the
// remote side had transmitted them.
func (l *Loopback) Inject(b []byte) {
	l.lock.Lock()
	l.buf = append(l.buf, b...)
	l.lock.Unlock()
}

// Reconfigure implements Transport; line parameters are meaningless
// for an in-memory link.
func (l *Loopback) Reconfigure(Params) error { return nil }

// Close implements io.Closer.
func (l *Loopback) Close() error {
	l.lock.Lock()
	l.closed = true
	l.lock.Unlock()
	return nil
}
