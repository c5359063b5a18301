// Package transport provides the byte-level link to the radio.
package transport

import (
	"io"
	"time"
)

// Params describes serial line parameters.
type Params struct {
	Device string
	Baud   int
	// ReadTimeout bounds a single Read so the reader can poll.
	// Zero means the implementation default.
	ReadTimeout time.Duration
}

// Transport is an ordered byte stream with no framing and no timing
// guarantees. Read returns whatever is currently available; a timeout
// or (0, nil) result means no data yet, not end of stream.
type Transport interface {
	io.ReadWriteCloser

	// Reconfigure applies new line parameters. Implementations may
	// reopen the underlying device.
	Reconfigure(Params) error
}
