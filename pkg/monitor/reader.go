package monitor

import (
	"context"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/jewelux/catmon.go/pkg/framework"
	"github.com/jewelux/catmon.go/pkg/transport"
)

// Reader drains the transport and posts timestamped byte chunks to
// the loop. It owns no session state: decoding stays on the loop's
// single logical thread.
type Reader struct {
	Transport transport.Transport
	Loop      fx.LoopControl
	// IdleSleep bounds busy polling when a read returns immediately
	// with no data (in-memory transports).
	IdleSleep time.Duration
}

// Name implements framework.Named.
func (r *Reader) Name() string { return "rx-reader" }

// Run implements framework.Runnable.
func (r *Reader) Run(ctx context.Context) error {
	idle := r.IdleSleep
	if idle == 0 {
		idle = time.Millisecond
	}
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := r.Transport.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			r.Loop.PostMessage(RxChunk{Data: data, At: time.Now()})
			r.Loop.TriggerNext()
			continue
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			glog.Errorf("transport read: %v", err)
			return err
		}
		// No data and no error: transport polled empty.
		time.Sleep(idle)
	}
}
