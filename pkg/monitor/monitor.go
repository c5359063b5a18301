// Package monitor is the framing-and-decode engine: byte ingestion
// with gap-based reassembly, frame extraction, echo suppression and
// semantic decoding, producing line-oriented reports.
package monitor

import (
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/jewelux/catmon.go/pkg/framework"
	"github.com/jewelux/catmon.go/pkg/kenwood"
	"github.com/jewelux/catmon.go/pkg/session"
	"github.com/jewelux/catmon.go/pkg/transport"
)

// Monitor owns all mutable session state: the configuration, the RX
// accumulation buffer and the last-TX record. It runs as a single loop
// controller, so everything here is touched by exactly one logical
// thread; producers interact through posted messages only.
type Monitor struct {
	Config    session.Config
	Transport transport.Transport
	// Output receives operator-facing report lines (not diagnostics).
	Output io.Writer
	// Tee optionally fans report lines out to exporters.
	Tee *Tee

	ingest *Ingest
	lastTX *LastTX
}

// New creates a Monitor writing reports to stdout.
func New(conf session.Config, tr transport.Transport) *Monitor {
	return &Monitor{
		Config:    conf,
		Transport: tr,
		Output:    os.Stdout,
		ingest:    NewIngest(BufferCap),
	}
}

// Messages consumed by the Monitor controller. Anything that mutates
// configuration or transmits goes through these to preserve the
// single-writer invariant.

// RxChunk carries received bytes with their arrival time.
type RxChunk struct {
	Data []byte
	At   time.Time
}

// SetProtocol selects the monitored protocol.
type SetProtocol struct{ Protocol session.Protocol }

// SetTXFormat selects the raw-send input format.
type SetTXFormat struct{ Format session.TXFormat }

// SetGap updates the gap-flush threshold.
type SetGap struct{ Threshold time.Duration }

// SetEchoFilter toggles echo suppression.
type SetEchoFilter struct{ On bool }

// SetAutoDecode toggles semantic decoding.
type SetAutoDecode struct{ On bool }

// SetShowASCII toggles the ASCII gutter in dumps.
type SetShowASCII struct{ On bool }

// SendRaw transmits operator input, interpreted per the session TX
// format unless ForceText is set. Reply, if non-nil, receives the
// validation/transmit outcome.
type SendRaw struct {
	Input     string
	ForceText bool
	Reply     chan error
}

// ShowConfig requests a copy of the current configuration.
type ShowConfig struct{ Reply chan session.Config }

// AddToLoop implements framework.LoopAdder.
func (m *Monitor) AddToLoop(loop *fx.Loop) {
	loop.AddController(m)
}

// Control implements framework.Controller. Each iteration first drains
// posted messages in arrival order (inbound bytes and operator input),
// then checks the gap timer once more, so flush completion latency is
// bounded by loop period plus threshold even with no further input.
// All flush, extraction, filtering and decoding work completes within
// the same pass.
func (m *Monitor) Control(ctx fx.ControlContext) error {
	for _, msg := range ctx.Messages() {
		switch v := msg.(type) {
		case RxChunk:
			m.Feed(v.Data, v.At)
		case SetProtocol:
			m.Config.Protocol = v.Protocol
		case SetTXFormat:
			m.Config.TXFormat = v.Format
		case SetGap:
			if v.Threshold > 0 {
				m.Config.GapThreshold = v.Threshold
			}
		case SetEchoFilter:
			m.Config.EchoFilter = v.On
		case SetAutoDecode:
			m.Config.AutoDecode = v.On
		case SetShowASCII:
			m.Config.ShowASCII = v.On
		case SendRaw:
			err := m.Send(v.Input, v.ForceText, ctx.Time())
			if v.Reply != nil {
				v.Reply <- err
			}
		case ShowConfig:
			if v.Reply != nil {
				v.Reply <- m.Config
			}
		}
	}
	m.Poll(ctx.Time())
	return nil
}

// Feed runs the ingest state machine over received bytes stamped with
// a common arrival time.
func (m *Monitor) Feed(data []byte, at time.Time) {
	for _, b := range data {
		m.ingestByte(b, at)
	}
}

// ingestByte is the per-byte ingest operation. The gap check precedes
// the append; a full buffer flushes before the insert; in the CAT
// protocol the terminator flushes immediately since ASCII messages are
// self-delimiting.
func (m *Monitor) ingestByte(b byte, t time.Time) {
	if m.ingest.GapExpired(t, m.Config.GapThreshold) {
		m.flush(m.ingest.Take(), t)
	}
	if flushed := m.ingest.Append(b, t); flushed != nil {
		glog.V(2).Info("buffer full, forced flush")
		m.flush(flushed, t)
	}
	if m.Config.Protocol == session.ProtocolCAT && b == kenwood.Terminator {
		m.flush(m.ingest.Take(), t)
	}
}

// Poll applies the gap timer when arrivals have stopped.
func (m *Monitor) Poll(t time.Time) {
	if m.ingest.GapExpired(t, m.Config.GapThreshold) {
		m.flush(m.ingest.Take(), t)
	}
}

// Pending returns the number of bytes accumulated but not yet flushed.
func (m *Monitor) Pending() int { return m.ingest.Len() }

func (m *Monitor) flush(buf []byte, t time.Time) {
	if len(buf) == 0 {
		return
	}
	glog.V(2).Infof("flush %d bytes", len(buf))
	out, trimmed := m.stripEcho(buf)
	m.report(t, dirRX, out, trimmed)
}
