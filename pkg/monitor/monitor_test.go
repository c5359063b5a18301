package monitor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/jewelux/catmon.go/pkg/framework"
	"github.com/jewelux/catmon.go/pkg/session"
	"github.com/jewelux/catmon.go/pkg/transport"
)

var baseTime = time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)

type testRig struct {
	mon  *Monitor
	out  *bytes.Buffer
	peer *transport.Loopback
}

func newTestRig(conf session.Config) *testRig {
	end, peer := transport.NewLoopback()
	mon := New(conf, end)
	out := &bytes.Buffer{}
	mon.Output = out
	return &testRig{mon: mon, out: out, peer: peer}
}

func (r *testRig) lines() []string {
	s := strings.TrimRight(r.out.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestGapFlushTiming(t *testing.T) {
	// Arrivals at 0, 5, 10ms with a 25ms threshold flush at exactly
	// 35ms and not earlier.
	rig := newTestRig(session.Defaults())
	rig.mon.Feed([]byte{0x01}, baseTime)
	rig.mon.Feed([]byte{0x02}, baseTime.Add(5*time.Millisecond))
	rig.mon.Feed([]byte{0x03}, baseTime.Add(10*time.Millisecond))

	rig.mon.Poll(baseTime.Add(34 * time.Millisecond))
	require.Empty(t, rig.lines(), "flush fired before the threshold elapsed")
	require.Equal(t, 3, rig.mon.Pending())

	rig.mon.Poll(baseTime.Add(35 * time.Millisecond))
	require.NotEmpty(t, rig.lines())
	require.Equal(t, 0, rig.mon.Pending())
}

func TestGapSplitsSeparateFlushes(t *testing.T) {
	rig := newTestRig(session.Defaults())
	rig.mon.Feed([]byte{0x01}, baseTime)
	// The next byte arrives after the gap: the first buffer flushes
	// before it is appended.
	rig.mon.Feed([]byte{0x02}, baseTime.Add(30*time.Millisecond))
	require.Equal(t, 1, rig.mon.Pending())
	require.Len(t, rig.lines(), 1)
	require.Contains(t, rig.lines()[0], "01")
}

func TestReportFormatCIV(t *testing.T) {
	rig := newTestRig(session.Defaults())
	frame := []byte{0xFE, 0xFE, 0xE0, 0x94, 0x03, 0x00, 0x40, 0x07, 0x14, 0x00, 0xFD}
	rig.mon.Feed(frame, baseTime)
	rig.mon.Poll(baseTime.Add(25 * time.Millisecond))

	require.Equal(t, []string{
		"[15:04:05.025] RX  FE FE E0 94 03 00 40 07 14 00 FD |......@....|",
		"  RX CI-V 94>E0 cmd=03: FREQ 14.074.000 MHz",
	}, rig.lines())
}

func TestReportWithoutASCIIGutter(t *testing.T) {
	conf := session.Defaults()
	conf.ShowASCII = false
	rig := newTestRig(conf)
	rig.mon.Feed([]byte{0xFE, 0xFE, 0xE0, 0x94, 0xFB, 0xFD}, baseTime)
	rig.mon.Poll(baseTime.Add(25 * time.Millisecond))

	require.Equal(t, []string{
		"[15:04:05.025] RX  FE FE E0 94 FB FD",
		"  RX CI-V 94>E0 cmd=FB: ACK",
	}, rig.lines())
}

func TestCATTerminatorFlushesImmediately(t *testing.T) {
	conf := session.Defaults()
	conf.Protocol = session.ProtocolCAT
	rig := newTestRig(conf)
	// No Poll: the terminator byte alone must flush, synchronously.
	rig.mon.Feed([]byte("FA00014074000;"), baseTime)

	require.Equal(t, []string{
		"[15:04:05.000] RX  46 41 30 30 30 31 34 30 37 34 30 30 30 3B |FA00014074000;|",
		"  RX CAT: VFO A FREQ: 14.074000 MHz",
	}, rig.lines())
	require.Equal(t, 0, rig.mon.Pending())
}

func TestCATPTTSequence(t *testing.T) {
	conf := session.Defaults()
	conf.Protocol = session.ProtocolCAT
	rig := newTestRig(conf)
	rig.mon.Feed([]byte("TX;"), baseTime)
	rig.mon.Feed([]byte("RX;"), baseTime.Add(time.Millisecond))

	lines := rig.lines()
	require.Len(t, lines, 4)
	require.Equal(t, "  RX CAT: PTT ON", lines[1])
	require.Equal(t, "  RX CAT: PTT OFF", lines[3])
}

func TestSemicolonIsDataInCIV(t *testing.T) {
	rig := newTestRig(session.Defaults())
	rig.mon.Feed([]byte("TX;"), baseTime)
	require.Empty(t, rig.lines())
	require.Equal(t, 3, rig.mon.Pending())
}

func TestEchoPrefixStripped(t *testing.T) {
	rig := newTestRig(session.Defaults())
	require.NoError(t, rig.mon.Send("FE FE 94 E0 03 FD", false, baseTime))
	rig.out.Reset()

	// The echo comes back with a genuine reply appended.
	echoed := []byte{0xFE, 0xFE, 0x94, 0xE0, 0x03, 0xFD}
	reply := []byte{0xFE, 0xFE, 0xE0, 0x94, 0xFB, 0xFD}
	rig.mon.Feed(append(append([]byte{}, echoed...), reply...), baseTime.Add(time.Millisecond))
	rig.mon.Poll(baseTime.Add(time.Hour))

	require.Equal(t, []string{
		"[16:04:05.000] RX  FE FE E0 94 FB FD |......|",
		"  (echo suppressed: 6 bytes)",
		"  RX CI-V 94>E0 cmd=FB: ACK",
	}, rig.lines())
}

func TestEchoExactMatchNotStripped(t *testing.T) {
	// An exact-length match is never stripped, only a strict-superset
	// match; the frame is still tagged as an echo.
	rig := newTestRig(session.Defaults())
	require.NoError(t, rig.mon.Send("FE FE 94 E0 03 FD", false, baseTime))
	rig.out.Reset()

	rig.mon.Feed([]byte{0xFE, 0xFE, 0x94, 0xE0, 0x03, 0xFD}, baseTime.Add(time.Millisecond))
	rig.mon.Poll(baseTime.Add(time.Hour))

	require.Equal(t, []string{
		"[16:04:05.000] RX  FE FE 94 E0 03 FD |......|",
		"  RX CI-V E0>94 cmd=03 (ECHO)",
	}, rig.lines())
}

func TestEchoFilterDisabled(t *testing.T) {
	conf := session.Defaults()
	conf.EchoFilter = false
	rig := newTestRig(conf)
	require.NoError(t, rig.mon.Send("FE FE 94 E0 03 FD", false, baseTime))
	rig.out.Reset()

	echoed := []byte{0xFE, 0xFE, 0x94, 0xE0, 0x03, 0xFD, 0xFE, 0xFE, 0xE0, 0x94, 0xFB, 0xFD}
	rig.mon.Feed(echoed, baseTime.Add(time.Millisecond))
	rig.mon.Poll(baseTime.Add(time.Hour))

	lines := rig.lines()
	require.Len(t, lines, 3)
	require.NotContains(t, lines[1], "echo suppressed")
	// Both frames decode; the echoed one is still tagged.
	require.Equal(t, "  RX CI-V E0>94 cmd=03 (ECHO)", lines[1])
	require.Equal(t, "  RX CI-V 94>E0 cmd=FB: ACK", lines[2])
}

func TestEchoNotStrippedForTextRecord(t *testing.T) {
	// Prefix stripping requires the record to have frame shape.
	conf := session.Defaults()
	conf.Protocol = session.ProtocolCAT
	conf.TXFormat = session.TXText
	rig := newTestRig(conf)
	require.NoError(t, rig.mon.Send("FA;", false, baseTime))
	rig.out.Reset()

	rig.mon.Feed([]byte("FA;FB;"), baseTime.Add(time.Millisecond))
	require.NotContains(t, rig.out.String(), "echo suppressed")
}

func TestCapacityForcedFlush(t *testing.T) {
	rig := newTestRig(session.Defaults())
	data := make([]byte, BufferCap+10)
	rig.mon.Feed(data, baseTime)

	// The overflowing append forces one full-buffer flush; the
	// remainder stays pending. No byte is dropped.
	require.Equal(t, 10, rig.mon.Pending())
	lines := rig.lines()
	require.NotEmpty(t, lines)
	require.Len(t, strings.Fields(strings.TrimPrefix(lines[0], "[15:04:05.000] RX  ")), BufferCap+1)
}

func TestAutoDecodeOffKeepsDump(t *testing.T) {
	conf := session.Defaults()
	conf.AutoDecode = false
	rig := newTestRig(conf)
	rig.mon.Feed([]byte{0xFE, 0xFE, 0xE0, 0x94, 0xFB, 0xFD}, baseTime)
	rig.mon.Poll(baseTime.Add(time.Hour))

	lines := rig.lines()
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "[15:04:05.000] RX  FE FE"))
}

type testCtl struct {
	ctx  context.Context
	time time.Time
	msgs []fx.Message
}

func (c *testCtl) Context() context.Context  { return c.ctx }
func (c *testCtl) Time() time.Time           { return c.time }
func (c *testCtl) Messages() []fx.Message    { return c.msgs }
func (c *testCtl) PostMessage(m fx.Message)  { c.msgs = append(c.msgs, m) }
func (c *testCtl) TriggerNext()              {}

func TestControlAppliesMessages(t *testing.T) {
	rig := newTestRig(session.Defaults())
	reply := make(chan session.Config, 1)
	ctl := &testCtl{
		ctx:  context.Background(),
		time: baseTime,
		msgs: []fx.Message{
			SetProtocol{Protocol: session.ProtocolCAT},
			SetTXFormat{Format: session.TXText},
			SetGap{Threshold: 40 * time.Millisecond},
			SetEchoFilter{On: false},
			SetAutoDecode{On: false},
			SetShowASCII{On: false},
			ShowConfig{Reply: reply},
		},
	}
	require.NoError(t, rig.mon.Control(ctl))

	conf := <-reply
	require.Equal(t, session.ProtocolCAT, conf.Protocol)
	require.Equal(t, session.TXText, conf.TXFormat)
	require.Equal(t, 40*time.Millisecond, conf.GapThreshold)
	require.False(t, conf.EchoFilter)
	require.False(t, conf.AutoDecode)
	require.False(t, conf.ShowASCII)
}

func TestControlDrainsBytesThenPollsGap(t *testing.T) {
	rig := newTestRig(session.Defaults())
	ctl := &testCtl{
		ctx:  context.Background(),
		time: baseTime.Add(100 * time.Millisecond),
		msgs: []fx.Message{RxChunk{Data: []byte{0xFE, 0xFE, 0xE0, 0x94, 0xFB, 0xFD}, At: baseTime}},
	}
	// The chunk arrived long before this iteration: the same pass
	// ingests it and the trailing gap check flushes it.
	require.NoError(t, rig.mon.Control(ctl))
	require.Equal(t, 0, rig.mon.Pending())
	require.Contains(t, rig.out.String(), "ACK")
}

func TestControlSendRawReply(t *testing.T) {
	rig := newTestRig(session.Defaults())
	reply := make(chan error, 1)
	ctl := &testCtl{
		ctx:  context.Background(),
		time: baseTime,
		msgs: []fx.Message{SendRaw{Input: "ABC", Reply: reply}},
	}
	require.NoError(t, rig.mon.Control(ctl))
	require.ErrorIs(t, <-reply, ErrOddHexDigits)
}
