package monitor

import "bytes"

// LastTX records the most recent transmission for echo comparison.
// It is overwritten wholly on each send and read only by the echo
// filter.
type LastTX struct {
	// Bytes is the transmitted byte sequence.
	Bytes []byte
	// IsFrame marks whether Bytes has CI-V frame shape.
	IsFrame bool
	// Text is the original operator text for text sends.
	Text string
}

// stripEcho removes the last transmission's echo from the head of a
// freshly flushed buffer. It fires only when echo filtering and
// autodecode are enabled, the record has frame shape, and buf is a
// strict superset of the record; the remainder is genuine inbound
// data. A buffer exactly equal to the record is left alone: only a
// strict-superset match strips (preserved original behavior).
func (m *Monitor) stripEcho(buf []byte) (out []byte, trimmed int) {
	rec := m.lastTX
	if !m.Config.EchoFilter || !m.Config.AutoDecode || rec == nil || !rec.IsFrame {
		return buf, 0
	}
	if len(buf) > len(rec.Bytes) && bytes.HasPrefix(buf, rec.Bytes) {
		return buf[len(rec.Bytes):], len(rec.Bytes)
	}
	return buf, 0
}

// isEcho reports whether raw equals the last transmission
// byte-for-byte. Extracted frames are tagged with this independently
// of whether prefix stripping fired.
func (m *Monitor) isEcho(raw []byte) bool {
	return m.lastTX != nil && bytes.Equal(raw, m.lastTX.Bytes)
}
