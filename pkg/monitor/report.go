package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/jewelux/catmon.go/pkg/civ"
	"github.com/jewelux/catmon.go/pkg/kenwood"
	"github.com/jewelux/catmon.go/pkg/session"
)

// Direction tags on report lines.
const (
	dirRX = "RX"
	dirTX = "TX"
)

// report emits one flush (or transmission) as a line-oriented block:
// a timestamped hex dump with optional ASCII gutter, an echo notice
// when stripping fired, then decode summaries per the active protocol.
// This textual format is the compatibility surface other tooling
// scrapes; tests pin it exactly.
func (m *Monitor) report(t time.Time, dir string, data []byte, echoTrimmed int) {
	head := fmt.Sprintf("%s %s  %s", timestamp(t), dir, hexDump(data))
	if m.Config.ShowASCII {
		head += " " + asciiGutter(data)
	}
	lines := []string{head}
	if echoTrimmed > 0 {
		lines = append(lines, fmt.Sprintf("  (echo suppressed: %d bytes)", echoTrimmed))
	}
	if m.Config.AutoDecode {
		lines = append(lines, m.decodeLines(dir, data)...)
	}
	m.emit(lines)
}

func (m *Monitor) decodeLines(dir string, data []byte) []string {
	var lines []string
	switch m.Config.Protocol {
	case session.ProtocolCIV:
		for _, f := range civ.Extract(data) {
			line := fmt.Sprintf("  %s CI-V %s", dir, f.Header())
			if s := f.Summary(); s != "" {
				line += ": " + s
			}
			if dir == dirRX && m.isEcho(f.Raw) {
				line += " (ECHO)"
			}
			lines = append(lines, line)
		}
	case session.ProtocolCAT:
		lines = append(lines, fmt.Sprintf("  %s CAT: %s", dir, kenwood.Decode(string(data))))
	}
	return lines
}

func (m *Monitor) emit(lines []string) {
	for _, line := range lines {
		if m.Output != nil {
			if _, err := fmt.Fprintln(m.Output, line); err != nil {
				glog.Warningf("report output: %v", err)
			}
		}
		if m.Tee != nil {
			m.Tee.Publish(line)
		}
	}
}

func timestamp(t time.Time) string {
	return t.Format("[15:04:05.000]")
}

// hexDump renders bytes as space-separated two-digit uppercase hex.
func hexDump(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// asciiGutter renders bytes as |...| with printable characters
// (32..126) as themselves and everything else as '.'.
func asciiGutter(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('|')
	for _, v := range b {
		if v >= 32 && v <= 126 {
			sb.WriteByte(v)
		} else {
			sb.WriteByte('.')
		}
	}
	sb.WriteByte('|')
	return sb.String()
}
