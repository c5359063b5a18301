package monitor

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang/glog"

	"github.com/jewelux/catmon.go/pkg/civ"
	"github.com/jewelux/catmon.go/pkg/session"
)

// TXBudget is the maximum byte count of one raw transmission.
const TXBudget = 64

// Raw-send validation errors. A rejection leaves configuration,
// transport state and the last-TX record untouched.
var (
	ErrEmptyInput   = errors.New("empty input")
	ErrBadHexChar   = errors.New("invalid character in hex input")
	ErrOddHexDigits = errors.New("odd hex digit count")
	ErrTXTooLong    = fmt.Errorf("too many bytes (max %d)", TXBudget)
)

// ParseHex converts operator hex input to bytes. Whitespace is
// ignored; any other non-hex character rejects the whole input.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyInput
	}
	var digits strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			digits.WriteRune(r)
		default:
			return nil, ErrBadHexChar
		}
	}
	if digits.Len()%2 != 0 {
		return nil, ErrOddHexDigits
	}
	if digits.Len()/2 > TXBudget {
		return nil, ErrTXTooLong
	}
	return hex.DecodeString(digits.String())
}

// Send transmits operator input per the session TX format (or as text
// when forceText is set), records the transmission for echo
// comparison, and reports it like a received flush.
func (m *Monitor) Send(input string, forceText bool, t time.Time) error {
	if forceText || m.Config.TXFormat == session.TXText {
		return m.sendText(input, t)
	}
	return m.sendHex(input, t)
}

func (m *Monitor) sendHex(input string, t time.Time) error {
	data, err := ParseHex(input)
	if err != nil {
		return err
	}
	return m.transmit(data, "", t)
}

// sendText transmits trimmed text verbatim. No terminator is appended
// here: raw operator lines go out exactly as typed, only comfort
// commands in the console build terminated messages.
func (m *Monitor) sendText(input string, t time.Time) error {
	s := strings.TrimSpace(input)
	if s == "" {
		return ErrEmptyInput
	}
	return m.transmit([]byte(s), s, t)
}

func (m *Monitor) transmit(data []byte, text string, t time.Time) error {
	if _, err := m.Transport.Write(data); err != nil {
		return fmt.Errorf("transmit: %w", err)
	}
	glog.V(2).Infof("sent %d bytes", len(data))
	m.lastTX = &LastTX{Bytes: data, IsFrame: civ.IsFrame(data), Text: text}
	m.report(t, dirTX, data, 0)
	return nil
}
