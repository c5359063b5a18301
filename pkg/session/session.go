// Package session holds the monitor's session configuration: which
// protocol is being watched, how operator input is transmitted, and
// the knobs of the framing and echo logic.
package session

import (
	"fmt"
	"strings"
	"time"
)

// Protocol selects the wire protocol being monitored. The two are
// mutually exclusive: they need incompatible segmentation rules.
type Protocol int

const (
	// ProtocolCIV is the Icom CI-V binary protocol (sentinel-delimited
	// frames, reassembled by inter-byte gap).
	ProtocolCIV Protocol = iota
	// ProtocolCAT is the Kenwood-style ASCII protocol (semicolon
	// terminated messages).
	ProtocolCAT
)

// String implements fmt.Stringer.
func (p Protocol) String() string {
	switch p {
	case ProtocolCIV:
		return "civ"
	case ProtocolCAT:
		return "cat"
	}
	return fmt.Sprintf("protocol(%d)", int(p))
}

// ParseProtocol parses a protocol name.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "civ", "ci-v", "icom":
		return ProtocolCIV, nil
	case "cat", "kenwood", "ascii":
		return ProtocolCAT, nil
	}
	return 0, fmt.Errorf("unknown protocol %q", s)
}

// TXFormat selects how raw operator input is interpreted before
// transmission.
type TXFormat int

const (
	// TXHex treats input as hex digit pairs.
	TXHex TXFormat = iota
	// TXText transmits input text verbatim.
	TXText
)

// String implements fmt.Stringer.
func (f TXFormat) String() string {
	switch f {
	case TXHex:
		return "hex"
	case TXText:
		return "text"
	}
	return fmt.Sprintf("txformat(%d)", int(f))
}

// ParseTXFormat parses a TX format name.
func ParseTXFormat(s string) (TXFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex":
		return TXHex, nil
	case "text", "ascii":
		return TXText, nil
	}
	return 0, fmt.Errorf("unknown tx format %q", s)
}

// Config is the session configuration. It has a single owner (the
// monitor controller); everything else mutates it only through posted
// command messages, so a change is visible to the next ingest/decode
// cycle and never mid-cycle.
type Config struct {
	Protocol     Protocol
	TXFormat     TXFormat
	GapThreshold time.Duration
	EchoFilter   bool
	AutoDecode   bool
	ShowASCII    bool
}

// Defaults returns the startup configuration.
func Defaults() Config {
	return Config{
		Protocol:     ProtocolCIV,
		TXFormat:     TXHex,
		GapThreshold: 25 * time.Millisecond,
		EchoFilter:   true,
		AutoDecode:   true,
		ShowASCII:    true,
	}
}

// String renders the configuration for the operator.
func (c Config) String() string {
	return fmt.Sprintf("proto=%s txmode=%s gap=%dms echo=%s autodecode=%s ascii=%s",
		c.Protocol, c.TXFormat, c.GapThreshold.Milliseconds(),
		onOff(c.EchoFilter), onOff(c.AutoDecode), onOff(c.ShowASCII))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
