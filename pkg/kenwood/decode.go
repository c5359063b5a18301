// Package kenwood implements decoding for the Kenwood-style ASCII
// CAT protocol: semicolon-terminated messages with a two-character
// mnemonic and an optional numeric argument.
package kenwood

import (
	"fmt"
	"strconv"
	"strings"
)

// Terminator ends every CAT message. In the CAT protocol it is the
// only framing the wire provides.
const Terminator = ';'

// modeNames maps the numeric argument of the MD command.
var modeNames = map[int]string{
	1: "LSB",
	2: "USB",
	3: "CW",
	4: "FM",
	5: "AM",
	6: "FSK",
	7: "CW-R",
	9: "FSK-R",
}

// ModeName maps a CAT mode code to its name, UNKNOWN when unmapped.
func ModeName(code int) string {
	if name, ok := modeNames[code]; ok {
		return name
	}
	return "UNKNOWN"
}

// FormatFreq renders a hertz value as megahertz with six decimals.
func FormatFreq(hz uint64) string {
	return fmt.Sprintf("%.6f MHz", float64(hz)/1e6)
}

// Decode interprets one CAT message and returns a human-readable
// summary. Unrecognized mnemonics come back as the raw text itself,
// never as an error. A missing terminator is tolerated here (appended
// for rendering only); transmission never adds one.
func Decode(msg string) string {
	if !strings.HasSuffix(msg, string(Terminator)) {
		msg += string(Terminator)
	}
	if len(msg) < 3 {
		return msg
	}
	upper := strings.ToUpper(msg)
	switch upper {
	case "TX;":
		return "PTT ON"
	case "RX;":
		return "PTT OFF"
	}
	body := msg[2 : len(msg)-1]
	switch upper[:2] {
	case "FA":
		return vfoSummary("A", body)
	case "FB":
		return vfoSummary("B", body)
	case "MD":
		if code, err := strconv.Atoi(body); err == nil {
			return "MODE " + ModeName(code)
		}
		return "MODE (GET/SET)"
	}
	return msg
}

func vfoSummary(vfo, body string) string {
	// Frequency arguments are at least 5 digits; anything shorter or
	// non-numeric is the bare query/set form.
	if len(body) >= 5 && allDigits(body) {
		if hz, err := strconv.ParseUint(body, 10, 64); err == nil {
			return fmt.Sprintf("VFO %s FREQ: %s", vfo, FormatFreq(hz))
		}
	}
	return fmt.Sprintf("VFO %s FREQ (GET/SET)", vfo)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
