package civ

import "fmt"

// CI-V command codes understood by the decoder. Anything else is
// reported header-only.
const (
	// CmdXfrFreq is the unsolicited frequency transceive broadcast.
	CmdXfrFreq byte = 0x00
	// CmdXfrMode is the unsolicited mode transceive broadcast.
	CmdXfrMode byte = 0x01
	// CmdReadFreq reads the operating frequency; the reply carries a
	// BCD frequency payload under the same command code.
	CmdReadFreq byte = 0x03
	// CmdReadMode reads the operating mode; the reply carries the
	// mode and filter codes.
	CmdReadMode byte = 0x04
	// CmdSetFreq sets the operating frequency.
	CmdSetFreq byte = 0x05
	// CmdSetMode sets the operating mode.
	CmdSetMode byte = 0x06
	// CmdOK is the positive acknowledge.
	CmdOK byte = 0xFB
	// CmdNG is the negative acknowledge.
	CmdNG byte = 0xFA
)

// modeNames maps CI-V mode codes.
var modeNames = map[byte]string{
	0x00: "LSB",
	0x01: "USB",
	0x02: "AM",
	0x03: "CW",
	0x04: "RTTY",
	0x05: "FM",
	0x06: "WFM",
	0x07: "CW-R",
	0x08: "RTTY-R",
}

// ModeName maps a CI-V mode code to its name. Unmapped codes render
// as UNKNOWN; an unknown mode is not a decode failure.
func ModeName(code byte) string {
	if name, ok := modeNames[code]; ok {
		return name
	}
	return "UNKNOWN"
}

// FormatFreq renders a hertz value in the dotted megahertz form used
// on CI-V displays: 14074000 becomes "14.074.000 MHz".
func FormatFreq(hz uint64) string {
	rem := fmt.Sprintf("%06d", hz%1000000)
	return fmt.Sprintf("%d.%s.%s MHz", hz/1000000, rem[:3], rem[3:])
}

// Header renders the frame addressing for a decode summary line, as
// "<from>><to> cmd=<cmd>" in hex.
func (f Frame) Header() string {
	return fmt.Sprintf("%02X>%02X cmd=%02X", f.From, f.To, f.Cmd)
}

// Summary interprets the frame payload per command semantics and
// returns a short description, or "" when the command carries nothing
// the decoder understands. Unrecognized commands are not an error:
// the header is still reportable and the payload stays visible in the
// raw dump.
func (f Frame) Summary() string {
	switch {
	case f.Cmd == CmdOK && len(f.Raw) == MinFrameLen:
		return "ACK"
	case f.Cmd == CmdNG && len(f.Raw) == MinFrameLen:
		return "NAK"
	case isFreqCmd(f.Cmd) && len(f.Raw) >= 11:
		hz, err := DecodeBCD(f.Payload[:5])
		if err != nil {
			return "FREQ (decode error)"
		}
		return "FREQ " + FormatFreq(hz)
	case isModeCmd(f.Cmd) && len(f.Raw) >= 7:
		s := "MODE " + ModeName(f.Payload[0])
		if len(f.Payload) >= 2 {
			s += fmt.Sprintf(" FIL=%02X", f.Payload[1])
		}
		return s
	}
	return ""
}

func isFreqCmd(cmd byte) bool {
	return cmd == CmdXfrFreq || cmd == CmdReadFreq || cmd == CmdSetFreq
}

func isModeCmd(cmd byte) bool {
	return cmd == CmdXfrMode || cmd == CmdReadMode || cmd == CmdSetMode
}
