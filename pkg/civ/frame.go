// Package civ implements framing and decoding for the Icom CI-V
// binary protocol.
package civ

// CI-V frames are delimited by fixed sentinels on the wire:
//
//	FE FE <to> <from> <cmd> [sub/payload...] FD
//
// The transport itself carries no length or boundary information;
// frames are recovered from the raw stream by sentinel scanning after
// gap-based reassembly.
const (
	// StartByte appears twice as the frame preamble.
	StartByte byte = 0xFE
	// EndByte terminates a frame.
	EndByte byte = 0xFD
	// MinFrameLen is the shortest valid frame: two start bytes,
	// destination, source, command, end byte.
	MinFrameLen = 6
)

// Frame is one delimited CI-V frame.
type Frame struct {
	To      byte
	From    byte
	Cmd     byte
	Payload []byte
	// Raw is the full frame including sentinels.
	Raw []byte
}

// IsFrame reports whether b has valid frame shape: minimum length and
// both sentinels in place.
func IsFrame(b []byte) bool {
	return len(b) >= MinFrameLen &&
		b[0] == StartByte && b[1] == StartByte &&
		b[len(b)-1] == EndByte
}

// Parse interprets b as a single frame.
func Parse(b []byte) (Frame, bool) {
	if !IsFrame(b) {
		return Frame{}, false
	}
	return Frame{
		To:      b[2],
		From:    b[3],
		Cmd:     b[4],
		Payload: b[5 : len(b)-1],
		Raw:     b,
	}, true
}

// Extract scans buf for delimited frames and returns each one found,
// in order. The scan looks for the start sentinel pair, then for the
// next end byte; the inclusive span is one frame and scanning resumes
// one past its end, so back-to-back frames in a single buffer are all
// recovered. Bytes outside any frame are skipped (they stay visible in
// the caller's raw dump).
func Extract(buf []byte) []Frame {
	var frames []Frame
	for i := 0; i+MinFrameLen <= len(buf); {
		if buf[i] != StartByte || buf[i+1] != StartByte {
			i++
			continue
		}
		end := -1
		for j := i + 2; j < len(buf); j++ {
			if buf[j] == EndByte {
				end = j
				break
			}
		}
		if end < 0 {
			// Unterminated trailing frame, possibly split by a
			// forced flush. Not decodable from this buffer.
			break
		}
		if f, ok := Parse(buf[i : end+1]); ok {
			frames = append(frames, f)
		}
		i = end + 1
	}
	return frames
}
