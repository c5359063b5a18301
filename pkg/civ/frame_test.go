package civ

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func frameBytes(to, from, cmd byte, payload ...byte) []byte {
	b := []byte{StartByte, StartByte, to, from, cmd}
	b = append(b, payload...)
	return append(b, EndByte)
}

func TestIsFrame(t *testing.T) {
	require.True(t, IsFrame(frameBytes(0x94, 0xE0, 0x03)))
	require.False(t, IsFrame([]byte{StartByte, StartByte, 0x94, 0xE0, EndByte}))
	require.False(t, IsFrame([]byte{StartByte, 0x00, 0x94, 0xE0, 0x03, EndByte}))
	require.False(t, IsFrame(frameBytes(0x94, 0xE0, 0x03)[:6]))
	require.False(t, IsFrame(nil))
}

func TestExtract(t *testing.T) {
	ack := frameBytes(0xE0, 0x94, CmdOK)
	freq := frameBytes(0xE0, 0x94, CmdReadFreq, 0x00, 0x40, 0x07, 0x14, 0x00)

	testCases := []struct {
		name   string
		buf    []byte
		expect [][]byte
	}{
		{
			name:   "single frame",
			buf:    ack,
			expect: [][]byte{ack},
		},
		{
			name:   "two concatenated frames in order",
			buf:    append(append([]byte{}, freq...), ack...),
			expect: [][]byte{freq, ack},
		},
		{
			name:   "noise around the frame stays undecoded",
			buf:    append(append([]byte{0x12, 0x34}, ack...), 0x56),
			expect: [][]byte{ack},
		},
		{
			name:   "unterminated tail yields nothing",
			buf:    freq[:len(freq)-1],
			expect: nil,
		},
		{
			name:   "short sentinel span is not a frame",
			buf:    []byte{StartByte, StartByte, EndByte},
			expect: nil,
		},
		{
			name:   "empty buffer",
			buf:    nil,
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frames := Extract(tc.buf)
			require.Len(t, frames, len(tc.expect))
			for i, f := range frames {
				require.Equal(t, tc.expect[i], f.Raw)
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	frames := Extract(frameBytes(0xE0, 0x94, CmdReadFreq, 0x00, 0x40, 0x07, 0x14, 0x00))
	require.Len(t, frames, 1)
	f := frames[0]
	require.Equal(t, byte(0xE0), f.To)
	require.Equal(t, byte(0x94), f.From)
	require.Equal(t, CmdReadFreq, f.Cmd)
	require.Equal(t, []byte{0x00, 0x40, 0x07, 0x14, 0x00}, f.Payload)
}
