package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchsafeRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 16384, maxSynchsafe}
	for _, n := range cases {
		var b [4]byte
		encodeSynchsafe(b[:], n)
		got, err := decodeSynchsafe(b[:])
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestSynchsafeSaturates(t *testing.T) {
	var b [4]byte
	encodeSynchsafe(b[:], maxSynchsafe+1000)
	got, err := decodeSynchsafe(b[:])
	require.NoError(t, err)
	assert.Equal(t, uint32(maxSynchsafe), got)
}

func TestDecodeSynchsafeRejectsHighBit(t *testing.T) {
	_, err := decodeSynchsafe([]byte{0x80, 0, 0, 0})
	assert.ErrorIs(t, err, ErrBadSync)
}

func TestUnsyncRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00, 0x01, 0x02},
		{0xff, 0xe0},
		{0xff, 0x00},
		{0xff},
		{0x41, 0xff, 0xfb, 0x42},
	}
	for _, c := range cases {
		u := unsync(c)
		back := resync(u)
		assert.Equal(t, c, back)
	}
}

func TestUnsyncInsertsZeroAfterDangerousBytes(t *testing.T) {
	in := []byte{0xff, 0xe0}
	out := unsync(in)
	assert.Equal(t, []byte{0xff, 0x00, 0xe0}, out)
}

func TestUnsyncLeavesSafeBytesAlone(t *testing.T) {
	in := []byte{0xff, 0x01}
	out := unsync(in)
	assert.Equal(t, in, out)
}
