package id3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTextRoundTripV23(t *testing.T) {
	f := NewFrame(FrameTitle)
	field, err := f.Field(FieldText)
	require.NoError(t, err)
	field.SetASCII("Test Title")

	var w bytes.Buffer
	require.NoError(t, f.render(&w, Version23))

	hdr, n, err := parseFrameHeader(w.Bytes(), Version23)
	require.NoError(t, err)
	assert.Equal(t, "TIT2", hdr.TextID)
	assert.Equal(t, FrameTitle, hdr.ID)

	body := w.Bytes()[n : n+int(hdr.DataSize)]
	f2 := &Frame{Header: hdr}
	require.NoError(t, f2.parseBody(body, false))

	field2, err := f2.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "Test Title", field2.ASCII(0))
}

func TestFrameTextRoundTripV22ShortID(t *testing.T) {
	f := NewFrame(FrameLeadArtist)
	field, _ := f.Field(FieldText)
	field.SetASCII("Artist")

	var w bytes.Buffer
	require.NoError(t, f.render(&w, Version22))

	hdr, _, err := parseFrameHeader(w.Bytes(), Version22)
	require.NoError(t, err)
	assert.Equal(t, "TP1", hdr.TextID)
	assert.Equal(t, FrameLeadArtist, hdr.ID)
}

func TestFrameCompressionSkippedWhenNotSmaller(t *testing.T) {
	f := NewFrame(FrameTitle)
	field, _ := f.Field(FieldText)
	field.SetASCII("x")
	f.SetCompression(true)

	var w bytes.Buffer
	require.NoError(t, f.render(&w, Version23))
	assert.False(t, f.Compression(), "single-byte payload shouldn't compress smaller")
}

func TestFrameUnknownPreservesLiteralID(t *testing.T) {
	data := []byte("ZZZZ\x00\x00\x00\x03\x00\x00abc")
	hdr, n, err := parseFrameHeader(data, Version23)
	require.NoError(t, err)
	assert.Equal(t, FrameUnknown, hdr.ID)
	assert.Equal(t, "ZZZZ", hdr.TextID)

	body := data[n : n+int(hdr.DataSize)]
	f := &Frame{Header: hdr}
	require.NoError(t, f.parseBody(body, false))

	field, err := f.Field(FieldData)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), field.Bytes())
}
