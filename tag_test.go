package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTitledTag(v Version, title string) *Tag {
	tag := NewTag(v)
	f := NewFrame(FrameTitle)
	field, _ := f.Field(FieldText)
	field.SetASCII(title)
	tag.AddFrame(f)
	return tag
}

func TestTagEncodeDecodeRoundTrip(t *testing.T) {
	tag := newTitledTag(Version23, "Round Trip")

	data, err := tag.Encode()
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data[:3]))
	assert.Equal(t, byte(Version23), data[3])

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumFrames())

	field, err := got.Frames()[0].Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "Round Trip", field.ASCII(0))
}

func TestTagUnsyncRoundTrip(t *testing.T) {
	tag := newTitledTag(Version23, "x\xffy")
	tag.SetUnsync(true)

	data, err := tag.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, got.Flags&TagFlagUnsync != 0)

	field, err := got.Frames()[0].Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "x\xffy", field.ASCII(0))
}

func TestTagPaddingPreserved(t *testing.T) {
	tag := newTitledTag(Version23, "padded")
	tag.SetPadding(100)

	data, err := tag.Encode()
	require.NoError(t, err)

	size, err := decodeSynchsafe(data[6:10])
	require.NoError(t, err)
	assert.Greater(t, int(size), 100)
}

func TestTagFindAdvancesCursor(t *testing.T) {
	tag := NewTag(Version23)
	for _, title := range []string{"A", "B", "A"} {
		f := NewFrame(FrameTitle)
		field, _ := f.Field(FieldText)
		field.SetASCII(title)
		tag.AddFrame(f)
	}

	first := tag.Find(FrameTitle, FieldText, "A")
	require.NotNil(t, first)
	assert.Same(t, tag.Frames()[0], first)

	second := tag.Find(FrameTitle, FieldText, "A")
	require.NotNil(t, second)
	assert.Same(t, tag.Frames()[2], second)
}

func TestTagFindRestartsAfterExhaustion(t *testing.T) {
	tag := NewTag(Version23)
	f := NewFrame(FrameTitle)
	field, _ := f.Field(FieldText)
	field.SetASCII("only")
	tag.AddFrame(f)

	require.NotNil(t, tag.Find(FrameTitle, FieldText, "only"))
	assert.Nil(t, tag.Find(FrameTitle, FieldText, "only"))

	again := tag.Find(FrameTitle, FieldText, "only")
	require.NotNil(t, again, "a miss should reset the cursor so the next call restarts from the start")
}

func TestTagFindFrameAdvancesCursor(t *testing.T) {
	tag := NewTag(Version23)
	tag.AddFrame(NewFrame(FrameTitle))
	tag.AddFrame(NewFrame(FrameAlbum))
	tag.AddFrame(NewFrame(FrameTitle))

	first := tag.FindFrame(FrameTitle)
	require.NotNil(t, first)
	assert.Same(t, tag.Frames()[0], first)

	second := tag.FindFrame(FrameTitle)
	require.NotNil(t, second)
	assert.Same(t, tag.Frames()[2], second)

	assert.Nil(t, tag.FindFrame(FrameTitle))
}

func TestTagFindIntMatchesCounterValue(t *testing.T) {
	tag := NewTag(Version23)

	low := NewFrame(FramePlayCounter)
	lowField, _ := low.Field(FieldCounter)
	lowField.SetInt(3)
	tag.AddFrame(low)

	high := NewFrame(FramePlayCounter)
	highField, _ := high.Field(FieldCounter)
	highField.SetInt(42)
	tag.AddFrame(high)

	got := tag.FindInt(FramePlayCounter, FieldCounter, 42)
	require.NotNil(t, got)
	assert.Same(t, high, got)

	assert.Nil(t, tag.FindInt(FramePlayCounter, FieldCounter, 999))
}

func TestTagFindSelectorsShareOneCursor(t *testing.T) {
	tag := NewTag(Version23)
	f := NewFrame(FrameTitle)
	field, _ := f.Field(FieldText)
	field.SetASCII("shared")
	tag.AddFrame(f)

	require.NotNil(t, tag.FindFrame(FrameTitle))
	// Switching call shape mid-stream resets the shared cursor rather
	// than continuing from FindFrame's position.
	again := tag.Find(FrameTitle, FieldText, "shared")
	require.NotNil(t, again, "changing call shape should reset the shared cursor")
}

func TestTagHasChangedTracksFrameMutation(t *testing.T) {
	tag := newTitledTag(Version23, "a")
	_, err := tag.Encode()
	require.NoError(t, err)
	assert.False(t, tag.HasChanged())

	field, _ := tag.Frames()[0].Field(FieldText)
	field.SetASCII("b")
	assert.True(t, tag.HasChanged())
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("XYZ\x03\x00\x00\x00\x00\x00\x00"))
	assert.ErrorIs(t, err, ErrInvalidTag)
}
