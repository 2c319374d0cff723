package id3

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, audio []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mp3")
	require.NoError(t, os.WriteFile(path, audio, 0644))
	return path
}

func TestLinkNoExistingTags(t *testing.T) {
	path := writeTestFile(t, []byte("fake mpeg frames"))

	f, err := Link(path, true, true)
	require.NoError(t, err)
	assert.Nil(t, f.TagV1())
	assert.Nil(t, f.Lyrics3())
}

func TestUpdateWritesV2TagFirstTime(t *testing.T) {
	path := writeTestFile(t, []byte("audio-data-here"))

	f, err := Link(path, true, true)
	require.NoError(t, err)

	tag := f.Tag()
	fr := NewFrame(FrameTitle)
	field, _ := fr.Field(FieldText)
	field.SetASCII("New Title")
	tag.AddFrame(fr)

	require.NoError(t, f.Update())

	f2, err := Link(path, true, true)
	require.NoError(t, err)
	require.NotNil(t, f2.Tag())
	require.Equal(t, 1, f2.Tag().NumFrames())

	field2, err := f2.Tag().Frames()[0].Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "New Title", field2.ASCII(0))
}

func TestUpdatePreservesAudioData(t *testing.T) {
	audio := []byte("this is the audio payload that should survive")
	path := writeTestFile(t, audio)

	f, err := Link(path, true, true)
	require.NoError(t, err)
	tag := f.Tag()
	fr := NewFrame(FrameAlbum)
	field, _ := fr.Field(FieldText)
	field.SetASCII("Album Name")
	tag.AddFrame(fr)
	require.NoError(t, f.Update())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), string(audio))
}

func TestStripV2RemovesTagAndKeepsAudio(t *testing.T) {
	audio := []byte("keep-this-audio")
	path := writeTestFile(t, audio)

	f, err := Link(path, true, true)
	require.NoError(t, err)
	tag := f.Tag()
	fr := NewFrame(FrameTitle)
	field, _ := fr.Field(FieldText)
	field.SetASCII("To Be Stripped")
	tag.AddFrame(fr)
	require.NoError(t, f.Update())

	require.NoError(t, f.Strip(true, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, audio, data)
}

func TestLinkMissingFile(t *testing.T) {
	_, err := Link(filepath.Join(t.TempDir(), "does-not-exist.mp3"), true, true)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestLinkSynthesizesFramesFromV1Trailer(t *testing.T) {
	audio := []byte("audio-data-here")
	v1 := &TagV1{
		Title:    "V1 Title",
		Artist:   "V1 Artist",
		Album:    "V1 Album",
		Year:     "1998",
		Comment:  "a v1 comment",
		HasTrack: true,
		Track:    4,
		Genre:    9,
	}
	data := append(append([]byte{}, audio...), v1.Encode()...)
	path := writeTestFile(t, data)

	f, err := Link(path, true, true)
	require.NoError(t, err)
	require.NotNil(t, f.TagV1())

	title := f.Tag().FindFrame(FrameTitle)
	require.NotNil(t, title, "v1 title must be synthesized into a frame")
	field, err := title.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "V1 Title", field.ASCII(0))

	artist := f.Tag().FindFrame(FrameLeadArtist)
	require.NotNil(t, artist)
	field, err = artist.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "V1 Artist", field.ASCII(0))

	track := f.Tag().FindFrame(FrameTrackNum)
	require.NotNil(t, track, "v1.1 track number must be synthesized into a frame")
	field, err = track.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "4", field.ASCII(0))

	comment := f.Tag().FindFrame(FrameComment)
	require.NotNil(t, comment)
	desc, err := comment.Field(FieldDescription)
	require.NoError(t, err)
	assert.Equal(t, "ID3v1_Comment", desc.ASCII(0))
	text, err := comment.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "a v1 comment", text.ASCII(0))

	genre := f.Tag().FindFrame(FrameContentType)
	require.NotNil(t, genre)
	field, err = genre.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "(9)", field.ASCII(0))
}

func TestSynthesizeLyrics3FramesMapsFields(t *testing.T) {
	l3 := &TagLyrics3{Fields: map[string]string{
		"LYR": "some lyrics text",
		"AUT": "Some Author",
		"EAL": "Extended Album",
	}}

	tag := NewTag(Version23)
	synthesizeLyrics3Frames(tag, l3)

	lyrics := tag.FindFrame(FrameUnsyncedLyrics)
	require.NotNil(t, lyrics, "LYR must be synthesized into an unsynced lyrics frame")
	field, err := lyrics.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "some lyrics text", field.ASCII(0))

	author := tag.FindFrame(FrameComposer)
	require.NotNil(t, author, "AUT must be synthesized into a composer frame")
	field, err = author.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "Some Author", field.ASCII(0))

	album := tag.FindFrame(FrameAlbum)
	require.NotNil(t, album, "EAL must be synthesized into an album frame")
	field, err = album.Field(FieldText)
	require.NoError(t, err)
	assert.Equal(t, "Extended Album", field.ASCII(0))
}

func TestLinkSkipsV1ScanWhenDisabled(t *testing.T) {
	audio := []byte("audio-data-here")
	v1 := &TagV1{Title: "Should Not Load"}
	data := append(append([]byte{}, audio...), v1.Encode()...)
	path := writeTestFile(t, data)

	f, err := Link(path, false, false)
	require.NoError(t, err)
	assert.Nil(t, f.TagV1())
	assert.Nil(t, f.Tag().FindFrame(FrameTitle))
}
