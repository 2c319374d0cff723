package id3

import "bytes"

// This file implements ID3v1/v1.1 parsing and rendering, grounded on
// original_source/src/id3/tag_parse_v1.cpp's ParseID3v1 algorithm: trailing
// space/NUL stripping and the v1.0-vs-v1.1 detection test on the comment
// field's last two bytes.

const (
	tagV1Len       = 128
	tagV1GenreLen  = 1
	tagV1TitleLen  = 30
	tagV1ArtistLen = 30
	tagV1AlbumLen  = 30
	tagV1YearLen   = 4
)

// TagV1 is a parsed ID3v1 or ID3v1.1 trailer.
type TagV1 struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   uint8 // 0 if absent (plain ID3v1, not v1.1)
	HasTrack bool
	Genre   uint8
}

// DecodeV1 parses a 128-byte ID3v1/v1.1 trailer. data must be exactly
// tagV1Len bytes and begin with the "TAG" marker.
func DecodeV1(data []byte) (*TagV1, error) {
	if len(data) != tagV1Len || string(data[:3]) != "TAG" {
		return nil, ErrInvalidTag
	}

	t := &TagV1{}
	off := 3
	t.Title = stripTrailingV1(data[off : off+tagV1TitleLen])
	off += tagV1TitleLen
	t.Artist = stripTrailingV1(data[off : off+tagV1ArtistLen])
	off += tagV1ArtistLen
	t.Album = stripTrailingV1(data[off : off+tagV1AlbumLen])
	off += tagV1AlbumLen
	t.Year = stripTrailingV1(data[off : off+tagV1YearLen])
	off += tagV1YearLen

	comment := data[off : off+30]
	off += 30
	t.Genre = data[off]

	// id3lib detects ID3v1.1 by checking that byte 28 of the comment is
	// NUL and byte 29 (the track number) is not, matching
	// tag_parse_v1.cpp's test exactly (including its false-positive
	// potential against legitimate comments that happen to end in NUL,
	// byte -- see DESIGN.md's Open Question decisions).
	if comment[28] == 0 && comment[29] != 0 {
		t.HasTrack = true
		t.Track = comment[29]
		t.Comment = stripTrailingV1(comment[:28])
	} else {
		t.Comment = stripTrailingV1(comment)
	}

	return t, nil
}

// stripTrailingV1 trims trailing NUL and space bytes, matching
// id3lib's ID3_RemoveTrailingSpaces.
func stripTrailingV1(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	return string(b[:end])
}

// Encode renders t as a 128-byte ID3v1/v1.1 trailer. A track number of 0
// with HasTrack false omits the v1.1 track byte, matching the original's
// behavior of writing a plain v1.0 comment field when no track is set.
func (t *TagV1) Encode() []byte {
	out := make([]byte, tagV1Len)
	copy(out[0:3], "TAG")
	writeV1Field(out[3:33], t.Title)
	writeV1Field(out[33:63], t.Artist)
	writeV1Field(out[63:93], t.Album)
	writeV1Field(out[93:97], t.Year)

	if t.HasTrack {
		writeV1Field(out[97:125], t.Comment)
		out[125] = 0
		out[126] = t.Track
	} else {
		writeV1Field(out[97:127], t.Comment)
	}
	out[127] = t.Genre
	return out
}

// writeV1Field copies s into dst, truncating if necessary, and pads any
// remaining unused bytes with spaces (spec.md §4.5: "Trailing spaces pad
// unused characters").
func writeV1Field(dst []byte, s string) {
	b := []byte(s)
	if len(b) > len(dst) {
		b = b[:len(dst)]
	}
	copy(dst, b)
	for i := len(b); i < len(dst); i++ {
		dst[i] = ' '
	}
}

// looksLikeV1 reports whether tail (the last 128 bytes of a file) begins
// with the ID3v1 marker.
func looksLikeV1(tail []byte) bool {
	return len(tail) >= 3 && bytes.Equal(tail[:3], []byte("TAG"))
}
