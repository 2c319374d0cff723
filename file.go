package id3

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// This file is C7 (FileBinder): binding a Tag to an on-disk file and
// writing changes back, grounded on original_source/src/tag_file.cpp's
// RenderV1ToFile/RenderV2ToFile/Update/Strip algorithms -- in particular
// its in-place-overwrite-when-same-size vs. temp-file-and-rename policy,
// and its padding growth cap.

const (
	paddingBlock = 2048
	maxPadding   = 4096
)

// File binds a Tag (and, optionally, a TagV1 and a read-only TagLyrics3)
// to a path on disk.
type File struct {
	path string

	v2            *Tag
	v1            *TagV1
	lyrics3       *TagLyrics3
	lyrics3Region [2]int64 // byte offset range of the Lyrics3 block, as found by Link

	v2Size   int64 // size in bytes of the tag as currently on disk (0 if none)
	audioOff int64 // byte offset where audio data begins (end of any v2 tag)
	fileSize int64
}

// Link opens path and scans it for a prepended ID3v2 tag and a trailing
// ID3v1/Lyrics3v2 region, per spec.md §5. parseV1 and parseLyrics3 gate
// the two optional trailer scans, letting a caller skip them (e.g. for
// speed on a large file it knows carries neither).
func Link(path string, parseV1, parseLyrics3 bool) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrNoFile
	}

	f := &File{path: path, fileSize: info.Size()}

	r, err := os.Open(path)
	if err != nil {
		return nil, ErrNoFile
	}
	defer r.Close()

	header := make([]byte, tagHeaderLen)
	n, _ := io.ReadFull(r, header)
	if n == tagHeaderLen {
		if _, _, size, err := parseHeader(header); err == nil {
			total := int64(tagHeaderLen) + int64(size)
			if total <= f.fileSize {
				full := make([]byte, total)
				if _, err := r.ReadAt(full, 0); err == nil {
					tag, err := Decode(full)
					if err == nil {
						f.v2 = tag
						f.v2Size = total
					}
				}
			}
		}
	}
	f.audioOff = f.v2Size

	if err := f.scanTrailer(parseV1, parseLyrics3); err != nil {
		return nil, err
	}

	return f, nil
}

// scanTrailer looks for a trailing ID3v1/v1.1 tag and Lyrics3 v2 block,
// converting whatever it finds into Frames on the bound Tag (spec.md
// §5, step 3-4): title/artist/album/year/comment/genre/track from a v1
// tag, and lyrics/author/album info from a Lyrics3 v2 block.
func (f *File) scanTrailer(parseV1, parseLyrics3 bool) error {
	if !parseV1 && !parseLyrics3 {
		return nil
	}

	r, err := os.Open(f.path)
	if err != nil {
		return ErrNoFile
	}
	defer r.Close()

	v1Len := int64(0)
	if parseV1 && f.fileSize-f.audioOff >= tagV1Len {
		tail := make([]byte, tagV1Len)
		if _, err := r.ReadAt(tail, f.fileSize-tagV1Len); err == nil && looksLikeV1(tail) {
			if v1, err := DecodeV1(tail); err == nil {
				f.v1 = v1
				v1Len = tagV1Len
				synthesizeV1Frames(f.Tag(), v1)
			}
		}
	}

	if !parseLyrics3 {
		return nil
	}

	preV1 := f.fileSize - v1Len
	scanLen := preV1 - f.audioOff
	const maxLyricsScan = 64 * 1024
	if scanLen > maxLyricsScan {
		scanLen = maxLyricsScan
	}
	if scanLen <= 0 {
		return nil
	}
	buf := make([]byte, scanLen)
	if _, err := r.ReadAt(buf, preV1-scanLen); err == nil {
		if n := findLyrics3v2(buf); n > 0 {
			block := buf[len(buf)-n:]
			if l3, err := decodeLyrics3v2(block); err == nil {
				f.lyrics3 = l3
				f.lyrics3Region = [2]int64{preV1 - int64(n), preV1}
				synthesizeLyrics3Frames(f.Tag(), l3)
			}
		}
	}
	return nil
}

// synthesizeV1Frames converts a parsed ID3v1/v1.1 tag into Frames on
// tag, per spec.md §5 step 3: title, artist, album and year become
// plain text frames; comment becomes a COMMENT frame carrying the
// conventional "ID3v1_Comment" description; genre becomes a
// CONTENT_TYPE frame formatted as "(NN)"; a v1.1 track number becomes a
// TRACK_NUM frame.
func synthesizeV1Frames(tag *Tag, v1 *TagV1) {
	addTextFrame(tag, FrameTitle, v1.Title)
	addTextFrame(tag, FrameLeadArtist, v1.Artist)
	addTextFrame(tag, FrameAlbum, v1.Album)
	addTextFrame(tag, FrameYear, v1.Year)
	addCommentFrame(tag, "ID3v1_Comment", v1.Comment)
	addTextFrame(tag, FrameContentType, "("+strconv.Itoa(int(v1.Genre))+")")
	if v1.HasTrack {
		addTextFrame(tag, FrameTrackNum, strconv.Itoa(int(v1.Track)))
	}
}

// synthesizeLyrics3Frames converts a parsed Lyrics3 v2 block into Frames
// on tag, per spec.md §5 step 4: LYR (lyrics) becomes an UNSYNCED_LYRICS
// frame, AUT (author) becomes COMPOSER, and EAL (extended album info)
// becomes ALBUM.
func synthesizeLyrics3Frames(tag *Tag, l3 *TagLyrics3) {
	if v, ok := l3.Fields["LYR"]; ok {
		addUnsyncedLyricsFrame(tag, v)
	}
	if v, ok := l3.Fields["AUT"]; ok {
		addTextFrame(tag, FrameComposer, v)
	}
	if v, ok := l3.Fields["EAL"]; ok {
		addTextFrame(tag, FrameAlbum, v)
	}
}

func addTextFrame(tag *Tag, id FrameID, value string) {
	fr := NewFrame(id)
	if field, err := fr.Field(FieldText); err == nil {
		field.SetASCII(value)
	}
	tag.AddFrame(fr)
}

func addCommentFrame(tag *Tag, description, text string) {
	fr := NewFrame(FrameComment)
	if field, err := fr.Field(FieldLanguage); err == nil {
		field.SetASCII("eng")
	}
	if field, err := fr.Field(FieldDescription); err == nil {
		field.SetASCII(description)
	}
	if field, err := fr.Field(FieldText); err == nil {
		field.SetASCII(text)
	}
	tag.AddFrame(fr)
}

func addUnsyncedLyricsFrame(tag *Tag, text string) {
	fr := NewFrame(FrameUnsyncedLyrics)
	if field, err := fr.Field(FieldLanguage); err == nil {
		field.SetASCII("eng")
	}
	if field, err := fr.Field(FieldText); err == nil {
		field.SetASCII(text)
	}
	tag.AddFrame(fr)
}

// Tag returns the bound ID3v2 tag, creating an empty one if none was
// found during Link.
func (f *File) Tag() *Tag {
	if f.v2 == nil {
		f.v2 = NewTag(Version23)
	}
	return f.v2
}

// TagV1 returns the bound ID3v1 tag, or nil if none was found.
func (f *File) TagV1() *TagV1 { return f.v1 }

// Lyrics3 returns the bound Lyrics3 v2 block, or nil if none was found.
// It is read-only: Update never rewrites it (see lyrics3.go).
func (f *File) Lyrics3() *TagLyrics3 { return f.lyrics3 }

// SetTagV1 attaches or replaces the file's ID3v1 trailer.
func (f *File) SetTagV1(t *TagV1) { f.v1 = t }

// Update writes the bound ID3v2 tag (and ID3v1 trailer, if set) back to
// the file, per tag_file.cpp's Update: if the new ID3v2 tag is the same
// size as what's on disk, it's overwritten in place; otherwise the file
// is rewritten via a temp file that is then renamed over the original.
func (f *File) Update() error {
	if f.path == "" {
		return ErrNoFile
	}
	if f.v2 == nil && f.v1 == nil {
		return ErrNoData
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return ErrNoFile
	}
	if info.Mode().Perm()&0200 == 0 {
		return ErrReadOnly
	}

	var newV2 []byte
	if f.v2 != nil {
		newV2, err = f.v2.Encode()
		if err != nil {
			return err
		}
		if f.v2.padding == 0 {
			f.applyPaddingPolicy(int64(len(newV2)))
			newV2, err = f.v2.Encode()
			if err != nil {
				return err
			}
		}
	}

	if int64(len(newV2)) == f.v2Size {
		if err := f.overwriteInPlace(newV2); err != nil {
			return err
		}
	} else {
		if err := f.rewriteWholeFile(newV2); err != nil {
			return err
		}
	}

	f.v2Size = int64(len(newV2))
	return nil
}

// applyPaddingPolicy sizes the tag's padding so that the sum of the rest
// of the file (audio plus any trailing v1/Lyrics3 tags) and the new v2
// tag lands on a multiple of paddingBlock, capped at maxPadding bytes of
// growth, per spec.md §4.5 and tag_file.cpp. minSize is the tag's size
// before any padding is added.
func (f *File) applyPaddingPolicy(minSize int64) {
	restOfFile := f.fileSize - f.v2Size
	if restOfFile < 0 {
		restOfFile = 0
	}
	rem := (restOfFile + minSize) % paddingBlock
	pad := int64(0)
	if rem != 0 {
		pad = paddingBlock - rem
	}
	if pad > maxPadding {
		pad = maxPadding
	}
	f.v2.SetPadding(uint32(pad))
}

// overwriteInPlace rewrites exactly the bytes occupied by the previous
// ID3v2 tag, used when the new tag is exactly the same size. If an ID3v1
// tag is set, it overwrites a trailing ID3v1 tag already in the file, or
// is appended when there is none.
func (f *File) overwriteInPlace(newV2 []byte) error {
	w, err := os.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		return ErrReadOnly
	}
	defer w.Close()
	if _, err := w.WriteAt(newV2, 0); err != nil {
		return ErrBadData
	}
	if f.v1 != nil {
		off := f.fileSize
		if f.fileSize-f.v2Size >= tagV1Len {
			tail := make([]byte, tagV1Len)
			if _, err := w.ReadAt(tail, off-tagV1Len); err == nil && looksLikeV1(tail) {
				off -= tagV1Len
			}
		}
		if _, err := w.WriteAt(f.v1.Encode(), off); err != nil {
			return ErrBadData
		}
		f.fileSize = off + tagV1Len
	}
	return nil
}

// rewriteWholeFile writes newV2 followed by the original audio data (and
// any ID3v1 trailer) into a temp file in the same directory, then renames
// it over the original -- the safe-swap pattern tag_file.cpp uses so a
// partially-written file never replaces a good one.
func (f *File) rewriteWholeFile(newV2 []byte) error {
	r, err := os.Open(f.path)
	if err != nil {
		return ErrNoFile
	}
	defer r.Close()

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".id3-*.tmp")
	if err != nil {
		return ErrReadOnly
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		tmp.Close()
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(newV2); err != nil {
		return ErrBadData
	}

	if _, err := r.Seek(f.audioOff, io.SeekStart); err != nil {
		return ErrBadData
	}
	audioEnd := f.fileSize
	if f.v1 != nil && f.fileSize-f.audioOff >= tagV1Len {
		tail := make([]byte, tagV1Len)
		if _, err := r.ReadAt(tail, f.fileSize-tagV1Len); err == nil && looksLikeV1(tail) {
			audioEnd -= tagV1Len
		}
	}
	if _, err := io.CopyN(tmp, r, audioEnd-f.audioOff); err != nil && err != io.EOF {
		return ErrBadData
	}

	if f.v1 != nil {
		if _, err := tmp.Write(f.v1.Encode()); err != nil {
			return ErrBadData
		}
	}

	if err := tmp.Close(); err != nil {
		return ErrBadData
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return ErrBadData
	}
	success = true

	info, err := os.Stat(f.path)
	if err == nil {
		f.fileSize = info.Size()
	}
	f.audioOff = int64(len(newV2))
	return nil
}

// Strip removes the bound ID3v2 and/or ID3v1 tags from the file by
// shifting the audio data and truncating, per tag_file.cpp's Strip.
func (f *File) Strip(v2, v1 bool) error {
	info, err := os.Stat(f.path)
	if err != nil {
		return ErrNoFile
	}
	if info.Mode().Perm()&0200 == 0 {
		return ErrReadOnly
	}

	if v1 && f.v1 != nil {
		if err := os.Truncate(f.path, f.fileSize-tagV1Len); err != nil {
			return ErrBadData
		}
		f.fileSize -= tagV1Len
		f.v1 = nil
	}

	if v2 && f.v2Size > 0 {
		if err := f.shiftAndTruncate(f.v2Size, f.fileSize); err != nil {
			return err
		}
		f.v2 = nil
		f.v2Size = 0
		f.audioOff = 0
	}

	info, err = os.Stat(f.path)
	if err == nil {
		f.fileSize = info.Size()
	}
	return nil
}

// shiftAndTruncate copies the bytes in [from, to) down to offset 0 and
// truncates the file to their length -- the byte-shuffle Strip uses to
// drop a prepended tag without a temp file.
func (f *File) shiftAndTruncate(from, to int64) error {
	rw, err := os.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		return ErrReadOnly
	}
	defer rw.Close()

	const bufSize = 64 * 1024
	buf := make([]byte, bufSize)
	src := from
	dst := int64(0)
	for src < to {
		n := int64(bufSize)
		if to-src < n {
			n = to - src
		}
		if _, err := rw.ReadAt(buf[:n], src); err != nil {
			return ErrBadData
		}
		if _, err := rw.WriteAt(buf[:n], dst); err != nil {
			return ErrBadData
		}
		src += n
		dst += n
	}
	if err := rw.Truncate(dst); err != nil {
		return ErrBadData
	}
	return nil
}
