package id3

import (
	"bytes"
	"encoding/binary"
)

// This file is C4 (FrameHeader/Frame), grounded on the teacher's
// FrameHeader/Frame split (frame.go) and its decode/encode state machine
// (v24.go's decodeFrame/encodeFrame), generalized from the teacher's single
// v2.4 codec down to spec.md's v2.2/v2.3 targets and from reflection-driven
// struct scanning to the explicit Field/FrameSpec model of framespec.go.

// FrameFlags are the per-frame status and format flags (ID3v2.3 only;
// ID3v2.2 frames carry none).
type FrameFlags uint8

const (
	FrameFlagTagAlter FrameFlags = 1 << iota
	FrameFlagFileAlter
	FrameFlagReadOnly
	FrameFlagCompressed
	FrameFlagEncrypted
	FrameFlagGrouped
)

// FrameHeader is the parsed frame header record, per spec.md §3.
type FrameHeader struct {
	ID       FrameID
	TextID   string // literal wire text-ID; authoritative for FrameUnknown frames
	DataSize uint32 // size of the frame body as declared on the wire
	Flags    FrameFlags
}

// Frame is a header plus an ordered vector of fields, per spec.md §3.
type Frame struct {
	Header FrameHeader

	fields    []*Field
	presence  map[FieldID]bool
	grouping  *uint8 // present iff FrameFlagGrouped
	encryptID *uint8 // present iff FrameFlagEncrypted; fields are not parsed when set

	changed  bool
	badParse bool

	rawBody []byte // retained verbatim when badly parsed; for encrypted frames, the body after the encryption byte
}

// NewFrame creates an empty frame of the given FrameID, with fields
// initialized to their template defaults.
func NewFrame(id FrameID) *Frame {
	spec, ok := frameSpecs[id]
	if !ok {
		spec = frameSpecs[FrameUnknown]
	}
	f := &Frame{
		Header:   FrameHeader{ID: id},
		presence: make(map[FieldID]bool),
		changed:  true,
	}
	for _, tmpl := range spec.fields {
		f.fields = append(f.fields, newField(tmpl))
		f.presence[tmpl.id] = true
	}
	return f
}

// newUnknownFrame builds a synthetic single-Binary-field frame for a
// frame ID this package doesn't recognize, carrying its literal text-ID.
func newUnknownFrame(textID string) *Frame {
	f := NewFrame(FrameUnknown)
	f.Header.TextID = textID
	return f
}

// Clear resets a frame's fields to their zero values.
func (f *Frame) Clear() {
	spec := frameSpecs[f.Header.ID]
	for i, tmpl := range spec.fields {
		f.fields[i] = newField(tmpl)
	}
	f.changed = true
}

// Changed reports whether this frame or any of its fields have been
// mutated since the last parse/render.
func (f *Frame) Changed() bool {
	if f.changed {
		return true
	}
	for _, fl := range f.fields {
		if fl.Changed() {
			return true
		}
	}
	return false
}

// BadParse reports whether this frame's body failed to parse completely;
// it remains attached to its tag with whatever data was recovered, per
// spec.md §4.4 and §7.
func (f *Frame) BadParse() bool { return f.badParse }

// Field returns the first field matching fieldID, or ErrFieldNotFound.
func (f *Frame) Field(fieldID FieldID) (*Field, error) {
	if !f.presence[fieldID] {
		return nil, ErrFieldNotFound
	}
	for _, fl := range f.fields {
		if fl.id == fieldID {
			return fl, nil
		}
	}
	return nil, ErrFieldNotFound
}

// Contains reports whether the frame's template declares fieldID.
func (f *Frame) Contains(fieldID FieldID) bool {
	return f.presence[fieldID]
}

// Description returns a short human label for the frame: its resolved
// 4-character ID, or the literal text-ID for unknown frames.
func (f *Frame) Description() string {
	if f.Header.ID == FrameUnknown {
		return f.Header.TextID
	}
	spec := frameSpecs[f.Header.ID]
	if spec.long != "" {
		return spec.long
	}
	return spec.short
}

// parseFrameHeader reads one frame header from data for the given version.
// It returns the header, the number of bytes consumed, and errPadding if
// the text-ID region is all zero (the caller should treat the remainder
// as padding).
func parseFrameHeader(data []byte, v Version) (FrameHeader, int, error) {
	idLen := v.textIDLen()
	sizeLen := v.frameSizeLen()
	flagsLen := 0
	if v.hasFrameFlags() {
		flagsLen = 2
	}
	hdrLen := idLen + sizeLen + flagsLen

	if len(data) < hdrLen {
		return FrameHeader{}, 0, ErrIncompleteFrame
	}

	idBytes := data[:idLen]
	if allZero(idBytes) {
		return FrameHeader{}, 0, errPadding
	}

	textID := string(idBytes)
	var size uint32
	switch sizeLen {
	case 3:
		size = uint32(data[idLen])<<16 | uint32(data[idLen+1])<<8 | uint32(data[idLen+2])
	case 4:
		size = binary.BigEndian.Uint32(data[idLen : idLen+4])
	}

	h := FrameHeader{
		ID:       lookupFrameID(textID),
		TextID:   textID,
		DataSize: size,
	}
	if flagsLen == 2 {
		flagByte1 := data[idLen+sizeLen]
		flagByte2 := data[idLen+sizeLen+1]
		h.Flags = decodeFrameFlags(flagByte1, flagByte2)
	}
	return h, hdrLen, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

var errPadding = errIsPadding{}

type errIsPadding struct{}

func (errIsPadding) Error() string { return "id3: padding encountered" }

func decodeFrameFlags(b1, b2 byte) FrameFlags {
	var f FrameFlags
	if b1&0x80 != 0 {
		f |= FrameFlagTagAlter
	}
	if b1&0x40 != 0 {
		f |= FrameFlagFileAlter
	}
	if b1&0x20 != 0 {
		f |= FrameFlagReadOnly
	}
	if b2&0x80 != 0 {
		f |= FrameFlagCompressed
	}
	if b2&0x40 != 0 {
		f |= FrameFlagEncrypted
	}
	if b2&0x20 != 0 {
		f |= FrameFlagGrouped
	}
	return f
}

func encodeFrameFlags(f FrameFlags) (b1, b2 byte) {
	if f&FrameFlagTagAlter != 0 {
		b1 |= 0x80
	}
	if f&FrameFlagFileAlter != 0 {
		b1 |= 0x40
	}
	if f&FrameFlagReadOnly != 0 {
		b1 |= 0x20
	}
	if f&FrameFlagCompressed != 0 {
		b2 |= 0x80
	}
	if f&FrameFlagEncrypted != 0 {
		b2 |= 0x40
	}
	if f&FrameFlagGrouped != 0 {
		b2 |= 0x20
	}
	return
}

// parseBody decodes a frame's body (the DataSize bytes following its
// header) into f's fields, following the five-step sequence in spec.md
// §4.4: grouping byte, encryption byte, decompression, field iteration,
// and contained-error recovery via badParse.
func (f *Frame) parseBody(body []byte, tagUnsync bool) error {
	orig := body
	if f.Header.Flags&FrameFlagGrouped != 0 {
		if len(body) < 1 {
			f.badParse = true
			return nil
		}
		g := body[0]
		f.grouping = &g
		body = body[1:]
	}

	if f.Header.Flags&FrameFlagEncrypted != 0 {
		if len(body) < 1 {
			f.badParse = true
			return nil
		}
		e := body[0]
		f.encryptID = &e
		f.rawBody = append([]byte(nil), body[1:]...)
		// Decryption is a non-goal (spec.md §1); fields are left unparsed.
		return nil
	}

	if f.Header.Flags&FrameFlagCompressed != 0 {
		if len(body) < 4 {
			f.badParse = true
			return nil
		}
		uncompressedSize := binary.BigEndian.Uint32(body[:4])
		decoded, err := inflateFrame(body[4:], uncompressedSize)
		if err != nil {
			f.badParse = true
			f.rawBody = append([]byte(nil), orig...)
			return nil
		}
		body = decoded
	}

	spec, ok := frameSpecs[f.Header.ID]
	if !ok || f.Header.ID == FrameUnknown {
		spec = frameSpecEntry{fields: unknownTemplate()}
	}

	f.fields = nil
	f.presence = make(map[FieldID]bool)
	var enc byte = encodingISO88591
	for _, tmpl := range spec.fields {
		field := newField(tmpl)
		n, err := field.parse(body, enc)
		if err != nil {
			f.badParse = true
			f.rawBody = append([]byte(nil), orig...)
			return nil
		}
		if tmpl.id == FieldTextEncoding {
			enc = byte(field.intValue)
		}
		f.fields = append(f.fields, field)
		f.presence[tmpl.id] = true
		if n > len(body) {
			n = len(body)
		}
		body = body[n:]
	}
	return nil
}

// render encodes the frame (header + body) for the given tag version into
// w. Unsynchronization is applied by the enclosing tag, not here; ID3v2.3
// has no per-frame unsync flag.
func (f *Frame) render(w *bytes.Buffer, v Version) error {
	spec, ok := frameSpecs[f.Header.ID]
	if !ok {
		spec = frameSpecEntry{fields: unknownTemplate()}
	}
	textID := spec.textIDFor(v, f.Header.TextID)

	var body bytes.Buffer
	if f.Header.Flags&FrameFlagGrouped != 0 && f.grouping != nil {
		body.WriteByte(*f.grouping)
	}
	if f.Header.Flags&FrameFlagEncrypted != 0 {
		if f.encryptID != nil {
			body.WriteByte(*f.encryptID)
		}
		body.Write(f.rawBody)
	} else {
		var raw bytes.Buffer
		var enc byte = encodingISO88591
		for _, fl := range f.fields {
			if fl.tmpl.id == FieldTextEncoding {
				enc = byte(fl.intValue)
			}
			if _, err := fl.render(&raw, enc); err != nil {
				return err
			}
		}

		flags := f.Header.Flags
		if flags&FrameFlagCompressed != 0 {
			compressed := deflateFrame(raw.Bytes())
			if len(compressed) < raw.Len() {
				var szbuf [4]byte
				binary.BigEndian.PutUint32(szbuf[:], uint32(raw.Len()))
				body.Write(szbuf[:])
				body.Write(compressed)
			} else {
				flags &^= FrameFlagCompressed
				body.Write(raw.Bytes())
			}
		} else {
			body.Write(raw.Bytes())
		}
		f.Header.Flags = flags
	}

	idLen := v.textIDLen()
	idOut := textID
	if len(idOut) > idLen {
		idOut = idOut[:idLen]
	}
	for len(idOut) < idLen {
		idOut += "\x00"
	}
	w.WriteString(idOut)

	sizeLen := v.frameSizeLen()
	size := body.Len()
	switch sizeLen {
	case 3:
		w.WriteByte(byte(size >> 16))
		w.WriteByte(byte(size >> 8))
		w.WriteByte(byte(size))
	case 4:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(size))
		w.Write(b[:])
	}

	if v.hasFrameFlags() {
		b1, b2 := encodeFrameFlags(f.Header.Flags)
		w.WriteByte(b1)
		w.WriteByte(b2)
	}

	w.Write(body.Bytes())
	f.Header.DataSize = uint32(size)
	f.changed = false
	for _, fl := range f.fields {
		fl.changed = false
	}
	return nil
}

// sizeOnWire estimates the number of bytes this frame will occupy when
// rendered for version v: header plus the sum of its fields' sizeOnWire,
// per spec.md §4.3's size() contract. It is an estimate, not a strict
// bound: it may exceed the rendered size when compression shrinks the
// body, and it may fall short of it because it omits the 4-byte
// decompressed-size prefix of a compressed body, counts a UCS-2 string as
// two bytes per code unit plus two (Encode writes a 2-byte byte-order mark
// and, for null-terminated fields, a 2-byte terminator), and counts an
// ASCII field by its content even when a fixed length pads it further.
func (f *Frame) sizeOnWire(v Version) int {
	hdrLen := v.textIDLen() + v.frameSizeLen()
	if v.hasFrameFlags() {
		hdrLen += 2
	}
	if f.Header.Flags&FrameFlagGrouped != 0 {
		hdrLen++
	}
	if f.Header.Flags&FrameFlagEncrypted != 0 {
		return hdrLen + 1 + len(f.rawBody)
	}
	if f.badParse {
		return hdrLen + len(f.rawBody)
	}
	body := 0
	for _, fl := range f.fields {
		body += fl.sizeOnWire()
	}
	return hdrLen + body
}

// SetCompression sets or clears this frame's compression policy flag. The
// flag may still be cleared on render if compression doesn't shrink the
// payload (spec.md §4.4).
func (f *Frame) SetCompression(v bool) {
	if v {
		f.Header.Flags |= FrameFlagCompressed
	} else {
		f.Header.Flags &^= FrameFlagCompressed
	}
	f.changed = true
}

// Compression reports whether this frame's compression flag is set.
func (f *Frame) Compression() bool {
	return f.Header.Flags&FrameFlagCompressed != 0
}
