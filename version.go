package id3

// Version identifies the wire format of an ID3v2 tag. This package reads
// and writes ID3v2.2 and ID3v2.3; ID3v2.4 tags are read-only (see
// Non-goals in SPEC_FULL.md) and are normalized to Version23 semantics for
// rendering, since id3v2.4 is a superset of id3v2.3's frame layout for every
// frame this package understands.
type Version uint8

// Supported ID3v2 tag versions.
const (
	Version22 Version = 2
	Version23 Version = 3
	Version24 Version = 4
)

// textIDLen returns the on-wire length of a frame's textual ID for v: 3
// bytes for ID3v2.2, 4 bytes for ID3v2.3/v2.4.
func (v Version) textIDLen() int {
	if v == Version22 {
		return 3
	}
	return 4
}

// frameSizeLen returns the on-wire length of a frame header's size field.
func (v Version) frameSizeLen() int {
	if v == Version22 {
		return 3
	}
	return 4
}

// hasFrameFlags reports whether this version's frame headers carry a
// 2-byte flags field (ID3v2.2 frame headers do not).
func (v Version) hasFrameFlags() bool {
	return v != Version22
}
