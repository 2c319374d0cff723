package id3

// This file is C2 (FrameSpec): the static registry that maps a FrameID to
// its textual IDs, discard policy and ordered field template. It is
// grounded on the teacher's frameTypeMap / versionData tables (v24.go) but
// replaces the teacher's reflection-over-Go-structs approach with the
// tagged-variant design spec.md §9 calls for: a Field carries its own kind,
// and FrameSpec carries the template, rather than dispatching through
// per-frame Go struct types.

// FrameID identifies a frame by role, independent of its wire-level textual
// ID (which differs between ID3v2.2 and ID3v2.3).
type FrameID int

// The closed enumeration of frames this package understands.
const (
	FrameUnknown FrameID = iota
	FrameTitle
	FrameSubtitle
	FrameContentGroup
	FrameAlbum
	FrameOriginalAlbum
	FrameTrackNum
	FramePartOfSet
	FrameLeadArtist
	FrameAlbumArtist
	FrameConductor
	FrameRemixer
	FrameOriginalArtist
	FrameLyricist
	FrameOriginalLyricist
	FrameComposer
	FrameEncodedBy
	FrameBPM
	FrameLength
	FrameInitialKey
	FrameLanguage
	FrameContentType
	FrameFileType
	FrameMediaType
	FrameCopyright
	FramePublisher
	FrameFileOwner
	FrameOriginalFilename
	FramePlaylistDelay
	FrameRecordingDates
	FrameYear
	FrameEncoderSettings
	FrameUserText
	FrameURLCommercial
	FrameURLCopyright
	FrameURLAudioFile
	FrameURLArtist
	FrameURLAudioSource
	FrameURLRadioStation
	FrameURLPayment
	FrameURLPublisher
	FrameUserURL
	FrameComment
	FramePicture
	FrameGeneralObject
	FrameUniqueFileID
	FramePlayCounter
	FramePopularimeter
	FrameUnsyncedLyrics
	FrameSyncedLyrics
	FrameEventTiming
	FrameMPEGLookup
	FrameSyncTempoCodes
	FrameEncryptionReg
	FrameGroupIDReg
	FrameLinkedInfo
	FramePrivate
	FrameInvolvedPeople
	FrameTermsOfUse

	numFrameIDs
)

// FieldID identifies a field's role within a frame.
type FieldID int

const (
	FieldTextEncoding FieldID = iota
	FieldText
	FieldURL
	FieldData
	FieldDescription
	FieldOwner
	FieldEmail
	FieldRating
	FieldFilename
	FieldLanguage
	FieldPictureType
	FieldImageFormat
	FieldMimeType
	FieldCounter
	FieldIdentifier
	FieldVolumeAdj
	FieldNumBits
	FieldFrameID
)

// FieldKind is the primitive storage shape of a Field.
type FieldKind int

const (
	KindInteger FieldKind = iota
	KindBinary
	KindAsciiString
	KindUnicodeString
)

// fieldTemplate describes one field slot within a frame's field vector.
type fieldTemplate struct {
	id             FieldID
	kind           FieldKind
	fixedLength    int // -1 means variable (binary: remainder; string: scan-to-terminator or remainder)
	nullTerminated bool
	list           bool // null-divided list of items (internal separator is still 0x0001)
	adjustedEnc    bool // kind/encoding slaved to the sibling FieldTextEncoding field
}

// frameSpecEntry is the static per-FrameID record.
type frameSpecEntry struct {
	short      string // 3-char ID, ID3v2.2
	long       string // 4-char ID, ID3v2.3
	tagDiscard bool   // discard frame if tag contents are altered and frame unknown to the altering software
	fileDiscard bool  // discard frame if file (not tag) contents are altered
	fields     []fieldTemplate
}

func textTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldText, kind: KindUnicodeString, fixedLength: -1, adjustedEnc: true},
	}
}

func userTextTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldDescription, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldText, kind: KindUnicodeString, fixedLength: -1, adjustedEnc: true},
	}
}

func urlTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldURL, kind: KindAsciiString, fixedLength: -1},
	}
}

func userURLTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldDescription, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldURL, kind: KindAsciiString, fixedLength: -1},
	}
}

func commentTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldLanguage, kind: KindAsciiString, fixedLength: 3},
		{id: FieldDescription, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldText, kind: KindUnicodeString, fixedLength: -1, adjustedEnc: true},
	}
}

func pictureTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldMimeType, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldPictureType, kind: KindInteger, fixedLength: 1},
		{id: FieldDescription, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func generalObjectTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldMimeType, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldFilename, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldDescription, kind: KindUnicodeString, fixedLength: -1, nullTerminated: true, adjustedEnc: true},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func uniqueFileIDTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldOwner, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func playCounterTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldCounter, kind: KindInteger, fixedLength: -1},
	}
}

func popularimeterTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldEmail, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldRating, kind: KindInteger, fixedLength: 1},
		{id: FieldCounter, kind: KindInteger, fixedLength: -1},
	}
}

func involvedPeopleTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldTextEncoding, kind: KindInteger, fixedLength: 1},
		{id: FieldText, kind: KindUnicodeString, fixedLength: -1, list: true, adjustedEnc: true},
	}
}

func binaryTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func registrationTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldOwner, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldIdentifier, kind: KindInteger, fixedLength: 1},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func linkTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldFrameID, kind: KindAsciiString, fixedLength: 4},
		{id: FieldURL, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func privateTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldOwner, kind: KindAsciiString, fixedLength: -1, nullTerminated: true},
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

func unknownTemplate() []fieldTemplate {
	return []fieldTemplate{
		{id: FieldData, kind: KindBinary, fixedLength: -1},
	}
}

// frameSpecs is the immutable, process-wide FrameID -> spec table.
var frameSpecs = buildFrameSpecs()

func buildFrameSpecs() map[FrameID]frameSpecEntry {
	m := make(map[FrameID]frameSpecEntry, numFrameIDs)
	text := func(id FrameID, short, long string) {
		m[id] = frameSpecEntry{short: short, long: long, fields: textTemplate()}
	}
	url := func(id FrameID, short, long string) {
		m[id] = frameSpecEntry{short: short, long: long, fields: urlTemplate()}
	}

	text(FrameTitle, "TT2", "TIT2")
	text(FrameSubtitle, "TT3", "TIT3")
	text(FrameContentGroup, "TT1", "TIT1")
	text(FrameAlbum, "TAL", "TALB")
	text(FrameOriginalAlbum, "TOT", "TOAL")
	text(FrameTrackNum, "TRK", "TRCK")
	text(FramePartOfSet, "TPA", "TPOS")
	text(FrameLeadArtist, "TP1", "TPE1")
	text(FrameAlbumArtist, "TP2", "TPE2")
	text(FrameConductor, "TP3", "TPE3")
	text(FrameRemixer, "TP4", "TPE4")
	text(FrameOriginalArtist, "TOA", "TOPE")
	text(FrameLyricist, "TXT", "TEXT")
	text(FrameOriginalLyricist, "TOL", "TOLY")
	text(FrameComposer, "TCM", "TCOM")
	text(FrameEncodedBy, "TEN", "TENC")
	text(FrameBPM, "TBP", "TBPM")
	text(FrameLength, "TLE", "TLEN")
	text(FrameInitialKey, "TKE", "TKEY")
	text(FrameLanguage, "TLA", "TLAN")
	text(FrameContentType, "TCO", "TCON")
	text(FrameFileType, "TFT", "TFLT")
	text(FrameMediaType, "TMT", "TMED")
	text(FrameCopyright, "TCR", "TCOP")
	text(FramePublisher, "TPB", "TPUB")
	m[FrameFileOwner] = frameSpecEntry{long: "TOWN", fields: textTemplate()} // v2.3-only, no v2.2 equivalent
	text(FrameOriginalFilename, "TOF", "TOFN")
	text(FramePlaylistDelay, "TDY", "TDLY")
	text(FrameRecordingDates, "TRD", "TRDA")
	text(FrameYear, "TYE", "TYER")
	text(FrameEncoderSettings, "TSS", "TSSE")

	m[FrameUserText] = frameSpecEntry{short: "TXX", long: "TXXX", fields: userTextTemplate()}

	url(FrameURLCommercial, "WCM", "WCOM")
	url(FrameURLCopyright, "WCP", "WCOP")
	url(FrameURLAudioFile, "WAF", "WOAF")
	url(FrameURLArtist, "WAR", "WOAR")
	url(FrameURLAudioSource, "WAS", "WOAS")
	url(FrameURLRadioStation, "WRS", "WORS")
	m[FrameURLPayment] = frameSpecEntry{long: "WPAY", fields: urlTemplate()} // v2.3-only, no v2.2 equivalent
	url(FrameURLPublisher, "WPB", "WPUB")

	m[FrameUserURL] = frameSpecEntry{short: "WXX", long: "WXXX", fields: userURLTemplate()}
	m[FrameComment] = frameSpecEntry{short: "COM", long: "COMM", fields: commentTemplate()}
	m[FramePicture] = frameSpecEntry{short: "PIC", long: "APIC", fields: pictureTemplate()}
	m[FrameGeneralObject] = frameSpecEntry{short: "GEO", long: "GEOB", fields: generalObjectTemplate()}
	m[FrameUniqueFileID] = frameSpecEntry{short: "UFI", long: "UFID", fields: uniqueFileIDTemplate()}
	m[FramePlayCounter] = frameSpecEntry{short: "CNT", long: "PCNT", fields: playCounterTemplate()}
	m[FramePopularimeter] = frameSpecEntry{short: "POP", long: "POPM", fields: popularimeterTemplate()}
	m[FrameUnsyncedLyrics] = frameSpecEntry{short: "ULT", long: "USLT", fields: commentTemplate()}
	m[FrameSyncedLyrics] = frameSpecEntry{short: "SLT", long: "SYLT", fields: binaryTemplate()}
	m[FrameEventTiming] = frameSpecEntry{short: "ETC", long: "ETCO", fields: binaryTemplate()}
	m[FrameMPEGLookup] = frameSpecEntry{short: "MLL", long: "MLLT", fields: binaryTemplate()}
	m[FrameSyncTempoCodes] = frameSpecEntry{short: "STC", long: "SYTC", fields: binaryTemplate()}
	m[FrameEncryptionReg] = frameSpecEntry{long: "ENCR", fields: registrationTemplate(), tagDiscard: true, fileDiscard: true}
	m[FrameGroupIDReg] = frameSpecEntry{long: "GRID", fields: registrationTemplate(), tagDiscard: true, fileDiscard: true}
	m[FrameLinkedInfo] = frameSpecEntry{short: "LNK", long: "LINK", fields: linkTemplate()}
	m[FramePrivate] = frameSpecEntry{long: "PRIV", fields: privateTemplate(), tagDiscard: true, fileDiscard: true}
	m[FrameInvolvedPeople] = frameSpecEntry{short: "IPL", long: "IPLS", fields: involvedPeopleTemplate()}
	m[FrameTermsOfUse] = frameSpecEntry{long: "USER", fields: textTemplate()}

	m[FrameUnknown] = frameSpecEntry{fields: unknownTemplate(), tagDiscard: false, fileDiscard: false}

	return m
}

var (
	shortIDToFrame = buildReverseLookup(func(e frameSpecEntry) string { return e.short })
	longIDToFrame  = buildReverseLookup(func(e frameSpecEntry) string { return e.long })
)

func buildReverseLookup(sel func(frameSpecEntry) string) map[string]FrameID {
	m := make(map[string]FrameID)
	for id, e := range frameSpecs {
		if s := sel(e); s != "" {
			m[s] = id
		}
	}
	return m
}

// lookupFrameID resolves a wire text-ID (3 chars for v2.2, 4 chars for v2.3)
// to a FrameID, falling back to FrameUnknown for anything not recognized.
func lookupFrameID(textID string) FrameID {
	switch len(textID) {
	case 3:
		if id, ok := shortIDToFrame[textID]; ok {
			return id
		}
	case 4:
		if id, ok := longIDToFrame[textID]; ok {
			return id
		}
	}
	return FrameUnknown
}

// textIDFor returns the wire-format textual ID for id at the given Version,
// falling back to the literal text-ID stored for unknown frames.
func (e frameSpecEntry) textIDFor(v Version, literal string) string {
	switch v {
	case Version22:
		if e.short != "" {
			return e.short
		}
	default:
		if e.long != "" {
			return e.long
		}
	}
	return literal
}
