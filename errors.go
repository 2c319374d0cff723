package id3

import "errors"

// Possible errors returned by this package. Parse-time errors that are
// contained to a single frame are not returned to the caller; see Frame.BadParse.
var (
	ErrInvalidTag         = errors.New("id3: invalid tag header")
	ErrInvalidVersion     = errors.New("id3: unsupported tag version")
	ErrInvalidHeaderFlags = errors.New("id3: invalid tag header flags")
	ErrBadSync            = errors.New("id3: invalid synchsafe integer")
	ErrBadEncoding        = errors.New("id3: invalid text encoding byte")
	ErrBadText            = errors.New("id3: invalid encoded string")
	ErrIncompleteFrame    = errors.New("id3: frame truncated before its declared size")
	ErrUnknownFrameID     = errors.New("id3: unrecognized frame id")
	ErrInvalidFrameHeader = errors.New("id3: invalid frame header")
	ErrInvalidFrameFlags  = errors.New("id3: invalid frame flags")
	ErrFieldNotFound      = errors.New("id3: field not found")
	ErrNoFile             = errors.New("id3: tag is not linked to a file")
	ErrReadOnly           = errors.New("id3: file is not writable")
	ErrNoData             = errors.New("id3: no data available")
	ErrBadData            = errors.New("id3: malformed data")
)
