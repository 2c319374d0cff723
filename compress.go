package id3

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Per-frame zlib compression (spec.md §4.4). klauspost/compress/zlib is a
// drop-in for compress/zlib with the same io.Reader/io.WriteCloser surface;
// it is the corpus's preferred zlib implementation (see SPEC_FULL.md §6).

// inflateFrame decompresses a zlib stream into a buffer sized uncompressedSize,
// verifying the inflator's actual output length against the declared size
// defensively, per spec.md §9.
func inflateFrame(data []byte, uncompressedSize uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrBadData
	}
	defer zr.Close()

	out := make([]byte, 0, uncompressedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.CopyN(buf, zr, int64(uncompressedSize)); err != nil {
		return nil, ErrBadData
	}
	return buf.Bytes(), nil
}

// deflateFrame compresses data, returning the compressed bytes. The caller
// decides whether the result is worth keeping (spec.md §4.4: only use it
// when strictly smaller than the raw payload).
func deflateFrame(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}
