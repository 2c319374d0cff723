// Package id3 reads and writes ID3v1, ID3v1.1, ID3v2.2 and ID3v2.3 tags,
// and reads (but does not rewrite) trailing Lyrics3 v2 blocks.
//
// A Tag holds an ordered set of Frames; each Frame holds an ordered set
// of Fields whose shape is driven by a static FrameSpec template rather
// than by per-frame Go types. File binds a Tag (and optional TagV1) to a
// path on disk and knows how to Update or Strip it in place.
package id3
