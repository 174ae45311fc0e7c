// Package audio embeds track metadata into downloaded audio files.
//
// Tagging dispatches on the file's container: ID3v2 for MP3, Vorbis
// comments plus a picture block for FLAC, and iTunes-style atoms for M4A.
// Formats without a supported tag schema (Opus, WAV) return
// ErrUnsupportedSchema so the caller can decide whether a bare file is
// acceptable.
//
// Writes are idempotent: existing metadata and pictures are replaced, not
// accumulated, so re-tagging a file yields the same result as tagging it
// once.
package audio
