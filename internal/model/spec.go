package model

import (
	"fmt"
	"strings"
)

// Format represents a supported output container/codec.
type Format string

// Supported output formats.
const (
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatM4A  Format = "m4a"
	FormatOpus Format = "opus"
	FormatWAV  Format = "wav"
)

// DefaultBitrateKbps is applied to lossy formats when the caller does not
// request a bitrate.
const DefaultBitrateKbps = 320

// ParseFormat converts a user-supplied format name into a Format.
//
// Matching is case-insensitive. Returns an error naming the supported
// formats when the input is not one of them.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMP3:
		return FormatMP3, nil
	case FormatFLAC:
		return FormatFLAC, nil
	case FormatM4A:
		return FormatM4A, nil
	case FormatOpus:
		return FormatOpus, nil
	case FormatWAV:
		return FormatWAV, nil
	}
	return "", fmt.Errorf("unsupported format %q (want mp3, flac, m4a, opus or wav)", s)
}

// Lossless reports whether the format is a lossless family member, for
// which a bitrate parameter is meaningless.
func (f Format) Lossless() bool {
	return f == FormatFLAC || f == FormatWAV
}

// DownloadSpec describes the requested output encoding for one pipeline run.
//
// A zero BitrateKbps on a lossy format means "use the default"
// (DefaultBitrateKbps). A non-zero bitrate on a lossless format is a caller
// error and rejected by Validate.
type DownloadSpec struct {
	// Format is the target container/codec.
	Format Format

	// BitrateKbps is the requested bitrate for lossy formats.
	// Meaningless for lossless formats; must be 0 there.
	BitrateKbps int
}

// Validate checks the spec before any download work starts.
func (s DownloadSpec) Validate() error {
	if _, err := ParseFormat(string(s.Format)); err != nil {
		return err
	}
	if s.Format.Lossless() && s.BitrateKbps != 0 {
		return fmt.Errorf("bitrate is not applicable to lossless format %q", s.Format)
	}
	if s.BitrateKbps < 0 {
		return fmt.Errorf("invalid bitrate %d", s.BitrateKbps)
	}
	return nil
}

// EffectiveBitrate returns the bitrate the encoder should use: the requested
// value, or DefaultBitrateKbps when unset. Returns 0 for lossless formats.
func (s DownloadSpec) EffectiveBitrate() int {
	if s.Format.Lossless() {
		return 0
	}
	if s.BitrateKbps == 0 {
		return DefaultBitrateKbps
	}
	return s.BitrateKbps
}

// OutputFile is the terminal artifact of a pipeline run: a transcoded audio
// file on disk, tagged in place once the download is confirmed complete.
type OutputFile struct {
	// Path is the final location of the file.
	Path string

	// Format is the container the file was produced in.
	Format Format

	// TagsWritten records whether metadata was embedded. False when the
	// container has no supported tag schema and strict tagging is off.
	TagsWritten bool
}
