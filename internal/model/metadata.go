package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// TrackMetadata holds the authoritative description of a song as extracted
// from the source catalog.
//
// TrackMetadata is immutable once extracted: the pipeline owns one value per
// run and passes it read-only to the matcher, fetcher and tag writer.
//
//   - Title and Artist are always present for a successfully extracted track.
//   - Album, Year, Duration and CoverArtURL are best-effort; zero values mean
//     the catalog did not provide them.
//
// Example:
//
//	meta := &model.TrackMetadata{
//	    Title:    "Kesariya",
//	    Artist:   "Arijit Singh",
//	    Album:    "Brahmastra",
//	    Duration: 268,
//	}
//	fmt.Println(meta.Query()) // "Kesariya Arijit Singh"
type TrackMetadata struct {
	// Title is the song title.
	Title string

	// Artist is the primary artist credit.
	Artist string

	// Album is the album title. Empty when the track has no album context.
	Album string

	// Year is the release year. 0 when unknown.
	Year int

	// Duration is the track length in seconds. 0 when unknown.
	Duration int

	// CoverArtURL points at the catalog's cover image. Empty when the
	// catalog exposes no artwork; callers must treat that as acceptable.
	CoverArtURL string
}

// Query returns the search text used to locate an equivalent stream on the
// external provider: title followed by artist.
func (m *TrackMetadata) Query() string {
	return strings.TrimSpace(m.Title + " " + m.Artist)
}

// HasCoverArt reports whether the catalog exposed artwork for this track.
func (m *TrackMetadata) HasCoverArt() bool {
	return m.CoverArtURL != ""
}

// PathConfig holds path formatting settings for produced audio files.
//
// Both templates support placeholders that are replaced with sanitized
// metadata values:
//   - {artist} - primary artist
//   - {album}  - album title
//   - {title}  - track title
//   - {year}   - release year (4 digits, omitted segment when unknown)
//   - {ext}    - target container extension, without the dot
//
// Example configuration:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:  "/music/{artist}/{album}",
//	    FileNameFormat: "{artist} - {title}.{ext}",
//	}
type PathConfig struct {
	// DownloadsPath is the directory template for saving tracks.
	// Segments whose placeholders are all empty are dropped, so a track
	// without album context lands directly under the artist directory.
	DownloadsPath string

	// FileNameFormat is the template for track filenames.
	// Must include the {ext} placeholder.
	FileNameFormat string
}

// OutputPath computes the full target path for a track in the given
// container format.
//
// The album/artist hierarchy is used when album context is known; segments
// that resolve to nothing (for example "{album}" for a single) are dropped
// rather than left as empty directories. Invalid filename characters are
// replaced with underscores.
//
// Example:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:  "/music/{artist}/{album}",
//	    FileNameFormat: "{artist} - {title}.{ext}",
//	}
//	meta := &model.TrackMetadata{Title: "Kesariya", Artist: "Arijit Singh", Album: "Brahmastra"}
//	p := model.OutputPath(meta, model.FormatFLAC, cfg)
//	// p = "/music/Arijit Singh/Brahmastra/Arijit Singh - Kesariya.flac"
func OutputPath(meta *TrackMetadata, format Format, cfg *PathConfig) string {
	dir := expandSegments(cfg.DownloadsPath, meta)

	fileName := cfg.FileNameFormat
	fileName = strings.ReplaceAll(fileName, "{ext}", string(format))
	fileName = expandPlaceholders(fileName, meta)
	fileName = SanitizeFileName(fileName)

	path := filepath.Join(dir, fileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(path) >= 260 {
		ext := filepath.Ext(path)
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			path = filepath.Join(dir, fileName[:maxLen]+ext)
		}
	}

	return path
}

// expandSegments expands the directory template one path segment at a time,
// dropping segments that resolve to an empty string.
func expandSegments(template string, meta *TrackMetadata) string {
	var kept []string
	for _, segment := range strings.Split(template, "/") {
		expanded := expandPlaceholders(segment, meta)
		if segment != "" && strings.TrimSpace(expanded) == "" {
			continue
		}
		if segment != expanded {
			expanded = SanitizeFileName(expanded)
		}
		kept = append(kept, expanded)
	}
	path := strings.Join(kept, "/")

	if len(path) >= 248 {
		path = path[:247]
	}

	return path
}

// expandPlaceholders substitutes metadata values into a template.
func expandPlaceholders(s string, meta *TrackMetadata) string {
	year := ""
	if meta.Year > 0 {
		year = strconv.Itoa(meta.Year)
	}
	s = strings.ReplaceAll(s, "{artist}", meta.Artist)
	s = strings.ReplaceAll(s, "{album}", meta.Album)
	s = strings.ReplaceAll(s, "{title}", meta.Title)
	s = strings.ReplaceAll(s, "{year}", year)
	return s
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}

// String implements fmt.Stringer for log output.
func (m *TrackMetadata) String() string {
	if m.Album == "" {
		return fmt.Sprintf("%s - %s", m.Artist, m.Title)
	}
	return fmt.Sprintf("%s - %s (%s)", m.Artist, m.Title, m.Album)
}
