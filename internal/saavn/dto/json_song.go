package dto

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"saavndl/internal/model"
)

// Duration handles the duration shapes the catalog emits: an ISO 8601
// string like "PT4M28S" in the ld+json block, a plain number of seconds,
// or a number quoted as a string in the entity data.
type Duration struct {
	Seconds int
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// UnmarshalJSON parses a duration from any of the catalog's formats.
func (d *Duration) UnmarshalJSON(data []byte) error {
	// Plain number of seconds
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		d.Seconds = int(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		d.Seconds = 0
		return nil
	}

	// Number quoted as a string: "268"
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		d.Seconds = int(n)
		return nil
	}

	// ISO 8601: "PT4M28S"
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("unable to parse duration: %s", s)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	d.Seconds = hours*3600 + minutes*60 + seconds
	return nil
}

// Name handles values that are either a plain string, an object with a
// "name" field, or a list of such objects (joined with ", ").
type Name struct {
	Value string
}

// UnmarshalJSON parses a name from any of the catalog's shapes.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Value = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		n.Value = obj.Name
		return nil
	}

	var list []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	n.Value = strings.Join(names, ", ")
	return nil
}

// ImageURL handles cover art references that are either a single URL or a
// list of URLs (the last entry is the largest rendition).
type ImageURL struct {
	URL string
}

// UnmarshalJSON parses an image reference from either shape.
func (i *ImageURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.URL = s
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if len(list) > 0 {
		i.URL = list[len(list)-1]
	}
	return nil
}

// JSONRecording represents a MusicRecording object from the catalog's
// ld+json block.
type JSONRecording struct {
	Type          string    `json:"@type"`
	Name          string    `json:"name"`
	ByArtist      *Name     `json:"byArtist"`
	InAlbum       *Name     `json:"inAlbum"`
	DatePublished string    `json:"datePublished"`
	Duration      *Duration `json:"duration"`
	Image         *ImageURL `json:"image"`
}

// IsMusicRecording reports whether the block describes a song rather than
// another schema.org type sharing the page (breadcrumbs, the website itself).
func (jr *JSONRecording) IsMusicRecording() bool {
	return jr.Type == "MusicRecording"
}

// ToMetadata converts the recording to a model.TrackMetadata.
func (jr *JSONRecording) ToMetadata() *model.TrackMetadata {
	meta := &model.TrackMetadata{
		Title: strings.TrimSpace(jr.Name),
	}
	if jr.ByArtist != nil {
		meta.Artist = strings.TrimSpace(jr.ByArtist.Value)
	}
	if jr.InAlbum != nil {
		meta.Album = strings.TrimSpace(jr.InAlbum.Value)
	}
	meta.Year = parseYear(jr.DatePublished)
	if jr.Duration != nil {
		meta.Duration = jr.Duration.Seconds
	}
	if jr.Image != nil {
		meta.CoverArtURL = UpgradeCoverURL(jr.Image.URL)
	}
	return meta
}

// JSONSong represents a song entity from window.__INITIAL_DATA__.
type JSONSong struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Album       *Name     `json:"album"`
	Artists     *Name     `json:"artists"`
	Singers     string    `json:"singers"`
	Year        string    `json:"year"`
	Duration    *Duration `json:"duration"`
	Image       *ImageURL `json:"image"`
	TrackNumber int       `json:"track_number"`
}

// ToMetadata converts the entity to a model.TrackMetadata.
//
// The artist falls back from the artists field to singers to the subtitle,
// whichever is populated first.
func (js *JSONSong) ToMetadata() *model.TrackMetadata {
	meta := &model.TrackMetadata{
		Title: strings.TrimSpace(js.Title),
	}
	switch {
	case js.Artists != nil && js.Artists.Value != "":
		meta.Artist = strings.TrimSpace(js.Artists.Value)
	case js.Singers != "":
		meta.Artist = strings.TrimSpace(js.Singers)
	default:
		meta.Artist = strings.TrimSpace(js.Subtitle)
	}
	if js.Album != nil {
		meta.Album = strings.TrimSpace(js.Album.Value)
	}
	meta.Year = parseYear(js.Year)
	if js.Duration != nil {
		meta.Duration = js.Duration.Seconds
	}
	if js.Image != nil {
		meta.CoverArtURL = UpgradeCoverURL(js.Image.URL)
	}
	return meta
}

// JSONInitialData represents the slice of window.__INITIAL_DATA__ we care
// about: the song entities keyed by catalog ID.
type JSONInitialData struct {
	Entities struct {
		Songs map[string]JSONSong `json:"songs"`
	} `json:"entities"`
}

// UpgradeCoverURL rewrites a thumbnail cover URL to the 500x500 rendition.
//
// The catalog links the 150x150 thumbnail from song pages but serves larger
// renditions at the same path.
func UpgradeCoverURL(url string) string {
	return strings.Replace(url, "150x150", "500x500", 1)
}

// parseYear extracts a four-digit year from strings like "2022",
// "2022-08-17" or "17 Aug 2022". Returns 0 when no year is present.
var yearRe = regexp.MustCompile(`\b(\d{4})\b`)

func parseYear(s string) int {
	m := yearRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}
