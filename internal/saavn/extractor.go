package saavn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	httpclient "saavndl/internal/http"
	"saavndl/internal/model"
	"saavndl/internal/saavn/dto"
)

// ErrNotFound is returned when the URL does not point at a catalog song or
// album page, or the catalog answers with a 404.
var ErrNotFound = errors.New("song not found")

// ErrParse is returned when the page was fetched but no usable metadata
// could be extracted from it.
var ErrParse = errors.New("could not parse song page")

// Extractor fetches catalog pages and extracts track metadata.
//
// The catalog embeds song data twice: an ld+json MusicRecording block and a
// window.__INITIAL_DATA__ object. The extractor prefers ld+json, falls back
// to the entity data, and finally to the page <title>, so partial pages
// still yield at least a title to search with.
//
// Example usage:
//
//	extractor := saavn.NewExtractor(client)
//
//	meta, err := extractor.Extract(ctx, "https://www.jiosaavn.com/song/kesariya/PgAydBZcZWw")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s by %s (%ds)\n", meta.Title, meta.Artist, meta.Duration)
type Extractor struct {
	client *httpclient.Client
}

// NewExtractor creates a new Extractor using the given HTTP client.
func NewExtractor(client *httpclient.Client) *Extractor {
	return &Extractor{client: client}
}

var (
	ldJSONRe = regexp.MustCompile(`(?s)<script[^>]*type="application/ld\+json"[^>]*>(.*?)</script>`)
	titleRe  = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
)

// Extract fetches a song page and extracts its metadata.
//
// Returns ErrNotFound when the URL is not a catalog song URL or the page
// does not exist, and ErrParse when the page yields no usable metadata.
// Both are wrapped, so check with errors.Is.
//
// Example:
//
//	meta, err := extractor.Extract(ctx, songURL)
//	if errors.Is(err, saavn.ErrNotFound) {
//	    fmt.Println("not a song page")
//	    return
//	}
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*model.TrackMetadata, error) {
	if err := validateURL(rawURL, "/song/"); err != nil {
		return nil, err
	}

	page, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return parseSongPage(page)
}

// ExtractAlbum fetches an album page and extracts metadata for every track
// on it, ordered by track number.
//
// Example:
//
//	tracks, err := extractor.ExtractAlbum(ctx, albumURL)
//	for _, meta := range tracks {
//	    fmt.Println(meta.Title)
//	}
func (e *Extractor) ExtractAlbum(ctx context.Context, rawURL string) ([]*model.TrackMetadata, error) {
	if err := validateURL(rawURL, "/album/"); err != nil {
		return nil, err
	}

	page, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	initial, err := parseInitialData(page)
	if err != nil || len(initial.Entities.Songs) == 0 {
		return nil, fmt.Errorf("%w: no songs on album page", ErrParse)
	}

	songs := make([]dto.JSONSong, 0, len(initial.Entities.Songs))
	for _, song := range initial.Entities.Songs {
		songs = append(songs, song)
	}
	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].TrackNumber != songs[j].TrackNumber {
			return songs[i].TrackNumber < songs[j].TrackNumber
		}
		return songs[i].Title < songs[j].Title
	})

	tracks := make([]*model.TrackMetadata, 0, len(songs))
	for _, song := range songs {
		tracks = append(tracks, song.ToMetadata())
	}
	return tracks, nil
}

// fetch downloads a page, mapping a 404 to ErrNotFound.
func (e *Extractor) fetch(ctx context.Context, rawURL string) (string, error) {
	page, err := e.client.GetString(ctx, rawURL)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.NotFound() {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rawURL)
		}
		return "", err
	}
	return page, nil
}

// validateURL checks that the URL is a catalog URL containing the expected
// path segment. A malformed or off-catalog URL is reported as ErrNotFound,
// same as a missing page: the caller cannot act on the difference.
func validateURL(rawURL, segment string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: invalid URL %q", ErrNotFound, rawURL)
	}
	if !strings.Contains(u.Host, "jiosaavn.com") {
		return fmt.Errorf("%w: not a JioSaavn URL: %s", ErrNotFound, rawURL)
	}
	if !strings.Contains(u.Path, segment) {
		return fmt.Errorf("%w: not a %s page: %s", ErrNotFound, strings.Trim(segment, "/"), rawURL)
	}
	return nil
}

// parseSongPage extracts track metadata from a song page's HTML.
//
// Extraction order:
//  1. ld+json MusicRecording block (richest: artist, album, duration, art)
//  2. window.__INITIAL_DATA__ song entity
//  3. Page <title> (title and, when present, the artist)
func parseSongPage(page string) (*model.TrackMetadata, error) {
	if meta := parseLDJSON(page); meta != nil {
		return meta, nil
	}

	if initial, err := parseInitialData(page); err == nil {
		if song, ok := firstSong(initial); ok {
			return song.ToMetadata(), nil
		}
	}

	if meta := parseTitleTag(page); meta != nil {
		return meta, nil
	}

	return nil, fmt.Errorf("%w: no metadata found in page", ErrParse)
}

// parseLDJSON scans the page's ld+json blocks for a MusicRecording.
//
// Pages carry several ld+json blocks (breadcrumbs, the website object); a
// block may hold a single object or an array of them.
func parseLDJSON(page string) *model.TrackMetadata {
	for _, match := range ldJSONRe.FindAllStringSubmatch(page, -1) {
		raw := strings.TrimSpace(match[1])

		var rec dto.JSONRecording
		if err := json.Unmarshal([]byte(raw), &rec); err == nil && rec.IsMusicRecording() {
			return rec.ToMetadata()
		}

		var recs []dto.JSONRecording
		if err := json.Unmarshal([]byte(raw), &recs); err == nil {
			for _, rec := range recs {
				if rec.IsMusicRecording() {
					return rec.ToMetadata()
				}
			}
		}
	}
	return nil
}

// parseInitialData extracts and deserializes window.__INITIAL_DATA__.
//
// The object is embedded as a script assignment:
//
//	<script>window.__INITIAL_DATA__ = {...};</script>
func parseInitialData(page string) (*dto.JSONInitialData, error) {
	const marker = "window.__INITIAL_DATA__"

	start := strings.Index(page, marker)
	if start == -1 {
		return nil, fmt.Errorf("%w: no initial data in page", ErrParse)
	}

	rest := page[start+len(marker):]
	eq := strings.Index(rest, "=")
	if eq == -1 {
		return nil, fmt.Errorf("%w: malformed initial data", ErrParse)
	}
	rest = rest[eq+1:]

	end := strings.Index(rest, "</script>")
	if end != -1 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ";"))

	var initial dto.JSONInitialData
	if err := json.Unmarshal([]byte(rest), &initial); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &initial, nil
}

// firstSong returns the song entity with the lowest catalog ID, so repeated
// parses of the same page pick the same entity.
func firstSong(initial *dto.JSONInitialData) (dto.JSONSong, bool) {
	if len(initial.Entities.Songs) == 0 {
		return dto.JSONSong{}, false
	}
	ids := make([]string, 0, len(initial.Entities.Songs))
	for id := range initial.Entities.Songs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return initial.Entities.Songs[ids[0]], true
}

// parseTitleTag recovers a bare title (and artist when present) from the
// page <title>, formatted like "Kesariya Song by Arijit Singh | JioSaavn".
func parseTitleTag(page string) *model.TrackMetadata {
	m := titleRe.FindStringSubmatch(page)
	if m == nil {
		return nil
	}

	title := strings.TrimSpace(m[1])
	if i := strings.Index(title, "|"); i != -1 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return nil
	}

	meta := &model.TrackMetadata{Title: title}
	if i := strings.Index(title, " Song by "); i != -1 {
		meta.Title = strings.TrimSpace(title[:i])
		meta.Artist = strings.TrimSpace(title[i+len(" Song by "):])
	} else {
		meta.Title = strings.TrimSuffix(meta.Title, " Song")
	}
	return meta
}
