package saavn

import (
	"errors"
	"testing"
)

const ldJSONPage = `<html><head>
<title>Kesariya Song by Arijit Singh | JioSaavn</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "MusicRecording",
  "name": "Kesariya",
  "byArtist": {"@type": "MusicGroup", "name": "Arijit Singh"},
  "inAlbum": {"@type": "MusicAlbum", "name": "Brahmastra"},
  "datePublished": "2022-07-17",
  "duration": "PT4M28S",
  "image": "https://c.saavncdn.com/191/Brahmastra-150x150.jpg"
}
</script>
</head><body></body></html>`

const initialDataPage = `<html><head>
<title>Kesariya Song by Arijit Singh | JioSaavn</title>
<script>window.__INITIAL_DATA__ = {
  "entities": {
    "songs": {
      "PgAydBZc": {
        "title": "Kesariya",
        "subtitle": "Arijit Singh",
        "album": {"name": "Brahmastra"},
        "year": "2022",
        "duration": "268",
        "image": "https://c.saavncdn.com/191/Brahmastra-150x150.jpg",
        "track_number": 1
      }
    }
  }
};</script>
</head><body></body></html>`

const titleOnlyPage = `<html><head>
<title>Kesariya Song by Arijit Singh | JioSaavn</title>
</head><body>Nothing structured here.</body></html>`

func TestParseSongPage_LDJSON(t *testing.T) {
	meta, err := parseSongPage(ldJSONPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "Kesariya" {
		t.Errorf("Title = %q, want %q", meta.Title, "Kesariya")
	}
	if meta.Artist != "Arijit Singh" {
		t.Errorf("Artist = %q, want %q", meta.Artist, "Arijit Singh")
	}
	if meta.Album != "Brahmastra" {
		t.Errorf("Album = %q, want %q", meta.Album, "Brahmastra")
	}
	if meta.Year != 2022 {
		t.Errorf("Year = %d, want 2022", meta.Year)
	}
	if meta.Duration != 268 {
		t.Errorf("Duration = %d, want 268 (PT4M28S)", meta.Duration)
	}
	if want := "https://c.saavncdn.com/191/Brahmastra-500x500.jpg"; meta.CoverArtURL != want {
		t.Errorf("CoverArtURL = %q, want upgraded %q", meta.CoverArtURL, want)
	}
}

func TestParseSongPage_InitialDataFallback(t *testing.T) {
	meta, err := parseSongPage(initialDataPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "Kesariya" {
		t.Errorf("Title = %q, want %q", meta.Title, "Kesariya")
	}
	if meta.Artist != "Arijit Singh" {
		t.Errorf("Artist = %q, want %q", meta.Artist, "Arijit Singh")
	}
	if meta.Duration != 268 {
		t.Errorf("Duration = %d, want 268", meta.Duration)
	}
}

func TestParseSongPage_TitleFallback(t *testing.T) {
	meta, err := parseSongPage(titleOnlyPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "Kesariya" {
		t.Errorf("Title = %q, want %q", meta.Title, "Kesariya")
	}
	if meta.Artist != "Arijit Singh" {
		t.Errorf("Artist = %q, want %q", meta.Artist, "Arijit Singh")
	}
	if meta.Duration != 0 {
		t.Errorf("Duration = %d, want 0 (unknown)", meta.Duration)
	}
}

func TestParseSongPage_NoMetadata(t *testing.T) {
	_, err := parseSongPage(`<html><body>empty</body></html>`)
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		segment string
		wantErr bool
	}{
		{
			name:    "valid song URL",
			url:     "https://www.jiosaavn.com/song/kesariya/PgAydBZcZWw",
			segment: "/song/",
			wantErr: false,
		},
		{
			name:    "valid album URL",
			url:     "https://www.jiosaavn.com/album/brahmastra/ABCDEF",
			segment: "/album/",
			wantErr: false,
		},
		{
			name:    "wrong host",
			url:     "https://example.com/song/whatever",
			segment: "/song/",
			wantErr: true,
		},
		{
			name:    "album URL on song validation",
			url:     "https://www.jiosaavn.com/album/brahmastra/ABCDEF",
			segment: "/song/",
			wantErr: true,
		},
		{
			name:    "not a URL",
			url:     "kesariya",
			segment: "/song/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url, tt.segment)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseInitialData_AlbumOrdering(t *testing.T) {
	page := `<script>window.__INITIAL_DATA__ = {
	  "entities": {
	    "songs": {
	      "b": {"title": "Deva Deva", "track_number": 2},
	      "a": {"title": "Kesariya", "track_number": 1},
	      "c": {"title": "Rasiya", "track_number": 3}
	    }
	  }
	};</script>`

	initial, err := parseInitialData(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(initial.Entities.Songs); got != 3 {
		t.Fatalf("got %d songs, want 3", got)
	}
}
