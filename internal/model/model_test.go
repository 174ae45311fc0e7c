package model

import (
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file/with\\slashes.mp3", "file_with_slashes.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"file?with*wildcards.mp3", "file_with_wildcards.mp3"},
		{"file\"with\"quotes.mp3", "file_with_quotes.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:  "/music/{artist}/{album}",
		FileNameFormat: "{artist} - {title}.{ext}",
	}

	meta := &TrackMetadata{
		Title:  "Kesariya",
		Artist: "Arijit Singh",
		Album:  "Brahmastra",
	}

	got := OutputPath(meta, FormatFLAC, cfg)
	want := "/music/Arijit Singh/Brahmastra/Arijit Singh - Kesariya.flac"
	if got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestOutputPath_NoAlbumIsFlat(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:  "/music/{artist}/{album}",
		FileNameFormat: "{title}.{ext}",
	}

	meta := &TrackMetadata{Title: "Single", Artist: "Someone"}

	got := OutputPath(meta, FormatMP3, cfg)
	want := "/music/Someone/Single.mp3"
	if got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestOutputPath_SanitizesMetadata(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:  "/music/{artist}",
		FileNameFormat: "{title}.{ext}",
	}

	meta := &TrackMetadata{Title: "What: Is/Love?", Artist: "A*B"}

	got := OutputPath(meta, FormatMP3, cfg)
	want := "/music/A_B/What_ Is_Love_.mp3"
	if got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"mp3", FormatMP3, false},
		{"FLAC", FormatFLAC, false},
		{" m4a ", FormatM4A, false},
		{"opus", FormatOpus, false},
		{"wav", FormatWAV, false},
		{"ogg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDownloadSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    DownloadSpec
		wantErr bool
	}{
		{"mp3 with bitrate", DownloadSpec{Format: FormatMP3, BitrateKbps: 256}, false},
		{"mp3 without bitrate", DownloadSpec{Format: FormatMP3}, false},
		{"flac without bitrate", DownloadSpec{Format: FormatFLAC}, false},
		{"flac with bitrate", DownloadSpec{Format: FormatFLAC, BitrateKbps: 320}, true},
		{"wav with bitrate", DownloadSpec{Format: FormatWAV, BitrateKbps: 128}, true},
		{"negative bitrate", DownloadSpec{Format: FormatMP3, BitrateKbps: -1}, true},
		{"unknown format", DownloadSpec{Format: "ogg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDownloadSpec_EffectiveBitrate(t *testing.T) {
	tests := []struct {
		name string
		spec DownloadSpec
		want int
	}{
		{"mp3 default", DownloadSpec{Format: FormatMP3}, 320},
		{"mp3 explicit", DownloadSpec{Format: FormatMP3, BitrateKbps: 192}, 192},
		{"opus default", DownloadSpec{Format: FormatOpus}, 320},
		{"flac never has a bitrate", DownloadSpec{Format: FormatFLAC}, 0},
		{"wav never has a bitrate", DownloadSpec{Format: FormatWAV}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.EffectiveBitrate(); got != tt.want {
				t.Errorf("EffectiveBitrate() = %d, want %d", got, tt.want)
			}
		})
	}
}
