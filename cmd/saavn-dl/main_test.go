package main

import (
	"testing"

	"saavndl/internal/config"
	"saavndl/internal/model"
)

func TestBuildSpec(t *testing.T) {
	tests := []struct {
		name            string
		format          string
		configBitrate   int
		explicitBitrate int
		wantBitrate     int
		wantErr         bool
	}{
		{
			name:            "explicit bitrate on flac is rejected",
			format:          "flac",
			explicitBitrate: 320,
			wantErr:         true,
		},
		{
			name:            "explicit bitrate on wav is rejected",
			format:          "wav",
			explicitBitrate: 256,
			wantErr:         true,
		},
		{
			name:          "stored config bitrate on flac is dropped",
			format:        "flac",
			configBitrate: 320,
			wantBitrate:   0,
		},
		{
			name:            "explicit bitrate on mp3 is honored",
			format:          "mp3",
			configBitrate:   128,
			explicitBitrate: 256,
			wantBitrate:     256,
		},
		{
			name:        "mp3 without any bitrate stays unset",
			format:      "mp3",
			wantBitrate: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.DefaultSettings()
			settings.Format = tt.format
			settings.BitrateKbps = tt.configBitrate

			spec, err := buildSpec(settings, tt.explicitBitrate)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("buildSpec(%s, %d) succeeded, want error", tt.format, tt.explicitBitrate)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if spec.Format != model.Format(tt.format) {
				t.Errorf("Format = %s, want %s", spec.Format, tt.format)
			}
			if spec.BitrateKbps != tt.wantBitrate {
				t.Errorf("BitrateKbps = %d, want %d", spec.BitrateKbps, tt.wantBitrate)
			}
		})
	}
}

func TestCollectURLs(t *testing.T) {
	urls := collectURLs("https://a.example/song/x, https://b.example/song/y", []string{"https://c.example/song/z"})
	want := []string{"https://a.example/song/x", "https://b.example/song/y", "https://c.example/song/z"}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}

	if got := collectURLs("", nil); got != nil {
		t.Errorf("empty input produced %v", got)
	}
}
