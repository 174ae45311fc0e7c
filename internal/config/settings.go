package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"saavndl/internal/model"
)

// Settings holds all configuration options.
//
// Settings is an explicit value handed to the pipeline at construction, not
// ambient process state, so concurrent pipelines with different settings can
// coexist safely.
type Settings struct {
	// Download settings
	DownloadsPath       string  `json:"downloads_path"`
	FileNameFormat      string  `json:"file_name_format"`
	Format              string  `json:"format"`
	BitrateKbps         int     `json:"bitrate_kbps"`
	MaxConcurrentTracks int     `json:"max_concurrent_tracks"`
	FetchMaxRetries     int     `json:"fetch_max_retries"`
	FetchRetryCooldown  float64 `json:"fetch_retry_cooldown"`
	FetchRetryExponent  float64 `json:"fetch_retry_exponent"`

	// Matching settings. The thresholds are policy knobs, not constants:
	// tolerance is where the duration penalty starts, cutoff is where a
	// candidate is excluded outright.
	SearchLimit              int     `json:"search_limit"`
	DurationToleranceSeconds int     `json:"duration_tolerance_seconds"`
	DurationCutoffSeconds    int     `json:"duration_cutoff_seconds"`
	MinMatchScore            float64 `json:"min_match_score"`

	// Tag settings
	ModifyTags         bool `json:"modify_tags"`
	StrictTagging      bool `json:"strict_tagging"`
	SaveCoverArtInTags bool `json:"save_cover_art_in_tags"`
	CoverArtResize     bool `json:"cover_art_resize"`
	CoverArtMaxSize    int  `json:"cover_art_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:       filepath.Join(homeDir, "Music", "Saavn", "{artist}", "{album}"),
		FileNameFormat:      "{artist} - {title}.{ext}",
		Format:              string(model.FormatFLAC),
		BitrateKbps:         0,
		MaxConcurrentTracks: 3,
		FetchMaxRetries:     3,
		FetchRetryCooldown:  1.0,
		FetchRetryExponent:  2.0,

		SearchLimit:              10,
		DurationToleranceSeconds: 10,
		DurationCutoffSeconds:    30,
		MinMatchScore:            0.3,

		ModifyTags:         true,
		StrictTagging:      false,
		SaveCoverArtInTags: true,
		CoverArtResize:     true,
		CoverArtMaxSize:    1000,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so first runs work
// without any setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}
}

// Spec builds the DownloadSpec configured as the per-run default.
func (s *Settings) Spec() model.DownloadSpec {
	spec := model.DownloadSpec{
		Format:      model.Format(s.Format),
		BitrateKbps: s.BitrateKbps,
	}
	if spec.Format.Lossless() {
		spec.BitrateKbps = 0
	}
	return spec
}
