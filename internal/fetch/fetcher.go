package fetch

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	ioutils "saavndl/internal/io"
	"saavndl/internal/model"
)

// FetchError is returned when a download could not be completed after all
// retries. Attempts records how many times the download was tried.
type FetchError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("download failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// TranscodeError is returned when the stream downloaded but ffmpeg could not
// produce the requested format. Transcode failures are not retried.
type TranscodeError struct {
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// RetryPolicy controls how download attempts are spaced.
//
// The wait before retry n is Cooldown * Exponent^n seconds.
type RetryPolicy struct {
	MaxRetries int
	Cooldown   float64
	Exponent   float64
}

// Fetcher downloads and transcodes audio for a matched candidate.
//
// Example usage:
//
//	fetcher := fetch.NewFetcher(fetch.RetryPolicy{
//	    MaxRetries: 3,
//	    Cooldown:   1.0,
//	    Exponent:   2.0,
//	})
//
//	out, err := fetcher.Fetch(ctx, winner, spec, "/music/Artist/Song.flac")
//	if err != nil {
//	    var te *fetch.TranscodeError
//	    if errors.As(err, &te) {
//	        log.Printf("ffmpeg said: %s", te.Stderr)
//	    }
//	}
type Fetcher struct {
	retry      RetryPolicy
	onProgress func(downloadedBytes int64)

	// download runs one attempt into the staging directory. Injectable so
	// the retry and staging behavior is testable without yt-dlp.
	download func(ctx context.Context, url, staging string, spec model.DownloadSpec) error
}

// NewFetcher creates a Fetcher with the given retry policy.
func NewFetcher(retry RetryPolicy) *Fetcher {
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = 1
	}
	f := &Fetcher{retry: retry}
	f.download = f.runYtdlp
	return f
}

// OnProgress registers a callback receiving the number of bytes staged so
// far. Called periodically while a download is in flight.
func (f *Fetcher) OnProgress(fn func(downloadedBytes int64)) {
	f.onProgress = fn
}

// Fetch downloads the candidate's audio, transcodes it to the spec's format
// and moves the result to destPath (or a uniquely suffixed sibling when
// destPath already exists).
//
// The file appears at the output path only when fully downloaded and
// transcoded; on any failure or cancellation the staging directory is
// removed and nothing is left behind.
//
// Transient errors are retried per the retry policy and surface as
// *FetchError when exhausted. Transcoding errors surface as
// *TranscodeError immediately.
func (f *Fetcher) Fetch(ctx context.Context, candidate *model.Candidate, spec model.DownloadSpec, destPath string) (*model.OutputFile, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	destDir := filepath.Dir(destPath)
	if err := ioutils.EnsureDir(destDir); err != nil {
		return nil, err
	}

	// Stage on the same filesystem as the destination so the final move is
	// an atomic rename.
	staging, err := os.MkdirTemp(destDir, ".staging-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	var lastErr error
	for tries := 0; tries < f.retry.MaxRetries; tries++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = f.download(ctx, candidate.WatchURL(), staging, spec)
		if lastErr == nil {
			break
		}
		if _, ok := lastErr.(*TranscodeError); ok {
			return nil, lastErr
		}
		// No wait after the last attempt; the error surfaces immediately.
		if tries < f.retry.MaxRetries-1 {
			f.waitForRetry(ctx, tries)
		}
	}
	if lastErr != nil {
		return nil, &FetchError{Attempts: f.retry.MaxRetries, Err: lastErr}
	}

	produced, err := findProduced(staging, spec.Format)
	if err != nil {
		return nil, err
	}

	finalPath := ioutils.UniquePath(destPath)
	if err := os.Rename(produced, finalPath); err != nil {
		return nil, err
	}

	return &model.OutputFile{Path: finalPath, Format: spec.Format}, nil
}

// runYtdlp runs one yt-dlp attempt into the staging directory.
func (f *Fetcher) runYtdlp(ctx context.Context, url, staging string, spec model.DownloadSpec) error {
	stop := make(chan struct{})
	if f.onProgress != nil {
		go f.pollProgress(staging, stop)
	}

	cmd := ytdlp.New().
		ExtractAudio().
		AudioFormat(string(spec.Format)).
		AudioQuality("0").
		NoPlaylist().
		NoWarnings().
		Output(filepath.Join(staging, "audio.%(ext)s"))
	if args := postprocessorArgs(spec); args != "" {
		cmd = cmd.PostProcessorArgs(args)
	}

	result, err := cmd.Run(ctx, url)
	close(stop)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		if isTranscodeFailure(stderr) || isTranscodeFailure(err.Error()) {
			return &TranscodeError{Stderr: stderr, Err: err}
		}
		return err
	}
	return nil
}

// pollProgress reports the staged byte count every half second until the
// download attempt finishes. yt-dlp writes the stream into the staging
// directory, so the directory size tracks download progress.
func (f *Fetcher) pollProgress(staging string, stop <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			f.onProgress(dirSize(staging))
		}
	}
}

func dirSize(dir string) int64 {
	var total int64
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil && !entry.IsDir() {
			total += info.Size()
		}
	}
	return total
}

// postprocessorArgs returns the ffmpeg arguments for the spec's format.
//
// FLAC gets maximum compression; lossy formats get an explicit bitrate so
// the output matches the requested spec rather than ffmpeg's default.
func postprocessorArgs(spec model.DownloadSpec) string {
	switch spec.Format {
	case model.FormatFLAC:
		return "ffmpeg:-compression_level 12"
	case model.FormatMP3, model.FormatM4A, model.FormatOpus:
		return fmt.Sprintf("ffmpeg:-b:a %dk", spec.EffectiveBitrate())
	default:
		return ""
	}
}

// isTranscodeFailure reports whether yt-dlp output indicates a
// postprocessing (ffmpeg) failure rather than a network one.
func isTranscodeFailure(output string) bool {
	return strings.Contains(output, "Postprocessing")
}

// findProduced locates the transcoded file in the staging directory.
//
// yt-dlp names the output audio.<ext>; prefer the exact extension and fall
// back to the largest staged file if the container picked a different one.
func findProduced(staging string, format model.Format) (string, error) {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", err
	}

	want := "." + string(format)
	var largest string
	var largestSize int64

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(staging, entry.Name())
		if strings.EqualFold(filepath.Ext(entry.Name()), want) {
			return path, nil
		}
		if info, err := entry.Info(); err == nil && info.Size() > largestSize {
			largest = path
			largestSize = info.Size()
		}
	}

	if largest == "" {
		return "", fmt.Errorf("no output file produced in %s", staging)
	}
	return largest, nil
}

func (f *Fetcher) waitForRetry(ctx context.Context, tries int) {
	cooldown := f.retry.Cooldown * math.Pow(f.retry.Exponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}
