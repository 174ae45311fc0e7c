package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"saavndl/internal/audio"
	"saavndl/internal/config"
	"saavndl/internal/fetch"
	httpclient "saavndl/internal/http"
	ioutils "saavndl/internal/io"
	"saavndl/internal/match"
	"saavndl/internal/model"
	"saavndl/internal/saavn"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Stage identifies the pipeline stage a track is in, and where it failed.
type Stage int

const (
	StageExtracting Stage = iota
	StageMatching
	StageFetching
	StageTagging
	StageDone
)

// String returns the stage name used in progress messages and errors.
func (s Stage) String() string {
	switch s {
	case StageExtracting:
		return "extracting"
	case StageMatching:
		return "matching"
	case StageFetching:
		return "fetching"
	case StageTagging:
		return "tagging"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// StageError wraps a failure with the stage it occurred in, so callers can
// report both the track and the point of failure.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one track's run through the pipeline.
//
// Fields are populated as far as the track got: a match failure still
// carries the extracted metadata, a tagging failure still names the winner.
// Err is nil only when the track completed.
type Result struct {
	URL      string
	Metadata *model.TrackMetadata
	Winner   *model.Candidate
	Output   *model.OutputFile
	Err      error
}

// MetadataExtractor extracts track metadata from catalog URLs.
type MetadataExtractor interface {
	Extract(ctx context.Context, url string) (*model.TrackMetadata, error)
	ExtractAlbum(ctx context.Context, url string) ([]*model.TrackMetadata, error)
}

// CandidateMatcher picks the external source for a track.
type CandidateMatcher interface {
	Match(ctx context.Context, meta *model.TrackMetadata) (*model.Candidate, []model.Candidate, error)
}

// MediaFetcher downloads and transcodes a matched candidate.
type MediaFetcher interface {
	Fetch(ctx context.Context, candidate *model.Candidate, spec model.DownloadSpec, destPath string) (*model.OutputFile, error)
}

// TagWriter embeds metadata into a produced file.
type TagWriter interface {
	Tag(path string, meta *model.TrackMetadata, artwork []byte) error
}

// Pipeline coordinates track downloads: extract, match, fetch, tag.
//
// Tracks are independent; one failing never aborts the others. Each track's
// outcome is reported as a Result carrying the failed stage when it did not
// complete.
type Pipeline struct {
	settings     *config.Settings
	extractor    MetadataExtractor
	matcher      CandidateMatcher
	fetcher      MediaFetcher
	tagger       TagWriter
	httpClient   *httpclient.Client
	imageService *ioutils.ImageService

	totalTracks     int32
	completedTracks int32
	failedTracks    int32

	onProgress func(ProgressEvent)
}

// NewPipeline creates a Pipeline wired with the production stages.
func NewPipeline(settings *config.Settings, onProgress func(ProgressEvent)) *Pipeline {
	client := httpclient.NewClient()

	fetcher := fetch.NewFetcher(fetch.RetryPolicy{
		MaxRetries: settings.FetchMaxRetries,
		Cooldown:   settings.FetchRetryCooldown,
		Exponent:   settings.FetchRetryExponent,
	})

	p := &Pipeline{
		settings:  settings,
		extractor: saavn.NewExtractor(client),
		matcher: match.NewMatcher(match.Policy{
			DurationToleranceSeconds: settings.DurationToleranceSeconds,
			DurationCutoffSeconds:    settings.DurationCutoffSeconds,
			MinScore:                 settings.MinMatchScore,
		}, settings.SearchLimit),
		fetcher:      fetcher,
		tagger:       audio.NewTagger(),
		httpClient:   client,
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}

	fetcher.OnProgress(func(downloadedBytes int64) {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %.1f MB", float64(downloadedBytes)/1024/1024), Level: LevelVerbose})
	})

	return p
}

// Run processes a single song URL through every stage and returns its
// Result. The error, if any, is also recorded in the Result.
func (p *Pipeline) Run(ctx context.Context, url string, spec model.DownloadSpec) Result {
	result := Result{URL: url}

	if err := spec.Validate(); err != nil {
		result.Err = err
		return p.finish(result)
	}

	p.progress(ProgressEvent{Message: fmt.Sprintf("Extracting metadata: %s", url), Level: LevelVerbose})

	meta, err := p.extractor.Extract(ctx, url)
	if err != nil {
		result.Err = &StageError{Stage: StageExtracting, Err: err}
		return p.finish(result)
	}
	result.Metadata = meta

	return p.runTrack(ctx, result, spec)
}

// Probe runs only the extract and match stages for a song URL, downloading
// nothing. Used for dry runs.
func (p *Pipeline) Probe(ctx context.Context, url string) (*model.TrackMetadata, *model.Candidate, error) {
	meta, err := p.extractor.Extract(ctx, url)
	if err != nil {
		return nil, nil, &StageError{Stage: StageExtracting, Err: err}
	}

	winner, _, err := p.matcher.Match(ctx, meta)
	if err != nil {
		return meta, nil, &StageError{Stage: StageMatching, Err: err}
	}

	return meta, winner, nil
}

// RunAll processes a batch of song and album URLs with bounded concurrency.
//
// Album URLs expand into one Result per track. Every Result is returned,
// failed tracks included; RunAll itself only errors when the context is
// canceled before all tracks settle.
func (p *Pipeline) RunAll(ctx context.Context, urls []string, spec model.DownloadSpec) ([]Result, error) {
	type job struct {
		url  string
		meta *model.TrackMetadata
	}

	var jobs []job
	var failed []Result

	for _, url := range urls {
		if !strings.Contains(url, "/album/") {
			jobs = append(jobs, job{url: url})
			continue
		}

		p.progress(ProgressEvent{Message: fmt.Sprintf("Expanding album: %s", url), Level: LevelInfo})
		tracks, err := p.extractor.ExtractAlbum(ctx, url)
		if err != nil {
			p.progress(ProgressEvent{Message: fmt.Sprintf("Error expanding %s: %v", url, err), Level: LevelError})
			failed = append(failed, Result{URL: url, Err: &StageError{Stage: StageExtracting, Err: err}})
			continue
		}
		for _, meta := range tracks {
			jobs = append(jobs, job{url: url, meta: meta})
		}
	}

	atomic.StoreInt32(&p.totalTracks, int32(len(jobs)+len(failed)))
	atomic.StoreInt32(&p.completedTracks, 0)
	atomic.StoreInt32(&p.failedTracks, int32(len(failed)))

	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.MaxConcurrentTracks)

	for i, j := range jobs {
		i, j := i, j // capture
		g.Go(func() error {
			if j.meta != nil {
				results[i] = p.runTrack(ctx, Result{URL: j.url, Metadata: j.meta}, spec)
			} else {
				results[i] = p.Run(ctx, j.url, spec)
			}
			return nil // Continue with other tracks
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(failed, results...), ctx.Err()
}

// GetProgress returns current batch progress.
func (p *Pipeline) GetProgress() (completed, failed, total int32) {
	return atomic.LoadInt32(&p.completedTracks),
		atomic.LoadInt32(&p.failedTracks),
		atomic.LoadInt32(&p.totalTracks)
}

// runTrack runs the stages after extraction: match, fetch, tag.
func (p *Pipeline) runTrack(ctx context.Context, result Result, spec model.DownloadSpec) Result {
	meta := result.Metadata

	winner, _, err := p.matcher.Match(ctx, meta)
	if err != nil {
		result.Err = &StageError{Stage: StageMatching, Err: err}
		return p.finish(result)
	}
	result.Winner = winner
	p.progress(ProgressEvent{Message: fmt.Sprintf("Matched %s -> %s (score %.2f)", meta, winner.WatchURL(), winner.Score), Level: LevelVerbose})

	destPath := model.OutputPath(meta, spec.Format, p.settings.ToPathConfig())
	output, err := p.fetcher.Fetch(ctx, winner, spec, destPath)
	if err != nil {
		result.Err = &StageError{Stage: StageFetching, Err: err}
		return p.finish(result)
	}
	result.Output = output

	if err := p.tag(ctx, result.Output, meta); err != nil {
		// A half-tagged file is worse than no file.
		os.Remove(output.Path)
		result.Output = nil
		result.Err = &StageError{Stage: StageTagging, Err: err}
		return p.finish(result)
	}

	p.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", output.Path), Level: LevelSuccess})
	return p.finish(result)
}

// tag embeds metadata and artwork into the output file, honoring the
// strictness policy for containers without a tag schema.
func (p *Pipeline) tag(ctx context.Context, output *model.OutputFile, meta *model.TrackMetadata) error {
	if !p.settings.ModifyTags {
		return nil
	}

	artwork := p.downloadArtwork(ctx, meta)

	err := p.tagger.Tag(output.Path, meta, artwork)
	if err == nil {
		output.TagsWritten = true
		return nil
	}

	if errors.Is(err, audio.ErrUnsupportedSchema) && !p.settings.StrictTagging {
		p.progress(ProgressEvent{Message: fmt.Sprintf("No tag schema for %s, keeping file untagged", output.Format), Level: LevelWarning})
		return nil
	}

	return err
}

// downloadArtwork fetches and prepares cover art for embedding. Best
// effort: any failure is reported as a warning and tagging proceeds
// without a picture.
func (p *Pipeline) downloadArtwork(ctx context.Context, meta *model.TrackMetadata) []byte {
	if !p.settings.SaveCoverArtInTags || !meta.HasCoverArt() {
		return nil
	}

	artwork, err := p.httpClient.DownloadBytes(ctx, meta.CoverArtURL)
	if err != nil {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for %s: %v", meta, err), Level: LevelWarning})
		return nil
	}

	if p.settings.CoverArtResize {
		if resized, err := p.imageService.ResizeImage(ctx, artwork, p.settings.CoverArtMaxSize, p.settings.CoverArtMaxSize); err == nil {
			artwork = resized
		}
	}
	if converted, err := p.imageService.ConvertToJPEG(ctx, artwork); err == nil {
		artwork = converted
	}

	return artwork
}

// finish records the result in the batch counters and emits the terminal
// event for failed tracks.
func (p *Pipeline) finish(result Result) Result {
	if result.Err != nil {
		atomic.AddInt32(&p.failedTracks, 1)
		p.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", result.URL, result.Err), Level: LevelError})
	} else {
		atomic.AddInt32(&p.completedTracks, 1)
	}
	return result
}

func (p *Pipeline) progress(event ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}
