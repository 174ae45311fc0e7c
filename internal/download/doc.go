// Package download orchestrates the song pipeline: extract metadata from
// the catalog, match a YouTube source, fetch and transcode the audio, and
// embed tags.
//
// # Pipeline
//
// The Pipeline runs each track through four stages:
//
//  1. Extract metadata from the catalog page
//  2. Match the best YouTube candidate
//  3. Fetch and transcode the audio
//  4. Tag the produced file
//
// # Basic Usage
//
//	pipeline := download.NewPipeline(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	results, err := pipeline.RunAll(ctx, urls, settings.Spec())
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("%s failed: %v", r.URL, r.Err)
//	    }
//	}
//
// # Concurrency
//
// Tracks run concurrently up to settings.MaxConcurrentTracks. Tracks are
// independent: each gets its own Result, and one failure never aborts the
// batch.
//
// # Progress Tracking
//
// Progress is reported via a callback receiving ProgressEvent values:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Failure Reporting
//
// A failed track's Result.Err is a *StageError naming the stage that
// failed, with the cause available through errors.Unwrap.
package download
