// Package model defines the core data structures passed between the
// pipeline stages.
//
// # TrackMetadata
//
// TrackMetadata is the authoritative song description extracted from the
// source catalog:
//
//	meta, err := extractor.Extract(ctx, url)
//	fmt.Println(meta.Query()) // search text for the external provider
//
// # Candidate
//
// Candidate represents one external search result under consideration as an
// audio source. Candidates are scored and ordered by the matcher; exactly one
// winner is consumed per run.
//
// # DownloadSpec
//
// DownloadSpec carries the requested container and bitrate:
//
//	spec := model.DownloadSpec{Format: model.FormatMP3, BitrateKbps: 256}
//	if err := spec.Validate(); err != nil { ... }
//
// # Path computation
//
// PathConfig controls where produced files land, using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:  "/music/{artist}/{album}",
//	    FileNameFormat: "{artist} - {title}.{ext}",
//	}
//	path := model.OutputPath(meta, model.FormatFLAC, cfg)
//
// Available placeholders: {artist}, {album}, {title}, {year}, {ext}.
// Template segments that resolve to nothing are dropped, so tracks without
// album context are stored flat under the artist directory.
package model
