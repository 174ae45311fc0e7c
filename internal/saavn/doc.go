// Package saavn extracts track metadata from JioSaavn catalog pages.
//
// The catalog embeds structured data in its HTML two ways: an ld+json
// MusicRecording block, and a window.__INITIAL_DATA__ JavaScript object
// carrying the full song entity. The extractor prefers ld+json and falls
// back to the entity data, then to the page <title> when both are missing,
// so a track with partial metadata still flows through the pipeline.
//
//	extractor := saavn.NewExtractor(client)
//	meta, err := extractor.Extract(ctx, songURL)
//	if errors.Is(err, saavn.ErrNotFound) {
//	    // bad URL, report and move on
//	}
package saavn
