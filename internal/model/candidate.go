package model

// Candidate is a single search result from the external provider considered
// as a potential audio-source match.
//
// Candidates are produced by the matcher with Score populated, consumed once
// to select a winner, and never persisted.
type Candidate struct {
	// SourceID is the provider's identifier for the stream (a video ID).
	SourceID string

	// Title is the result title as reported by the provider.
	Title string

	// Uploader is the channel or account that published the result.
	Uploader string

	// Duration is the result length in seconds.
	Duration int

	// Verified is set when the provider marks the uploader as an official
	// or verified channel.
	Verified bool

	// Rank is the 0-based position of the result in the provider's own
	// ordering. Used as the final tie-breaker during re-ranking.
	Rank int

	// Score is the equivalence score assigned by the matcher, higher is
	// better. Zero until ranked.
	Score float64
}

// WatchURL returns the provider URL for the candidate's stream.
func (c Candidate) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + c.SourceID
}
