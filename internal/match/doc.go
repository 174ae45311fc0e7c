// Package match finds the YouTube source for a track.
//
// A search query is built from the track's title and artist, candidates come
// back from yt-dlp's flat search, and a pure ranking step scores each one by
// text similarity and duration closeness. Ranking is deterministic: the same
// metadata and candidate list always produce the same winner.
//
//	matcher := match.NewMatcher(policy, limit)
//	winner, ranked, err := matcher.Match(ctx, meta)
//	if errors.Is(err, match.ErrNoMatch) {
//	    // nothing plausible on YouTube, skip the track
//	}
package match
