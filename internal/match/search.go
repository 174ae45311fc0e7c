package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"saavndl/internal/model"
)

// ErrNoMatch is returned when no candidate survives ranking.
//
// This happens when the search returns nothing, every candidate is beyond
// the duration cutoff, or nothing reaches the minimum score.
var ErrNoMatch = errors.New("no acceptable match found")

// SearchFunc returns raw candidates for a query, best-effort and unranked.
type SearchFunc func(ctx context.Context, query string, limit int) ([]model.Candidate, error)

// Matcher searches YouTube for a track and picks the best candidate.
//
// The search itself is injectable so ranking behavior can be exercised
// without the network; production matchers use YTSearch, which shells out
// to yt-dlp's flat search.
//
// Example usage:
//
//	matcher := match.NewMatcher(match.Policy{
//	    DurationToleranceSeconds: 10,
//	    DurationCutoffSeconds:    30,
//	    MinScore:                 0.3,
//	}, 10)
//
//	winner, ranked, err := matcher.Match(ctx, meta)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("matched %s (%.2f)\n", winner.WatchURL(), winner.Score)
type Matcher struct {
	policy Policy
	limit  int
	search SearchFunc
}

// NewMatcher creates a Matcher that searches via yt-dlp.
func NewMatcher(policy Policy, limit int) *Matcher {
	if limit <= 0 {
		limit = 10
	}
	return &Matcher{
		policy: policy,
		limit:  limit,
		search: YTSearch,
	}
}

// Match searches for the track and returns the winning candidate plus the
// full ranked list (best-first, scores populated).
//
// Returns ErrNoMatch when no candidate survives ranking; check with
// errors.Is. The winner is deterministic for a given metadata and search
// result set.
func (m *Matcher) Match(ctx context.Context, meta *model.TrackMetadata) (*model.Candidate, []model.Candidate, error) {
	candidates, err := m.search(ctx, meta.Query(), m.limit)
	if err != nil {
		return nil, nil, fmt.Errorf("search failed: %w", err)
	}

	ranked := Rank(meta, candidates, m.policy)
	if len(ranked) == 0 {
		return nil, nil, fmt.Errorf("%w for %q", ErrNoMatch, meta.Query())
	}

	return &ranked[0], ranked, nil
}

// ytSearchEntry is one line of yt-dlp's flat-playlist JSON dump.
type ytSearchEntry struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Uploader        string  `json:"uploader"`
	Channel         string  `json:"channel"`
	Duration        float64 `json:"duration"`
	ChannelVerified bool    `json:"channel_is_verified"`
}

// YTSearch queries YouTube through yt-dlp's search protocol
// ("ytsearchN:query") without downloading anything.
//
// Flat extraction keeps this to a single request; each result line is a
// JSON object with the id, title, uploader and duration we rank on.
func YTSearch(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	result, err := ytdlp.New().
		SkipDownload().
		FlatPlaylist().
		DumpJSON().
		NoWarnings().
		Run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, err
	}

	var candidates []model.Candidate
	for rank, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry ytSearchEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.ID == "" {
			continue
		}

		uploader := entry.Uploader
		if uploader == "" {
			uploader = entry.Channel
		}

		candidates = append(candidates, model.Candidate{
			SourceID: entry.ID,
			Title:    entry.Title,
			Uploader: uploader,
			Duration: int(entry.Duration),
			Verified: entry.ChannelVerified,
			Rank:     rank,
		})
	}

	return candidates, nil
}
