package match

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"saavndl/internal/model"
)

// Score weights. Text similarity dominates; duration closeness breaks up
// covers and extended cuts that share a title.
const (
	textWeight     = 0.65
	durationWeight = 0.35
	verifiedBonus  = 0.05
)

// Policy holds the ranking thresholds.
//
// DurationToleranceSeconds is where the duration penalty starts;
// DurationCutoffSeconds is where a candidate is excluded outright. A
// candidate whose total score falls below MinScore is also excluded, so a
// search that only returned unrelated videos yields no match rather than a
// bad one.
type Policy struct {
	DurationToleranceSeconds int
	DurationCutoffSeconds    int
	MinScore                 float64
}

// Rank scores and orders candidates against the track's metadata.
//
// The returned slice is a new slice ordered best-first, with Score set on
// every entry. Candidates beyond the duration cutoff or below the minimum
// score are dropped. Ties are broken by verified uploader first, then by
// the original search rank, so ranking is stable across runs.
//
// Rank is pure: it never touches the network, and the inputs are not
// modified.
func Rank(meta *model.TrackMetadata, candidates []model.Candidate, policy Policy) []model.Candidate {
	query := normalize(meta.Query())

	ranked := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		durScore, ok := durationScore(meta.Duration, c.Duration, policy)
		if !ok {
			continue
		}

		text := similarity(normalize(c.Title), query)
		// The uploader often carries the artist name when the video title
		// does not, so take the better of the two readings.
		if withUploader := similarity(normalize(c.Title+" "+c.Uploader), query); withUploader > text {
			text = withUploader
		}

		score := textWeight*text + durationWeight*durScore
		if c.Verified {
			score += verifiedBonus
		}
		if score < policy.MinScore {
			continue
		}

		c.Score = score
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Verified != ranked[j].Verified {
			return ranked[i].Verified
		}
		return ranked[i].Rank < ranked[j].Rank
	})

	return ranked
}

// durationScore rates how close a candidate's duration is to the track's.
//
// Within the tolerance the score is 1.0; it decays linearly to 0 at the
// cutoff, beyond which the candidate is excluded (ok=false). When either
// duration is unknown the score is a neutral 0.5: an unknown duration is
// no evidence either way.
func durationScore(want, got int, policy Policy) (score float64, ok bool) {
	if want <= 0 || got <= 0 {
		return 0.5, true
	}

	diff := want - got
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= policy.DurationToleranceSeconds:
		return 1.0, true
	case diff >= policy.DurationCutoffSeconds:
		return 0, false
	default:
		span := float64(policy.DurationCutoffSeconds - policy.DurationToleranceSeconds)
		return 1.0 - float64(diff-policy.DurationToleranceSeconds)/span, true
	}
}

// normalize lowercases a string and strips punctuation so that
// "Kesariya (Official Video)" and "kesariya official video" compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// similarity returns a 0..1 score from the Levenshtein distance between two
// normalized strings. Identical strings score 1; fully distinct score 0.
// Lengths are measured in runes, matching the distance, so multi-byte
// titles are not inflated.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings using two
// rolling rows.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
