package match

import (
	"context"
	"errors"
	"testing"

	"saavndl/internal/model"
)

var testPolicy = Policy{
	DurationToleranceSeconds: 10,
	DurationCutoffSeconds:    30,
	MinScore:                 0.3,
}

func kesariyaMeta() *model.TrackMetadata {
	return &model.TrackMetadata{
		Title:    "Kesariya",
		Artist:   "Arijit Singh",
		Album:    "Brahmastra",
		Duration: 268,
	}
}

func TestRank_PrefersDurationMatch(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "lofi", Title: "Kesariya Arijit Singh (Slowed + Reverb)", Uploader: "Lofi Nation", Duration: 310, Rank: 0},
		{SourceID: "official", Title: "Kesariya (Official Video)", Uploader: "Arijit Singh", Duration: 270, Verified: true, Rank: 1},
	}

	ranked := Rank(meta, candidates, testPolicy)
	if len(ranked) == 0 {
		t.Fatal("got no candidates, want at least the official video")
	}
	if ranked[0].SourceID != "official" {
		t.Errorf("winner = %q, want %q", ranked[0].SourceID, "official")
	}
}

func TestRank_ExcludesBeyondCutoff(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "hourloop", Title: "Kesariya Arijit Singh 1 Hour Loop", Uploader: "Loops", Duration: 3600, Rank: 0},
	}

	ranked := Rank(meta, candidates, testPolicy)
	if len(ranked) != 0 {
		t.Errorf("got %d candidates, want 0 (beyond duration cutoff)", len(ranked))
	}
}

func TestRank_UnknownDurationIsNeutral(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "nodur", Title: "Kesariya Arijit Singh", Uploader: "Music", Duration: 0, Rank: 0},
	}

	ranked := Rank(meta, candidates, testPolicy)
	if len(ranked) != 1 {
		t.Fatalf("got %d candidates, want 1 (unknown duration is not excluded)", len(ranked))
	}
	if ranked[0].Score <= 0 {
		t.Errorf("Score = %f, want > 0", ranked[0].Score)
	}
}

func TestRank_ExcludesUnrelated(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "unrelated", Title: "Top 10 Cooking Hacks", Uploader: "Kitchen Channel", Duration: 265, Rank: 0},
	}

	ranked := Rank(meta, candidates, testPolicy)
	if len(ranked) != 0 {
		t.Errorf("got %d candidates, want 0 (below minimum score)", len(ranked))
	}
}

func TestRank_Deterministic(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "a", Title: "Kesariya Full Song", Uploader: "Channel A", Duration: 268, Rank: 0},
		{SourceID: "b", Title: "Kesariya Full Song", Uploader: "Channel B", Duration: 268, Rank: 1},
		{SourceID: "c", Title: "Kesariya (Lyrical)", Uploader: "Channel C", Duration: 269, Rank: 2},
	}

	first := Rank(meta, candidates, testPolicy)
	for i := 0; i < 5; i++ {
		again := Rank(meta, candidates, testPolicy)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d candidates, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].SourceID != first[j].SourceID {
				t.Fatalf("run %d: position %d = %q, want %q", i, j, again[j].SourceID, first[j].SourceID)
			}
		}
	}
}

func TestRank_TieBreaksOnSearchRank(t *testing.T) {
	meta := kesariyaMeta()
	// Identical except for search rank: the earlier result must win.
	candidates := []model.Candidate{
		{SourceID: "second", Title: "Kesariya Arijit Singh", Uploader: "Mirror", Duration: 268, Rank: 1},
		{SourceID: "first", Title: "Kesariya Arijit Singh", Uploader: "Mirror", Duration: 268, Rank: 0},
	}

	ranked := Rank(meta, candidates, testPolicy)
	if len(ranked) != 2 {
		t.Fatalf("got %d candidates, want 2", len(ranked))
	}
	if ranked[0].SourceID != "first" {
		t.Errorf("winner = %q, want %q (lower search rank wins ties)", ranked[0].SourceID, "first")
	}
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	meta := kesariyaMeta()
	candidates := []model.Candidate{
		{SourceID: "a", Title: "Kesariya", Uploader: "X", Duration: 268, Rank: 0},
	}

	Rank(meta, candidates, testPolicy)
	if candidates[0].Score != 0 {
		t.Errorf("input candidate Score = %f, want 0 (input must not be modified)", candidates[0].Score)
	}
}

func TestMatcher_Match(t *testing.T) {
	matcher := NewMatcher(testPolicy, 10)
	matcher.search = func(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
		return []model.Candidate{
			{SourceID: "official", Title: "Kesariya (Official Video)", Uploader: "Arijit Singh", Duration: 270, Verified: true, Rank: 0},
			{SourceID: "cover", Title: "Kesariya Cover", Uploader: "Someone", Duration: 250, Rank: 1},
		}, nil
	}

	winner, ranked, err := matcher.Match(context.Background(), kesariyaMeta())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if winner.SourceID != "official" {
		t.Errorf("winner = %q, want %q", winner.SourceID, "official")
	}
	if len(ranked) != 2 {
		t.Errorf("got %d ranked candidates, want 2", len(ranked))
	}
	if want := "https://www.youtube.com/watch?v=official"; winner.WatchURL() != want {
		t.Errorf("WatchURL = %q, want %q", winner.WatchURL(), want)
	}
}

func TestMatcher_NoMatch(t *testing.T) {
	matcher := NewMatcher(testPolicy, 10)
	matcher.search = func(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
		return nil, nil
	}

	_, _, err := matcher.Match(context.Background(), kesariyaMeta())
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kesariya (Official Video)", "kesariya official video"},
		{"KESARIYA | Brahmastra", "kesariya brahmastra"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity_MultiByte(t *testing.T) {
	// Three Devanagari letters replaced by three others is a full rewrite,
	// so the score must be 0 even though each letter is several bytes.
	if got := similarity("कखग", "घचछ"); got != 0 {
		t.Errorf("similarity of fully distinct Devanagari strings = %v, want 0", got)
	}

	if got := similarity("केसरिया", "केसरिया"); got != 1.0 {
		t.Errorf("similarity of identical Devanagari strings = %v, want 1", got)
	}

	// ASCII and Devanagari strings with the same rune-level edit profile
	// score the same.
	ascii := similarity("abc", "abd")
	deva := similarity("कखग", "कखघ")
	if ascii != deva {
		t.Errorf("one-substitution score differs by script: ascii %v, devanagari %v", ascii, deva)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"kesariya", "kesariya", 0},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
