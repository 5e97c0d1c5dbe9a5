package contracts

import "testing"

func TestClampScore(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{-25, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{115, 100},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.raw); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestScoreResult_Rating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, RatingHighlyRecommended},
		{80, RatingHighlyRecommended},
		{79, RatingRecommended},
		{60, RatingRecommended},
		{59, RatingNotRecommended},
		{0, RatingNotRecommended},
	}

	for _, tt := range tests {
		r := ScoreResult{Score: tt.score}
		if got := r.Rating(); got != tt.want {
			t.Errorf("Rating() with score %d = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreResult_Recommended(t *testing.T) {
	if (ScoreResult{Score: 59}).Recommended() {
		t.Error("score 59 should not be recommended")
	}
	if !(ScoreResult{Score: 60}).Recommended() {
		t.Error("score 60 should be recommended")
	}
}

func TestScoreResult_Reasons(t *testing.T) {
	r := ScoreResult{Factors: []Factor{
		{Name: "price_vs_market", Delta: 25, Reason: "below median"},
		{Name: "infrastructure", Delta: 0, Reason: "limited infrastructure"},
		{Name: "silent", Delta: 5},
	}}

	reasons := r.Reasons()
	if len(reasons) != 2 {
		t.Fatalf("Reasons() returned %d entries, want 2", len(reasons))
	}
	if reasons[0] != "below median" || reasons[1] != "limited infrastructure" {
		t.Errorf("Reasons() order mismatch: %v", reasons)
	}
}
