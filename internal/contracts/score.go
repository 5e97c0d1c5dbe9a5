package contracts

// Score bounds and the neutral default returned when a record fails
// coercion.
const (
	ScoreMin     = 0
	ScoreMax     = 100
	ScoreDefault = 50
)

// Investment ratings derived from the final score.
const (
	RatingHighlyRecommended = "highly_recommended" // score >= 80
	RatingRecommended       = "recommended"        // score >= 60
	RatingNotRecommended    = "not_recommended"
)

// Factor is a single scoring rule's contribution. Delta may be zero
// for purely informational entries; Reason is empty when the rule has
// nothing to say about the property.
type Factor struct {
	Name   string `json:"name"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

// ScoreResult is the outcome of one scoring run. Factors preserve rule
// evaluation order. Degraded marks the default score returned when the
// record failed numeric coercion; it is an explicit outcome, not an
// error.
type ScoreResult struct {
	Score    int      `json:"score"`
	Factors  []Factor `json:"factors"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Reasons returns the rationale strings of all factors that emitted
// one, in evaluation order.
func (r ScoreResult) Reasons() []string {
	reasons := make([]string, 0, len(r.Factors))
	for _, f := range r.Factors {
		if f.Reason != "" {
			reasons = append(reasons, f.Reason)
		}
	}
	return reasons
}

// Recommended reports whether the property clears the investment bar.
func (r ScoreResult) Recommended() bool {
	return r.Score >= 60
}

// Rating maps the score onto the recommendation bands shown to users.
func (r ScoreResult) Rating() string {
	switch {
	case r.Score >= 80:
		return RatingHighlyRecommended
	case r.Score >= 60:
		return RatingRecommended
	default:
		return RatingNotRecommended
	}
}

// ClampScore bounds a raw rule-sum into the valid score range.
func ClampScore(raw int) int {
	if raw < ScoreMin {
		return ScoreMin
	}
	if raw > ScoreMax {
		return ScoreMax
	}
	return raw
}
