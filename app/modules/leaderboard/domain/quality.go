package leaderboarddomain

import (
	"github.com/google/uuid"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
)

// Hits counts, per participant, how often each scoring component was earned.
type Hits struct {
	UserID         uuid.UUID
	DisplayName    string
	MatchesCounted int
	Points         float64
	Outcome        int
	Diff           int
	Exact          int
	NearMiss       int
}

// Archetype is a coarse label for how a participant tends to score.
type Archetype string

const (
	ArchetypeNewcomer     Archetype = "newcomer"
	ArchetypeSharpshooter Archetype = "sharpshooter"
	ArchetypeTactician    Archetype = "tactician"
	ArchetypeReader       Archetype = "reader"
	ArchetypeLongshot     Archetype = "longshot"
)

// Tunable thresholds for the archetype labels.
const (
	minMatchesForArchetype = 3
	sharpshooterExactPct   = 25.0
	tacticianDiffPct       = 40.0
	readerOutcomePct       = 55.0
)

type QualityRate struct {
	UserID         uuid.UUID `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	MatchesCounted int       `json:"matches_counted"`
	OutcomeHits    int       `json:"outcome_hits"`
	DiffHits       int       `json:"diff_hits"`
	ExactHits      int       `json:"exact_hits"`
	NearMisses     int       `json:"near_misses"`
	OutcomePct     float64   `json:"outcome_pct"`
	DiffPct        float64   `json:"diff_pct"`
	ExactPct       float64   `json:"exact_pct"`
	AvgPoints      float64   `json:"avg_points"`
	Archetype      Archetype `json:"archetype"`
}

// Quality converts hit counts into percentages of matches counted. A user
// with no scored matches gets zero rates.
func Quality(h Hits) QualityRate {
	q := QualityRate{
		UserID:         h.UserID,
		DisplayName:    h.DisplayName,
		MatchesCounted: h.MatchesCounted,
		OutcomeHits:    h.Outcome,
		DiffHits:       h.Diff,
		ExactHits:      h.Exact,
		NearMisses:     h.NearMiss,
	}
	if h.MatchesCounted > 0 {
		n := float64(h.MatchesCounted)
		q.OutcomePct = scoringdomain.Round2(float64(h.Outcome) * 100 / n)
		q.DiffPct = scoringdomain.Round2(float64(h.Diff) * 100 / n)
		q.ExactPct = scoringdomain.Round2(float64(h.Exact) * 100 / n)
		q.AvgPoints = scoringdomain.Round2(h.Points / n)
	}
	q.Archetype = classify(q)
	return q
}

func classify(q QualityRate) Archetype {
	switch {
	case q.MatchesCounted < minMatchesForArchetype:
		return ArchetypeNewcomer
	case q.ExactPct >= sharpshooterExactPct:
		return ArchetypeSharpshooter
	case q.DiffPct >= tacticianDiffPct:
		return ArchetypeTactician
	case q.OutcomePct >= readerOutcomePct:
		return ArchetypeReader
	default:
		return ArchetypeLongshot
	}
}
