package leaderboarddomain

import (
	"time"

	"github.com/google/uuid"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
)

// Award is one ledger row of a user, already ordered by match kickoff.
type Award struct {
	MatchID   uuid.UUID
	KickoffAt time.Time
	Points    float64
}

type SeriesPoint struct {
	MatchID    uuid.UUID `json:"match_id"`
	KickoffAt  time.Time `json:"kickoff_at"`
	Points     float64   `json:"points"`
	Cumulative float64   `json:"cumulative"`
}

// Cumulative adds a running total to time-ordered awards.
func Cumulative(awards []Award) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(awards))
	var running float64
	for _, a := range awards {
		running = scoringdomain.Round2(running + a.Points)
		out = append(out, SeriesPoint{
			MatchID:    a.MatchID,
			KickoffAt:  a.KickoffAt,
			Points:     a.Points,
			Cumulative: running,
		})
	}
	return out
}
