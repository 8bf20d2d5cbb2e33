// Package leaderboarddomain turns ledger aggregates into leaderboards,
// quality rates and point series. Everything here is pure.
package leaderboarddomain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
)

// Total is one participant's aggregate over a stage.
type Total struct {
	UserID         uuid.UUID
	DisplayName    string
	Points         float64
	MatchesCounted int
}

type Standing struct {
	Rank           int       `json:"rank"`
	UserID         uuid.UUID `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	Points         float64   `json:"points"`
	MatchesCounted int       `json:"matches_counted"`
}

// Rank orders totals by points descending and assigns competition ranks:
// equal points share a rank and the next rank skips (1, 2, 2, 4). Ties are
// listed by display name, then user id, so the order is stable.
func Rank(totals []Total) []Standing {
	sorted := make([]Total, len(totals))
	copy(sorted, totals)
	for i := range sorted {
		sorted[i].Points = scoringdomain.Round2(sorted[i].Points)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if c := strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
			return c < 0
		}
		return a.UserID.String() < b.UserID.String()
	})

	out := make([]Standing, 0, len(sorted))
	for i, t := range sorted {
		rank := i + 1
		if i > 0 && t.Points == sorted[i-1].Points {
			rank = out[i-1].Rank
		}
		out = append(out, Standing{
			Rank:           rank,
			UserID:         t.UserID,
			DisplayName:    t.DisplayName,
			Points:         t.Points,
			MatchesCounted: t.MatchesCounted,
		})
	}
	return out
}
