package scoringdomain

import "math"

// Round2 rounds x to two decimals, half away from zero. All scoring values
// are non-negative so this is half-up.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Outcome is the sign of a goal difference.
type Outcome int

const (
	AwayWin Outcome = -1
	Draw    Outcome = 0
	HomeWin Outcome = 1
)

// OutcomeOf returns the outcome of a home/away result.
func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return HomeWin
	case home < away:
		return AwayWin
	default:
		return Draw
	}
}

// CalculatePoints scores a single prediction against a match result.
// It returns nil when either side is incomplete; nil means no ledger row.
func CalculatePoints(pred Score, result Score, rarity RarityContext) *Breakdown {
	if !pred.Complete() || !result.Complete() {
		return nil
	}

	ph, pa := *pred.Home, *pred.Away
	ah, aa := *result.Home, *result.Away

	b := &Breakdown{
		PredHome:          ph,
		PredAway:          pa,
		ActualHome:        ah,
		ActualAway:        aa,
		OutcomeMultiplier: RarityMultiplier(rarity.OutcomeCount),
		DiffMultiplier:    RarityMultiplier(rarity.DiffCount),
	}

	if ph == ah {
		b.GuessedHome = true
		b.PointsH1 = TeamGoalPoints
	}
	if pa == aa {
		b.GuessedAway = true
		b.PointsH2 = TeamGoalPoints
	}

	if OutcomeOf(ph, pa) == OutcomeOf(ah, aa) {
		b.GuessedOutcome = true
		b.PointsOutcomeBase = OutcomeBasePoints
		b.PointsOutcome = Round2(OutcomeBasePoints * b.OutcomeMultiplier)
		b.PointsOutcomeBonus = Round2(b.PointsOutcome - b.PointsOutcomeBase)
	}

	if ph-pa == ah-aa {
		b.GuessedDiff = true
		b.PointsDiffBase = DiffBasePoints
		b.PointsDiff = Round2(DiffBasePoints * b.DiffMultiplier)
		b.PointsDiffBonus = Round2(b.PointsDiff - b.PointsDiffBase)
	}

	if abs(ph-ah)+abs(pa-aa) == 1 {
		b.NearMiss = true
		b.PointsBonus = NearMissBonus
	}

	b.Points = Round2(b.PointsH1 + b.PointsH2 + b.PointsOutcome + b.PointsDiff + b.PointsBonus)
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
