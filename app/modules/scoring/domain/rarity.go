package scoringdomain

import "github.com/google/uuid"

// rarityTiers maps a co-predictor count to its multiplier. Counts outside
// the table, including zero, score at the base rate.
var rarityTiers = map[int]float64{
	1: 1.75,
	2: 1.50,
	3: 1.25,
}

// RarityMultiplier returns the factor applied to a correct outcome or
// difference guess given how many participants made the same correct guess.
// The count includes the participant being scored, so 1 means sole guesser.
func RarityMultiplier(count int) float64 {
	if m, ok := rarityTiers[count]; ok {
		return m
	}
	return 1.0
}

// CoPredictorCounts counts, among complete predictions, how many guessed the
// outcome and how many guessed the exact goal difference of result.
// Incomplete predictions never count. An incomplete result yields zeros.
func CoPredictorCounts(predictions []Prediction, result Score) RarityContext {
	var rc RarityContext
	if !result.Complete() {
		return rc
	}
	ah, aa := *result.Home, *result.Away
	actualOutcome := OutcomeOf(ah, aa)

	for _, p := range predictions {
		if !p.Complete() {
			continue
		}
		ph, pa := *p.Home, *p.Away
		if OutcomeOf(ph, pa) == actualOutcome {
			rc.OutcomeCount++
		}
		if ph-pa == ah-aa {
			rc.DiffCount++
		}
	}
	return rc
}

// ScoredPrediction pairs a participant with their breakdown.
type ScoredPrediction struct {
	UserID    uuid.UUID
	Breakdown Breakdown
}

// ScoreAll scores every prediction of one match with the match's shared
// rarity context. Predictions that resolve to no breakdown are dropped.
// Output order follows input order.
func ScoreAll(predictions []Prediction, result Score) ([]ScoredPrediction, RarityContext) {
	rc := CoPredictorCounts(predictions, result)
	out := make([]ScoredPrediction, 0, len(predictions))
	for _, p := range predictions {
		b := CalculatePoints(p.Score, result, rc)
		if b == nil {
			continue
		}
		out = append(out, ScoredPrediction{UserID: p.UserID, Breakdown: *b})
	}
	return out, rc
}
