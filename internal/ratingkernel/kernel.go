// internal/ratingkernel/kernel.go
// Pure ELO rating functions: expected score, K-factor, per-match delta

package ratingkernel

import (
	"math"

	"tournament-engine/internal/models"
)

// beltELO is the canonical starting-rating table consumed by replay, per
// spec.md Open Question 1 (the 1333-for-Blue table, not the 1400 ladder).
var beltELO = map[models.Belt]float64{
	models.BeltBlack:  2000,
	models.BeltBrown:  1600,
	models.BeltPurple: 1467,
	models.BeltBlue:   1333,
	models.BeltWhite:  1200,
}

// LegacyLadder is the alternate 200-point-spaced starting table found in a
// one-time initialization script (spec.md §9 OQ1). It is used only by
// cmd/seed-ratings, never by the replay engine — see SPEC_FULL §12.3.
var LegacyLadder = map[models.Belt]float64{
	models.BeltBlack:  2000,
	models.BeltBrown:  1800,
	models.BeltPurple: 1600,
	models.BeltBlue:   1400,
	models.BeltWhite:  1200,
}

// StartingELO looks up the baseline rating for a belt, defaulting unknown
// or missing belts to Blue.
func StartingELO(belt models.Belt) float64 {
	if r, ok := beltELO[belt]; ok {
		return r
	}
	return beltELO[models.BeltBlue]
}

// Expected returns the probability that the fighter rated r beats the
// fighter rated rOpp.
func Expected(r, rOpp float64) float64 {
	return 1 / (1 + math.Pow(10, (rOpp-r)/400))
}

// kFactor is 32 for fighters with fewer than 10 recorded matches on the
// relevant track, else 24.
func kFactor(matchesPlayed int) float64 {
	if matchesPlayed < 10 {
		return 32
	}
	return 24
}

// Delta is the rating change for a fighter rated r against an opponent
// rated rOpp, given actual ∈ {1, 0.5, 0} and the fighter's match count on
// this track (drives K-factor).
func Delta(r, rOpp, actual float64, matchesPlayed int) float64 {
	return kFactor(matchesPlayed) * (actual - Expected(r, rOpp))
}
