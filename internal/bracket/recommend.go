// internal/bracket/recommend.go
// Format recommendation (spec §4.4 recommendFormat)

package bracket

import (
	"math"
	"sort"

	"tournament-engine/internal/models"
)

const bracketMatchGapMinutes = 2

// recommendFormat projects match counts and estimated durations for every
// format against an n-fighter field and ranks them by fit.
func recommendFormat(n, minMatches, maxMatches, matchDurationMin int, timeBudgetMin *int) []FormatRecommendation {
	candidates := []struct {
		format models.TournamentFormat
		count  int
		ok     bool
	}{
		{models.FormatSingleElimination, n - 1, n >= 2},
		{models.FormatDoubleElimination, (n - 1) + (n - 2) + 1, n >= 8},
		{models.FormatRoundRobin, n * (n - 1) / 2, n >= 2},
		{models.FormatSwiss, swissMatchCount(n, minMatches, maxMatches), n >= 2},
		{models.FormatGuaranteedMatches, guaranteedMatchCount(n, minMatches, maxMatches), n >= 2},
	}

	var out []FormatRecommendation
	for _, c := range candidates {
		if !c.ok || c.count <= 0 {
			continue
		}
		estimated := c.count*(matchDurationMin+bracketMatchGapMinutes) - bracketMatchGapMinutes
		rec := FormatRecommendation{
			Format:            c.format,
			MatchCount:        c.count,
			MatchesPerFighter: roundMatchesPerFighter(c.count, n),
			EstimatedMinutes:  estimated,
			InRange:           c.count >= minMatches*n/2 && c.count <= maxMatches*n/2,
			DistanceFromRange: distanceFromRange(c.count, minMatches*n/2, maxMatches*n/2),
		}
		if timeBudgetMin != nil {
			rec.FitsInBudget = estimated <= *timeBudgetMin
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if timeBudgetMin != nil {
			if out[i].FitsInBudget != out[j].FitsInBudget {
				return out[i].FitsInBudget
			}
			di := abs(out[i].EstimatedMinutes - *timeBudgetMin)
			dj := abs(out[j].EstimatedMinutes - *timeBudgetMin)
			return di < dj
		}
		if out[i].InRange != out[j].InRange {
			return out[i].InRange
		}
		return out[i].DistanceFromRange < out[j].DistanceFromRange
	})

	return out
}

// swissMatchCount is ⌊n/2⌋·rounds with rounds = ⌈log₂n⌉ (at least 1);
// minMatches and maxMatches are not consulted.
func swissMatchCount(n, minMatches, maxMatches int) int {
	rounds := int(math.Ceil(math.Log2(float64(n))))
	if rounds < 1 {
		rounds = 1
	}
	return (n / 2) * rounds
}

// guaranteedMatchCount uses the midpoint of the requested matches-per-
// fighter range as the target, per the §4.4 formula ⌊n·mpf/2⌋.
func guaranteedMatchCount(n, minMatches, maxMatches int) int {
	mpf := (minMatches + maxMatches) / 2
	if mpf < 1 {
		mpf = 1
	}
	return (n * mpf) / 2
}

func distanceFromRange(v, lo, hi int) int {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
