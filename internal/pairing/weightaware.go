// internal/pairing/weightaware.go
// Weight-aware guaranteed-matches pairing (spec §4.3.6)

package pairing

import "tournament-engine/internal/models"

const heavyweightFloorLbs = 200
const maxLegalWeightGapLbs = 30

// WeightLegal reports whether two candidate weights may be matched: missing
// weights always pass (degrade gracefully), two heavyweights (>200lb) pass
// regardless of gap, otherwise the gap must be within 30lb.
func WeightLegal(w1, w2 *float64) bool {
	if w1 == nil || w2 == nil {
		return true
	}
	if *w1 > heavyweightFloorLbs && *w2 > heavyweightFloorLbs {
		return true
	}
	gap := *w1 - *w2
	if gap < 0 {
		gap = -gap
	}
	return gap <= maxLegalWeightGapLbs
}

// MatchWeightClassAssignment returns the heavier fighter's weight class.
func MatchWeightClassAssignment(a, b *models.Fighter) *int64 {
	if a.BodyWeightLbs == nil {
		return b.PrimaryWeightClassID
	}
	if b.BodyWeightLbs == nil {
		return a.PrimaryWeightClassID
	}
	if *a.BodyWeightLbs >= *b.BodyWeightLbs {
		return a.PrimaryWeightClassID
	}
	return b.PrimaryWeightClassID
}

func sameWeightClass(a, b *models.Fighter) bool {
	if a.PrimaryWeightClassID == nil || b.PrimaryWeightClassID == nil {
		return false
	}
	return *a.PrimaryWeightClassID == *b.PrimaryWeightClassID
}

// WeightAwarePairing takes standings already sorted by (points desc, wins
// desc, rating desc) and pairs each unpaired fighter against the first candidate found
// across the four search passes of §4.3.6, falling back to a bye when the
// weight-legality floor admits no candidate at all.
func WeightAwarePairing(fighters map[int64]*models.Fighter, sorted []*Standing, history map[pairKey]int, maxRematches int) ([][2]int64, *int64) {
	paired := make(map[int64]bool, len(sorted))
	var pairs [][2]int64

	for i := 0; i < len(sorted); i++ {
		a := sorted[i].FighterID
		if paired[a] {
			continue
		}
		fa := fighters[a]
		b, ok := weightAwareCandidate(fa, sorted, fighters, paired, history, maxRematches, i)
		if !ok {
			continue
		}
		paired[a] = true
		paired[b] = true
		pairs = append(pairs, [2]int64{a, b})
	}

	var bye *int64
	for _, st := range sorted {
		if !paired[st.FighterID] {
			id := st.FighterID
			bye = &id
			break
		}
	}

	return pairs, bye
}

type candidatePass func(fa, fb *models.Fighter, rematches int, maxRematches int) bool

var weightAwarePasses = []candidatePass{
	func(fa, fb *models.Fighter, rematches, max int) bool {
		return sameWeightClass(fa, fb) && WeightLegal(fa.BodyWeightLbs, fb.BodyWeightLbs) && rematches < max
	},
	func(fa, fb *models.Fighter, rematches, max int) bool {
		return !sameWeightClass(fa, fb) && WeightLegal(fa.BodyWeightLbs, fb.BodyWeightLbs) && rematches < max
	},
	func(fa, fb *models.Fighter, rematches, max int) bool {
		return sameWeightClass(fa, fb) && WeightLegal(fa.BodyWeightLbs, fb.BodyWeightLbs)
	},
	func(fa, fb *models.Fighter, rematches, max int) bool {
		return !sameWeightClass(fa, fb) && WeightLegal(fa.BodyWeightLbs, fb.BodyWeightLbs)
	},
}

func weightAwareCandidate(fa *models.Fighter, sorted []*Standing, fighters map[int64]*models.Fighter, paired map[int64]bool, history map[pairKey]int, maxRematches, i int) (int64, bool) {
	for _, pass := range weightAwarePasses {
		for j := 0; j < len(sorted); j++ {
			if j == i {
				continue
			}
			b := sorted[j].FighterID
			if paired[b] {
				continue
			}
			fb := fighters[b]
			rematches := RematchCount(history, fa.ID, b)
			if pass(fa, fb, rematches, maxRematches) {
				return b, true
			}
		}
	}
	return 0, false
}
