// internal/pairing/swiss.go
// Swiss-system pairing (spec §4.3.3)
//
// Round 1 grounded on tournament_engine.py's _generate_swiss; subsequent
// rounds grounded on the standings-sort/greedy-pairing-with-rematch-avoidance
// shape from the standalone Swiss pairing test (other_examples/sazarkin).

package pairing

import (
	"context"
	"math"
	"sort"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// TotalRounds returns the configured Swiss round count, defaulting to
// ⌈log₂ n⌉.
func TotalRounds(bracket *models.BracketFormat, n int) int {
	if bracket.Config.Rounds > 0 {
		return bracket.Config.Rounds
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// SwissFirstRound pairs participants[i] against participants[n-1-i],
// leaving a middle singleton a bye when n is odd.
func SwissFirstRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64) (*models.BracketRound, error) {
	Shuffle(fighterIDs, bracket.Config.RandomSeeding())
	n := len(fighterIDs)
	totalRounds := TotalRounds(bracket, n)

	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     1,
		DisplayName:     "Round 1",
		Status:          models.RoundInProgress,
		Metadata:        models.RoundMetadata{Format: models.FormatSwiss, TotalRounds: totalRounds},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, err
	}

	position := 0
	for i := 0; i < n/2; i++ {
		m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[i], fighterIDs[n-1-i], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, err
		}
		position++
	}
	if n%2 == 1 {
		m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[n/2], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, err
		}
	}

	return round, nil
}

// SwissNextRound computes standings over every match played so far in the
// bracket and greedily pairs fighters avoiding rematches where possible.
// It returns (nil, true, nil) once the configured round count is reached,
// signalling the bracket should be finalized instead.
func SwissNextRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64, completedRoundNumber, totalRounds int) (*models.BracketRound, bool, error) {
	if completedRoundNumber >= totalRounds {
		return nil, true, nil
	}

	matches, err := s.ListMatchesByBracket(ctx, bracket.ID)
	if err != nil {
		return nil, false, err
	}
	standings, history := ComputeStandings(fighterIDs, matches)

	sorted := sortedStandings(standings)

	nextRoundNumber := completedRoundNumber + 1
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     nextRoundNumber,
		DisplayName:     "Round " + itoa(nextRoundNumber),
		Status:          models.RoundInProgress,
		Metadata:        models.RoundMetadata{Format: models.FormatSwiss, TotalRounds: totalRounds},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, false, err
	}

	pairs, bye := greedyAvoidRematchPairing(sorted, history, 0)
	position := 0
	for _, pair := range pairs {
		m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, pair[0], pair[1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, false, err
		}
		position++
	}
	if bye != nil {
		m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, *bye, intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, false, err
		}
	}

	return round, false, nil
}

func sortedStandings(standings map[int64]*Standing) []*Standing {
	out := make([]*Standing, 0, len(standings))
	for _, st := range standings {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].FighterID < out[j].FighterID
	})
	return out
}

// greedyAvoidRematchPairing walks the sorted standings, pairing each
// unpaired fighter with the next unpaired fighter they have not yet faced;
// if none exists, the rematch constraint is relaxed. maxRematches=0 means
// "avoid entirely if possible" (Swiss has no configured cap, unlike
// GuaranteedMatches).
func greedyAvoidRematchPairing(sorted []*Standing, history map[pairKey]int, maxRematches int) ([][2]int64, *int64) {
	paired := make(map[int64]bool, len(sorted))
	var pairs [][2]int64

	for i := 0; i < len(sorted); i++ {
		a := sorted[i].FighterID
		if paired[a] {
			continue
		}
		partner, ok := findPartner(sorted, paired, a, history, maxRematches, i)
		if !ok {
			continue
		}
		paired[a] = true
		paired[partner] = true
		pairs = append(pairs, [2]int64{a, partner})
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

// findPartner searches forward from i+1 for the first unpaired fighter
// within the rematch cap, falling back to the first unpaired fighter at
// all if the cap leaves no candidate.
func findPartner(sorted []*Standing, paired map[int64]bool, a int64, history map[pairKey]int, maxRematches, i int) (int64, bool) {
	fallback := int64(0)
	haveFallback := false

	for j := i + 1; j < len(sorted); j++ {
		b := sorted[j].FighterID
		if paired[b] {
			continue
		}
		if !haveFallback {
			fallback = b
			haveFallback = true
		}
		if RematchCount(history, a, b) <= maxRematches {
			return b, true
		}
	}

	return fallback, haveFallback
}
