// internal/pairing/guaranteed.go
// Guaranteed-matches bracket construction (spec §4.3.5)

package pairing

import (
	"context"
	"sort"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// GuaranteedFirstRound dispatches round 1 to simple pairwise pairing when
// the bracket is single-class or weight_based_pairing is disabled,
// otherwise to the weight-aware path with zero standings and empty history.
func GuaranteedFirstRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64, fighters map[int64]*models.Fighter) (*models.BracketRound, error) {
	Shuffle(fighterIDs, bracket.Config.RandomSeeding())

	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     1,
		DisplayName:     "Round 1",
		Status:          models.RoundInProgress,
		Metadata: models.RoundMetadata{
			Format:                 models.FormatGuaranteedMatches,
			TotalMatchesPerFighter: bracket.Config.MatchCountOrDefault(),
			MaxRematches:           bracket.Config.MaxRematchesOrDefault(),
		},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, err
	}

	singleClass := bracket.WeightClassID != nil
	if singleClass || !bracket.Config.WeightBasedPairingOrDefault() {
		if err := pairSimple(ctx, s, bracket, round, fighterIDs); err != nil {
			return nil, err
		}
		return round, nil
	}

	standings := make([]*Standing, 0, len(fighterIDs))
	for _, id := range fighterIDs {
		standings = append(standings, &Standing{FighterID: id})
	}
	sortedByRating(standings, fighters)
	pairs, bye := WeightAwarePairing(fighters, standings, map[pairKey]int{}, bracket.Config.MaxRematchesOrDefault())
	if err := writeWeightAwareRound(ctx, s, bracket, round, pairs, bye, fighters); err != nil {
		return nil, err
	}

	return round, nil
}

// GuaranteedNextRound counts completed matches per fighter, collects those
// still needing matches, and pairs them via the simple or weight-aware
// path. It returns (nil, true, nil) when nobody needs more matches.
func GuaranteedNextRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64, fighters map[int64]*models.Fighter, completedRoundNumber int) (*models.BracketRound, bool, error) {
	matches, err := s.ListMatchesByBracket(ctx, bracket.ID)
	if err != nil {
		return nil, false, err
	}

	target := bracket.Config.MatchCountOrDefault()
	completedCount := make(map[int64]int, len(fighterIDs))
	for _, id := range fighterIDs {
		completedCount[id] = 0
	}
	for _, m := range matches {
		if m.Status != models.MatchCompleted || m.Result == nil || *m.Result == models.ResultNoContest {
			continue
		}
		if m.FighterAID != nil {
			completedCount[*m.FighterAID]++
		}
		if m.FighterBID != nil {
			completedCount[*m.FighterBID]++
		}
	}

	var needing []int64
	for _, id := range fighterIDs {
		if completedCount[id] < target {
			needing = append(needing, id)
		}
	}
	if len(needing) == 0 {
		return nil, true, nil
	}

	standingsAll, history := ComputeStandings(fighterIDs, matches)
	restricted := make([]*Standing, 0, len(needing))
	for _, id := range needing {
		restricted = append(restricted, standingsAll[id])
	}

	nextRoundNumber := completedRoundNumber + 1
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     nextRoundNumber,
		DisplayName:     "Round " + itoa(nextRoundNumber),
		Status:          models.RoundInProgress,
		Metadata: models.RoundMetadata{
			Format:                 models.FormatGuaranteedMatches,
			TotalMatchesPerFighter: target,
			MaxRematches:           bracket.Config.MaxRematchesOrDefault(),
		},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, false, err
	}

	singleClass := bracket.WeightClassID != nil
	if singleClass || !bracket.Config.WeightBasedPairingOrDefault() {
		sort.Slice(restricted, func(i, j int) bool {
			if restricted[i].Points != restricted[j].Points {
				return restricted[i].Points > restricted[j].Points
			}
			return restricted[i].FighterID < restricted[j].FighterID
		})
		pairs, bye := greedyAvoidRematchPairing(restricted, history, bracket.Config.MaxRematchesOrDefault())
		if err := writeSimplePairs(ctx, s, bracket, round, pairs, bye); err != nil {
			return nil, false, err
		}
		return round, false, nil
	}

	sortedByRating(restricted, fighters)
	pairs, bye := WeightAwarePairing(fighters, restricted, history, bracket.Config.MaxRematchesOrDefault())
	if err := writeWeightAwareRound(ctx, s, bracket, round, pairs, bye, fighters); err != nil {
		return nil, false, err
	}

	return round, false, nil
}

func sortedByRating(standings []*Standing, fighters map[int64]*models.Fighter) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		ri, rj := fighters[standings[i].FighterID].OverallRating, fighters[standings[j].FighterID].OverallRating
		if ri != rj {
			return ri > rj
		}
		return standings[i].FighterID < standings[j].FighterID
	})
}

func pairSimple(ctx context.Context, s store.Store, bracket *models.BracketFormat, round *models.BracketRound, fighterIDs []int64) error {
	position := 0
	n := len(fighterIDs)
	for i := 0; i+1 < n; i += 2 {
		m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[i], fighterIDs[i+1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
		position++
	}
	if n%2 == 1 {
		m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[n-1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func writeSimplePairs(ctx context.Context, s store.Store, bracket *models.BracketFormat, round *models.BracketRound, pairs [][2]int64, bye *int64) error {
	position := 0
	for _, pair := range pairs {
		m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, pair[0], pair[1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
		position++
	}
	if bye != nil {
		m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, *bye, intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// writeWeightAwareRound persists each pair's match with its own weight
// class assignment (the heavier fighter's class) rather than the bracket's
// configured class, since a multi-class bracket has none.
func writeWeightAwareRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, round *models.BracketRound, pairs [][2]int64, bye *int64, fighters map[int64]*models.Fighter) error {
	position := 0
	for _, pair := range pairs {
		wc := MatchWeightClassAssignment(fighters[pair[0]], fighters[pair[1]])
		m := newContested(bracket.EventID, round.ID, wc, pair[0], pair[1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
		position++
	}
	if bye != nil {
		wc := fighters[*bye].PrimaryWeightClassID
		m := newBye(bracket.EventID, round.ID, wc, *bye, intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
