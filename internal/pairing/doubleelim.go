// internal/pairing/doubleelim.go
// Double elimination bracket construction (spec §4.3.2)
//
// Grounded on tournament_engine.py's _generate_double_elimination for the
// winners/losers/finals skeleton and the requiresWinner dependency-wiring
// technique, generalized from that file's single simplified losers round
// to the full W-1 drop-down/advancement ladder the spec requires.

package pairing

import (
	"context"
	"math"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// MinDoubleEliminationFighters is the §4.3.2 precondition: smaller fields
// produce unavoidable multi-bye fighters.
const MinDoubleEliminationFighters = 8

// DoubleElimination builds the winners bracket, the full losers-bracket
// drop-down/advancement ladder, and the grand-finals round.
func DoubleElimination(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64) ([]*models.BracketRound, error) {
	if len(fighterIDs) < MinDoubleEliminationFighters {
		return nil, models.NewError(models.KindTooFewParticipants, "double elimination requires at least 8 checked-in fighters")
	}

	Shuffle(fighterIDs, bracket.Config.RandomSeeding())

	n := len(fighterIDs)
	w := int(math.Ceil(math.Log2(float64(n))))
	l := 2 * (w - 1)
	totalRounds := w + l + 1

	var created []*models.BracketRound

	winnersType := models.BracketTypeWinners
	round1, round1Matches, err := buildFirstRound(ctx, s, bracket, fighterIDs, totalRounds, winnersType)
	if err != nil {
		return nil, err
	}
	created = append(created, round1)
	winnersRounds := [][]*models.Match{round1Matches}

	for k := 2; k <= w; k++ {
		round, matches, err := buildFoldedRound(ctx, s, bracket, k, totalRounds, winnersRounds[len(winnersRounds)-1], winnersType)
		if err != nil {
			return nil, err
		}
		created = append(created, round)
		winnersRounds = append(winnersRounds, matches)
	}

	globalRound := w
	var prevLosers []*models.Match

	for wFeed := 1; wFeed <= w-1; wFeed++ {
		globalRound++
		dropRound, dropMatches, err := buildDropDownRound(ctx, s, bracket, globalRound, totalRounds, winnersRounds[wFeed-1], wFeed)
		if err != nil {
			return nil, err
		}
		created = append(created, dropRound)

		globalRound++
		advRound, advMatches, err := buildAdvancementRound(ctx, s, bracket, globalRound, totalRounds, dropMatches, prevLosers)
		if err != nil {
			return nil, err
		}
		created = append(created, advRound)

		prevLosers = advMatches
	}

	globalRound++
	winnersFinal := winnersRounds[len(winnersRounds)-1][0]
	var losersFinalWinner *models.Match
	if len(prevLosers) > 0 {
		losersFinalWinner = prevLosers[0]
	}
	finalsRound, err := buildGrandFinals(ctx, s, bracket, globalRound, totalRounds, winnersFinal, losersFinalWinner)
	if err != nil {
		return nil, err
	}
	created = append(created, finalsRound)

	return created, nil
}

// buildDropDownRound pairs the losers of winners round wFeed, skipping any
// feeder that can never produce a loser (see producesNoLoser) — a
// drop-down slot waiting on one of those would never fill. An odd leftover
// count among the remaining feeders leaves the trailing loser a
// single-slot bye-forward match.
func buildDropDownRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, roundNumber, totalRounds int, winnersRoundMatches []*models.Match, wFeed int) (*models.BracketRound, []*models.Match, error) {
	losersType := models.BracketTypeLosers
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     roundNumber,
		DisplayName:     "Losers Round " + itoa(roundNumber),
		BracketType:     &losersType,
		Status:          models.RoundPending,
		Metadata: models.RoundMetadata{
			Format:           bracket.Format,
			Type:             models.RoundDataDropDown,
			FeedsFromWinners: &wFeed,
			TotalRounds:      totalRounds,
		},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, nil, err
	}

	var feeders []*models.Match
	for _, wm := range winnersRoundMatches {
		if producesNoLoser(wm) {
			continue
		}
		feeders = append(feeders, wm)
	}

	var matches []*models.Match
	position := 0
	for i := 0; i+1 < len(feeders); i += 2 {
		depA, depB := feeders[i].ID, feeders[i+1].ID
		m := &models.Match{
			EventID:           bracket.EventID,
			BracketRoundID:    &round.ID,
			WeightClassID:     bracket.WeightClassID,
			Status:            models.MatchPending,
			PositionInRound:   intPtr(position),
			DependsOnMatchAID: &depA,
			DependsOnMatchBID: &depB,
			RequiresWinnerA:   false,
			RequiresWinnerB:   false,
		}
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
		position++
	}
	if len(feeders)%2 == 1 {
		dep := feeders[len(feeders)-1].ID
		m := &models.Match{
			EventID:           bracket.EventID,
			BracketRoundID:    &round.ID,
			WeightClassID:     bracket.WeightClassID,
			Status:            models.MatchPending,
			PositionInRound:   intPtr(position),
			DependsOnMatchAID: &dep,
			RequiresWinnerA:   false,
		}
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
	}

	return round, matches, nil
}

// buildAdvancementRound pairs each drop-down winner against a winner of
// the previous losers round, interleaving the two pools so a freshly
// dropped fighter faces one already seasoned in the losers bracket. An odd
// combined pool leaves a lone advancer, preferring the prev-losers pool.
func buildAdvancementRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, roundNumber, totalRounds int, dropDownMatches, prevLosersMatches []*models.Match) (*models.BracketRound, []*models.Match, error) {
	losersType := models.BracketTypeLosers
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     roundNumber,
		DisplayName:     "Losers Round " + itoa(roundNumber),
		BracketType:     &losersType,
		Status:          models.RoundPending,
		Metadata: models.RoundMetadata{
			Format:      bracket.Format,
			Type:        models.RoundDataAdvancement,
			TotalRounds: totalRounds,
		},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, nil, err
	}

	pool := interleaveMatches(dropDownMatches, prevLosersMatches)

	var matches []*models.Match
	position := 0
	for i := 0; i+1 < len(pool); i += 2 {
		depA, depB := pool[i].ID, pool[i+1].ID
		m := &models.Match{
			EventID:           bracket.EventID,
			BracketRoundID:    &round.ID,
			WeightClassID:     bracket.WeightClassID,
			Status:            models.MatchPending,
			PositionInRound:   intPtr(position),
			DependsOnMatchAID: &depA,
			DependsOnMatchBID: &depB,
			RequiresWinnerA:   true,
			RequiresWinnerB:   true,
		}
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
		position++
	}
	if len(pool)%2 == 1 {
		dep := pool[len(pool)-1].ID
		m := &models.Match{
			EventID:           bracket.EventID,
			BracketRoundID:    &round.ID,
			WeightClassID:     bracket.WeightClassID,
			Status:            models.MatchPending,
			PositionInRound:   intPtr(position),
			DependsOnMatchAID: &dep,
			RequiresWinnerA:   true,
		}
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
	}

	return round, matches, nil
}

// producesNoLoser reports whether m is guaranteed to end with only one
// fighter ever occupying a slot, so it has no loser to drop down: either
// it already is a completed bye, or it is a folded match with a single
// upstream dependency (no B side), which auto-completes as a walkover
// once that one dependency resolves, win or lose.
func producesNoLoser(m *models.Match) bool {
	if m.IsBye() {
		return true
	}
	return m.DependsOnMatchAID != nil && m.DependsOnMatchBID == nil
}

func interleaveMatches(a, b []*models.Match) []*models.Match {
	out := make([]*models.Match, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if i < len(a) {
			out = append(out, a[i])
			i++
		}
		if j < len(b) {
			out = append(out, b[j])
			j++
		}
	}
	return out
}

// buildGrandFinals creates the single finals match: slot A depends on the
// winners-bracket champion, slot B on the losers-bracket champion.
func buildGrandFinals(ctx context.Context, s store.Store, bracket *models.BracketFormat, roundNumber, totalRounds int, winnersFinal, losersFinal *models.Match) (*models.BracketRound, error) {
	finalsType := models.BracketTypeFinals
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     roundNumber,
		DisplayName:     "Grand Finals",
		BracketType:     &finalsType,
		Status:          models.RoundPending,
		Metadata:        models.RoundMetadata{Format: bracket.Format, TotalRounds: totalRounds},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, err
	}

	m := &models.Match{
		EventID:           bracket.EventID,
		BracketRoundID:    &round.ID,
		WeightClassID:     bracket.WeightClassID,
		Status:            models.MatchPending,
		PositionInRound:   intPtr(0),
		DependsOnMatchAID: &winnersFinal.ID,
		RequiresWinnerA:   true,
	}
	if losersFinal != nil {
		m.DependsOnMatchBID = &losersFinal.ID
		m.RequiresWinnerB = true
	}
	if err := s.CreateMatch(ctx, m); err != nil {
		return nil, err
	}

	return round, nil
}
