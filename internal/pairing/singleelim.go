// internal/pairing/singleelim.go
// Single elimination bracket construction (spec §4.3.1)
//
// Grounded on the teacher's createBracketPositions/linkBracketProgression
// round-by-round construction (tournament_service.go) and on the
// node-folding technique in the standalone single-elimination generator
// (other_examples/Dosada05), simplified to a two-at-a-time fold of each
// round's matches: a round with an odd match count leaves its last match
// feeding a next-round slot alone, which becomes a structural bye once
// that lone predecessor completes.

package pairing

import (
	"context"
	"math"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// SingleElimination builds every round of a single-elimination bracket and
// returns them in round order. Round 1 is populated and left InProgress;
// callers must still run bye propagation afterward (spec step 5).
func SingleElimination(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64) ([]*models.BracketRound, error) {
	Shuffle(fighterIDs, bracket.Config.RandomSeeding())

	n := len(fighterIDs)
	rounds := int(math.Ceil(math.Log2(float64(n))))

	round1, round1Matches, err := buildFirstRound(ctx, s, bracket, fighterIDs, rounds, models.BracketTypeWinners)
	if err != nil {
		return nil, err
	}

	createdRounds := []*models.BracketRound{round1}
	prevMatches := round1Matches

	for k := 2; k <= rounds; k++ {
		round, matches, err := buildFoldedRound(ctx, s, bracket, k, rounds, prevMatches, models.BracketTypeWinners)
		if err != nil {
			return nil, err
		}
		createdRounds = append(createdRounds, round)
		prevMatches = matches
	}

	return createdRounds, nil
}

// buildFirstRound creates round 1: contested pairs walking the fighter
// list two at a time, with a trailing odd fighter receiving a solo bye.
func buildFirstRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64, totalRounds int, bracketType models.BracketType) (*models.BracketRound, []*models.Match, error) {
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     1,
		DisplayName:     RoundName(1, totalRounds),
		BracketType:     &bracketType,
		Status:          models.RoundInProgress,
		Metadata:        models.RoundMetadata{Format: bracket.Format, TotalRounds: totalRounds},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, nil, err
	}

	var matches []*models.Match
	position := 0
	n := len(fighterIDs)
	for i := 0; i+1 < n; i += 2 {
		m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[i], fighterIDs[i+1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
		position++
	}
	if n%2 == 1 {
		m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, fighterIDs[n-1], intPtr(position))
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
	}

	return round, matches, nil
}

// buildFoldedRound creates round k by pairing the previous round's matches
// two at a time; a trailing lone predecessor produces a structural bye
// slot (requiresWinner=false, no B dependency) that auto-completes once
// its single dependency resolves.
func buildFoldedRound(ctx context.Context, s store.Store, bracket *models.BracketFormat, k, totalRounds int, prevMatches []*models.Match, bracketType models.BracketType) (*models.BracketRound, []*models.Match, error) {
	round := &models.BracketRound{
		BracketFormatID: bracket.ID,
		RoundNumber:     k,
		DisplayName:     RoundName(k, totalRounds),
		BracketType:     &bracketType,
		Status:          models.RoundPending,
		Metadata:        models.RoundMetadata{Format: bracket.Format, TotalRounds: totalRounds},
	}
	if err := s.CreateBracketRound(ctx, round); err != nil {
		return nil, nil, err
	}

	var matches []*models.Match
	position := 0
	for i := 0; i < len(prevMatches); i += 2 {
		depA := prevMatches[i].ID
		m := &models.Match{
			EventID:           bracket.EventID,
			BracketRoundID:    &round.ID,
			WeightClassID:     bracket.WeightClassID,
			Status:            models.MatchPending,
			PositionInRound:   intPtr(position),
			DependsOnMatchAID: &depA,
			RequiresWinnerA:   true,
			CreatedAt:         prevMatches[i].CreatedAt,
		}
		if i+1 < len(prevMatches) {
			depB := prevMatches[i+1].ID
			m.DependsOnMatchBID = &depB
			m.RequiresWinnerB = true
		}
		if err := s.CreateMatch(ctx, m); err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)
		position++
	}

	return round, matches, nil
}
