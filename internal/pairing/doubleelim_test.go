package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func TestDoubleEliminationRejectsFewerThanEight(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 7)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatDoubleElimination, Config: noSeedingConfig()}

	_, err := DoubleElimination(context.Background(), s, bracket, ids)
	require.Error(t, err)
	require.True(t, models.IsKind(err, models.KindTooFewParticipants))
}

func TestDoubleElimination8FightersRoundCount(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 8)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatDoubleElimination, Config: noSeedingConfig()}

	rounds, err := DoubleElimination(context.Background(), s, bracket, ids)
	require.NoError(t, err)

	// w=3, l=2*(w-1)=4, totalRounds=w+l+1=8
	require.Len(t, rounds, 8)

	finals := rounds[len(rounds)-1]
	require.Equal(t, models.BracketTypeFinals, *finals.BracketType)

	finalsMatches, err := s.ListMatchesByRound(context.Background(), finals.ID)
	require.NoError(t, err)
	require.Len(t, finalsMatches, 1)
	require.NotNil(t, finalsMatches[0].DependsOnMatchAID)
	require.True(t, finalsMatches[0].RequiresWinnerA)
}

func TestDoubleEliminationDropDownRoundsSkipByeFeeders(t *testing.T) {
	for _, n := range []int{9, 10} {
		s := memstore.New()
		ids := seedFighters(s, n)
		bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatDoubleElimination, Config: noSeedingConfig()}

		rounds, err := DoubleElimination(context.Background(), s, bracket, ids)
		require.NoError(t, err, "n=%d", n)

		for _, r := range rounds {
			if r.BracketType == nil || *r.BracketType != models.BracketTypeLosers || r.Metadata.Type != models.RoundDataDropDown {
				continue
			}
			matches, err := s.ListMatchesByRound(context.Background(), r.ID)
			require.NoError(t, err)
			for _, m := range matches {
				for _, depID := range []*int64{m.DependsOnMatchAID, m.DependsOnMatchBID} {
					if depID == nil {
						continue
					}
					dep, err := s.GetMatch(context.Background(), *depID)
					require.NoError(t, err)
					require.False(t, producesNoLoser(dep), "n=%d: drop-down match %d depends on loser-less feeder %d", n, m.ID, dep.ID)
				}
			}
		}
	}
}

func TestDoubleEliminationLosersBracketDependenciesNeverRequireWinner(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 8)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatDoubleElimination, Config: noSeedingConfig()}

	rounds, err := DoubleElimination(context.Background(), s, bracket, ids)
	require.NoError(t, err)

	for _, r := range rounds {
		if r.BracketType == nil || *r.BracketType != models.BracketTypeLosers {
			continue
		}
		if r.Metadata.Type != models.RoundDataDropDown {
			continue
		}
		matches, err := s.ListMatchesByRound(context.Background(), r.ID)
		require.NoError(t, err)
		for _, m := range matches {
			require.False(t, m.RequiresWinnerA, "drop-down rounds extract losers, not winners")
		}
	}
}
