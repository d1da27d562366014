package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func TestSwissFirstRoundOddFighterGetsBye(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 7)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatSwiss, Config: noSeedingConfig()}

	round, err := SwissFirstRound(context.Background(), s, bracket, ids)
	require.NoError(t, err)

	matches, err := s.ListMatchesByRound(context.Background(), round.ID)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	byes := 0
	for _, m := range matches {
		if m.IsBye() {
			byes++
			require.Equal(t, ids[3], *m.FighterAID)
		}
	}
	require.Equal(t, 1, byes)
}

func TestSwissNextRoundFinalizesAtConfiguredTotal(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 4)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatSwiss, Config: models.FormatConfig{Rounds: 2}}

	_, finalize, err := SwissNextRound(context.Background(), s, bracket, ids, 2, 2)
	require.NoError(t, err)
	require.True(t, finalize)
}

func TestSwissNextRoundAvoidsRematchWhenPossible(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 4)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatSwiss, Config: models.FormatConfig{Rounds: 3}}

	round1, err := SwissFirstRound(context.Background(), s, bracket, ids)
	require.NoError(t, err)
	matches, err := s.ListMatchesByRound(context.Background(), round1.ID)
	require.NoError(t, err)
	for _, m := range matches {
		result := models.ResultPlayerAWin
		m.Result = &result
		m.Status = models.MatchCompleted
		require.NoError(t, s.UpdateMatch(context.Background(), m))
	}

	round2, finalize, err := SwissNextRound(context.Background(), s, bracket, ids, 1, 3)
	require.NoError(t, err)
	require.False(t, finalize)

	round2Matches, err := s.ListMatchesByRound(context.Background(), round2.ID)
	require.NoError(t, err)
	for _, m := range round2Matches {
		if m.FighterBID == nil {
			continue
		}
		for _, prev := range matches {
			sameA := *prev.FighterAID == *m.FighterAID && prev.FighterBID != nil && *prev.FighterBID == *m.FighterBID
			sameB := prev.FighterBID != nil && *prev.FighterBID == *m.FighterAID && *prev.FighterAID == *m.FighterBID
			require.False(t, sameA || sameB, "round 2 should avoid repeating round 1's pairings when alternatives exist")
		}
	}
}
