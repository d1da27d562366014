package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func seedFighters(s *memstore.Store, n int) []int64 {
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		f := &models.Fighter{DisplayName: "Fighter"}
		s.PutFighter(f)
		ids[i] = f.ID
	}
	return ids
}

func noSeedingConfig() models.FormatConfig {
	return models.FormatConfig{SeedingMethod: "as_entered"}
}

func TestSingleElimination8Fighters(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 8)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatSingleElimination, Config: noSeedingConfig()}

	rounds, err := SingleElimination(context.Background(), s, bracket, ids)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	total := 0
	for _, r := range rounds {
		matches, err := s.ListMatchesByRound(context.Background(), r.ID)
		require.NoError(t, err)
		total += len(matches)
		for _, m := range matches {
			require.False(t, m.IsBye(), "n=8 should have no byes")
		}
	}
	require.Equal(t, 7, total)
}

func TestSingleElimination6FightersHasOneStructuralBye(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 6)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatSingleElimination, Config: noSeedingConfig()}

	rounds, err := SingleElimination(context.Background(), s, bracket, ids)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	total := 0
	structuralByes := 0
	for _, r := range rounds {
		matches, err := s.ListMatchesByRound(context.Background(), r.ID)
		require.NoError(t, err)
		total += len(matches)
		for _, m := range matches {
			if m.DependsOnMatchAID != nil && m.DependsOnMatchBID == nil && !m.RequiresWinnerB {
				structuralByes++
			}
		}
	}
	require.Equal(t, 6, total)
	require.Equal(t, 1, structuralByes)
}
