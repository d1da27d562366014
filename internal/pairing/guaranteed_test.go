package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func fightersByID(s *memstore.Store, ids []int64) map[int64]*models.Fighter {
	out := make(map[int64]*models.Fighter, len(ids))
	for _, id := range ids {
		f, err := s.GetFighter(context.Background(), id)
		if err == nil {
			out[id] = f
		}
	}
	return out
}

func TestGuaranteedMatchesTerminatesAtTarget(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 7)
	weightBased := false
	bracket := &models.BracketFormat{
		ID: 1, EventID: 1, WeightClassID: int64Ptr(1),
		Format: models.FormatGuaranteedMatches,
		Config: models.FormatConfig{MatchCount: 3, MaxRematches: 1, WeightBasedPairing: &weightBased},
	}

	round1, err := GuaranteedFirstRound(context.Background(), s, bracket, ids, fightersByID(s, ids))
	require.NoError(t, err)
	completeAllMatches(t, s, round1.ID)

	roundNumber := 1
	totalMatches := countMatches(t, s, round1.ID)
	for {
		round, finalize, err := GuaranteedNextRound(context.Background(), s, bracket, ids, fightersByID(s, ids), roundNumber)
		require.NoError(t, err)
		if finalize {
			break
		}
		completeAllMatches(t, s, round.ID)
		totalMatches += countMatches(t, s, round.ID)
		roundNumber++
		require.Less(t, roundNumber, 20, "guaranteed matches pairing should converge quickly")
	}

	matches, err := s.ListMatchesByBracket(context.Background(), bracket.ID)
	require.NoError(t, err)
	completedPerFighter := map[int64]int{}
	for _, m := range matches {
		if m.Status != models.MatchCompleted || m.Result == nil {
			continue
		}
		if m.FighterAID != nil {
			completedPerFighter[*m.FighterAID]++
		}
		if m.FighterBID != nil {
			completedPerFighter[*m.FighterBID]++
		}
	}
	for _, id := range ids {
		require.GreaterOrEqual(t, completedPerFighter[id], 3, "fighter %d should have at least the guaranteed match count", id)
	}
	require.LessOrEqual(t, totalMatches, 11) // ceil(7*3/2)
}

func int64Ptr(v int64) *int64 { return &v }

func completeAllMatches(t *testing.T, s *memstore.Store, roundID int64) {
	matches, err := s.ListMatchesByRound(context.Background(), roundID)
	require.NoError(t, err)
	for _, m := range matches {
		if m.Status == models.MatchCompleted {
			continue
		}
		result := models.ResultPlayerAWin
		m.Result = &result
		m.Status = models.MatchCompleted
		require.NoError(t, s.UpdateMatch(context.Background(), m))
	}
}

func countMatches(t *testing.T, s *memstore.Store, roundID int64) int {
	matches, err := s.ListMatchesByRound(context.Background(), roundID)
	require.NoError(t, err)
	return len(matches)
}
