package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func TestRoundRobinEveryPairMeetsExactlyOnce(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 5)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatRoundRobin, Config: noSeedingConfig()}

	rounds, err := RoundRobin(context.Background(), s, bracket, ids)
	require.NoError(t, err)
	require.Len(t, rounds, 5) // n=5 odd -> virtual bye slot -> n=6 -> 5 rounds

	seen := map[pairKey]int{}
	byeCounts := map[int64]int{}
	for _, r := range rounds {
		matches, err := s.ListMatchesByRound(context.Background(), r.ID)
		require.NoError(t, err)
		for _, m := range matches {
			if m.FighterBID == nil {
				byeCounts[*m.FighterAID]++
				continue
			}
			seen[newPairKey(*m.FighterAID, *m.FighterBID)]++
		}
	}

	for _, a := range ids {
		for _, b := range ids {
			if a >= b {
				continue
			}
			require.Equal(t, 1, seen[newPairKey(a, b)], "pair %d/%d should meet exactly once", a, b)
		}
	}
	total := 0
	for _, c := range byeCounts {
		total += c
	}
	require.Equal(t, 5, total, "each of the 5 rounds leaves exactly one fighter on the virtual bye slot")
}

func TestRoundRobinFirstRoundReadySubsequentPending(t *testing.T) {
	s := memstore.New()
	ids := seedFighters(s, 4)
	bracket := &models.BracketFormat{ID: 1, EventID: 1, Format: models.FormatRoundRobin, Config: noSeedingConfig()}

	rounds, err := RoundRobin(context.Background(), s, bracket, ids)
	require.NoError(t, err)
	require.Equal(t, models.RoundInProgress, rounds[0].Status)
	for _, r := range rounds[1:] {
		require.Equal(t, models.RoundPending, r.Status)
	}
}
