package bracket

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func seedEventWithCheckedInFighters(s *memstore.Store, n int) (eventID int64, fighterIDs []int64) {
	event := &models.Event{ID: 1, Name: "Test Open", ScheduledDate: time.Now(), Status: models.EventInProgress}
	s.PutEvent(event)

	fighterIDs = make([]int64, n)
	for i := 0; i < n; i++ {
		f := &models.Fighter{DisplayName: "Fighter", Belt: models.BeltBlue}
		s.PutFighter(f)
		fighterIDs[i] = f.ID
		s.PutEntry(&models.Entry{ID: int64(i + 1), EventID: event.ID, FighterID: f.ID, CheckedIn: true, SnapshotBelt: models.BeltBlue})
	}
	return event.ID, fighterIDs
}

func TestGenerateBracketSingleElim8FightersAllAWinsChampionIsFirstSeed(t *testing.T) {
	s := memstore.New()
	eventID, fighterIDs := seedEventWithCheckedInFighters(s, 8)
	e := NewEngine(s, testLogger())

	b, err := e.CreateBracket(context.Background(), eventID, nil, models.FormatSingleElimination, models.FormatConfig{SeedingMethod: "as_entered"}, 30, true)
	require.NoError(t, err)

	rounds, err := e.GenerateBracket(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	totalMatches := 0
	for round := 1; round <= 3; round++ {
		ready, err := s.ListMatchesByStatus(context.Background(), b.ID, models.MatchReady)
		require.NoError(t, err)
		require.NotEmpty(t, ready, "round %d should have at least one ready match", round)
		for _, m := range ready {
			_, err := e.UpdateMatchResult(context.Background(), m.ID, models.ResultPlayerAWin, "Submission", 120)
			require.NoError(t, err)
			totalMatches++
		}
	}
	require.Equal(t, 7, totalMatches)

	allMatches, err := s.ListMatchesByBracket(context.Background(), b.ID)
	require.NoError(t, err)
	var final *models.Match
	for _, m := range allMatches {
		if m.BracketRoundID == nil {
			continue
		}
		r, err := s.GetBracketRound(context.Background(), *m.BracketRoundID)
		require.NoError(t, err)
		if r.RoundNumber == 3 {
			final = m
		}
	}
	require.NotNil(t, final)
	require.NotNil(t, final.Result)
	require.Equal(t, fighterIDs[0], *final.WinnerID())
}

func TestUpdateThenUndoRestoresPendingState(t *testing.T) {
	s := memstore.New()
	eventID, _ := seedEventWithCheckedInFighters(s, 8)
	e := NewEngine(s, testLogger())

	b, err := e.CreateBracket(context.Background(), eventID, nil, models.FormatSingleElimination, models.FormatConfig{SeedingMethod: "as_entered"}, 30, true)
	require.NoError(t, err)
	_, err = e.GenerateBracket(context.Background(), b.ID)
	require.NoError(t, err)

	ready, err := s.ListMatchesByStatus(context.Background(), b.ID, models.MatchReady)
	require.NoError(t, err)
	require.NotEmpty(t, ready)
	target := ready[0]

	_, err = e.UpdateMatchResult(context.Background(), target.ID, models.ResultPlayerAWin, "Submission", 90)
	require.NoError(t, err)

	dependents, err := s.ListDependentMatches(context.Background(), target.ID)
	require.NoError(t, err)
	require.NotEmpty(t, dependents)
	for _, d := range dependents {
		require.NotNil(t, d.FighterAID)
	}

	_, err = e.UndoMatchResult(context.Background(), target.ID)
	require.NoError(t, err)

	restored, err := s.GetMatch(context.Background(), target.ID)
	require.NoError(t, err)
	require.Nil(t, restored.Result)
	require.Equal(t, models.MatchReady, restored.Status)

	for _, d := range dependents {
		current, err := s.GetMatch(context.Background(), d.ID)
		require.NoError(t, err)
		require.Nil(t, current.FighterAID)
		require.Equal(t, models.MatchPending, current.Status)
	}
}

func TestGenerateBracketTwiceFailsAlreadyGenerated(t *testing.T) {
	s := memstore.New()
	eventID, _ := seedEventWithCheckedInFighters(s, 8)
	e := NewEngine(s, testLogger())

	b, err := e.CreateBracket(context.Background(), eventID, nil, models.FormatSingleElimination, models.FormatConfig{}, 30, true)
	require.NoError(t, err)
	_, err = e.GenerateBracket(context.Background(), b.ID)
	require.NoError(t, err)

	_, err = e.GenerateBracket(context.Background(), b.ID)
	require.Error(t, err)
	require.True(t, models.IsKind(err, models.KindAlreadyGenerated))
}

// TestDoubleEliminationNineFightersReachesFinalization plays a
// non-power-of-2 field (9 fighters, round 1 leaves one trailing bye) all
// the way through. A drop-down round that still pairs on bye losers would
// leave an unfillable slot and stall advancement forever, so reaching
// Finalized is itself the regression check.
func TestDoubleEliminationNineFightersReachesFinalization(t *testing.T) {
	s := memstore.New()
	eventID, _ := seedEventWithCheckedInFighters(s, 9)
	e := NewEngine(s, testLogger())

	b, err := e.CreateBracket(context.Background(), eventID, nil, models.FormatDoubleElimination, models.FormatConfig{SeedingMethod: "as_entered"}, 0, true)
	require.NoError(t, err)

	_, err = e.GenerateBracket(context.Background(), b.ID)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		ready, err := s.ListMatchesByStatus(ctx, b.ID, models.MatchReady)
		require.NoError(t, err)
		if len(ready) == 0 {
			break
		}
		for _, m := range ready {
			_, err := e.UpdateMatchResult(ctx, m.ID, models.ResultPlayerAWin, "Submission", 120)
			require.NoError(t, err)
		}
	}

	final, err := s.GetBracketFormat(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, final.Finalized, "bracket should reach finalization, not stall on an unfillable drop-down slot")

	allMatches, err := s.ListMatchesByBracket(ctx, b.ID)
	require.NoError(t, err)
	for _, m := range allMatches {
		require.NotEqual(t, models.MatchPending, m.Status, "match %d stuck pending", m.ID)
	}
}

func TestGenerateBracketTooFewParticipants(t *testing.T) {
	s := memstore.New()
	eventID, _ := seedEventWithCheckedInFighters(s, 1)
	e := NewEngine(s, testLogger())

	b, err := e.CreateBracket(context.Background(), eventID, nil, models.FormatSingleElimination, models.FormatConfig{}, 30, true)
	require.NoError(t, err)

	_, err = e.GenerateBracket(context.Background(), b.ID)
	require.Error(t, err)
	require.True(t, models.IsKind(err, models.KindTooFewParticipants))
}
