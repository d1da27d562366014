package ratingreplay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store/memstore"
)

func ptr[T any](v T) *T { return &v }

func seedTwoEventReplayFixture(s *memstore.Store) (fighterA, fighterB int64, wcID int64) {
	wc := &models.WeightClass{ID: 1, Name: "Middleweight"}
	s.PutWeightClass(wc)

	a := &models.Fighter{Belt: models.BeltBlue, Active: true}
	b := &models.Fighter{Belt: models.BeltPurple, Active: true}
	s.PutFighter(a)
	s.PutFighter(b)

	e1 := &models.Event{ID: 1, Name: "Event 1", ScheduledDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	e2 := &models.Event{ID: 2, Name: "Event 2", ScheduledDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	s.PutEvent(e1)
	s.PutEvent(e2)

	ctx := context.Background()
	result1 := models.ResultPlayerAWin
	m1 := &models.Match{
		EventID: 1, FighterAID: &a.ID, FighterBID: &b.ID, WeightClassID: &wc.ID,
		Result: &result1, Status: models.MatchCompleted,
	}
	_ = s.CreateMatch(ctx, m1)

	result2 := models.ResultPlayerBWin
	m2 := &models.Match{
		EventID: 2, FighterAID: &a.ID, FighterBID: &b.ID, WeightClassID: &wc.ID,
		Result: &result2, Status: models.MatchCompleted,
	}
	_ = s.CreateMatch(ctx, m2)

	return a.ID, b.ID, wc.ID
}

func TestReplayIdempotent(t *testing.T) {
	s := memstore.New()
	fa, fb, _ := seedTwoEventReplayFixture(s)
	ctx := context.Background()

	require.NoError(t, Replay(ctx, s))
	first, err := s.GetFighter(ctx, fa)
	require.NoError(t, err)
	firstOverallA := first.OverallRating

	firstB, err := s.GetFighter(ctx, fb)
	require.NoError(t, err)
	firstOverallB := firstB.OverallRating

	require.NoError(t, Replay(ctx, s))
	second, err := s.GetFighter(ctx, fa)
	require.NoError(t, err)
	secondB, err := s.GetFighter(ctx, fb)
	require.NoError(t, err)

	require.Equal(t, firstOverallA, second.OverallRating)
	require.Equal(t, firstOverallB, secondB.OverallRating)
}

func TestReplaySkipsNoContestAndMissingWeightClass(t *testing.T) {
	s := memstore.New()
	a := &models.Fighter{Belt: models.BeltBlue}
	b := &models.Fighter{Belt: models.BeltBlue}
	s.PutFighter(a)
	s.PutFighter(b)
	e := &models.Event{ID: 1, ScheduledDate: time.Now()}
	s.PutEvent(e)

	ctx := context.Background()
	nc := models.ResultNoContest
	_ = s.CreateMatch(ctx, &models.Match{EventID: 1, FighterAID: &a.ID, FighterBID: &b.ID, Result: &nc, Status: models.MatchCompleted})

	win := models.ResultPlayerAWin
	_ = s.CreateMatch(ctx, &models.Match{EventID: 1, FighterAID: &a.ID, FighterBID: &b.ID, Result: &win, Status: models.MatchCompleted})

	require.NoError(t, Replay(ctx, s))

	updatedA, err := s.GetFighter(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, ratingBaseline(models.BeltBlue), updatedA.OverallRating, "no weight class and NoContest matches must not move ratings")
}

func ratingBaseline(belt models.Belt) float64 {
	return 1333
}
