// internal/ratingreplay/replay.go
// Deterministic chronological rating replay (spec §4.2)

package ratingreplay

import (
	"context"
	"fmt"
	"math"

	"tournament-engine/internal/models"
	"tournament-engine/internal/ratingkernel"
	"tournament-engine/internal/store"
)

// counts tracks per-track and overall match counts for one fighter, used
// to select the K-factor independently per track (spec §4.2 step 6).
type counts struct {
	overall     int
	lightweight int
	middleweight int
	heavyweight int
}

func (c *counts) forTrack(t models.WeightClassTrack) int {
	switch t {
	case models.TrackLightweight:
		return c.lightweight
	case models.TrackMiddleweight:
		return c.middleweight
	case models.TrackHeavyweight:
		return c.heavyweight
	default:
		return 0
	}
}

func (c *counts) incrementTrack(t models.WeightClassTrack) {
	switch t {
	case models.TrackLightweight:
		c.lightweight++
	case models.TrackMiddleweight:
		c.middleweight++
	case models.TrackHeavyweight:
		c.heavyweight++
	}
}

// Replay resets every fighter's overall and per-class ratings to
// startingELO(belt) and replays every completed, non-NoContest match in
// chronological order, writing updated ratings and per-match deltas back
// through store. It is idempotent: running it twice yields identical
// results, since it always starts from the same baseline reset.
func Replay(ctx context.Context, s store.Store) error {
	fighters, err := s.ListAllFighters(ctx)
	if err != nil {
		return fmt.Errorf("listing fighters for replay: %w", err)
	}

	byID := make(map[int64]*models.Fighter, len(fighters))
	trackCounts := make(map[int64]*counts, len(fighters))
	for _, f := range fighters {
		baseline := ratingkernel.StartingELO(f.Belt)
		f.OverallRating = baseline
		f.OverallInitialRating = baseline
		f.ClassRatings.ResetBaseline(models.TrackLightweight, baseline)
		f.ClassRatings.ResetBaseline(models.TrackMiddleweight, baseline)
		f.ClassRatings.ResetBaseline(models.TrackHeavyweight, baseline)
		byID[f.ID] = f
		trackCounts[f.ID] = &counts{}
	}

	matches, err := s.ListCompletedMatchesForReplay(ctx)
	if err != nil {
		return fmt.Errorf("listing matches for replay: %w", err)
	}

	weightClassTrack := make(map[int64]models.WeightClassTrack)

	for _, m := range matches {
		if m.FighterAID == nil || m.FighterBID == nil || m.Result == nil {
			continue
		}
		if *m.Result == models.ResultNoContest {
			continue
		}
		if m.WeightClassID == nil {
			continue
		}

		track, ok := weightClassTrack[*m.WeightClassID]
		if !ok {
			wc, err := s.GetWeightClass(ctx, *m.WeightClassID)
			if err != nil {
				continue
			}
			track = models.TrackForWeightClass(*wc)
			weightClassTrack[*m.WeightClassID] = track
		}

		fa, fb := byID[*m.FighterAID], byID[*m.FighterBID]
		if fa == nil || fb == nil {
			continue
		}

		actualA, actualB := actualScores(*m.Result)

		ca, cb := trackCounts[fa.ID], trackCounts[fb.ID]

		classRatingA := fa.ClassRatings.Current(track)
		classRatingB := fb.ClassRatings.Current(track)
		classDeltaA := ratingkernel.Delta(classRatingA, classRatingB, actualA, ca.forTrack(track))
		classDeltaB := ratingkernel.Delta(classRatingB, classRatingA, actualB, cb.forTrack(track))

		overallDeltaA := ratingkernel.Delta(fa.OverallRating, fb.OverallRating, actualA, ca.overall)
		overallDeltaB := ratingkernel.Delta(fb.OverallRating, fa.OverallRating, actualB, cb.overall)

		fa.ClassRatings.SetCurrent(track, classRatingA+classDeltaA)
		fb.ClassRatings.SetCurrent(track, classRatingB+classDeltaB)
		fa.OverallRating += overallDeltaA
		fb.OverallRating += overallDeltaB

		roundedA := int(math.Round(classDeltaA))
		roundedB := int(math.Round(classDeltaB))
		m.AEloChange = &roundedA
		m.BEloChange = &roundedB

		ca.incrementTrack(track)
		cb.incrementTrack(track)
		ca.overall++
		cb.overall++

		if err := s.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("persisting replay deltas for match %d: %w", m.ID, err)
		}
	}

	for _, f := range fighters {
		if err := s.UpdateFighter(ctx, f); err != nil {
			return fmt.Errorf("persisting replayed ratings for fighter %d: %w", f.ID, err)
		}
	}

	return nil
}

// actualScores translates a result into the ELO (actualA, actualB) pair.
func actualScores(result models.MatchResult) (float64, float64) {
	switch result {
	case models.ResultPlayerAWin:
		return 1, 0
	case models.ResultPlayerBWin:
		return 0, 1
	case models.ResultDraw:
		return 0.5, 0.5
	default:
		return 0, 0
	}
}
