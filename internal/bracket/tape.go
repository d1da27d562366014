// internal/bracket/tape.go
// Head-to-head record and ELO preview ("tale of the tape"), per SPEC_FULL §12.1-2
//
// Grounded on elo_service.py's preview_elo_changes and get_head_to_head,
// composed here behind one read since neither mutates bracket state.

package bracket

import (
	"context"

	"tournament-engine/internal/models"
	"tournament-engine/internal/ratingkernel"
	"tournament-engine/internal/store"
)

// HeadToHead is the symmetric win/loss/draw tally between two fighters,
// restricted to non-NoContest results, ordered most recent first.
type HeadToHead struct {
	FighterAWins  int
	FighterBWins  int
	Draws         int
	RecentResults []models.MatchResult
}

// OutcomePreview is the rating delta each fighter would see under one
// hypothetical outcome, without mutating any state.
type OutcomePreview struct {
	Result      models.MatchResult
	AEloChange  float64
	BEloChange  float64
}

// TaleOfTheTape composes current ratings, match counts, the expected
// score, a three-outcome delta preview, and the head-to-head record for an
// upcoming A-vs-B pairing.
type TaleOfTheTape struct {
	FighterARating   float64
	FighterBRating   float64
	FighterAMatches  int
	FighterBMatches  int
	ExpectedA        float64
	ExpectedB        float64
	Previews         []OutcomePreview
	HeadToHead       HeadToHead
}

// GetTaleOfTheTape computes the composed preview for a prospective A-vs-B
// match at a given weight class track (nil for the overall/P4P track).
func (e *Engine) GetTaleOfTheTape(ctx context.Context, fighterAID, fighterBID int64, track *models.WeightClassTrack) (*TaleOfTheTape, error) {
	fa, err := e.store.GetFighter(ctx, fighterAID)
	if err != nil {
		return nil, err
	}
	fb, err := e.store.GetFighter(ctx, fighterBID)
	if err != nil {
		return nil, err
	}

	ratingA, ratingB := fa.OverallRating, fb.OverallRating
	if track != nil {
		ratingA, ratingB = fa.ClassRatings.Current(*track), fb.ClassRatings.Current(*track)
	}

	matchesA, err := countCompletedMatches(ctx, e.store, fighterAID)
	if err != nil {
		return nil, err
	}
	matchesB, err := countCompletedMatches(ctx, e.store, fighterBID)
	if err != nil {
		return nil, err
	}

	expectedA := ratingkernel.Expected(ratingA, ratingB)
	expectedB := 1 - expectedA

	previews := []OutcomePreview{
		{
			Result:     models.ResultPlayerAWin,
			AEloChange: ratingkernel.Delta(ratingA, ratingB, 1.0, matchesA),
			BEloChange: ratingkernel.Delta(ratingB, ratingA, 0.0, matchesB),
		},
		{
			Result:     models.ResultPlayerBWin,
			AEloChange: ratingkernel.Delta(ratingA, ratingB, 0.0, matchesA),
			BEloChange: ratingkernel.Delta(ratingB, ratingA, 1.0, matchesB),
		},
		{
			Result:     models.ResultDraw,
			AEloChange: ratingkernel.Delta(ratingA, ratingB, 0.5, matchesA),
			BEloChange: ratingkernel.Delta(ratingB, ratingA, 0.5, matchesB),
		},
	}

	h2h, err := HeadToHeadRecord(ctx, e.store, fighterAID, fighterBID)
	if err != nil {
		return nil, err
	}

	return &TaleOfTheTape{
		FighterARating:  ratingA,
		FighterBRating:  ratingB,
		FighterAMatches: matchesA,
		FighterBMatches: matchesB,
		ExpectedA:       expectedA,
		ExpectedB:       expectedB,
		Previews:        previews,
		HeadToHead:      *h2h,
	}, nil
}

// GetTaleOfTheTapeForMatch composes the preview for an existing match's
// fighter pair, deriving the rating track from the match's weight class
// (overall/P4P ratings if unset). The match need not be Ready yet, so this
// also serves as a pairing preview before a round is activated.
func (e *Engine) GetTaleOfTheTapeForMatch(ctx context.Context, matchID int64) (*TaleOfTheTape, error) {
	m, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.FighterAID == nil || m.FighterBID == nil {
		return nil, models.NewError(models.KindInvalidState, "match has no fighters assigned yet")
	}

	var track *models.WeightClassTrack
	if m.WeightClassID != nil {
		wc, err := e.store.GetWeightClass(ctx, *m.WeightClassID)
		if err != nil {
			return nil, err
		}
		t := models.TrackForWeightClass(*wc)
		track = &t
	}

	return e.GetTaleOfTheTape(ctx, *m.FighterAID, *m.FighterBID, track)
}

// HeadToHeadRecord tallies wins/draws between two fighters from fighterA's
// perspective, restricted to non-NoContest results, most recent first.
func HeadToHeadRecord(ctx context.Context, s store.Store, fighterAID, fighterBID int64) (*HeadToHead, error) {
	matches, err := s.ListMatchesByFighter(ctx, fighterAID)
	if err != nil {
		return nil, err
	}

	h2h := &HeadToHead{}
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m.Result == nil || *m.Result == models.ResultNoContest {
			continue
		}
		isMutual := (m.FighterAID != nil && m.FighterBID != nil) &&
			((*m.FighterAID == fighterAID && *m.FighterBID == fighterBID) ||
				(*m.FighterAID == fighterBID && *m.FighterBID == fighterAID))
		if !isMutual {
			continue
		}

		aPerspective := resultFromPerspective(m, fighterAID)
		switch aPerspective {
		case models.ResultPlayerAWin:
			h2h.FighterAWins++
		case models.ResultPlayerBWin:
			h2h.FighterBWins++
		case models.ResultDraw:
			h2h.Draws++
		}
		h2h.RecentResults = append(h2h.RecentResults, aPerspective)
	}

	return h2h, nil
}

// resultFromPerspective reorients a match's result to be from the named
// fighter's point of view, regardless of which slot they occupied.
func resultFromPerspective(m *models.Match, fighterID int64) models.MatchResult {
	if *m.Result == models.ResultDraw {
		return models.ResultDraw
	}
	winner := m.WinnerID()
	if winner != nil && *winner == fighterID {
		return models.ResultPlayerAWin
	}
	return models.ResultPlayerBWin
}

func countCompletedMatches(ctx context.Context, s store.Store, fighterID int64) (int, error) {
	matches, err := s.ListMatchesByFighter(ctx, fighterID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range matches {
		if m.Status == models.MatchCompleted && m.Result != nil && *m.Result != models.ResultNoContest {
			count++
		}
	}
	return count, nil
}
