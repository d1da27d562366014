// internal/bracket/propagation.go
// Dependency-DAG propagation after a match result write (spec §4.4)
//
// Grounded on tournament_service.go's linkBracketProgression for the
// depends-on/winner-slot wiring idea, generalized into the explicit
// winner/loser propagation + bye-auto-complete recursion the spec requires.

package bracket

import (
	"context"
	"log"
	"time"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// propagate walks every match depending on m and fills the slot each one
// is waiting on. A dependent that becomes fully populated is marked Ready;
// one left with a single, winner-not-required dependency auto-completes as
// a bye and is propagated recursively. Per-dependent failures are logged
// and do not abort the remaining dependents (spec §4.4 failure semantics).
func propagate(ctx context.Context, s store.Store, logger *log.Logger, m *models.Match) error {
	if m.Result == nil || *m.Result == models.ResultDraw || *m.Result == models.ResultNoContest {
		return nil
	}
	winnerID, loserID := m.WinnerID(), m.LoserID()

	dependents, err := s.ListDependentMatches(ctx, m.ID)
	if err != nil {
		return err
	}

	for _, d := range dependents {
		changed := false

		if d.DependsOnMatchAID != nil && *d.DependsOnMatchAID == m.ID && d.FighterAID == nil {
			if d.RequiresWinnerA && winnerID != nil {
				d.FighterAID = winnerID
				changed = true
			} else if !d.RequiresWinnerA && loserID != nil {
				d.FighterAID = loserID
				changed = true
			}
		}
		if d.DependsOnMatchBID != nil && *d.DependsOnMatchBID == m.ID && d.FighterBID == nil {
			if d.RequiresWinnerB && winnerID != nil {
				d.FighterBID = winnerID
				changed = true
			} else if !d.RequiresWinnerB && loserID != nil {
				d.FighterBID = loserID
				changed = true
			}
		}
		if !changed {
			continue
		}

		if d.FighterAID != nil && d.FighterBID != nil {
			d.Status = models.MatchReady
			if err := s.UpdateMatch(ctx, d); err != nil {
				logger.Printf("propagation: update dependent match %d: %v", d.ID, err)
				continue
			}
			continue
		}

		if d.FighterAID != nil && d.FighterBID == nil && d.DependsOnMatchBID == nil && !d.RequiresWinnerB {
			now := time.Now()
			result := models.ResultPlayerAWin
			d.Result = &result
			d.Method = "Bye"
			d.Status = models.MatchCompleted
			d.DurationSeconds = 0
			d.CompletedAt = &now
			if err := s.UpdateMatch(ctx, d); err != nil {
				logger.Printf("propagation: auto-complete bye %d: %v", d.ID, err)
				continue
			}
			if err := propagate(ctx, s, logger, d); err != nil {
				logger.Printf("propagation: recurse from bye %d: %v", d.ID, err)
			}
			continue
		}

		if err := s.UpdateMatch(ctx, d); err != nil {
			logger.Printf("propagation: update dependent match %d: %v", d.ID, err)
		}
	}

	return activatePendingRounds(ctx, s, logger, m.EventID)
}

// activatePendingRounds scans Pending rounds across the event's brackets
// and promotes any round containing a Ready match to InProgress.
func activatePendingRounds(ctx context.Context, s store.Store, logger *log.Logger, eventID int64) error {
	rounds, err := s.ListPendingRoundsByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	for _, r := range rounds {
		matches, err := s.ListMatchesByRound(ctx, r.ID)
		if err != nil {
			logger.Printf("propagation: list matches for round %d: %v", r.ID, err)
			continue
		}
		hasReady := false
		for _, m := range matches {
			if m.Status == models.MatchReady {
				hasReady = true
				break
			}
		}
		if !hasReady {
			continue
		}
		r.Status = models.RoundInProgress
		if err := s.UpdateBracketRound(ctx, r); err != nil {
			logger.Printf("propagation: activate round %d: %v", r.ID, err)
		}
	}

	return nil
}
