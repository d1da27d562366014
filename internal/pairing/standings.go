// internal/pairing/standings.go
// Shared standings/history computation used by Swiss and GuaranteedMatches
// round advancement (spec §4.3.3 step 1, §4.3.5 step 3)

package pairing

import "tournament-engine/internal/models"

// Standing is one fighter's record within a bracket at a point in time.
type Standing struct {
	FighterID int64
	Points    float64
	Wins      int
	Draws     int
}

// ComputeStandings derives points (1·win + 0.5·draw) and wins/draws for
// every fighter in fighterIDs from a bracket's matches, and a symmetric
// rematch-count history keyed by the lower fighter id first. Byes
// contribute a point to the recipient but no history entry, since there
// is no opponent to avoid a rematch against.
func ComputeStandings(fighterIDs []int64, matches []*models.Match) (map[int64]*Standing, map[pairKey]int) {
	standings := make(map[int64]*Standing, len(fighterIDs))
	for _, id := range fighterIDs {
		standings[id] = &Standing{FighterID: id}
	}

	history := make(map[pairKey]int)

	for _, m := range matches {
		if m.Result == nil || *m.Result == models.ResultNoContest {
			continue
		}
		if m.FighterAID == nil {
			continue
		}

		if m.FighterBID != nil {
			history[newPairKey(*m.FighterAID, *m.FighterBID)]++
		}

		switch *m.Result {
		case models.ResultPlayerAWin:
			addWin(standings, *m.FighterAID)
		case models.ResultPlayerBWin:
			if m.FighterBID != nil {
				addWin(standings, *m.FighterBID)
			}
		case models.ResultDraw:
			addDraw(standings, *m.FighterAID)
			if m.FighterBID != nil {
				addDraw(standings, *m.FighterBID)
			}
		}
	}

	return standings, history
}

func addWin(standings map[int64]*Standing, id int64) {
	s, ok := standings[id]
	if !ok {
		s = &Standing{FighterID: id}
		standings[id] = s
	}
	s.Wins++
	s.Points += 1
}

func addDraw(standings map[int64]*Standing, id int64) {
	s, ok := standings[id]
	if !ok {
		s = &Standing{FighterID: id}
		standings[id] = s
	}
	s.Draws++
	s.Points += 0.5
}

// pairKey is an order-independent key for two fighter ids.
type pairKey struct {
	lo, hi int64
}

func newPairKey(a, b int64) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// RematchCount returns how many times two fighters have already faced
// each other according to history.
func RematchCount(history map[pairKey]int, a, b int64) int {
	return history[newPairKey(a, b)]
}
