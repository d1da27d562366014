// internal/pairing/roundrobin.go
// Round robin bracket construction (spec §4.3.4)
//
// Grounded on tournament_service.go's generateRoundRobinFixtures for the
// upfront-all-rounds creation style, using the standard circle method with
// a virtual bye slot for odd fields.

package pairing

import (
	"context"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

const virtualByeSlot = int64(-1)

// RoundRobin creates every round upfront: round 1 is InProgress with Ready
// matches, every later round is Pending with Pending matches, all
// independent of one another (no DependsOnMatchAID/BID wiring at all,
// since round robin has no elimination dependency graph).
func RoundRobin(ctx context.Context, s store.Store, bracket *models.BracketFormat, fighterIDs []int64) ([]*models.BracketRound, error) {
	Shuffle(fighterIDs, bracket.Config.RandomSeeding())

	circle := make([]int64, len(fighterIDs))
	copy(circle, fighterIDs)
	if len(circle)%2 == 1 {
		circle = append(circle, virtualByeSlot)
	}
	n := len(circle)
	totalRounds := n - 1

	var created []*models.BracketRound

	for k := 1; k <= totalRounds; k++ {
		status := models.RoundPending
		matchStatus := models.MatchPending
		if k == 1 {
			status = models.RoundInProgress
			matchStatus = models.MatchReady
		}

		round := &models.BracketRound{
			BracketFormatID: bracket.ID,
			RoundNumber:     k,
			DisplayName:     "Round " + itoa(k),
			Status:          status,
			Metadata:        models.RoundMetadata{Format: models.FormatRoundRobin, TotalRounds: totalRounds},
		}
		if err := s.CreateBracketRound(ctx, round); err != nil {
			return nil, err
		}

		position := 0
		for i := 0; i < n/2; i++ {
			a, b := circle[i], circle[n-1-i]
			if a == virtualByeSlot || b == virtualByeSlot {
				fighter := a
				if a == virtualByeSlot {
					fighter = b
				}
				m := newBye(bracket.EventID, round.ID, bracket.WeightClassID, fighter, intPtr(position))
				if err := s.CreateMatch(ctx, m); err != nil {
					return nil, err
				}
			} else {
				m := newContested(bracket.EventID, round.ID, bracket.WeightClassID, a, b, intPtr(position))
				m.Status = matchStatus
				if err := s.CreateMatch(ctx, m); err != nil {
					return nil, err
				}
			}
			position++
		}

		created = append(created, round)
		circle = rotate(circle)
	}

	return created, nil
}

// rotate implements the circle method: slot 0 stays fixed, every other
// slot shifts one position clockwise.
func rotate(circle []int64) []int64 {
	n := len(circle)
	if n <= 2 {
		return circle
	}
	out := make([]int64, n)
	out[0] = circle[0]
	out[1] = circle[n-1]
	for i := 2; i < n; i++ {
		out[i] = circle[i-1]
	}
	return out
}
