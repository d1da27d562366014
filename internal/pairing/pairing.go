// internal/pairing/pairing.go
// Shared helpers for the per-format pairing strategies (spec §4.3)

package pairing

import (
	"math/rand"
	"time"

	"tournament-engine/internal/models"
)

// Shuffle randomizes participant order in place when the bracket's config
// requests random seeding (spec §4.3.1 step 1); a default-order config
// leaves the slice untouched.
func Shuffle(fighterIDs []int64, randomSeeding bool) {
	if !randomSeeding {
		return
	}
	rand.Shuffle(len(fighterIDs), func(i, j int) {
		fighterIDs[i], fighterIDs[j] = fighterIDs[j], fighterIDs[i]
	})
}

// RoundName assigns the display name for round k of a bracket with
// `rounds` total rounds, per spec §4.3.1 step 4.
func RoundName(k, rounds int) string {
	switch rounds - k {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return roundLabel(k)
	}
}

func roundLabel(k int) string {
	return "Round " + itoa(k)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// newBye builds the completed, slot-B-null, PlayerAWin match that models a
// walkover, per the §3 bye invariant.
func newBye(eventID int64, roundID int64, weightClassID *int64, fighterA int64, position *int) *models.Match {
	now := time.Now()
	result := models.ResultPlayerAWin
	return &models.Match{
		EventID:         eventID,
		BracketRoundID:  &roundID,
		FighterAID:      &fighterA,
		WeightClassID:   weightClassID,
		Result:          &result,
		Method:          "Bye",
		Status:          models.MatchCompleted,
		PositionInRound: position,
		CreatedAt:       now,
		CompletedAt:     &now,
	}
}

// newContested builds a Ready contested match with both slots filled.
func newContested(eventID, roundID int64, weightClassID *int64, a, b int64, position *int) *models.Match {
	return &models.Match{
		EventID:         eventID,
		BracketRoundID:  &roundID,
		FighterAID:      &a,
		FighterBID:      &b,
		WeightClassID:   weightClassID,
		Status:          models.MatchReady,
		PositionInRound: position,
		CreatedAt:       time.Now(),
	}
}

func intPtr(v int) *int { return &v }
