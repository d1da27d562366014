// internal/models/match.go
// Domain models representing core business entities

package models

import "time"

// Match is one bout, contested or bye, optionally seated inside a bracket
// round's dependency DAG. FighterAID/FighterBID are nil for TBD or bye
// slots; DependsOnMatchAID/DependsOnMatchBID point at the predecessor match
// feeding each slot, with RequiresWinnerA/B selecting winner vs loser.
type Match struct {
	ID               int64        `json:"id" db:"id"`
	EventID          int64        `json:"event_id" db:"event_id"`
	BracketRoundID   *int64       `json:"bracket_round_id,omitempty" db:"bracket_round_id"`
	FighterAID       *int64       `json:"fighter_a_id,omitempty" db:"fighter_a_id"`
	FighterBID       *int64       `json:"fighter_b_id,omitempty" db:"fighter_b_id"`
	WeightClassID    *int64       `json:"weight_class_id,omitempty" db:"weight_class_id"`
	Result           *MatchResult `json:"result,omitempty" db:"result"`
	Method           string       `json:"method,omitempty" db:"method"`
	DurationSeconds  int          `json:"duration_seconds,omitempty" db:"duration_seconds"`
	Status           MatchStatus  `json:"status" db:"status"`
	PositionInRound  *int         `json:"position_in_round,omitempty" db:"position_in_round"`

	DependsOnMatchAID *int64 `json:"depends_on_match_a_id,omitempty" db:"depends_on_match_a_id"`
	DependsOnMatchBID *int64 `json:"depends_on_match_b_id,omitempty" db:"depends_on_match_b_id"`
	RequiresWinnerA   bool   `json:"requires_winner_a" db:"requires_winner_a"`
	RequiresWinnerB   bool   `json:"requires_winner_b" db:"requires_winner_b"`

	AEloChange *int `json:"a_elo_change,omitempty" db:"a_elo_change"`
	BEloChange *int `json:"b_elo_change,omitempty" db:"b_elo_change"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// MatchResult is the outcome of a contested match.
type MatchResult string

const (
	ResultPlayerAWin MatchResult = "a_win"
	ResultPlayerBWin MatchResult = "b_win"
	ResultDraw       MatchResult = "draw"
	ResultNoContest  MatchResult = "no_contest"
)

// MatchStatus is the match lifecycle state.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchReady      MatchStatus = "ready"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

// IsBye reports whether this match was auto-completed as a walkover rather
// than fought.
func (m Match) IsBye() bool {
	return m.Method == "Bye"
}

// WinnerID returns the winning fighter's id, or nil on a draw, no-contest,
// or unresolved match.
func (m Match) WinnerID() *int64 {
	if m.Result == nil {
		return nil
	}
	switch *m.Result {
	case ResultPlayerAWin:
		return m.FighterAID
	case ResultPlayerBWin:
		return m.FighterBID
	default:
		return nil
	}
}

// LoserID returns the losing fighter's id, or nil on a draw, no-contest,
// or unresolved match.
func (m Match) LoserID() *int64 {
	if m.Result == nil {
		return nil
	}
	switch *m.Result {
	case ResultPlayerAWin:
		return m.FighterBID
	case ResultPlayerBWin:
		return m.FighterAID
	default:
		return nil
	}
}
