// internal/store/store.go
// Storage interface consumed by the engine (spec §6)

package store

import (
	"context"

	"tournament-engine/internal/models"
)

// Store is the single abstract persistence surface the engine depends on.
// It is passed explicitly into every engine constructor; there is no
// implicit ambient session (spec §9 redesign flag).
//
// Two implementations exist: mysqlstore (real) and memstore (test double).
type Store interface {
	// Lookups by primary key.
	GetFighter(ctx context.Context, id int64) (*models.Fighter, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	GetWeightClass(ctx context.Context, id int64) (*models.WeightClass, error)
	GetBracketFormat(ctx context.Context, id int64) (*models.BracketFormat, error)
	GetBracketRound(ctx context.Context, id int64) (*models.BracketRound, error)
	GetMatch(ctx context.Context, id int64) (*models.Match, error)

	// ListEligibleEntries returns checked-in Entries for an event, optionally
	// filtered to one weight class (spec §4.4 generateBracket eligibility).
	ListEligibleEntries(ctx context.Context, eventID int64, weightClassID *int64) ([]*models.Entry, error)

	// ListMatchesByEvent returns every match belonging to an event.
	ListMatchesByEvent(ctx context.Context, eventID int64) ([]*models.Match, error)
	// ListMatchesByBracket returns every match in a bracket, joined through rounds.
	ListMatchesByBracket(ctx context.Context, bracketFormatID int64) ([]*models.Match, error)
	// ListMatchesByRound returns every match belonging to one round.
	ListMatchesByRound(ctx context.Context, roundID int64) ([]*models.Match, error)
	// ListMatchesByStatus returns matches in a bracket with the given status.
	ListMatchesByStatus(ctx context.Context, bracketFormatID int64, status models.MatchStatus) ([]*models.Match, error)
	// ListMatchesByFighter returns matches in which fighterID occupies either slot.
	ListMatchesByFighter(ctx context.Context, fighterID int64) ([]*models.Match, error)
	// ListDependentMatches returns matches whose A or B dependency points at matchID.
	ListDependentMatches(ctx context.Context, matchID int64) ([]*models.Match, error)
	// ListRoundsByBracket returns every round of a bracket, ordered by round number.
	ListRoundsByBracket(ctx context.Context, bracketFormatID int64) ([]*models.BracketRound, error)
	// ListPendingRoundsByEvent returns Pending rounds across every bracket of an event.
	ListPendingRoundsByEvent(ctx context.Context, eventID int64) ([]*models.BracketRound, error)

	// ListCompletedMatchesForReplay returns every match with a non-null
	// result, ordered by (event date ASC, match id ASC), per spec §4.2.
	ListCompletedMatchesForReplay(ctx context.Context) ([]*models.Match, error)

	// ListAllFighters returns every fighter, for the replay reset step.
	ListAllFighters(ctx context.Context) ([]*models.Fighter, error)

	CreateFighter(ctx context.Context, f *models.Fighter) error
	UpdateFighter(ctx context.Context, f *models.Fighter) error

	CreateBracketFormat(ctx context.Context, b *models.BracketFormat) error
	UpdateBracketFormat(ctx context.Context, b *models.BracketFormat) error
	DeleteBracketFormat(ctx context.Context, id int64) error

	CreateBracketRound(ctx context.Context, r *models.BracketRound) error
	UpdateBracketRound(ctx context.Context, r *models.BracketRound) error

	CreateMatch(ctx context.Context, m *models.Match) error
	UpdateMatch(ctx context.Context, m *models.Match) error
	DeleteMatch(ctx context.Context, id int64) error

	// ClearDependencyReferences nulls out any dependent match's slot and
	// dependency pointer that referenced matchID (used by deleteMatch and
	// undoMatchResult, spec §4.4).
	ClearDependencyReferences(ctx context.Context, matchID int64) error
}
