// internal/bracket/engine.go
// Public bracket operations (spec §4.4 Operations)
//
// Grounded on tournament_service.go's TournamentService method set and
// constructor shape (store + logger fields, context-taking methods).

package bracket

import (
	"context"
	"log"
	"math"
	"time"

	"tournament-engine/internal/models"
	"tournament-engine/internal/pairing"
	"tournament-engine/internal/ratingreplay"
	"tournament-engine/internal/store"
)

// MatchLocker is the advisory lock guarding concurrent updateMatchResult
// calls on the same match, satisfied by services.CacheService's SETNX lock.
type MatchLocker interface {
	AcquireMatchLock(ctx context.Context, matchID int64) (bool, error)
	ReleaseMatchLock(ctx context.Context, matchID int64) error
}

// EventBroadcaster pushes bracket lifecycle notifications to subscribed
// clients, satisfied by websocket.Hub.
type EventBroadcaster interface {
	BroadcastBracketEvent(bracketID int64, eventType string, data interface{})
}

// EventLogger records bracket lifecycle events to the audit log,
// satisfied by services.AnalyticsService.
type EventLogger interface {
	LogBracketEvent(ctx context.Context, bracketID int64, eventType string, data map[string]interface{})
}

// Engine is the bracket state machine's entry point. It holds no state of
// its own beyond the storage handle: every operation reads and writes
// through store.Store.
type Engine struct {
	store       store.Store
	logger      *log.Logger
	locker      MatchLocker
	broadcaster EventBroadcaster
	analytics   EventLogger
}

func NewEngine(s store.Store, logger *log.Logger) *Engine {
	return &Engine{store: s, logger: logger}
}

// WithMatchLocker attaches the advisory lock used by UpdateMatchResult to
// surface StaleState on a conflicting concurrent call. Optional: without
// it, the engine relies solely on the store's row-level conflict detection.
func (e *Engine) WithMatchLocker(locker MatchLocker) *Engine {
	e.locker = locker
	return e
}

// WithBroadcaster attaches the websocket hub used to notify subscribed
// clients of bracket lifecycle events. Optional.
func (e *Engine) WithBroadcaster(b EventBroadcaster) *Engine {
	e.broadcaster = b
	return e
}

// WithAnalytics attaches the audit log used to record bracket lifecycle
// events and replay runs. Optional.
func (e *Engine) WithAnalytics(a EventLogger) *Engine {
	e.analytics = a
	return e
}

// notify pushes a lifecycle event to whichever of the broadcaster/analytics
// sinks are wired in. Never returns an error: notification is best-effort.
func (e *Engine) notify(ctx context.Context, bracketID int64, eventType string, data map[string]interface{}) {
	if e.broadcaster != nil {
		e.broadcaster.BroadcastBracketEvent(bracketID, eventType, data)
	}
	if e.analytics != nil {
		e.analytics.LogBracketEvent(ctx, bracketID, eventType, data)
	}
}

// CreateBracket persists a bracket skeleton. It does not allocate rounds.
func (e *Engine) CreateBracket(ctx context.Context, eventID int64, weightClassID *int64, format models.TournamentFormat, config models.FormatConfig, minRestMinutes int, autoGenerate bool) (*models.BracketFormat, error) {
	if minRestMinutes == 0 {
		minRestMinutes = 30
	}
	b := &models.BracketFormat{
		EventID:        eventID,
		WeightClassID:  weightClassID,
		Format:         format,
		Config:         config,
		MinRestMinutes: minRestMinutes,
		AutoGenerate:   autoGenerate,
	}
	if err := e.store.CreateBracketFormat(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateBracket allocates the format's rounds from eligible, checked-in
// entries and returns the created rounds.
func (e *Engine) GenerateBracket(ctx context.Context, bracketID int64) ([]*models.BracketRound, error) {
	b, err := e.store.GetBracketFormat(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	if b.Generated {
		return nil, models.NewError(models.KindAlreadyGenerated, "bracket already generated")
	}

	entries, err := e.store.ListEligibleEntries(ctx, b.EventID, b.WeightClassID)
	if err != nil {
		return nil, err
	}
	minParticipants := 2
	if b.Format == models.FormatDoubleElimination {
		minParticipants = pairing.MinDoubleEliminationFighters
	}
	if len(entries) < minParticipants {
		return nil, models.NewError(models.KindTooFewParticipants, "not enough checked-in participants")
	}

	fighterIDs := make([]int64, len(entries))
	for i, entry := range entries {
		fighterIDs[i] = entry.FighterID
	}

	var rounds []*models.BracketRound
	switch b.Format {
	case models.FormatSingleElimination:
		rounds, err = pairing.SingleElimination(ctx, e.store, b, fighterIDs)
	case models.FormatDoubleElimination:
		rounds, err = pairing.DoubleElimination(ctx, e.store, b, fighterIDs)
	case models.FormatRoundRobin:
		rounds, err = pairing.RoundRobin(ctx, e.store, b, fighterIDs)
	case models.FormatSwiss:
		var r *models.BracketRound
		r, err = pairing.SwissFirstRound(ctx, e.store, b, fighterIDs)
		if err == nil {
			rounds = []*models.BracketRound{r}
		}
	case models.FormatGuaranteedMatches:
		fighters, ferr := fightersByIDs(ctx, e.store, fighterIDs)
		if ferr != nil {
			return nil, ferr
		}
		var r *models.BracketRound
		r, err = pairing.GuaranteedFirstRound(ctx, e.store, b, fighterIDs, fighters)
		if err == nil {
			rounds = []*models.BracketRound{r}
		}
	default:
		return nil, models.NewError(models.KindConfigError, "unknown bracket format: "+string(b.Format))
	}
	if err != nil {
		return nil, err
	}

	if err := propagateFirstRoundByes(ctx, e.store, e.logger, rounds); err != nil {
		return nil, err
	}

	b.Generated = true
	if err := e.store.UpdateBracketFormat(ctx, b); err != nil {
		return nil, err
	}

	e.notify(ctx, bracketID, "bracket_generated", map[string]interface{}{"round_count": len(rounds)})

	return rounds, nil
}

// propagateFirstRoundByes drives the bye-auto-complete/propagation chain
// for every bye match construction already wrote (spec §4.4 step 5).
func propagateFirstRoundByes(ctx context.Context, s store.Store, logger *log.Logger, rounds []*models.BracketRound) error {
	for _, r := range rounds {
		matches, err := s.ListMatchesByRound(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if m.IsBye() {
				if err := propagate(ctx, s, logger, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DeleteBracket cascades round/match deletion and triggers a replay if any
// deleted match carried a result.
func (e *Engine) DeleteBracket(ctx context.Context, bracketID int64) error {
	matches, err := e.store.ListMatchesByBracket(ctx, bracketID)
	if err != nil {
		return err
	}
	hadResult := false
	for _, m := range matches {
		if m.Result != nil {
			hadResult = true
			break
		}
	}

	if err := e.store.DeleteBracketFormat(ctx, bracketID); err != nil {
		return err
	}

	if hadResult {
		if err := ratingreplay.Replay(ctx, e.store); err != nil {
			e.logger.Printf("deleteBracket: replay: %v", err)
		}
	}
	return nil
}

// UpdateMatchResult writes a match's result and drives propagation and
// round-completion checks.
func (e *Engine) UpdateMatchResult(ctx context.Context, matchID int64, result models.MatchResult, method string, durationSeconds int) (*models.Match, error) {
	if e.locker != nil {
		acquired, err := e.locker.AcquireMatchLock(ctx, matchID)
		if err != nil {
			e.logger.Printf("updateMatchResult: acquire lock for match %d: %v", matchID, err)
		} else if !acquired {
			return nil, models.NewError(models.KindStaleState, "match result update already in progress")
		} else {
			defer func() {
				if err := e.locker.ReleaseMatchLock(ctx, matchID); err != nil {
					e.logger.Printf("updateMatchResult: release lock for match %d: %v", matchID, err)
				}
			}()
		}
	}

	m, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.FighterAID == nil || (m.FighterBID == nil && result != models.ResultPlayerAWin) {
		return nil, models.NewError(models.KindInvalidState, "cannot set a result on a match with an empty slot")
	}

	now := time.Now()
	m.Result = &result
	m.Method = method
	m.DurationSeconds = durationSeconds
	m.Status = models.MatchCompleted
	m.CompletedAt = &now
	if err := e.store.UpdateMatch(ctx, m); err != nil {
		return nil, err
	}

	if err := propagate(ctx, e.store, e.logger, m); err != nil {
		e.logger.Printf("updateMatchResult: propagate match %d: %v", m.ID, err)
	}
	if m.BracketRoundID != nil {
		if err := checkRoundCompletion(ctx, e.store, e.logger, *m.BracketRoundID); err != nil {
			e.logger.Printf("updateMatchResult: round completion for match %d: %v", m.ID, err)
		}
	}

	if err := ratingreplay.Replay(ctx, e.store); err != nil {
		e.logger.Printf("updateMatchResult: replay: %v", err)
	}

	if bracketID, ok := e.bracketIDForMatch(ctx, m); ok {
		e.notify(ctx, bracketID, "match_result_posted", map[string]interface{}{"match_id": m.ID, "result": result})
	}

	return m, nil
}

// bracketIDForMatch resolves the owning bracket for a match, returning
// ok=false for manually created matches that have no round.
func (e *Engine) bracketIDForMatch(ctx context.Context, m *models.Match) (int64, bool) {
	if m.BracketRoundID == nil {
		return 0, false
	}
	r, err := e.store.GetBracketRound(ctx, *m.BracketRoundID)
	if err != nil {
		return 0, false
	}
	return r.BracketFormatID, true
}

// UndoMatchResult clears a match's result and every dependent slot it
// populated, then triggers a replay.
func (e *Engine) UndoMatchResult(ctx context.Context, matchID int64) (*models.Match, error) {
	m, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Result == nil {
		return nil, models.NewError(models.KindInvalidState, "match has no result to undo")
	}

	m.Result = nil
	m.Method = ""
	m.DurationSeconds = 0
	m.AEloChange = nil
	m.BEloChange = nil
	m.CompletedAt = nil
	if m.FighterAID != nil && m.FighterBID != nil {
		m.Status = models.MatchReady
	} else {
		m.Status = models.MatchPending
	}
	if err := e.store.UpdateMatch(ctx, m); err != nil {
		return nil, err
	}

	if err := clearDependentSlots(ctx, e.store, m.ID); err != nil {
		e.logger.Printf("undoMatchResult: clear dependents of match %d: %v", m.ID, err)
	}

	if err := ratingreplay.Replay(ctx, e.store); err != nil {
		e.logger.Printf("undoMatchResult: replay: %v", err)
	}

	if bracketID, ok := e.bracketIDForMatch(ctx, m); ok {
		e.notify(ctx, bracketID, "match_result_undone", map[string]interface{}{"match_id": m.ID})
	}

	return m, nil
}

// clearDependentSlots resets any dependent match's slot that this match's
// result populated, cascading into matches that had been auto-completed
// byes fed by those slots.
func clearDependentSlots(ctx context.Context, s store.Store, matchID int64) error {
	dependents, err := s.ListDependentMatches(ctx, matchID)
	if err != nil {
		return err
	}
	for _, d := range dependents {
		wasBye := d.IsBye()
		if d.DependsOnMatchAID != nil && *d.DependsOnMatchAID == matchID {
			d.FighterAID = nil
		}
		if d.DependsOnMatchBID != nil && *d.DependsOnMatchBID == matchID {
			d.FighterBID = nil
		}
		if wasBye {
			d.Result = nil
			d.Method = ""
			d.CompletedAt = nil
		}
		d.Status = models.MatchPending
		if err := s.UpdateMatch(ctx, d); err != nil {
			return err
		}
		if wasBye {
			if err := clearDependentSlots(ctx, s, d.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteMatch removes a match and clears any dependency references and
// populated slots in its dependents, then triggers a replay if it had a
// result.
func (e *Engine) DeleteMatch(ctx context.Context, matchID int64) error {
	m, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	hadResult := m.Result != nil

	if err := e.store.ClearDependencyReferences(ctx, matchID); err != nil {
		return err
	}
	if err := e.store.DeleteMatch(ctx, matchID); err != nil {
		return err
	}

	if hadResult {
		if err := ratingreplay.Replay(ctx, e.store); err != nil {
			e.logger.Printf("deleteMatch: replay: %v", err)
		}
	}
	return nil
}

// CreateManualMatch creates a non-bracket match outside any round.
func (e *Engine) CreateManualMatch(ctx context.Context, eventID, fighterAID, fighterBID int64, weightClassID *int64) (*models.Match, error) {
	if fighterAID == fighterBID {
		return nil, models.NewError(models.KindInvalidState, "a fighter cannot be matched against themself")
	}

	entries, err := e.store.ListEligibleEntries(ctx, eventID, nil)
	if err != nil {
		return nil, err
	}
	checkedIn := map[int64]bool{}
	for _, entry := range entries {
		checkedIn[entry.FighterID] = true
	}
	if !checkedIn[fighterAID] || !checkedIn[fighterBID] {
		return nil, models.NewError(models.KindInvalidState, "both fighters must be checked in for a manual match")
	}

	fa, err := e.store.GetFighter(ctx, fighterAID)
	if err != nil {
		return nil, err
	}
	fb, err := e.store.GetFighter(ctx, fighterBID)
	if err != nil {
		return nil, err
	}

	if !pairing.WeightLegal(fa.BodyWeightLbs, fb.BodyWeightLbs) && !sameClassOrUnset(fa, fb) {
		return nil, models.NewError(models.KindWeightMismatch, "fighters exceed the 30lb tolerance and are not in the same weight class")
	}

	if weightClassID == nil {
		weightClassID = pairing.MatchWeightClassAssignment(fa, fb)
	}

	m := &models.Match{
		EventID:       eventID,
		FighterAID:    &fighterAID,
		FighterBID:    &fighterBID,
		WeightClassID: weightClassID,
		Status:        models.MatchReady,
		CreatedAt:     time.Now(),
	}
	if err := e.store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func sameClassOrUnset(a, b *models.Fighter) bool {
	if a.PrimaryWeightClassID == nil || b.PrimaryWeightClassID == nil {
		return false
	}
	return *a.PrimaryWeightClassID == *b.PrimaryWeightClassID
}

// GetUpcomingMatches returns Ready matches whose fighters have both
// cleared the bracket's minimum rest interval since their most recent
// completed match.
func (e *Engine) GetUpcomingMatches(ctx context.Context, bracketID int64, limit int) ([]*models.Match, error) {
	b, err := e.store.GetBracketFormat(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	ready, err := e.store.ListMatchesByStatus(ctx, bracketID, models.MatchReady)
	if err != nil {
		return nil, err
	}

	var out []*models.Match
	minRest := time.Duration(b.MinRestMinutes) * time.Minute
	now := time.Now()
	for _, m := range ready {
		if m.FighterAID == nil || m.FighterBID == nil {
			continue
		}
		if !restCleared(ctx, e.store, *m.FighterAID, now, minRest) {
			continue
		}
		if !restCleared(ctx, e.store, *m.FighterBID, now, minRest) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func restCleared(ctx context.Context, s store.Store, fighterID int64, now time.Time, minRest time.Duration) bool {
	matches, err := s.ListMatchesByFighter(ctx, fighterID)
	if err != nil {
		return true
	}
	var mostRecent *time.Time
	for _, m := range matches {
		if m.CompletedAt == nil {
			continue
		}
		if mostRecent == nil || m.CompletedAt.After(*mostRecent) {
			mostRecent = m.CompletedAt
		}
	}
	if mostRecent == nil {
		return true
	}
	return now.Sub(*mostRecent) >= minRest
}

// FormatRecommendation is one candidate format's projected fit for an
// n-fighter field (spec §4.4 recommendFormat).
type FormatRecommendation struct {
	Format            models.TournamentFormat
	MatchCount        int
	MatchesPerFighter float64
	EstimatedMinutes  int
	InRange           bool
	DistanceFromRange int
	FitsInBudget      bool
}

// RecommendFormat is exposed as a free function (see recommend.go) rather
// than an Engine method, since it needs no storage access.
var RecommendFormat = recommendFormat

func roundMatchesPerFighter(matchCount, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(matchCount)*2/float64(n)*100) / 100
}
