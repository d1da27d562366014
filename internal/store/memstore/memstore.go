// internal/store/memstore/memstore.go
// In-memory Store implementation used by tests.
//
// There is no third-party in-memory SQL fake in the retrieval pack, so this
// is hand-written; see DESIGN.md.

package memstore

import (
	"context"
	"sort"
	"sync"

	"tournament-engine/internal/models"
	"tournament-engine/internal/store"
)

// Store is a map-backed implementation of store.Store. Not safe for use
// across goroutines without the embedded mutex, which every method holds.
type Store struct {
	mu sync.Mutex

	fighters       map[int64]*models.Fighter
	events         map[int64]*models.Event
	entries        map[int64]*models.Entry
	weightClasses  map[int64]*models.WeightClass
	bracketFormats map[int64]*models.BracketFormat
	bracketRounds  map[int64]*models.BracketRound
	matches        map[int64]*models.Match

	nextFighterID int64
	nextBracketID int64
	nextRoundID   int64
	nextMatchID   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		fighters:       make(map[int64]*models.Fighter),
		events:         make(map[int64]*models.Event),
		entries:        make(map[int64]*models.Entry),
		weightClasses:  make(map[int64]*models.WeightClass),
		bracketFormats: make(map[int64]*models.BracketFormat),
		bracketRounds:  make(map[int64]*models.BracketRound),
		matches:        make(map[int64]*models.Match),
	}
}

var _ store.Store = (*Store)(nil)

// Seeding helpers, used directly by tests to set up fixtures without going
// through the Store interface's create/update surface.

func (s *Store) PutFighter(f *models.Fighter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		s.nextFighterID++
		f.ID = s.nextFighterID
	}
	clone := *f
	s.fighters[f.ID] = &clone
}

func (s *Store) PutEvent(e *models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *e
	s.events[e.ID] = &clone
}

func (s *Store) PutEntry(e *models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *e
	s.entries[e.ID] = &clone
}

func (s *Store) PutWeightClass(w *models.WeightClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *w
	s.weightClasses[w.ID] = &clone
}

func (s *Store) GetFighter(_ context.Context, id int64) (*models.Fighter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fighters[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "fighter not found")
	}
	clone := *f
	return &clone, nil
}

func (s *Store) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "event not found")
	}
	clone := *e
	return &clone, nil
}

func (s *Store) GetEntry(_ context.Context, id int64) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "entry not found")
	}
	clone := *e
	return &clone, nil
}

func (s *Store) GetWeightClass(_ context.Context, id int64) (*models.WeightClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.weightClasses[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "weight class not found")
	}
	clone := *w
	return &clone, nil
}

func (s *Store) GetBracketFormat(_ context.Context, id int64) (*models.BracketFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bracketFormats[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "bracket not found")
	}
	clone := *b
	return &clone, nil
}

func (s *Store) GetBracketRound(_ context.Context, id int64) (*models.BracketRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.bracketRounds[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "round not found")
	}
	clone := *r
	return &clone, nil
}

func (s *Store) GetMatch(_ context.Context, id int64) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "match not found")
	}
	clone := *m
	return &clone, nil
}

func (s *Store) ListEligibleEntries(_ context.Context, eventID int64, weightClassID *int64) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Entry
	for _, e := range s.entries {
		if e.EventID != eventID || !e.CheckedIn {
			continue
		}
		if weightClassID != nil {
			if e.WeightClassID == nil || *e.WeightClassID != *weightClassID {
				continue
			}
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListMatchesByEvent(_ context.Context, eventID int64) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Match
	for _, m := range s.matches {
		if m.EventID == eventID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListMatchesByBracket(_ context.Context, bracketFormatID int64) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roundIDs := map[int64]bool{}
	for _, r := range s.bracketRounds {
		if r.BracketFormatID == bracketFormatID {
			roundIDs[r.ID] = true
		}
	}
	var out []*models.Match
	for _, m := range s.matches {
		if m.BracketRoundID != nil && roundIDs[*m.BracketRoundID] {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListMatchesByRound(_ context.Context, roundID int64) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Match
	for _, m := range s.matches {
		if m.BracketRoundID != nil && *m.BracketRoundID == roundID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListMatchesByStatus(_ context.Context, bracketFormatID int64, status models.MatchStatus) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roundIDs := map[int64]bool{}
	for _, r := range s.bracketRounds {
		if r.BracketFormatID == bracketFormatID {
			roundIDs[r.ID] = true
		}
	}
	var out []*models.Match
	for _, m := range s.matches {
		if m.Status == status && m.BracketRoundID != nil && roundIDs[*m.BracketRoundID] {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListMatchesByFighter(_ context.Context, fighterID int64) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Match
	for _, m := range s.matches {
		if (m.FighterAID != nil && *m.FighterAID == fighterID) || (m.FighterBID != nil && *m.FighterBID == fighterID) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListDependentMatches(_ context.Context, matchID int64) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Match
	for _, m := range s.matches {
		if (m.DependsOnMatchAID != nil && *m.DependsOnMatchAID == matchID) ||
			(m.DependsOnMatchBID != nil && *m.DependsOnMatchBID == matchID) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *Store) ListRoundsByBracket(_ context.Context, bracketFormatID int64) ([]*models.BracketRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BracketRound
	for _, r := range s.bracketRounds {
		if r.BracketFormatID == bracketFormatID {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out, nil
}

func (s *Store) ListPendingRoundsByEvent(_ context.Context, eventID int64) ([]*models.BracketRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bracketIDs := map[int64]bool{}
	for _, b := range s.bracketFormats {
		if b.EventID == eventID {
			bracketIDs[b.ID] = true
		}
	}
	var out []*models.BracketRound
	for _, r := range s.bracketRounds {
		if r.Status == models.RoundPending && bracketIDs[r.BracketFormatID] {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out, nil
}

func (s *Store) ListCompletedMatchesForReplay(_ context.Context) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Match
	for _, m := range s.matches {
		if m.Result != nil {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := s.events[out[i].EventID], s.events[out[j].EventID]
		var di, dj int64
		if ei != nil {
			di = ei.ScheduledDate.Unix()
		}
		if ej != nil {
			dj = ej.ScheduledDate.Unix()
		}
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ListAllFighters(_ context.Context) ([]*models.Fighter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Fighter
	for _, f := range s.fighters {
		clone := *f
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateFighter(_ context.Context, f *models.Fighter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFighterID++
	f.ID = s.nextFighterID
	clone := *f
	s.fighters[f.ID] = &clone
	return nil
}

func (s *Store) UpdateFighter(_ context.Context, f *models.Fighter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fighters[f.ID]; !ok {
		return models.NewError(models.KindNotFound, "fighter not found")
	}
	clone := *f
	s.fighters[f.ID] = &clone
	return nil
}

func (s *Store) CreateBracketFormat(_ context.Context, b *models.BracketFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBracketID++
	b.ID = s.nextBracketID
	clone := *b
	s.bracketFormats[b.ID] = &clone
	return nil
}

func (s *Store) UpdateBracketFormat(_ context.Context, b *models.BracketFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bracketFormats[b.ID]; !ok {
		return models.NewError(models.KindNotFound, "bracket not found")
	}
	clone := *b
	s.bracketFormats[b.ID] = &clone
	return nil
}

func (s *Store) DeleteBracketFormat(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var roundIDs []int64
	for rid, r := range s.bracketRounds {
		if r.BracketFormatID == id {
			roundIDs = append(roundIDs, rid)
		}
	}
	for _, rid := range roundIDs {
		for mid, m := range s.matches {
			if m.BracketRoundID != nil && *m.BracketRoundID == rid {
				delete(s.matches, mid)
			}
		}
		delete(s.bracketRounds, rid)
	}
	delete(s.bracketFormats, id)
	return nil
}

func (s *Store) CreateBracketRound(_ context.Context, r *models.BracketRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRoundID++
	r.ID = s.nextRoundID
	clone := *r
	s.bracketRounds[r.ID] = &clone
	return nil
}

func (s *Store) UpdateBracketRound(_ context.Context, r *models.BracketRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bracketRounds[r.ID]; !ok {
		return models.NewError(models.KindNotFound, "round not found")
	}
	clone := *r
	s.bracketRounds[r.ID] = &clone
	return nil
}

func (s *Store) CreateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMatchID++
	m.ID = s.nextMatchID
	clone := *m
	s.matches[m.ID] = &clone
	return nil
}

func (s *Store) UpdateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; !ok {
		return models.NewError(models.KindNotFound, "match not found")
	}
	clone := *m
	s.matches[m.ID] = &clone
	return nil
}

func (s *Store) DeleteMatch(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *Store) ClearDependencyReferences(_ context.Context, matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.DependsOnMatchAID != nil && *m.DependsOnMatchAID == matchID {
			m.DependsOnMatchAID = nil
			m.FighterAID = nil
		}
		if m.DependsOnMatchBID != nil && *m.DependsOnMatchBID == matchID {
			m.DependsOnMatchBID = nil
			m.FighterBID = nil
		}
	}
	return nil
}

func sortByID(matches []*models.Match) {
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
}
