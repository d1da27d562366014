// internal/store/mysqlstore/mysqlstore.go
// MySQL-backed implementation of store.Store
//
// Grounded on the teacher's internal/repositories/match_repository.go
// pattern: a thin struct wrapping *sql.DB, raw SQL with `?` placeholders,
// QueryRowContext/QueryContext/ExecContext, sql.ErrNoRows translated to a
// models.KindNotFound error.

package mysqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"tournament-engine/internal/models"
)

// manualBadges is the database/sql Scanner/Valuer adapter for Fighter's
// []string ManualBadges column, which models.Fighter itself leaves as a
// plain slice since memstore never needs to marshal it.
type manualBadges []string

func (b *manualBadges) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into manualBadges", value)
	}
	return json.Unmarshal(bytes, b)
}

func (b manualBadges) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Store is the MySQL-backed store.Store implementation.
type Store struct {
	db *sql.DB
}

// New wraps an already-connected *sql.DB.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func notFound(entity string) error {
	return models.NewError(models.KindNotFound, entity+" not found")
}

// --- Fighter ---

const fighterColumns = `id, display_name, belt, body_weight_lbs, primary_weight_class_id,
	overall_rating, overall_initial_rating, class_ratings, manual_badges, active`

func scanFighter(row interface{ Scan(...interface{}) error }) (*models.Fighter, error) {
	var f models.Fighter
	var badges manualBadges
	err := row.Scan(&f.ID, &f.DisplayName, &f.Belt, &f.BodyWeightLbs, &f.PrimaryWeightClassID,
		&f.OverallRating, &f.OverallInitialRating, &f.ClassRatings, &badges, &f.Active)
	if err != nil {
		return nil, err
	}
	f.ManualBadges = badges
	return &f, nil
}

func (s *Store) GetFighter(ctx context.Context, id int64) (*models.Fighter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fighterColumns+` FROM fighters WHERE id = ?`, id)
	f, err := scanFighter(row)
	if err == sql.ErrNoRows {
		return nil, notFound("fighter")
	}
	return f, err
}

func (s *Store) ListAllFighters(ctx context.Context) ([]*models.Fighter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fighterColumns+` FROM fighters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Fighter
	for rows.Next() {
		f, err := scanFighter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) CreateFighter(ctx context.Context, f *models.Fighter) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO fighters (display_name, belt, body_weight_lbs, primary_weight_class_id,
			overall_rating, overall_initial_rating, class_ratings, manual_badges, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.DisplayName, f.Belt, f.BodyWeightLbs, f.PrimaryWeightClassID,
		f.OverallRating, f.OverallInitialRating, f.ClassRatings, manualBadges(f.ManualBadges), f.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (s *Store) UpdateFighter(ctx context.Context, f *models.Fighter) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE fighters SET display_name = ?, belt = ?, body_weight_lbs = ?,
			primary_weight_class_id = ?, overall_rating = ?, overall_initial_rating = ?,
			class_ratings = ?, manual_badges = ?, active = ?
		WHERE id = ?`,
		f.DisplayName, f.Belt, f.BodyWeightLbs, f.PrimaryWeightClassID,
		f.OverallRating, f.OverallInitialRating, f.ClassRatings, manualBadges(f.ManualBadges), f.Active, f.ID)
	return err
}

// --- Event ---

func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	err := s.db.QueryRowContext(ctx, `SELECT id, name, scheduled_date, venue, status FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.ScheduledDate, &e.Venue, &e.Status)
	if err == sql.ErrNoRows {
		return nil, notFound("event")
	}
	return &e, err
}

// --- Entry ---

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(&e.ID, &e.EventID, &e.FighterID, &e.WeightClassID, &e.CheckedIn, &e.SnapshotBelt, &e.SnapshotWeight)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, fighter_id, weight_class_id, checked_in, snapshot_belt, snapshot_weight
		FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, notFound("entry")
	}
	return e, err
}

func (s *Store) ListEligibleEntries(ctx context.Context, eventID int64, weightClassID *int64) ([]*models.Entry, error) {
	query := `SELECT id, event_id, fighter_id, weight_class_id, checked_in, snapshot_belt, snapshot_weight
		FROM entries WHERE event_id = ? AND checked_in = true`
	args := []interface{}{eventID}
	if weightClassID != nil {
		query += ` AND weight_class_id = ?`
		args = append(args, *weightClassID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- WeightClass ---

func (s *Store) GetWeightClass(ctx context.Context, id int64) (*models.WeightClass, error) {
	var w models.WeightClass
	err := s.db.QueryRowContext(ctx, `SELECT id, name, min_lbs, max_lbs FROM weight_classes WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.MinLbs, &w.MaxLbs)
	if err == sql.ErrNoRows {
		return nil, notFound("weight class")
	}
	return &w, err
}

// --- BracketFormat ---

const bracketFormatColumns = `id, event_id, weight_class_id, format, config, min_rest_minutes, auto_generate, generated, finalized`

func scanBracketFormat(row interface{ Scan(...interface{}) error }) (*models.BracketFormat, error) {
	var b models.BracketFormat
	err := row.Scan(&b.ID, &b.EventID, &b.WeightClassID, &b.Format, &b.Config,
		&b.MinRestMinutes, &b.AutoGenerate, &b.Generated, &b.Finalized)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) GetBracketFormat(ctx context.Context, id int64) (*models.BracketFormat, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bracketFormatColumns+` FROM bracket_formats WHERE id = ?`, id)
	b, err := scanBracketFormat(row)
	if err == sql.ErrNoRows {
		return nil, notFound("bracket format")
	}
	return b, err
}

func (s *Store) CreateBracketFormat(ctx context.Context, b *models.BracketFormat) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bracket_formats (event_id, weight_class_id, format, config, min_rest_minutes, auto_generate, generated, finalized)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.EventID, b.WeightClassID, b.Format, b.Config, b.MinRestMinutes, b.AutoGenerate, b.Generated, b.Finalized)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *Store) UpdateBracketFormat(ctx context.Context, b *models.BracketFormat) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE bracket_formats SET event_id = ?, weight_class_id = ?, format = ?, config = ?,
			min_rest_minutes = ?, auto_generate = ?, generated = ?, finalized = ?
		WHERE id = ?`,
		b.EventID, b.WeightClassID, b.Format, b.Config, b.MinRestMinutes, b.AutoGenerate, b.Generated, b.Finalized, b.ID)
	return err
}

func (s *Store) DeleteBracketFormat(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM matches WHERE bracket_round_id IN (SELECT id FROM bracket_rounds WHERE bracket_format_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bracket_rounds WHERE bracket_format_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bracket_formats WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// --- BracketRound ---

const bracketRoundColumns = `id, bracket_format_id, round_number, display_name, bracket_type, status, metadata, created_at, completed_at`

func scanBracketRound(row interface{ Scan(...interface{}) error }) (*models.BracketRound, error) {
	var r models.BracketRound
	err := row.Scan(&r.ID, &r.BracketFormatID, &r.RoundNumber, &r.DisplayName, &r.BracketType,
		&r.Status, &r.Metadata, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetBracketRound(ctx context.Context, id int64) (*models.BracketRound, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bracketRoundColumns+` FROM bracket_rounds WHERE id = ?`, id)
	r, err := scanBracketRound(row)
	if err == sql.ErrNoRows {
		return nil, notFound("bracket round")
	}
	return r, err
}

func (s *Store) ListRoundsByBracket(ctx context.Context, bracketFormatID int64) ([]*models.BracketRound, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bracketRoundColumns+`
		FROM bracket_rounds WHERE bracket_format_id = ? ORDER BY round_number ASC`, bracketFormatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BracketRound
	for rows.Next() {
		r, err := scanBracketRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListPendingRoundsByEvent(ctx context.Context, eventID int64) ([]*models.BracketRound, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+prefixColumns("r", bracketRoundColumns)+`
		FROM bracket_rounds r
		JOIN bracket_formats b ON b.id = r.bracket_format_id
		WHERE b.event_id = ? AND r.status = ?`, eventID, models.RoundPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BracketRound
	for rows.Next() {
		r, err := scanBracketRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateBracketRound(ctx context.Context, r *models.BracketRound) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bracket_rounds (bracket_format_id, round_number, display_name, bracket_type, status, metadata, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BracketFormatID, r.RoundNumber, r.DisplayName, r.BracketType, r.Status, r.Metadata, r.CreatedAt, r.CompletedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *Store) UpdateBracketRound(ctx context.Context, r *models.BracketRound) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE bracket_rounds SET round_number = ?, display_name = ?, bracket_type = ?,
			status = ?, metadata = ?, completed_at = ?
		WHERE id = ?`,
		r.RoundNumber, r.DisplayName, r.BracketType, r.Status, r.Metadata, r.CompletedAt, r.ID)
	return err
}

// --- Match ---

const matchColumns = `id, event_id, bracket_round_id, fighter_a_id, fighter_b_id, weight_class_id,
	result, method, duration_seconds, status, position_in_round,
	depends_on_match_a_id, depends_on_match_b_id, requires_winner_a, requires_winner_b,
	a_elo_change, b_elo_change, created_at, completed_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(&m.ID, &m.EventID, &m.BracketRoundID, &m.FighterAID, &m.FighterBID, &m.WeightClassID,
		&m.Result, &m.Method, &m.DurationSeconds, &m.Status, &m.PositionInRound,
		&m.DependsOnMatchAID, &m.DependsOnMatchBID, &m.RequiresWinnerA, &m.RequiresWinnerB,
		&m.AEloChange, &m.BEloChange, &m.CreatedAt, &m.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, notFound("match")
	}
	return m, err
}

func (s *Store) listMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListMatchesByEvent(ctx context.Context, eventID int64) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+matchColumns+` FROM matches WHERE event_id = ?`, eventID)
}

func (s *Store) ListMatchesByBracket(ctx context.Context, bracketFormatID int64) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+prefixColumns("m", matchColumns)+`
		FROM matches m
		JOIN bracket_rounds r ON r.id = m.bracket_round_id
		WHERE r.bracket_format_id = ?`, bracketFormatID)
}

func (s *Store) ListMatchesByRound(ctx context.Context, roundID int64) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+matchColumns+` FROM matches WHERE bracket_round_id = ?`, roundID)
}

func (s *Store) ListMatchesByStatus(ctx context.Context, bracketFormatID int64, status models.MatchStatus) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+prefixColumns("m", matchColumns)+`
		FROM matches m
		JOIN bracket_rounds r ON r.id = m.bracket_round_id
		WHERE r.bracket_format_id = ? AND m.status = ?`, bracketFormatID, status)
}

func (s *Store) ListMatchesByFighter(ctx context.Context, fighterID int64) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+matchColumns+`
		FROM matches WHERE fighter_a_id = ? OR fighter_b_id = ?
		ORDER BY id ASC`, fighterID, fighterID)
}

func (s *Store) ListDependentMatches(ctx context.Context, matchID int64) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+matchColumns+`
		FROM matches WHERE depends_on_match_a_id = ? OR depends_on_match_b_id = ?`, matchID, matchID)
}

func (s *Store) ListCompletedMatchesForReplay(ctx context.Context) ([]*models.Match, error) {
	return s.listMatches(ctx, `SELECT `+prefixColumns("m", matchColumns)+`
		FROM matches m
		JOIN events e ON e.id = m.event_id
		WHERE m.result IS NOT NULL
		ORDER BY e.scheduled_date ASC, m.id ASC`)
}

func (s *Store) CreateMatch(ctx context.Context, m *models.Match) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (event_id, bracket_round_id, fighter_a_id, fighter_b_id, weight_class_id,
			result, method, duration_seconds, status, position_in_round,
			depends_on_match_a_id, depends_on_match_b_id, requires_winner_a, requires_winner_b,
			a_elo_change, b_elo_change, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.EventID, m.BracketRoundID, m.FighterAID, m.FighterBID, m.WeightClassID,
		m.Result, m.Method, m.DurationSeconds, m.Status, m.PositionInRound,
		m.DependsOnMatchAID, m.DependsOnMatchBID, m.RequiresWinnerA, m.RequiresWinnerB,
		m.AEloChange, m.BEloChange, m.CreatedAt, m.CompletedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (s *Store) UpdateMatch(ctx context.Context, m *models.Match) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE matches SET fighter_a_id = ?, fighter_b_id = ?, weight_class_id = ?,
			result = ?, method = ?, duration_seconds = ?, status = ?, position_in_round = ?,
			depends_on_match_a_id = ?, depends_on_match_b_id = ?, requires_winner_a = ?, requires_winner_b = ?,
			a_elo_change = ?, b_elo_change = ?, completed_at = ?
		WHERE id = ?`,
		m.FighterAID, m.FighterBID, m.WeightClassID,
		m.Result, m.Method, m.DurationSeconds, m.Status, m.PositionInRound,
		m.DependsOnMatchAID, m.DependsOnMatchBID, m.RequiresWinnerA, m.RequiresWinnerB,
		m.AEloChange, m.BEloChange, m.CompletedAt, m.ID)
	return err
}

func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	return err
}

func (s *Store) ClearDependencyReferences(ctx context.Context, matchID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE matches SET
			fighter_a_id = CASE WHEN depends_on_match_a_id = ? THEN NULL ELSE fighter_a_id END,
			fighter_b_id = CASE WHEN depends_on_match_b_id = ? THEN NULL ELSE fighter_b_id END,
			depends_on_match_a_id = CASE WHEN depends_on_match_a_id = ? THEN NULL ELSE depends_on_match_a_id END,
			depends_on_match_b_id = CASE WHEN depends_on_match_b_id = ? THEN NULL ELSE depends_on_match_b_id END
		WHERE depends_on_match_a_id = ? OR depends_on_match_b_id = ?`,
		matchID, matchID, matchID, matchID, matchID, matchID)
	return err
}

// prefixColumns qualifies each comma-separated column in cols with alias,
// needed once a query joins more than one table sharing column names.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
