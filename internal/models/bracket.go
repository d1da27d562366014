// internal/models/bracket.go
// Domain models representing core business entities

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BracketFormat is the configuration root for one bracket within an event.
type BracketFormat struct {
	ID              int64            `json:"id" db:"id"`
	EventID         int64            `json:"event_id" db:"event_id"`
	WeightClassID   *int64           `json:"weight_class_id,omitempty" db:"weight_class_id"`
	Format          TournamentFormat `json:"format" db:"format"`
	Config          FormatConfig     `json:"config" db:"config"`
	MinRestMinutes  int              `json:"min_rest_minutes" db:"min_rest_minutes"`
	AutoGenerate    bool             `json:"auto_generate" db:"auto_generate"`
	Generated       bool             `json:"generated" db:"generated"`
	Finalized       bool             `json:"finalized" db:"finalized"`
}

// TournamentFormat selects the pairing strategy used to generate and
// advance a bracket's rounds.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatSwiss             TournamentFormat = "swiss"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatGuaranteedMatches TournamentFormat = "guaranteed_matches"
)

// FormatConfig is the closed config variant replacing the original's
// free-form map (spec §9 redesign flag): only the documented keys of §3
// are representable, each typed and optional.
type FormatConfig struct {
	SeedingMethod        string `json:"seeding_method,omitempty"`
	Rounds               int    `json:"rounds,omitempty"`
	MatchCount           int    `json:"match_count,omitempty"`
	MaxRematches         int    `json:"max_rematches,omitempty"`
	WeightBasedPairing   *bool  `json:"weight_based_pairing,omitempty"`
}

// RandomSeeding reports whether participants should be shuffled before
// round 1 (spec §4.3.1 step 1 / §4.3 config table).
func (c FormatConfig) RandomSeeding() bool {
	return c.SeedingMethod == "random"
}

// MatchCountOrDefault returns the configured guaranteed-matches target,
// defaulting to 3 per spec §4.3.5.
func (c FormatConfig) MatchCountOrDefault() int {
	if c.MatchCount > 0 {
		return c.MatchCount
	}
	return 3
}

// MaxRematchesOrDefault returns the configured rematch cap, defaulting to 1.
func (c FormatConfig) MaxRematchesOrDefault() int {
	if c.MaxRematches > 0 {
		return c.MaxRematches
	}
	return 1
}

// WeightBasedPairingOrDefault returns whether weight-aware pairing is
// enabled, defaulting to true per the §3 config table.
func (c FormatConfig) WeightBasedPairingOrDefault() bool {
	if c.WeightBasedPairing == nil {
		return true
	}
	return *c.WeightBasedPairing
}

func (c *FormatConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into FormatConfig", value)
	}
	return json.Unmarshal(bytes, c)
}

func (c FormatConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// BracketRound is one ordered round of a bracket.
type BracketRound struct {
	ID              int64         `json:"id" db:"id"`
	BracketFormatID int64         `json:"bracket_format_id" db:"bracket_format_id"`
	RoundNumber     int           `json:"round_number" db:"round_number"`
	DisplayName     string        `json:"display_name" db:"display_name"`
	BracketType     *BracketType  `json:"bracket_type,omitempty" db:"bracket_type"`
	Status          RoundStatus   `json:"status" db:"status"`
	Metadata        RoundMetadata `json:"metadata" db:"metadata"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// BracketType distinguishes the three double-elimination lanes; nil for
// formats with a single lane.
type BracketType string

const (
	BracketTypeWinners BracketType = "winners"
	BracketTypeLosers  BracketType = "losers"
	BracketTypeFinals  BracketType = "finals"
)

// RoundStatus is the round lifecycle state.
type RoundStatus string

const (
	RoundPending    RoundStatus = "pending"
	RoundInProgress RoundStatus = "in_progress"
	RoundCompleted  RoundStatus = "completed"
	RoundCancelled  RoundStatus = "cancelled"
)

// RoundDataType distinguishes a double-elim losers round's role.
type RoundDataType string

const (
	RoundDataDropDown    RoundDataType = "drop_down"
	RoundDataAdvancement RoundDataType = "advancement"
)

// RoundMetadata is the closed variant for the §3 round_data keys: format,
// type, feeds_from_winners, total_rounds, standings, total_matches_per_fighter,
// max_rematches. Only the fields a given format actually populates are set.
type RoundMetadata struct {
	Format                 TournamentFormat `json:"format,omitempty"`
	Type                   RoundDataType    `json:"type,omitempty"`
	FeedsFromWinners       *int             `json:"feeds_from_winners,omitempty"`
	TotalRounds            int              `json:"total_rounds,omitempty"`
	Standings               []StandingEntry  `json:"standings,omitempty"`
	TotalMatchesPerFighter int              `json:"total_matches_per_fighter,omitempty"`
	MaxRematches           int              `json:"max_rematches,omitempty"`
}

// StandingEntry is one fighter's snapshotted points/wins at the time a
// round's pairing was computed, persisted for audit/recomputation.
type StandingEntry struct {
	FighterID int64   `json:"fighter_id"`
	Points    float64 `json:"points"`
	Wins      int     `json:"wins"`
	Draws     int     `json:"draws"`
}

func (m *RoundMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RoundMetadata", value)
	}
	return json.Unmarshal(bytes, m)
}

func (m RoundMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}
