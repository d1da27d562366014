// internal/models/fighter.go
// Domain models representing core business entities

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Fighter is a league competitor. Ratings are mutated by rating replay;
// identity and belt are mutated externally (player administration is out
// of scope here, see the persistence facade in internal/store).
type Fighter struct {
	ID                   int64    `json:"id" db:"id"`
	DisplayName          string   `json:"display_name" db:"display_name"`
	Belt                 Belt     `json:"belt" db:"belt"`
	BodyWeightLbs        *float64 `json:"body_weight_lbs,omitempty" db:"body_weight_lbs"`
	PrimaryWeightClassID *int64   `json:"primary_weight_class_id,omitempty" db:"primary_weight_class_id"`
	OverallRating        float64  `json:"overall_rating" db:"overall_rating"`
	OverallInitialRating float64  `json:"overall_initial_rating" db:"overall_initial_rating"`
	ClassRatings         ClassRatings `json:"class_ratings" db:"class_ratings"`
	ManualBadges         []string `json:"manual_badges,omitempty" db:"manual_badges"`
	Active               bool     `json:"active" db:"active"`
}

// ClassRatings holds current and initial ratings for each of the three
// WeightClassTrack tags. Addressed only through Current/Initial/SetCurrent,
// never through a string-keyed map, per the closed-variant redesign.
type ClassRatings struct {
	LightweightCurrent  float64 `json:"lightweight_current"`
	LightweightInitial  float64 `json:"lightweight_initial"`
	MiddleweightCurrent float64 `json:"middleweight_current"`
	MiddleweightInitial float64 `json:"middleweight_initial"`
	HeavyweightCurrent  float64 `json:"heavyweight_current"`
	HeavyweightInitial  float64 `json:"heavyweight_initial"`
}

// Current returns the fighter's current rating on the given track.
func (c ClassRatings) Current(t WeightClassTrack) float64 {
	switch t {
	case TrackLightweight:
		return c.LightweightCurrent
	case TrackMiddleweight:
		return c.MiddleweightCurrent
	case TrackHeavyweight:
		return c.HeavyweightCurrent
	default:
		return 0
	}
}

// Initial returns the baseline rating recorded for the given track at the
// last replay reset.
func (c ClassRatings) Initial(t WeightClassTrack) float64 {
	switch t {
	case TrackLightweight:
		return c.LightweightInitial
	case TrackMiddleweight:
		return c.MiddleweightInitial
	case TrackHeavyweight:
		return c.HeavyweightInitial
	default:
		return 0
	}
}

// SetCurrent writes a new current rating for the given track.
func (c *ClassRatings) SetCurrent(t WeightClassTrack, rating float64) {
	switch t {
	case TrackLightweight:
		c.LightweightCurrent = rating
	case TrackMiddleweight:
		c.MiddleweightCurrent = rating
	case TrackHeavyweight:
		c.HeavyweightCurrent = rating
	}
}

// ResetBaseline sets both current and initial to the same starting value,
// the per-track analog of the replay engine's reset step (spec §4.2 step 1).
func (c *ClassRatings) ResetBaseline(t WeightClassTrack, rating float64) {
	switch t {
	case TrackLightweight:
		c.LightweightCurrent, c.LightweightInitial = rating, rating
	case TrackMiddleweight:
		c.MiddleweightCurrent, c.MiddleweightInitial = rating, rating
	case TrackHeavyweight:
		c.HeavyweightCurrent, c.HeavyweightInitial = rating, rating
	}
}

// Scan implements sql.Scanner for the class_ratings JSON column.
func (c *ClassRatings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ClassRatings", value)
	}
	return json.Unmarshal(bytes, c)
}

// Value implements driver.Valuer for the class_ratings JSON column.
func (c ClassRatings) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// TrackForWeightClass maps a weight class's declared track, defaulting
// unmapped classes to middleweight so degraded config never panics.
func TrackForWeightClass(wc WeightClass) WeightClassTrack {
	switch wc.Name {
	case "Lightweight":
		return TrackLightweight
	case "Heavyweight":
		return TrackHeavyweight
	default:
		return TrackMiddleweight
	}
}
