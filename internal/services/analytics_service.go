// internal/services/analytics_service.go
// Append-only audit log of bracket lifecycle and rating-replay events

package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnalyticsService records bracket lifecycle events (the engine sends
// bracket_generated, match_result_posted and match_result_undone) and
// replay runs into MongoDB.
// It never blocks or fails a caller's mutation: logging errors are
// swallowed after being reported to the logger.
type AnalyticsService struct {
	db     *mongo.Database
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *mongo.Database, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// LogBracketEvent records a bracket lifecycle event.
func (s *AnalyticsService) LogBracketEvent(ctx context.Context, bracketID int64, eventType string, data map[string]interface{}) {
	event := bson.M{
		"bracket_id": bracketID,
		"type":       eventType,
		"data":       data,
		"timestamp":  time.Now(),
	}

	if _, err := s.db.Collection("bracket_events").InsertOne(ctx, event); err != nil {
		s.logger.Printf("failed to log bracket event: %v", err)
	}
}

// LogReplayRun records a completed rating-replay pass, including how many
// matches were recomputed and how long it took.
func (s *AnalyticsService) LogReplayRun(ctx context.Context, matchesReplayed int, duration time.Duration) {
	event := bson.M{
		"matches_replayed": matchesReplayed,
		"duration_ms":      duration.Milliseconds(),
		"timestamp":        time.Now(),
	}

	if _, err := s.db.Collection("replay_runs").InsertOne(ctx, event); err != nil {
		s.logger.Printf("failed to log replay run: %v", err)
	}
}

// RecentBracketEvents returns the most recent events logged for a bracket,
// newest first, for display on an event audit trail.
func (s *AnalyticsService) RecentBracketEvents(ctx context.Context, bracketID int64, limit int64) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("bracket_events").Find(ctx, bson.M{"bracket_id": bracketID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []bson.M
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
