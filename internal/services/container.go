// internal/services/container.go
// Service container provides dependency injection for the bracket engine
// and its supporting services. This pattern makes testing easier and keeps
// services loosely coupled.

package services

import (
	"log"

	"tournament-engine/internal/bracket"
	"tournament-engine/internal/config"
	"tournament-engine/internal/database"
	"tournament-engine/internal/store"
	"tournament-engine/internal/store/mysqlstore"
	"tournament-engine/internal/websocket"
)

// Container holds all service instances and provides them to handlers.
type Container struct {
	Engine    *bracket.Engine
	Store     store.Store
	Cache     *CacheService
	Analytics *AnalyticsService
	Hub       *websocket.Hub
	Logger    *log.Logger
}

// NewContainer creates a new service container with all dependencies
// wired: the MySQL-backed store, Redis cache/advisory-lock, the MongoDB
// analytics log, and the websocket broadcast hub.
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	st := mysqlstore.New(db.MySQL)

	cache := NewCacheService(db.Redis, logger)
	analytics := NewAnalyticsService(db.MongoDB, logger)
	hub := websocket.NewHub(logger)

	engine := bracket.NewEngine(st, logger).
		WithMatchLocker(cache).
		WithBroadcaster(hub).
		WithAnalytics(analytics)

	return &Container{
		Engine:    engine,
		Store:     st,
		Cache:     cache,
		Analytics: analytics,
		Hub:       hub,
		Logger:    logger,
	}
}
