// internal/api/replay_handlers.go
// Full-ledger rating replay HTTP handler

package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tournament-engine/internal/ratingreplay"
	"tournament-engine/internal/services"
	"tournament-engine/internal/store"
)

// HandleReplay handles POST /rankings/recalculate-elo. It rebuilds every
// fighter's rating from belt baseline by replaying all completed matches in
// event-date order, then logs the run to analytics.
func HandleReplay(st store.Store, analytics *services.AnalyticsService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		matches, err := st.ListCompletedMatchesForReplay(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		if err := ratingreplay.Replay(c.Request.Context(), st); err != nil {
			logger.Printf("rating replay failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed", "details": err.Error()})
			return
		}

		duration := time.Since(start)
		analytics.LogReplayRun(c.Request.Context(), len(matches), duration)

		c.JSON(http.StatusOK, gin.H{
			"matches_replayed": len(matches),
			"duration_ms":      duration.Milliseconds(),
		})
	}
}
