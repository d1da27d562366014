// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"github.com/gin-gonic/gin"

	"tournament-engine/internal/services"
	"tournament-engine/internal/websocket"
)

// RegisterBracketRoutes registers bracket lifecycle and match routes.
func RegisterBracketRoutes(router *gin.RouterGroup, c *services.Container) {
	tournaments := router.Group("/tournaments")
	{
		tournaments.POST("/brackets", HandleCreateBracket(c.Engine))
		tournaments.POST("/brackets/:id/generate", HandleGenerateBracket(c.Engine))
		tournaments.DELETE("/brackets/:id", HandleDeleteBracket(c.Engine))
		tournaments.GET("/brackets/:id/upcoming", HandleGetUpcomingMatches(c.Engine))

		tournaments.PUT("/matches/:id/result", HandleUpdateMatchResult(c.Engine))
		tournaments.DELETE("/matches/:id/result", HandleUndoMatchResult(c.Engine))
		tournaments.DELETE("/matches/:id", HandleDeleteMatch(c.Engine))
		tournaments.GET("/matches/:id/tale-of-the-tape", HandleTaleOfTheTape(c.Engine))

		tournaments.POST("/events/:id/matches", HandleCreateManualMatch(c.Engine))
		tournaments.GET("/events/:id/format-recommendations", HandleFormatRecommendations(c.Engine))
	}
}

// RegisterRankingRoutes registers the full-ledger rating replay route.
func RegisterRankingRoutes(router *gin.RouterGroup, c *services.Container) {
	rankings := router.Group("/rankings")
	{
		rankings.POST("/recalculate-elo", HandleReplay(c.Store, c.Analytics, c.Logger))
	}
}

// RegisterWebSocketRoutes mounts the bracket-event notification socket.
func RegisterWebSocketRoutes(router *gin.Engine, hub *websocket.Hub) {
	router.GET("/ws", websocket.HandleConnection(hub))
}
