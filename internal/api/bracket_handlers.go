// internal/api/bracket_handlers.go
// Bracket lifecycle HTTP handlers

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tournament-engine/internal/bracket"
	"tournament-engine/internal/models"
)

// CreateBracketRequest is the createBracket request body.
type CreateBracketRequest struct {
	EventID        int64                `json:"event_id" binding:"required"`
	WeightClassID  *int64               `json:"weight_class_id,omitempty"`
	Format         models.TournamentFormat `json:"format" binding:"required"`
	Config         models.FormatConfig  `json:"config"`
	MinRestMinutes int                  `json:"min_rest_minutes"`
	AutoGenerate   bool                 `json:"auto_generate"`
}

// HandleCreateBracket handles POST /tournaments/brackets.
func HandleCreateBracket(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBracketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		b, err := engine.CreateBracket(c.Request.Context(), req.EventID, req.WeightClassID,
			req.Format, req.Config, req.MinRestMinutes, req.AutoGenerate)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"bracket": b})
	}
}

// HandleGenerateBracket handles POST /tournaments/brackets/:id/generate.
func HandleGenerateBracket(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		rounds, err := engine.GenerateBracket(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"rounds": rounds})
	}
}

// HandleDeleteBracket handles DELETE /tournaments/brackets/:id.
func HandleDeleteBracket(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		if err := engine.DeleteBracket(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusNoContent, nil)
	}
}

// HandleGetUpcomingMatches handles GET /tournaments/brackets/:id/upcoming.
func HandleGetUpcomingMatches(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		limit := queryInt(c, "limit", 10)

		matches, err := engine.GetUpcomingMatches(c.Request.Context(), id, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"matches": matches})
	}
}

// HandleFormatRecommendations handles GET /tournaments/events/:id/format-recommendations.
func HandleFormatRecommendations(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		fighterCount := queryInt(c, "fighter_count", 0)
		minMatches := queryInt(c, "min_matches", 2)
		maxMatches := queryInt(c, "max_matches", 4)
		matchDuration := queryInt(c, "match_duration_minutes", 8)

		var timeBudget *int
		if raw := queryInt(c, "time_budget_minutes", 0); raw > 0 {
			timeBudget = &raw
		}

		if fighterCount < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fighter_count must be at least 2"})
			return
		}

		recs := bracket.RecommendFormat(fighterCount, minMatches, maxMatches, matchDuration, timeBudget)
		c.JSON(http.StatusOK, gin.H{"recommendations": recs})
	}
}
