// internal/api/match_handlers.go
// Match result and manual-pairing HTTP handlers

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tournament-engine/internal/bracket"
	"tournament-engine/internal/models"
)

// UpdateMatchResultRequest is the updateMatchResult request body.
type UpdateMatchResultRequest struct {
	Result          models.MatchResult `json:"result" binding:"required"`
	Method          string             `json:"method"`
	DurationSeconds int                `json:"duration_seconds"`
}

// HandleUpdateMatchResult handles PUT /tournaments/matches/:id/result.
func HandleUpdateMatchResult(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		var req UpdateMatchResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		m, err := engine.UpdateMatchResult(c.Request.Context(), id, req.Result, req.Method, req.DurationSeconds)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// HandleUndoMatchResult handles DELETE /tournaments/matches/:id/result.
func HandleUndoMatchResult(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		m, err := engine.UndoMatchResult(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// HandleDeleteMatch handles DELETE /tournaments/matches/:id.
func HandleDeleteMatch(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		if err := engine.DeleteMatch(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusNoContent, nil)
	}
}

// CreateManualMatchRequest is the createManualMatch request body.
type CreateManualMatchRequest struct {
	FighterAID    int64  `json:"fighter_a_id" binding:"required"`
	FighterBID    int64  `json:"fighter_b_id" binding:"required"`
	WeightClassID *int64 `json:"weight_class_id,omitempty"`
}

// HandleCreateManualMatch handles POST /tournaments/events/:id/matches.
func HandleCreateManualMatch(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		var req CreateManualMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		m, err := engine.CreateManualMatch(c.Request.Context(), eventID, req.FighterAID, req.FighterBID, req.WeightClassID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"match": m})
	}
}

// HandleTaleOfTheTape handles GET /tournaments/matches/:id/tale-of-the-tape.
// The match referenced by :id supplies the fighter pair; the match itself
// need not be Ready (useful for previewing an upcoming pairing).
func HandleTaleOfTheTape(engine *bracket.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := paramInt64(c, "id")
		if !ok {
			return
		}

		tape, err := engine.GetTaleOfTheTapeForMatch(c.Request.Context(), matchID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"tale_of_the_tape": tape})
	}
}
