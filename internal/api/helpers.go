// internal/api/helpers.go
// Shared request-parsing and error-response helpers

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tournament-engine/internal/models"
)

// HealthCheck reports service liveness.
func HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// paramInt64 parses a gin path parameter as an int64, writing a 400
// response and returning ok=false on failure.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// queryInt parses an optional query parameter as an int, returning the
// default on absence or parse failure.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// respondError maps an engine error Kind to the appropriate HTTP status
// (spec §7 error handling policy) and writes the JSON error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"

	var ee *models.EngineError
	if asEngineError(err, &ee) {
		kind = ee.Kind.String()
		switch ee.Kind {
		case models.KindNotFound:
			status = http.StatusNotFound
		case models.KindTooFewParticipants, models.KindInvalidState, models.KindWeightMismatch, models.KindConfigError:
			status = http.StatusUnprocessableEntity
		case models.KindAlreadyGenerated:
			status = http.StatusConflict
		case models.KindStaleState:
			status = http.StatusConflict
		}
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func asEngineError(err error, target **models.EngineError) bool {
	ee, ok := err.(*models.EngineError)
	if !ok {
		return false
	}
	*target = ee
	return true
}
