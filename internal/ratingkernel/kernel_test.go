package ratingkernel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tournament-engine/internal/models"
)

func TestStartingELO(t *testing.T) {
	assert.Equal(t, 2000.0, StartingELO(models.BeltBlack))
	assert.Equal(t, 1600.0, StartingELO(models.BeltBrown))
	assert.Equal(t, 1467.0, StartingELO(models.BeltPurple))
	assert.Equal(t, 1333.0, StartingELO(models.BeltBlue))
	assert.Equal(t, 1200.0, StartingELO(models.BeltWhite))
	assert.Equal(t, 1333.0, StartingELO("unknown"), "unknown belt defaults to Blue")
}

func TestLegacyLadderDiffersFromCanonical(t *testing.T) {
	assert.Equal(t, 1400.0, LegacyLadder[models.BeltBlue])
	assert.NotEqual(t, LegacyLadder[models.BeltBlue], StartingELO(models.BeltBlue))
}

func TestExpectedSymmetry(t *testing.T) {
	ea := Expected(1400, 1400)
	assert.InDelta(t, 0.5, ea, 0.0001)

	eb := Expected(1400, 1600)
	ec := Expected(1600, 1400)
	assert.InDelta(t, 1.0, eb+ec, 0.0001)
	assert.Less(t, eb, ec)
}

func TestDeltaKFactorBoundary(t *testing.T) {
	dNew := Delta(1400, 1400, 1.0, 9)
	dEstablished := Delta(1400, 1400, 1.0, 10)
	assert.InDelta(t, 16.0, dNew, 0.0001)
	assert.InDelta(t, 12.0, dEstablished, 0.0001)
}

func TestDeltaZeroSumAtEqualKFactor(t *testing.T) {
	da := Delta(1400, 1600, 1.0, 5)
	db := Delta(1600, 1400, 0.0, 5)
	assert.InDelta(t, da, -db, 0.0001)
}
