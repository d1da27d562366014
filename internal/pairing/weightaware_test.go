package pairing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }

func TestWeightLegalMissingWeightsDegradeGracefully(t *testing.T) {
	require.True(t, WeightLegal(nil, ptrF(150)))
	require.True(t, WeightLegal(nil, nil))
}

func TestWeightLegalHeavyweightsAlwaysLegal(t *testing.T) {
	require.True(t, WeightLegal(ptrF(210), ptrF(320)))
}

func TestWeightLegalGapCap(t *testing.T) {
	require.True(t, WeightLegal(ptrF(150), ptrF(180)))
	require.False(t, WeightLegal(ptrF(150), ptrF(181)))
}
