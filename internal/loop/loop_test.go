package loop

import (
	"math"
	"testing"

	"github.com/born-ml/revad/internal/checkpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func TestPowerLoop_BothStrategies(t *testing.T) {
	p := PowerLoop{Exponent: 1.01, X0: 4.2, Steps: 100}
	want := math.Pow(1.01, 100) * math.Pow(4.2, math.Pow(1.01, 100)-1)

	full, err := p.Run(checkpoint.StrategyFull)
	require.NoError(t, err)
	ctz, err := p.Run(checkpoint.StrategyCtz)
	require.NoError(t, err)

	assert.InDelta(t, want, full.Gradient, 1e-10)
	assert.InDelta(t, want, ctz.Gradient, 1e-10)
	assert.Equal(t, full.Gradient, ctz.Gradient)
	assert.Equal(t, want, full.Expected)
	assert.Equal(t, 100, full.Stats.AdjointCalls)
	assert.Equal(t, 100, ctz.Stats.AdjointCalls)
	assert.Equal(t, 8, ctz.Stats.Retained)
	assert.Equal(t, 100, full.Stats.Retained)
}

func TestPowerLoop_AdjointMatchesFiniteDifference(t *testing.T) {
	p := PowerLoop{Exponent: 1.3, X0: 2, Steps: 1}
	for _, x := range []float64{0.5, 1, 2.5} {
		want := fd.Derivative(p.Restore, x, &fd.Settings{Formula: fd.Central, Step: 1e-6})
		assert.InDelta(t, want, p.Adjoint(x, 1), 1e-6)
		assert.InDelta(t, 3*want, p.Adjoint(x, 3), 3e-6)
	}
}

func TestPowerLoop_GradientMatchesFiniteDifference(t *testing.T) {
	p := PowerLoop{Exponent: 1.05, X0: 1.7, Steps: 37}
	res, err := p.Run(checkpoint.StrategyCtz)
	require.NoError(t, err)

	want := fd.Derivative(func(x0 float64) float64 {
		q := p
		q.X0 = x0
		return q.Output()
	}, p.X0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	assert.InEpsilon(t, want, res.Gradient, 1e-6)
	assert.InEpsilon(t, res.Expected, res.Gradient, 1e-12)
}

func TestPowerLoop_ZeroSteps(t *testing.T) {
	p := PowerLoop{Exponent: 2, X0: 3, Steps: 0}
	res, err := p.Run(checkpoint.StrategyCtz)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Gradient)
	assert.Equal(t, 3.0, res.Output)
}

func TestPowerLoop_Invalid(t *testing.T) {
	_, err := PowerLoop{Exponent: 2, X0: -1, Steps: 3}.Run(checkpoint.StrategyFull)
	assert.Error(t, err)
	_, err = PowerLoop{Exponent: 2, X0: 1, Steps: -3}.Run(checkpoint.StrategyFull)
	assert.Error(t, err)
	_, err = PowerLoop{Exponent: 2, X0: 1, Steps: 3}.Run("bogus")
	assert.ErrorIs(t, err, checkpoint.ErrUnknownStrategy)
}
