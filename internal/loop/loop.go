// Package loop provides the power iteration x_{k+1} = x_k^e as a
// checkpointed loop.
//
// It is the canonical consumer of the checkpoint chains: snapshots are the
// loop inputs, the restoration function is the loop body, and the adjoint of
// each step is obtained by recording the body on a fresh tape.
package loop

import (
	"fmt"
	"iter"
	"math"

	"github.com/born-ml/revad/internal/checkpoint"
	"github.com/born-ml/revad/internal/tape"
)

// PowerLoop describes Steps iterations of x -> x^Exponent starting at X0.
type PowerLoop struct {
	Exponent float64
	X0       float64
	Steps    int
}

// Validate checks that the loop is well defined.
func (p PowerLoop) Validate() error {
	if p.Steps < 0 {
		return fmt.Errorf("loop: steps must be non-negative, got %d", p.Steps)
	}
	if p.X0 <= 0 {
		return fmt.Errorf("loop: x0 must be positive, got %v", p.X0)
	}
	return nil
}

// Snapshots yields x_0 .. x_{Steps-1}, the input of every step.
func (p PowerLoop) Snapshots() iter.Seq[float64] {
	x, i := p.X0, 0
	return checkpoint.Generate(func() (float64, bool) {
		if i == p.Steps {
			return 0, false
		}
		i++
		s := x
		x = p.Restore(x)
		return s, true
	})
}

// Restore runs one step of the loop body.
func (p PowerLoop) Restore(x float64) float64 {
	return math.Pow(x, p.Exponent)
}

// Adjoint propagates g through the step whose input is x by recording the
// loop body on a tape and reading the local derivative off its gradient.
func (p PowerLoop) Adjoint(x, g float64) float64 {
	t := tape.New()
	in := t.Var(x)
	out := in.Pow(p.Exponent)
	return g * t.Backward(out).At(in)
}

// Output returns x_Steps.
func (p PowerLoop) Output() float64 {
	x := p.X0
	for range p.Steps {
		x = p.Restore(x)
	}
	return x
}

// Expected returns the closed form d x_Steps / d x_0 = e^N · x0^(e^N - 1).
func (p PowerLoop) Expected() float64 {
	e := math.Pow(p.Exponent, float64(p.Steps))
	return e * math.Pow(p.X0, e-1)
}

// Result is the outcome of Run.
type Result struct {
	Output   float64
	Gradient float64
	Expected float64
	Stats    checkpoint.SweepStats
}

// Run builds a chain with the given strategy and sweeps it once with an
// incoming adjoint of 1.
func (p PowerLoop) Run(strategy checkpoint.Strategy, opts ...checkpoint.Option) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	chain, err := checkpoint.New[float64, float64](strategy, p.Snapshots(), p.Restore, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("loop: %w", err)
	}
	g := chain.Sweep(1.0, p.Adjoint)
	return Result{
		Output:   p.Output(),
		Gradient: g,
		Expected: p.Expected(),
		Stats:    chain.Stats(),
	}, nil
}
