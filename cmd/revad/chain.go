package main

import (
	"context"
	"fmt"
	"math"

	"github.com/born-ml/revad/internal/checkpoint"
	"github.com/born-ml/revad/internal/loop"
	"github.com/born-ml/revad/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newChainCmd(a *app) *cobra.Command {
	var (
		strategy string
		steps    int
		exponent float64
		x0       float64
		metrics  bool
		tracing  bool
	)
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Differentiate the loop x -> x^e through a checkpoint chain",
		Long: `Runs n iterations of x -> x^e starting at x0, records them in a
checkpoint chain and sweeps it backward to obtain d x_n / d x0. The result is
compared with the closed form e^n * x0^(e^n - 1).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := &a.cfg.Chain
			if cmd.Flags().Changed("strategy") {
				c.Strategy = strategy
			}
			if cmd.Flags().Changed("steps") {
				c.Steps = steps
			}
			if cmd.Flags().Changed("exponent") {
				c.Exponent = exponent
			}
			if cmd.Flags().Changed("x0") {
				c.X0 = x0
			}
			if cmd.Flags().Changed("metrics") {
				a.cfg.Telemetry.Metrics = metrics
			}
			if cmd.Flags().Changed("trace") {
				a.cfg.Telemetry.Trace = tracing
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runChain(cmd)
		},
	}
	d := a.cfg.Chain
	cmd.Flags().StringVar(&strategy, "strategy", d.Strategy, "checkpoint strategy (full, ctz)")
	cmd.Flags().IntVar(&steps, "steps", d.Steps, "number of loop iterations")
	cmd.Flags().Float64Var(&exponent, "exponent", d.Exponent, "exponent e of the loop body")
	cmd.Flags().Float64Var(&x0, "x0", d.X0, "initial value")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print Prometheus metrics after the sweep")
	cmd.Flags().BoolVar(&tracing, "trace", false, "print an OpenTelemetry span for the sweep to stderr")
	return cmd
}

func (a *app) runChain(cmd *cobra.Command) (err error) {
	c := a.cfg.Chain
	strategy, err := checkpoint.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}

	var observers []checkpoint.Observer
	reg := prometheus.NewRegistry()
	if a.cfg.Telemetry.Metrics {
		observers = append(observers, telemetry.NewRecorder(reg))
	}
	if a.cfg.Telemetry.Trace {
		tp, err := telemetry.NewStdoutProvider(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}()
		observers = append(observers, telemetry.NewSpanObserver(cmd.Context(), tp))
	}

	p := loop.PowerLoop{Exponent: c.Exponent, X0: c.X0, Steps: c.Steps}
	a.logger.Info().
		Str("strategy", string(strategy)).
		Int("steps", p.Steps).
		Float64("exponent", p.Exponent).
		Float64("x0", p.X0).
		Msg("running chain")

	res, err := p.Run(strategy,
		checkpoint.WithLogger(a.logger),
		checkpoint.WithObserver(telemetry.Multi(observers...)),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "strategy:     %s\n", res.Stats.Strategy)
	fmt.Fprintf(out, "steps:        %d\n", res.Stats.Steps)
	fmt.Fprintf(out, "output:       %.17g\n", res.Output)
	fmt.Fprintf(out, "gradient:     %.17g\n", res.Gradient)
	fmt.Fprintf(out, "expected:     %.17g\n", res.Expected)
	fmt.Fprintf(out, "abs_error:    %.3g\n", math.Abs(res.Gradient-res.Expected))
	fmt.Fprintf(out, "retained:     %d\n", res.Stats.Retained)
	fmt.Fprintf(out, "peak_held:    %d\n", res.Stats.PeakHeld)
	fmt.Fprintf(out, "restorations: %d\n", res.Stats.Restorations)

	if a.cfg.Telemetry.Metrics {
		fmt.Fprintln(out)
		return telemetry.WriteMetrics(out, reg)
	}
	return nil
}
