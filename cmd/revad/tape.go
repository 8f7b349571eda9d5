package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/born-ml/revad/internal/serialization"
	"github.com/born-ml/revad/internal/tape"
	"github.com/spf13/cobra"
)

func newTapeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tape",
		Short: "Record and replay differentiation tapes",
	}
	cmd.AddCommand(newTapeEvalCmd(a), newTapeInspectCmd(a))
	return cmd
}

func newTapeEvalCmd(a *app) *cobra.Command {
	var (
		x, y float64
		out  string
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate z = x*y + sin(x) and its gradient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := tape.New()
			vx := t.Var(x)
			vy := t.Var(y)
			z := vx.Mul(vy).Add(vx.Sin())
			grad := t.Backward(z)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "z:     %.17g\n", z.Value())
			fmt.Fprintf(w, "dz/dx: %.17g\n", grad.At(vx))
			fmt.Fprintf(w, "dz/dy: %.17g\n", grad.At(vy))
			fmt.Fprintf(w, "nodes: %d\n", t.Len())

			if out == "" {
				return nil
			}
			header := serialization.Header{
				Output: z.Index(),
				Metadata: map[string]string{
					"expr": "x*y + sin(x)",
					"x":    fmt.Sprint(x),
					"y":    fmt.Sprint(y),
				},
			}
			if err := serialization.SaveFile(out, t, header); err != nil {
				return err
			}
			a.logger.Info().Str("path", out).Int("nodes", t.Len()).Msg("tape saved")
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0.5, "value of x")
	cmd.Flags().Float64Var(&y, "y", 4.2, "value of y")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the recorded tape to this .rvad file")
	return cmd
}

func newTapeInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Replay the backward traversal of a saved tape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, header, err := serialization.LoadFile(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug().Str("path", args[0]).Str("version", header.RevadVersion).Msg("tape loaded")

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "nodes:   %d\n", header.Nodes)
			fmt.Fprintf(w, "created: %s\n", header.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			for _, k := range slices.Sorted(maps.Keys(header.Metadata)) {
				fmt.Fprintf(w, "meta:    %s=%s\n", k, header.Metadata[k])
			}
			if header.Output == serialization.NoOutput {
				fmt.Fprintln(w, "output:  none")
				return nil
			}
			fmt.Fprintf(w, "output:  %d\n", header.Output)

			grad, err := t.BackwardAt(header.Output)
			if err != nil {
				return err
			}
			for i, d := range grad.Derivatives() {
				if d == 0 {
					continue
				}
				fmt.Fprintf(w, "d[%d]:    %.17g\n", i, d)
			}
			return nil
		},
	}
}
