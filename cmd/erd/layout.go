package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/logging"
	"github.com/ha1tch/erd-toolkit/internal/ui"
)

func layoutCmd() *cobra.Command {
	var (
		output     string
		iterations int
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Arrange tables with the force-directed layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			p := layoutParams()
			if iterations > 0 {
				p.Iterations = iterations
			}
			err = autoLayout(g, p, timeout)
			if errors.Is(err, context.DeadlineExceeded) {
				logging.Log.Warnf("layout stopped after %v; keeping partial result", timeout)
			} else if err != nil {
				return err
			}

			out := outputOr(output, args[0])
			if err := saveGraph(out, g); err != nil {
				return err
			}
			ui.Good.Printf("Laid out %d table(s) -> %s\n", g.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Override simulation iterations")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop the simulation after this long")
	return cmd
}
