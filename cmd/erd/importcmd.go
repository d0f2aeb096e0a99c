package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/logging"
	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/erdfile"
)

func importCmd() *cobra.Command {
	var (
		output   string
		noLayout bool
	)
	cmd := &cobra.Command{
		Use:   "import <schema.json>",
		Short: "Build a diagram from a schema description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := erdfile.ReadSchemaFile(args[0])
			if err != nil {
				return err
			}

			g, skipped := erd.FromSchema(s)
			if skipped > 0 {
				logging.WithFile(args[0]).Warnf("skipped %d foreign key column pair(s)", skipped)
			}

			if !noLayout {
				if err := autoLayout(g, layoutParams(), 0); err != nil {
					return err
				}
			}

			out := output
			if out == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				out = base + ".erd.json"
			}
			if err := saveGraph(out, g); err != nil {
				return err
			}
			ui.Good.Printf("Imported %d table(s), %d relation(s) -> %s\n", g.Len(), len(g.Connections()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <input>.erd.json)")
	cmd.Flags().BoolVar(&noLayout, "no-layout", false, "Keep the seed grid instead of running the layout")
	return cmd
}
