package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

func relateCmd() *cobra.Command {
	var (
		output string
		kind   string
	)
	cmd := &cobra.Command{
		Use:   "relate <file> <from-table> <to-table>",
		Short: "Add a relationship, creating foreign-key columns",
		Long: "Add a relationship between two tables. Kinds are 1:1, 1:n, n:1 and n:m;\n" +
			"n:m creates a join table.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := erd.ParseRelationKind(kind)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			from := g.NodeByName(args[1])
			to := g.NodeByName(args[2])
			if from == nil {
				return fmt.Errorf("%s: %w", args[1], erd.ErrUnknownNode)
			}
			if to == nil {
				return fmt.Errorf("%s: %w", args[2], erd.ErrUnknownNode)
			}

			join, err := g.Relate(from, to, k)
			if err != nil {
				return err
			}

			out := outputOr(output, args[0])
			if err := saveGraph(out, g); err != nil {
				return err
			}
			if join != nil {
				ui.Good.Printf("Related %s %s %s via %s -> %s\n", from.Name, k, to.Name, join.Name, out)
			} else {
				ui.Good.Printf("Related %s %s %s -> %s\n", from.Name, k, to.Name, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "1:n", "Relationship kind")
	return cmd
}

func renameCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "rename <file> <table> <new-name>",
		Short: "Rename a table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			n := g.NodeByName(args[1])
			if n == nil {
				return fmt.Errorf("%s: %w", args[1], erd.ErrUnknownNode)
			}
			if err := g.Rename(n, args[2]); err != nil {
				return err
			}

			out := outputOr(output, args[0])
			if err := saveGraph(out, g); err != nil {
				return err
			}
			ui.Good.Printf("Renamed %s -> %s\n", args[1], n.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")
	return cmd
}
