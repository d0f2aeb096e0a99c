package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/render"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show tables and relations of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			render.Measure(g, render.DefaultMetrics())

			ui.Header(args[0])
			b := g.Bounds()
			fmt.Printf("  Tables:       %d\n", g.Len())
			fmt.Printf("  Connections:  %d\n", len(g.Connections()))
			fmt.Printf("  Bounds:       %.0f x %.0f at (%.0f, %.0f)\n\n", b.W, b.H, b.X, b.Y)

			var rows [][]string
			for _, n := range g.Nodes() {
				var pks []string
				for _, a := range n.PrimaryKeys() {
					pks = append(pks, a.Name)
				}
				rows = append(rows, []string{
					n.Name,
					strconv.Itoa(len(n.Attributes())),
					strings.Join(pks, ","),
					fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y),
				})
			}
			ui.Table([]string{"TABLE", "COLUMNS", "PRIMARY KEY", "POSITION"}, rows)

			if len(g.Connections()) > 0 {
				fmt.Println()
				rows = rows[:0]
				for _, c := range g.Connections() {
					from, to := g.Endpoints(c)
					rows = append(rows, []string{
						from.Name + "." + c.FromAttr,
						to.Name + "." + c.ToAttr,
						c.Type.String(),
					})
				}
				ui.Table([]string{"FROM", "TO", "TYPE"}, rows)
			}
			return nil
		},
	}
}
