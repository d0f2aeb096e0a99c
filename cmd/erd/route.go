package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/render"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <file>",
		Short: "Print the routed path of every connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			m := render.DefaultMetrics()
			render.Measure(g, m)

			var rows [][]string
			for _, c := range g.Connections() {
				from, to := g.Endpoints(c)
				path, fe, te, ok := route.ForConnection(g, c, m.RowHeight())
				if !ok {
					ui.Warn.Printf("  skipped %s.%s -> %s.%s\n", from.Name, c.FromAttr, to.Name, c.ToAttr)
					continue
				}
				rows = append(rows, []string{
					from.Name + "." + c.FromAttr,
					to.Name + "." + c.ToAttr,
					path.StartSide.String() + "->" + path.EndSide.String(),
					fe.Icon.String() + "/" + te.Icon.String(),
					fmt.Sprintf("%.0f", geom.PathLength(path.Waypoints)),
					formatPoints(path.Waypoints),
				})
			}
			ui.Table([]string{"FROM", "TO", "SIDES", "ICONS", "LENGTH", "WAYPOINTS"}, rows)
			return nil
		},
	}
}

func formatPoints(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
