// Command erd is a CLI tool for working with entity-relationship diagrams.
package main

import (
	"context"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/config"
	"github.com/ha1tch/erd-toolkit/internal/logging"
	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/erdfile"
	"github.com/ha1tch/erd-toolkit/pkg/layout"
	"github.com/ha1tch/erd-toolkit/pkg/render"
)

var version = "0.3.0"

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "erd",
	Short: "erd - entity-relationship diagram toolkit",
	Long: ui.Brand.Sprint("erd") + " - lay out, route and export entity-relationship diagrams\n" +
		ui.Subtle.Sprint("Works on .erd.json documents and schema descriptions"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, verbose)
		var err error
		cfg, err = config.Load()
		if err != nil {
			logging.WithFile(config.Path()).Warnf("ignoring config: %v", err)
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("erd {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		infoCmd(),
		layoutCmd(),
		importCmd(),
		exportCmd(),
		routeCmd(),
		diffCmd(),
		relateCmd(),
		renameCmd(),
		genCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "erd: %v\n", err)
		os.Exit(1)
	}
}

// loadGraph reads an ERD document, logging connections dropped on load.
func loadGraph(path string) (*erd.Graph, error) {
	g, report, err := erdfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if report.DroppedConnections > 0 {
		logging.WithFile(path).Warnf("dropped %d dangling connection(s)", report.DroppedConnections)
	}
	logging.WithFile(path).Debugf("loaded %d table(s), %d connection(s)", g.Len(), len(g.Connections()))
	return g, nil
}

func saveGraph(path string, g *erd.Graph) error {
	if err := erdfile.WriteFile(path, g); err != nil {
		return err
	}
	logging.WithFile(path).Debug("saved")
	return nil
}

// layoutParams applies config overrides to the default simulation.
func layoutParams() layout.Params {
	p := layout.DefaultParams()
	if cfg == nil {
		return p
	}
	if cfg.Layout.Iterations > 0 {
		p.Iterations = cfg.Layout.Iterations
	}
	if cfg.Layout.IdealEdgeLength > 0 {
		p.IdealEdgeLength = cfg.Layout.IdealEdgeLength
	}
	if cfg.Layout.Padding > 0 {
		p.Padding = cfg.Layout.Padding
	}
	return p
}

// autoLayout measures g and runs the force-directed layout, stopping
// early when timeout elapses.
func autoLayout(g *erd.Graph, p layout.Params, timeout time.Duration) error {
	render.Measure(g, render.DefaultMetrics())

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := layout.ForceDirectedContext(ctx, g, p)
	logging.Log.WithField("iterations", p.Iterations).Debugf("layout finished in %v", time.Since(start))
	return err
}

func outputOr(output, input string) string {
	if output != "" {
		return output
	}
	return input
}
