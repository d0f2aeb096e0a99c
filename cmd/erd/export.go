package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/render"
)

func exportCmd() *cobra.Command {
	var (
		output     string
		format     string
		scale      float64
		background string
		title      string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a diagram to PNG, SVG or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			out, kind := output, format
			if kind == "" {
				kind = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			if kind == "" {
				kind = cfg.Export.Format
			}
			kind = strings.ToLower(kind)
			switch kind {
			case "png", "svg", "dot", "gv":
			default:
				return fmt.Errorf("unsupported format %q (want png, svg or dot)", kind)
			}
			if out == "" {
				base := strings.TrimSuffix(strings.TrimSuffix(args[0], filepath.Ext(args[0])), ".erd")
				out = base + "." + kind
			}

			k, bg := scale, background
			if k <= 0 {
				k = cfg.Export.Scale
			}
			if bg == "" {
				bg = cfg.Export.Background
			}

			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()

			switch kind {
			case "png":
				opts := render.DefaultPNGOptions()
				opts.Scale = k
				opts.FontSize = cfg.Export.FontSize
				opts.Background = bg
				err = render.RenderPNG(file, g, opts)
			case "svg":
				opts := render.DefaultSVGOptions()
				opts.Scale = k
				opts.FontSize = cfg.Export.FontSize
				opts.Background = bg
				err = render.WriteSVG(file, g, opts)
			case "dot", "gv":
				_, err = file.WriteString(render.GenerateDOT(g, title))
			}
			if err != nil {
				file.Close()
				os.Remove(out)
				return err
			}

			ui.Good.Printf("Exported %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "png, svg or dot (default: from output extension or config)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Pixels per world unit")
	cmd.Flags().StringVar(&background, "background", "", "Background colour, or \"transparent\"")
	cmd.Flags().StringVar(&title, "title", "", "Graph title (dot only)")
	return cmd
}
