package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/codegen"
)

func genCmd() *cobra.Command {
	var (
		output  string
		lang    string
		pkgName string
	)
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Generate record types for each table",
		Long:  "Generate one struct per table. Languages: go, rust.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			var code string
			switch strings.ToLower(lang) {
			case "go", "golang":
				code = codegen.GenerateGo(g, pkgName)
			case "rust", "rs":
				code = codegen.GenerateRust(g)
			default:
				return fmt.Errorf("unsupported language %q (want go or rust)", lang)
			}

			if output == "" {
				fmt.Print(code)
				return nil
			}
			if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
				return err
			}
			ui.Good.Printf("Generated %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&lang, "lang", "l", "go", "Target language")
	cmd.Flags().StringVarP(&pkgName, "package", "p", "models", "Go package name")
	return cmd
}
