package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/erd-toolkit/internal/ui"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show structural changes between two diagrams",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			after, err := loadGraph(args[1])
			if err != nil {
				return err
			}

			d := erd.Compare(before.Snapshot(), after.Snapshot())
			if d.Empty() {
				ui.Subtle.Println("No structural changes")
				return nil
			}
			printDiff(d)
			return nil
		},
	}
}

func printDiff(d erd.Diff) {
	for _, t := range d.AddedTables {
		ui.Added("table %s", t)
	}
	for _, t := range d.RemovedTables {
		ui.Removed("table %s", t)
	}
	for _, c := range d.AddedColumns {
		ui.Added("column %s.%s", c.Table, c.Column)
	}
	for _, c := range d.RemovedColumns {
		ui.Removed("column %s.%s", c.Table, c.Column)
	}
	for _, c := range d.ChangedColumns {
		ui.Changed("column %s.%s: %s -> %s", c.Table, c.Old.Name, describe(c.Old), describe(c.New))
	}
	for _, r := range d.AddedRelations {
		ui.Added("relation %s", relation(r))
	}
	for _, r := range d.RemovedRelations {
		ui.Removed("relation %s", relation(r))
	}
}

func describe(a erd.Attribute) string {
	s := a.Type
	if a.PrimaryKey {
		s += " pk"
	}
	if a.Nullable {
		s += " null"
	}
	if a.Unique {
		s += " unique"
	}
	if a.AutoIncrement {
		s += " auto"
	}
	if a.Default != nil {
		s += " default=" + *a.Default
	}
	return s
}

func relation(r erd.Relation) string {
	return fmt.Sprintf("%s.%s -> %s.%s (%s)", r.FromTable, r.FromColumn, r.ToTable, r.ToColumn, r.Type)
}
