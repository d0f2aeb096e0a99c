package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/erd-toolkit/internal/config"
	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/erdfile"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/layout"
)

func TestLayoutParams(t *testing.T) {
	defer func(old *config.Config) { cfg = old }(cfg)

	cfg = nil
	if p := layoutParams(); p != layout.DefaultParams() {
		t.Errorf("Expected defaults without config, got %+v", p)
	}

	cfg = config.Default()
	cfg.Layout.Iterations = 50
	cfg.Layout.Padding = 40
	p := layoutParams()
	if p.Iterations != 50 || p.Padding != 40 {
		t.Errorf("Expected config overrides, got %+v", p)
	}
	if p.IdealEdgeLength != layout.DefaultParams().IdealEdgeLength {
		t.Errorf("Expected unset values to keep defaults, got %.0f", p.IdealEdgeLength)
	}
}

func TestFormatting(t *testing.T) {
	pts := []geom.Point{geom.Pt(10, 20.4), geom.Pt(-5, 0)}
	if got := formatPoints(pts); got != "(10,20) (-5,0)" {
		t.Errorf("Expected formatted waypoints, got %q", got)
	}

	def := "0"
	tests := []struct {
		attr erd.Attribute
		want string
	}{
		{erd.Attribute{Type: "int"}, "int"},
		{erd.Attribute{Type: "int", PrimaryKey: true, AutoIncrement: true}, "int pk auto"},
		{erd.Attribute{Type: "text", Nullable: true, Unique: true}, "text null unique"},
		{erd.Attribute{Type: "int", Default: &def}, "int default=0"},
	}
	for _, tt := range tests {
		if got := describe(tt.attr); got != tt.want {
			t.Errorf("describe(%+v): expected %q, got %q", tt.attr, tt.want, got)
		}
	}

	r := erd.Relation{FromTable: "Orders", FromColumn: "user_id", ToTable: "Users", ToColumn: "id", Type: erd.OneToMany}
	if got := relation(r); got != "Orders.user_id -> Users.id (OneToMany)" {
		t.Errorf("Unexpected relation text %q", got)
	}
}

func TestOutputOr(t *testing.T) {
	if outputOr("", "in.json") != "in.json" {
		t.Error("Expected input path when no output given")
	}
	if outputOr("out.json", "in.json") != "out.json" {
		t.Error("Expected explicit output path")
	}
}

func TestRelateAndRenameCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvPath, filepath.Join(dir, "config.toml"))

	path := filepath.Join(dir, "shop.erd.json")
	g := erd.New()
	g.AddNode(erd.NewNode("Users", geom.Pt(0, 0), erd.Attribute{Name: "id", Type: "int", PrimaryKey: true}))
	g.AddNode(erd.NewNode("Orders", geom.Pt(400, 0), erd.Attribute{Name: "id", Type: "int", PrimaryKey: true}))
	if err := erdfile.WriteFile(path, g); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"relate", path, "Users", "Orders", "--kind", "n:m"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("relate: %v", err)
	}
	rootCmd.SetArgs([]string{"rename", path, "Users", "Accounts"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rename: %v", err)
	}

	out, report, err := erdfile.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if report.DroppedConnections != 0 {
		t.Errorf("Expected no dropped connections, got %d", report.DroppedConnections)
	}
	join := out.NodeByName("Users_Orders")
	if join == nil {
		t.Fatal("Expected join table")
	}
	if out.NodeByName("Accounts") == nil {
		t.Error("Expected Users renamed to Accounts")
	}
	if len(out.Connections()) != 2 {
		t.Errorf("Expected 2 connections, got %d", len(out.Connections()))
	}
	for _, a := range join.Attributes() {
		if !a.PrimaryKey {
			t.Errorf("Expected join column %s to be a primary key", a.Name)
		}
	}

	rootCmd.SetArgs([]string{"relate", path, "Accounts", "Missing"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected unknown table to fail")
	}
}

func TestExportDOT(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvPath, filepath.Join(dir, "config.toml"))

	path := filepath.Join(dir, "shop.erd.json")
	g := erd.New()
	g.AddNode(erd.NewNode("Users", geom.Pt(0, 0), erd.Attribute{Name: "id", Type: "int", PrimaryKey: true}))
	if err := erdfile.WriteFile(path, g); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "shop.dot")
	rootCmd.SetArgs([]string{"export", path, "-o", out, "--title", "Shop"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Users" [label=`) || !strings.Contains(string(data), `label="Shop";`) {
		t.Errorf("Unexpected DOT output:\n%s", data)
	}

	bad := filepath.Join(dir, "shop.bmp")
	rootCmd.SetArgs([]string{"export", path, "-o", bad, "--title", ""})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected unsupported format to fail")
	}
	if _, err := os.Stat(bad); err == nil {
		t.Error("Expected no file written for an unsupported format")
	}
}
