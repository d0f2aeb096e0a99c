package codegen

import (
	"strings"
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

func shopGraph(t *testing.T) *erd.Graph {
	t.Helper()
	g := erd.New()
	users := g.AddNode(erd.NewNode("users", geom.Pt(0, 0),
		erd.Attribute{Name: "id", Type: "bigint", PrimaryKey: true},
		erd.Attribute{Name: "email", Type: "varchar(255)", Unique: true},
		erd.Attribute{Name: "created_at", Type: "timestamp"}))
	orders := g.AddNode(erd.NewNode("order items", geom.Pt(300, 0),
		erd.Attribute{Name: "id", Type: "int", PrimaryKey: true},
		erd.Attribute{Name: "user_id", Type: "bigint", Nullable: true},
		erd.Attribute{Name: "type", Type: "text"},
		erd.Attribute{Name: "payload", Type: "bytea", Nullable: true}))
	if _, err := g.Connect(orders, "user_id", users, "id", erd.OneToMany); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want kind
	}{
		{"INT", kindInt},
		{"bigint", kindBigInt},
		{"varchar(40)", kindText},
		{"numeric(10,2)", kindDecimal},
		{"double precision", kindFloat},
		{"TIMESTAMP WITH TIME ZONE", kindTime},
		{"boolean", kindBool},
		{"uuid", kindUUID},
		{"", kindText},
		{"geometry", kindText},
	}
	for _, tt := range tests {
		if got := classify(tt.in); got != tt.want {
			t.Errorf("classify(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		in           string
		pascal, goID string
		snake        string
	}{
		{"user_id", "UserId", "UserID", "user_id"},
		{"userID", "UserId", "UserID", "user_id"},
		{"order items", "OrderItems", "OrderItems", "order_items"},
		{"api-url", "ApiUrl", "APIURL", "api_url"},
	}
	for _, tt := range tests {
		if got := toPascalCase(tt.in); got != tt.pascal {
			t.Errorf("toPascalCase(%q): expected %s, got %s", tt.in, tt.pascal, got)
		}
		if got := toGoName(tt.in); got != tt.goID {
			t.Errorf("toGoName(%q): expected %s, got %s", tt.in, tt.goID, got)
		}
		if got := toSnakeCase(tt.in); got != tt.snake {
			t.Errorf("toSnakeCase(%q): expected %s, got %s", tt.in, tt.snake, got)
		}
	}

	if got := sanitizeName("9 lives!"); got != "_9_lives" {
		t.Errorf("Expected digit-leading name prefixed, got %s", got)
	}
	if got := sanitizeName("&&"); got != "unnamed" {
		t.Errorf("Expected fallback name, got %s", got)
	}
}

func TestGenerateGo(t *testing.T) {
	code := GenerateGo(shopGraph(t), "shop")

	checks := []string{
		"// Code generated from ERD definition. DO NOT EDIT.",
		"package shop",
		"import (\n\t\"time\"\n)",
		"type Users struct {",
		"\tID int64 `db:\"id\" json:\"id\"` // primary key",
		"\tEmail string `db:\"email\" json:\"email\"`",
		"\tCreatedAt time.Time `db:\"created_at\" json:\"created_at\"`",
		"type OrderItems struct {",
		"\tUserID *int64 `db:\"user_id\" json:\"user_id\"` // references users.id",
		"\tPayload []byte `db:\"payload\" json:\"payload\"`",
	}
	for _, want := range checks {
		if !strings.Contains(code, want) {
			t.Errorf("Expected Go code to contain %q\ngot:\n%s", want, code)
		}
	}
}

func TestGenerateGoDefaultsAndCollisions(t *testing.T) {
	g := erd.New()
	g.AddNode(erd.NewNode("user", geom.Pt(0, 0),
		erd.Attribute{Name: "id", Type: "uuid"},
		erd.Attribute{Name: "ID", Type: "int"}))
	g.AddNode(erd.NewNode("User", geom.Pt(0, 0)))

	code := GenerateGo(g, "")
	if !strings.Contains(code, "package models") {
		t.Errorf("Expected default package name")
	}
	if !strings.Contains(code, "\"github.com/google/uuid\"") {
		t.Errorf("Expected uuid import, got:\n%s", code)
	}
	if !strings.Contains(code, "type User struct") || !strings.Contains(code, "type User2 struct") {
		t.Errorf("Expected distinct type names, got:\n%s", code)
	}
	if !strings.Contains(code, "\tID2 int32") {
		t.Errorf("Expected distinct field names, got:\n%s", code)
	}
}

func TestGenerateRust(t *testing.T) {
	code := GenerateRust(shopGraph(t))

	checks := []string{
		"pub struct Users {",
		"    pub id: i64,",
		"    pub created_at: String,",
		"pub struct OrderItems {",
		"    pub user_id: Option<i64>, // references users.id",
		"    pub r#type: String,",
		"    pub payload: Option<Vec<u8>>,",
	}
	for _, want := range checks {
		if !strings.Contains(code, want) {
			t.Errorf("Expected Rust code to contain %q\ngot:\n%s", want, code)
		}
	}
}
