package erdfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

// A schema description is the import format produced by database
// introspection tools:
//
//	{
//	  "tables": [{"name": "users", "columns": [{"name": "id", "type": "int", "primaryKey": true}]}],
//	  "foreignKeys": [{"fromTable": "orders", "fromColumns": ["user_id"],
//	                   "toTable": "users", "toColumns": ["id"], "type": "OneToMany"}]
//	}
//
// A foreign key without a type is read as OneToMany.
type jsonSchema struct {
	Tables      []jsonTable      `json:"tables"`
	ForeignKeys []jsonForeignKey `json:"foreignKeys"`
}

type jsonTable struct {
	Name    string       `json:"name"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	PrimaryKey    bool    `json:"primaryKey"`
	Nullable      bool    `json:"nullable"`
	Unique        bool    `json:"unique"`
	AutoIncrement bool    `json:"autoIncrement"`
	Default       *string `json:"default,omitempty"`
}

type jsonForeignKey struct {
	FromTable   string   `json:"fromTable"`
	FromColumns []string `json:"fromColumns"`
	ToTable     string   `json:"toTable"`
	ToColumns   []string `json:"toColumns"`
	Type        string   `json:"type,omitempty"`
	Nullable    bool     `json:"nullable,omitempty"`
}

// ParseSchema decodes a schema description.
func ParseSchema(data []byte) (erd.Schema, error) {
	var js jsonSchema
	if err := json.Unmarshal(data, &js); err != nil {
		return erd.Schema{}, err
	}

	var s erd.Schema
	for _, jt := range js.Tables {
		t := erd.Table{Name: jt.Name}
		for _, jc := range jt.Columns {
			t.Columns = append(t.Columns, erd.Attribute{
				Name:          jc.Name,
				Type:          jc.Type,
				PrimaryKey:    jc.PrimaryKey,
				Nullable:      jc.Nullable,
				Unique:        jc.Unique,
				AutoIncrement: jc.AutoIncrement,
				Default:       jc.Default,
			})
		}
		s.Tables = append(s.Tables, t)
	}
	for _, jf := range js.ForeignKeys {
		typ := erd.OneToMany
		if jf.Type != "" {
			t, err := erd.ParseConnectionType(jf.Type)
			if err != nil {
				return erd.Schema{}, fmt.Errorf("foreign key %s -> %s: %w", jf.FromTable, jf.ToTable, err)
			}
			typ = t
		}
		s.ForeignKeys = append(s.ForeignKeys, erd.ForeignKey{
			FromTable:   jf.FromTable,
			FromColumns: jf.FromColumns,
			ToTable:     jf.ToTable,
			ToColumns:   jf.ToColumns,
			Type:        typ,
			Nullable:    jf.Nullable,
		})
	}
	return s, nil
}

// MarshalSchema encodes a schema description.
func MarshalSchema(s erd.Schema) ([]byte, error) {
	js := jsonSchema{
		Tables:      make([]jsonTable, 0, len(s.Tables)),
		ForeignKeys: make([]jsonForeignKey, 0, len(s.ForeignKeys)),
	}
	for _, t := range s.Tables {
		jt := jsonTable{Name: t.Name, Columns: make([]jsonColumn, 0, len(t.Columns))}
		for _, c := range t.Columns {
			jt.Columns = append(jt.Columns, jsonColumn{
				Name:          c.Name,
				Type:          c.Type,
				PrimaryKey:    c.PrimaryKey,
				Nullable:      c.Nullable,
				Unique:        c.Unique,
				AutoIncrement: c.AutoIncrement,
				Default:       c.Default,
			})
		}
		js.Tables = append(js.Tables, jt)
	}
	for _, fk := range s.ForeignKeys {
		js.ForeignKeys = append(js.ForeignKeys, jsonForeignKey{
			FromTable:   fk.FromTable,
			FromColumns: fk.FromColumns,
			ToTable:     fk.ToTable,
			ToColumns:   fk.ToColumns,
			Type:        fk.Type.String(),
			Nullable:    fk.Nullable,
		})
	}
	return json.MarshalIndent(js, "", "  ")
}

// ReadSchemaFile reads a schema description file.
func ReadSchemaFile(path string) (erd.Schema, error) {
	file, err := os.Open(path)
	if err != nil {
		return erd.Schema{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return erd.Schema{}, err
	}
	return ParseSchema(data)
}
