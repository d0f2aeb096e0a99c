package erdfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

// Write encodes g as an indented ERD document.
func Write(w io.Writer, g *erd.Graph) error {
	data, err := Marshal(g, true)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes g to an ERD file.
func WriteFile(path string, g *erd.Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, g); err != nil {
		return err
	}
	return file.Sync()
}

// Read decodes an ERD document from r.
func Read(r io.Reader) (*erd.Graph, LoadReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, LoadReport{}, err
	}
	return Parse(data)
}

// ReadFile reads an ERD file.
func ReadFile(path string) (*erd.Graph, LoadReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, err
	}
	defer file.Close()

	return Read(file)
}

// LoadOrEmpty reads an ERD file, falling back to an empty graph when the
// file is missing or malformed. The returned graph is always usable; a
// non-nil error explains why it is empty.
func LoadOrEmpty(path string) (*erd.Graph, LoadReport, error) {
	g, report, err := ReadFile(path)
	if err == nil {
		return g, report, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return erd.New(), LoadReport{}, err
	}
	return erd.New(), LoadReport{}, fmt.Errorf("%s: %w", path, err)
}
