// Package records reads serialized cell records from interchange files.
// The full notebook file format belongs to the persistence layer; what this
// package understands are the record dumps (JSON or YAML arrays) that layer
// and external tools exchange.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/log"
)

// ErrUnsupportedFormat is returned when a file's extension names no known
// record encoding.
var ErrUnsupportedFormat = errors.New("unsupported records format")

// Load reads the record dump at path, picking the decoder from the file
// extension: .json, .yaml, or .yml.
func Load(path string) ([]cell.Record, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a user-supplied records file
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DecodeJSON decodes a JSON array of records. Fields absent from a document
// stay nil on the record, which is how downstream reconstruction tells
// missing from zero-valued.
func DecodeJSON(r io.Reader) ([]cell.Record, error) {
	var recs []cell.Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decoding json records: %w", err)
	}
	log.Debug(log.CatRecords, "decoded records", "format", "json", "count", len(recs))
	return recs, nil
}

// DecodeYAML decodes a YAML sequence of records.
func DecodeYAML(r io.Reader) ([]cell.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading yaml records: %w", err)
	}

	var recs []cell.Record
	if err := yaml.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decoding yaml records: %w", err)
	}
	log.Debug(log.CatRecords, "decoded records", "format", "yaml", "count", len(recs))
	return recs, nil
}
