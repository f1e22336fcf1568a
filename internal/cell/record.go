package cell

import "fmt"

// Record is the persisted form of a cell: the four fields every notebook
// serialization carries. The on-disk document schema belongs to the
// persistence layer; Record is the conversion boundary between that schema
// and a live Cell.
//
// Code and CodeFolded are pointers so decoders leave them nil when the
// source document omits the field. Reconstruction treats nil as missing
// rather than defaulting, because a silently half-built cell corrupts
// script exports and dependency rebuilds downstream.
type Record struct {
	CellID     string         `json:"cell_id" yaml:"cell_id"`
	Code       *string        `json:"code" yaml:"code"`
	CodeFolded *bool          `json:"code_folded" yaml:"code_folded"`
	Metadata   map[string]any `json:"metadata" yaml:"metadata"`
}

// NewFromRecord reconstructs a cell from its persisted record.
//
// Run state is not persisted state: the reconstructed cell is always in
// never-run condition (no output, empty logs, status flags off, empty
// dependency snapshot) and the engine rebuilds its graph edges on the next
// pass. Metadata is adopted verbatim, unknown keys included. Fails with
// ErrDeserialization when a required field is missing or malformed.
func NewFromRecord(rec Record) (*Cell, error) {
	if rec.CellID == "" {
		return nil, fmt.Errorf("%w: missing required field %q", ErrDeserialization, "cell_id")
	}
	id, err := ParseID(rec.CellID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed field %q: %q is not a valid cell id", ErrDeserialization, "cell_id", rec.CellID)
	}
	if rec.Code == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrDeserialization, "code")
	}
	if rec.CodeFolded == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrDeserialization, "code_folded")
	}
	if rec.Metadata == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrDeserialization, "metadata")
	}

	c := &Cell{ID: id, Code: *rec.Code, CodeFolded: *rec.CodeFolded}
	c.init()
	c.SetMetadata(Metadata(rec.Metadata))
	return c, nil
}

// Record snapshots the cell's persisted fields for the serialization layer.
// Unknown metadata keys ride along untouched, so records round-trip even
// when a newer frontend wrote them.
func (c *Cell) Record() Record {
	code := c.Code
	folded := c.CodeFolded
	meta := c.Metadata()
	return Record{
		CellID:     c.ID.String(),
		Code:       &code,
		CodeFolded: &folded,
		Metadata:   map[string]any(meta),
	}
}
