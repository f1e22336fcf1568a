package presentation

import (
	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/notebook"
)

// CellDTO represents a cell for presentation
type CellDTO struct {
	CellID             string   `json:"cell_id"`
	Code               string   `json:"code"`
	CodeFolded         bool     `json:"code_folded"`
	Disabled           bool     `json:"disabled"`
	IndirectlyDisabled bool     `json:"indirectly_disabled"`
	ShowLogs           bool     `json:"show_logs"`
	SkipAsScript       bool     `json:"skip_as_script"`
	CommentedOut       bool     `json:"commented_out"`
	Defines            []string `json:"defines"`
	Uses               []string `json:"uses"`
}

// NotebookDTO represents a whole notebook for presentation
type NotebookDTO struct {
	NotebookID string    `json:"notebook_id"`
	CellCount  int       `json:"cell_count"`
	Cells      []CellDTO `json:"cells"`
}

// FromCell converts a cell to a DTO with its disablement verdicts resolved.
func FromCell(c *cell.Cell) CellDTO {
	indirect, err := c.IsDisabled(cell.CauseIndirect)
	if err != nil {
		// Unreachable with a recognized cause token; surface as false.
		indirect = false
	}

	// Copy the edge variable lists so the DTO stays valid after the engine
	// installs a fresh snapshot. Empty slices keep the JSON arrays non-null.
	deps := c.Dependencies()
	defines := append([]string{}, deps.Downstream().Variables()...)
	uses := append([]string{}, deps.Upstream().Variables()...)

	return CellDTO{
		CellID:             c.ID.String(),
		Code:               c.Code,
		CodeFolded:         c.CodeFolded,
		Disabled:           c.Disabled(),
		IndirectlyDisabled: indirect,
		ShowLogs:           c.CanShowLogs(),
		SkipAsScript:       c.IsSkippedAsScript(),
		CommentedOut:       c.MustBeCommentedOut(),
		Defines:            defines,
		Uses:               uses,
	}
}

// FromCells converts a slice of cells to DTOs in order.
func FromCells(cells []*cell.Cell) []CellDTO {
	dtos := make([]CellDTO, len(cells))
	for i, c := range cells {
		dtos[i] = FromCell(c)
	}
	return dtos
}

// FromNotebook converts a notebook and its cells to a DTO.
func FromNotebook(nb *notebook.Notebook) NotebookDTO {
	cells := FromCells(nb.Cells())
	return NotebookDTO{
		NotebookID: string(nb.ID),
		CellCount:  len(cells),
		Cells:      cells,
	}
}
