package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatJSON formats any presentation value as indented JSON
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	indirectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	commentedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	summaryStyle   = lipgloss.NewStyle().Faint(true)
)

const codePreviewLimit = 48

// FormatCellsTable renders cells as an aligned table with one row per cell:
// short identity, disablement status, export treatment, and a code preview.
func (f *Formatter) FormatCellsTable(cells []CellDTO) error {
	header := fmt.Sprintf("%-10s %-10s %-11s %s", "CELL", "STATUS", "EXPORT", "CODE")
	if _, err := fmt.Fprintln(f.writer, headerStyle.Render(header)); err != nil {
		return err
	}

	commented := 0
	for _, c := range cells {
		status, style := cellStatus(c)
		export := "live"
		if c.CommentedOut {
			export = "commented"
			commented++
		}

		row := fmt.Sprintf("%-10s %s %-11s %s",
			shortID(c.CellID),
			style.Render(fmt.Sprintf("%-10s", status)),
			export,
			codePreview(c.Code),
		)
		if _, err := fmt.Fprintln(f.writer, row); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d cells, %d commented out in script exports", len(cells), commented)
	_, err := fmt.Fprintln(f.writer, summaryStyle.Render(summary))
	return err
}

func cellStatus(c CellDTO) (string, lipgloss.Style) {
	switch {
	case c.Disabled:
		return "disabled", disabledStyle
	case c.IndirectlyDisabled:
		return "indirect", indirectStyle
	case c.SkipAsScript:
		return "skip", commentedStyle
	default:
		return "active", activeStyle
	}
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func codePreview(code string) string {
	// Single line only; the table is a survey, not an editor.
	if i := strings.IndexByte(code, '\n'); i >= 0 {
		code = code[:i] + " ..."
	}
	runes := []rune(code)
	if len(runes) > codePreviewLimit {
		return string(runes[:codePreviewLimit]) + "..."
	}
	return code
}
