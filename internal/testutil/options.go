package testutil

import (
	"github.com/zjrosen/cahier/internal/cell"
)

// edgeData holds one variable edge to be added to a dependency snapshot.
type edgeData struct {
	variable string
	refs     []cell.ID
}

// cellData holds all data for a cell to be built.
type cellData struct {
	id          cell.ID
	folded      bool
	metadata    cell.Metadata
	queued      bool
	running     bool
	errored     bool
	depDisabled bool
	depSkipped  bool
	output      *cell.Output
	logs        []cell.LogEntry
	downstream  []edgeData
	upstream    []edgeData
	precedence  *int
}

// CellOption configures a cell during builder setup.
type CellOption func(*cellData)

// WithID pins the cell's identity instead of generating one.
func WithID(id string) CellOption {
	return func(d *cellData) { d.id = cell.ID(id) }
}

// Folded marks the cell's source as folded in the editor.
func Folded() CellOption {
	return func(d *cellData) { d.folded = true }
}

// Disabled sets the user's explicit disable request.
func Disabled() CellOption {
	return func(d *cellData) { d.metadata[cell.MetaDisabled] = true }
}

// HiddenLogs turns the show_logs option off.
func HiddenLogs() CellOption {
	return func(d *cellData) { d.metadata[cell.MetaShowLogs] = false }
}

// SkippedAsScript marks the cell for omission from script exports.
func SkippedAsScript() CellOption {
	return func(d *cellData) { d.metadata[cell.MetaSkipAsScript] = true }
}

// WithMetadata sets an arbitrary metadata key.
func WithMetadata(key string, v any) CellOption {
	return func(d *cellData) { d.metadata[key] = v }
}

// Queued marks the cell as waiting in the run queue.
func Queued() CellOption {
	return func(d *cellData) { d.queued = true }
}

// Running marks the cell as currently executing.
func Running() CellOption {
	return func(d *cellData) { d.running = true }
}

// Errored marks the cell's last run as failed.
func Errored() CellOption {
	return func(d *cellData) { d.errored = true }
}

// DependsOnDisabled sets the engine-derived disabled-upstream flag.
func DependsOnDisabled() CellOption {
	return func(d *cellData) { d.depDisabled = true }
}

// DependsOnSkipped sets the engine-derived skipped-upstream flag.
func DependsOnSkipped() CellOption {
	return func(d *cellData) { d.depSkipped = true }
}

// WithOutput installs a run artifact.
func WithOutput(body cell.Body, mime string) CellOption {
	return func(d *cellData) { d.output = &cell.Output{Body: body, MIME: mime} }
}

// WithLogMessages appends info-level log entries with the given messages.
func WithLogMessages(msgs ...string) CellOption {
	return func(d *cellData) {
		for _, m := range msgs {
			d.logs = append(d.logs, cell.LogEntry{Level: "info", Message: m})
		}
	}
}

// WithDownstream records consumers of a variable this cell defines.
func WithDownstream(variable string, refs ...cell.ID) CellOption {
	return func(d *cellData) {
		d.downstream = append(d.downstream, edgeData{variable, refs})
	}
}

// WithUpstream records definers of a variable this cell consumes.
func WithUpstream(variable string, refs ...cell.ID) CellOption {
	return func(d *cellData) {
		d.upstream = append(d.upstream, edgeData{variable, refs})
	}
}

// WithPrecedence sets the dependency snapshot's tie-break rank.
func WithPrecedence(rank int) CellOption {
	return func(d *cellData) { d.precedence = &rank }
}
