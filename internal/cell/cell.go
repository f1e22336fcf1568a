// Package cell models a single unit of a reactive notebook: source code,
// the output of its last run, execution status, configuration metadata, and
// the cell's edges in the notebook's variable dependency graph.
//
// The package is deliberately inert. It stores state and answers queries
// about it; deciding when a cell runs, which cells an edit invalidates, and
// whether the dependency graph is sound are the reactivity engine's job.
// Field and method comments below say which side owns each piece of state.
package cell

import (
	"fmt"
	"maps"
	"sync/atomic"
	"time"
)

// DisableCause selects which causal attribution IsDisabled reports.
type DisableCause string

const (
	// CauseExplicit asks whether the user disabled the cell directly.
	CauseExplicit DisableCause = "explicit"
	// CauseIndirect asks whether the cell is disabled only because an
	// upstream cell it depends on is disabled.
	CauseIndirect DisableCause = "indirect"
	// CauseAny asks whether the cell is disabled for either reason.
	CauseAny DisableCause = "any"
)

// Cell is one unit of source code, output, and execution state within a
// reactive notebook.
//
// Its mutable state falls in two ownership classes. Code, CodeFolded, and
// metadata belong to the user and are changed by the notebook's single
// structural writer. Status flags, output, logs, runtime, published
// objects, the derived depends-on flags, and the dependency snapshot belong
// to the external scheduler and reactivity engine. Everything in the second
// class is published atomically, so any number of frontend readers can poll
// it without locks while a run is writing; readers see either the previous
// or the new value, never a torn one.
type Cell struct {
	// ID is assigned at construction and never changes. Every component
	// that needs to reference this cell does so by ID.
	ID ID

	// Code is the cell's source text. Edits replace it wholesale; single
	// structural writer only.
	Code string

	// CodeFolded records whether the editor hides the cell's source. It is
	// purely presentational; single structural writer only.
	CodeFolded bool

	queued  atomic.Bool
	running atomic.Bool
	errored atomic.Bool

	// Engine-derived flags. The core never recomputes these from the
	// dependency snapshot; the engine owns the graph walk and writes the
	// verdict here.
	dependsOnDisabled atomic.Bool
	dependsOnSkipped  atomic.Bool

	metadata  atomic.Pointer[Metadata]
	output    atomic.Pointer[Output]
	logs      atomic.Pointer[[]LogEntry]
	published atomic.Pointer[map[string]any]
	runtime   atomic.Pointer[time.Duration]
	deps      atomic.Pointer[Dependencies]
}

// New creates a cell with a freshly generated identity holding the given
// source text. Everything else starts at its documented default: never
// queued, run, or errored, empty metadata and logs, no output, and an empty
// dependency snapshot.
func New(code string) *Cell {
	c := &Cell{ID: NewID(), Code: code}
	c.init()
	return c
}

// NewWithID creates a cell under a caller-supplied identity, as when the
// persistence layer reconstructs a cell it stored earlier. The identity is
// canonicalized, so the same UUID always yields the same ID regardless of
// how the caller spelled it. It fails if the identity is malformed.
func NewWithID(id ID, code string) (*Cell, error) {
	canonical, err := ParseID(string(id))
	if err != nil {
		return nil, err
	}
	c := &Cell{ID: canonical, Code: code}
	c.init()
	return c, nil
}

func (c *Cell) init() {
	meta := Metadata{}
	c.metadata.Store(&meta)
	c.output.Store(&Output{MIME: MIMEPlain})
	entries := []LogEntry{}
	c.logs.Store(&entries)
	objs := map[string]any{}
	c.published.Store(&objs)
	c.deps.Store(NewDependencies())
}

// IsDisabled reports whether the cell is disabled, attributed to the given
// cause. Explicit means the user disabled this cell directly; indirect
// means the cell is shut off only because an upstream dependency is
// disabled; any means the engine has marked the cell off for either reason.
// An unrecognized cause is a caller bug and fails with ErrInvalidArgument
// rather than defaulting to a guess.
func (c *Cell) IsDisabled(cause DisableCause) (bool, error) {
	switch cause {
	case CauseExplicit:
		return c.metadataBool(MetaDisabled), nil
	case CauseIndirect:
		return c.dependsOnDisabled.Load() && !c.metadataBool(MetaDisabled), nil
	case CauseAny:
		return c.dependsOnDisabled.Load(), nil
	default:
		return false, fmt.Errorf("%w: unknown disable cause %q", ErrInvalidArgument, string(cause))
	}
}

// Disabled reports whether the user explicitly disabled the cell. It is the
// no-argument form of IsDisabled(CauseExplicit).
func (c *Cell) Disabled() bool {
	return c.metadataBool(MetaDisabled)
}

// SetDisabled records or clears the user's explicit disable request in
// metadata. Setting the default clears the key entirely so serialized
// notebooks stay minimal and diff-friendly. The engine-derived depends-on
// flags are not touched; recomputing them is the engine's job.
func (c *Cell) SetDisabled(disabled bool) {
	m := c.metadata.Load().Clone()
	if disabled == metadataDefaults[MetaDisabled] {
		delete(m, MetaDisabled)
	} else {
		m[MetaDisabled] = disabled
	}
	c.metadata.Store(&m)
}

// CanShowLogs reports whether log entries should be surfaced for this cell.
func (c *Cell) CanShowLogs() bool {
	return c.metadataBool(MetaShowLogs)
}

// IsSkippedAsScript reports whether the cell is marked for omission from
// script exports.
func (c *Cell) IsSkippedAsScript() bool {
	return c.metadataBool(MetaSkipAsScript)
}

// MustBeCommentedOut reports whether a script export has to comment this
// cell's code out instead of emitting it live. True when the cell is
// disabled (explicitly or through a disabled upstream), marked skip, or
// downstream of a skipped cell. Exporters must not re-derive this from
// individual flags; this method is the single definition.
func (c *Cell) MustBeCommentedOut() bool {
	return c.Disabled() ||
		c.dependsOnDisabled.Load() ||
		c.IsSkippedAsScript() ||
		c.dependsOnSkipped.Load()
}

func (c *Cell) metadataBool(key string) bool {
	return (*c.metadata.Load()).Bool(key)
}

// Metadata returns a copy of the cell's configuration mapping, recognized
// and opaque keys alike. Mutating the copy does not affect the cell.
func (c *Cell) Metadata() Metadata {
	return (*c.metadata.Load()).Clone()
}

// SetMetadata replaces the cell's configuration mapping wholesale. The map
// is copied on the way in, so the caller keeps ownership of its argument.
func (c *Cell) SetMetadata(m Metadata) {
	cp := m.Clone()
	c.metadata.Store(&cp)
}

// Queued reports whether the scheduler has the cell waiting to run.
func (c *Cell) Queued() bool { return c.queued.Load() }

// SetQueued is written by the scheduler when the cell enters or leaves the
// run queue.
func (c *Cell) SetQueued(v bool) { c.queued.Store(v) }

// Running reports whether the cell is executing right now.
func (c *Cell) Running() bool { return c.running.Load() }

// SetRunning is written by the scheduler at run start and end. The status
// flags are independent; the scheduler sequences them and the core does not
// enforce an ordering between queued and running.
func (c *Cell) SetRunning(v bool) { c.running.Store(v) }

// Errored reports whether the most recent run failed.
func (c *Cell) Errored() bool { return c.errored.Load() }

// SetErrored is written by the scheduler when a run completes.
func (c *Cell) SetErrored(v bool) { c.errored.Store(v) }

// DependsOnDisabledCells reports the engine's verdict on whether any
// transitive upstream of this cell is disabled.
func (c *Cell) DependsOnDisabledCells() bool {
	return c.dependsOnDisabled.Load()
}

// SetDependsOnDisabledCells is written only by the reactivity engine after
// a graph walk; the core never derives it locally.
func (c *Cell) SetDependsOnDisabledCells(v bool) {
	c.dependsOnDisabled.Store(v)
}

// DependsOnSkippedCells reports the engine's verdict on whether any
// transitive upstream of this cell is marked skip_as_script.
func (c *Cell) DependsOnSkippedCells() bool {
	return c.dependsOnSkipped.Load()
}

// SetDependsOnSkippedCells is written only by the reactivity engine after a
// graph walk.
func (c *Cell) SetDependsOnSkippedCells(v bool) {
	c.dependsOnSkipped.Store(v)
}

// Output returns the artifact of the cell's most recent run. Before the
// first run it has a nil Body and the plain-text MIME tag.
func (c *Cell) Output() Output {
	return *c.output.Load()
}

// SetOutput publishes a completed run's artifact, replacing the previous
// one wholesale.
func (c *Cell) SetOutput(out Output) {
	c.output.Store(&out)
}

// Logs returns the entries captured during the most recent run, in report
// order. The slice is a published snapshot; callers must not modify it.
func (c *Cell) Logs() []LogEntry {
	return *c.logs.Load()
}

// AppendLogs publishes a new log snapshot with entries appended. Only the
// run's single log writer may append; concurrent readers keep whichever
// snapshot they loaded.
func (c *Cell) AppendLogs(entries ...LogEntry) {
	if len(entries) == 0 {
		return
	}
	cur := *c.logs.Load()
	next := make([]LogEntry, 0, len(cur)+len(entries))
	next = append(next, cur...)
	next = append(next, entries...)
	c.logs.Store(&next)
}

// ClearLogs resets the log; the scheduler calls it at run start.
func (c *Cell) ClearLogs() {
	entries := []LogEntry{}
	c.logs.Store(&entries)
}

// Runtime returns the elapsed wall time of the most recent completed run.
// ok is false until a run has completed or after ClearRuntime.
func (c *Cell) Runtime() (d time.Duration, ok bool) {
	p := c.runtime.Load()
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetRuntime is written by the scheduler when a run completes.
func (c *Cell) SetRuntime(d time.Duration) {
	c.runtime.Store(&d)
}

// ClearRuntime returns the cell to the never-measured state, as when its
// code is replaced and the old timing stops being meaningful.
func (c *Cell) ClearRuntime() {
	c.runtime.Store(nil)
}

// PublishedObjects returns the out-of-band values the most recent run
// published for frontend consumption, keyed by object name. Treat the map
// as read-only.
func (c *Cell) PublishedObjects() map[string]any {
	return *c.published.Load()
}

// SetPublishedObjects replaces the published set wholesale. The map is
// copied on the way in.
func (c *Cell) SetPublishedObjects(objs map[string]any) {
	cp := make(map[string]any, len(objs))
	maps.Copy(cp, objs)
	c.published.Store(&cp)
}

// Dependencies returns the cell's current dependency snapshot. Snapshots
// are immutable once installed; a reader can keep one across engine
// rebuilds and it stays internally consistent, if stale.
func (c *Cell) Dependencies() *Dependencies {
	return c.deps.Load()
}

// SetDependencies installs a rebuilt snapshot. The engine calls it after
// every structural edit; a nil argument installs an empty snapshot.
func (c *Cell) SetDependencies(d *Dependencies) {
	if d == nil {
		d = NewDependencies()
	}
	c.deps.Store(d)
}
