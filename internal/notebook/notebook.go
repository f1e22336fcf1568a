// Package notebook owns the cell table: the ordered collection of cells
// everything else references by identity. It provides structure only
// (ordering, lookup, code edits, deletion with undo) and emits an event per
// mutation. Dependency resolution and scheduling live in the reactivity
// engine, which subscribes to those events.
//
// All structural mutations go through the notebook's lock, which is what
// makes the "single structural writer" discipline on cell code hold in
// practice.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/log"
	"github.com/zjrosen/cahier/internal/pubsub"
)

// ID uniquely identifies a notebook.
type ID string

// NewID generates a fresh notebook identity.
func NewID() ID {
	return ID(uuid.New().String())
}

// Common notebook errors.
var (
	// ErrDuplicateCell is returned when adding a cell whose identity is
	// already present.
	ErrDuplicateCell = errors.New("cell already in notebook")
	// ErrCellNotFound is returned when an operation references an identity
	// the notebook does not hold.
	ErrCellNotFound = errors.New("cell not found")
	// ErrNoDeletedCell is returned when restoring a cell whose undo window
	// has passed or that was never deleted.
	ErrNoDeletedCell = errors.New("no recently deleted cell to restore")
)

// Notebook is an ordered table of cells with pub/sub mutation events and a
// bounded undo window for deletions. Methods are safe for concurrent use.
type Notebook struct {
	// ID is assigned at construction and never changes.
	ID ID

	mu    sync.RWMutex
	order []cell.ID
	cells map[cell.ID]*cell.Cell

	broker *pubsub.Broker[Event]
	undo   *UndoBuffer
}

// New creates an empty notebook with the default undo retention.
func New() *Notebook {
	return &Notebook{
		ID:     NewID(),
		cells:  make(map[cell.ID]*cell.Cell),
		broker: pubsub.NewBroker[Event](),
		undo:   NewUndoBuffer(DefaultUndoRetention, defaultUndoCleanup),
	}
}

// NewFromRecords builds a notebook holding one cell per record, in record
// order. It fails on the first undecodable record and on duplicate
// identities.
func NewFromRecords(recs []cell.Record) (*Notebook, error) {
	nb := New()
	for i, rec := range recs {
		c, err := cell.NewFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := nb.AppendCell(c); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nb, nil
}

// Len reports the number of cells.
func (n *Notebook) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.order)
}

// Cell looks a cell up by identity.
func (n *Notebook) Cell(id cell.ID) (*cell.Cell, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, ok := n.cells[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	return c, nil
}

// Cells returns the cells in notebook order. The slice is a copy; the cells
// are the live ones.
func (n *Notebook) Cells() []*cell.Cell {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]*cell.Cell, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.cells[id])
	}
	return out
}

// IDs returns the cell identities in notebook order.
func (n *Notebook) IDs() []cell.ID {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]cell.ID, len(n.order))
	copy(out, n.order)
	return out
}

// IndexOf returns a cell's position in notebook order.
func (n *Notebook) IndexOf(id cell.ID) (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	i := n.indexOfLocked(id)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	return i, nil
}

func (n *Notebook) indexOfLocked(id cell.ID) int {
	for i, existing := range n.order {
		if existing == id {
			return i
		}
	}
	return -1
}

// AddCell inserts c at position at, where at ranges from 0 to Len()
// inclusive; Len() appends. Fails on a duplicate identity or an
// out-of-range position.
func (n *Notebook) AddCell(c *cell.Cell, at int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addLocked(c, at)
}

// AppendCell inserts c after the last cell.
func (n *Notebook) AppendCell(c *cell.Cell) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addLocked(c, len(n.order))
}

func (n *Notebook) addLocked(c *cell.Cell, at int) error {
	if _, exists := n.cells[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCell, c.ID)
	}
	if at < 0 || at > len(n.order) {
		return fmt.Errorf("position %d out of range (have %d cells)", at, len(n.order))
	}

	n.order = append(n.order, "")
	copy(n.order[at+1:], n.order[at:])
	n.order[at] = c.ID
	n.cells[c.ID] = c

	log.Debug(log.CatNotebook, "cell added", "cellID", c.ID, "index", at)
	n.broker.Publish(Event{Type: CellAdded, CellID: c.ID, Index: at, At: time.Now()})
	return nil
}

// SetCode replaces a cell's source text wholesale and announces the edit.
// The reactivity engine reacts by rebuilding dependency snapshots and
// rescheduling; the notebook itself only records the new text.
func (n *Notebook) SetCode(id cell.ID, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, ok := n.cells[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	c.Code = code

	idx := n.indexOfLocked(id)
	log.Debug(log.CatNotebook, "cell code updated", "cellID", id)
	n.broker.Publish(Event{Type: CellUpdated, CellID: id, Index: idx, At: time.Now()})
	return nil
}

// SetFolded records a cell's editor fold state. Purely presentational, but
// it is a structural-writer field, so it goes through the notebook's lock
// like code does.
func (n *Notebook) SetFolded(id cell.ID, folded bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, ok := n.cells[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	c.CodeFolded = folded

	idx := n.indexOfLocked(id)
	n.broker.Publish(Event{Type: CellUpdated, CellID: id, Index: idx, At: time.Now()})
	return nil
}

// MoveCell moves a cell so it ends up at position to in the resulting
// order, with to ranging from 0 to Len()-1.
func (n *Notebook) MoveCell(id cell.ID, to int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	from := n.indexOfLocked(id)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	if to < 0 || to >= len(n.order) {
		return fmt.Errorf("position %d out of range (have %d cells)", to, len(n.order))
	}
	if from == to {
		return nil
	}

	n.order = append(n.order[:from], n.order[from+1:]...)
	n.order = append(n.order, "")
	copy(n.order[to+1:], n.order[to:])
	n.order[to] = id

	log.Debug(log.CatNotebook, "cell moved", "cellID", id, "from", from, "to", to)
	n.broker.Publish(Event{Type: CellMoved, CellID: id, Index: to, At: time.Now()})
	return nil
}

// DeleteCell removes a cell and stashes it in the undo buffer; RestoreCell
// can bring it back until the undo window lapses.
func (n *Notebook) DeleteCell(id cell.ID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, ok := n.cells[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	idx := n.indexOfLocked(id)

	n.undo.Stash(DeletedCell{Record: c.Record(), Index: idx, DeletedAt: time.Now()})
	n.order = append(n.order[:idx], n.order[idx+1:]...)
	delete(n.cells, id)

	log.Debug(log.CatNotebook, "cell deleted", "cellID", id, "index", idx)
	n.broker.Publish(Event{Type: CellDeleted, CellID: id, Index: idx, At: time.Now()})
	return nil
}

// RestoreCell rebuilds the most recently deleted incarnation of id from the
// undo buffer and reinserts it at its old position, clamped to the current
// table size. The restored cell is a fresh never-run cell; only identity,
// code, fold state, and metadata survive deletion.
func (n *Notebook) RestoreCell(id cell.ID) (*cell.Cell, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// Existence first: a failed restore must not consume the stash entry.
	if _, exists := n.cells[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCell, id)
	}
	dc, ok := n.undo.Take(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDeletedCell, id)
	}

	c, err := cell.NewFromRecord(dc.Record)
	if err != nil {
		// Records in the buffer came from live cells, so this points at
		// corruption rather than caller error.
		log.ErrorErr(log.CatNotebook, "stashed record no longer decodes", err, "cellID", id)
		return nil, err
	}

	at := dc.Index
	if at > len(n.order) {
		at = len(n.order)
	}
	n.order = append(n.order, "")
	copy(n.order[at+1:], n.order[at:])
	n.order[at] = c.ID
	n.cells[c.ID] = c

	log.Debug(log.CatNotebook, "cell restored", "cellID", id, "index", at)
	n.broker.Publish(Event{Type: CellRestored, CellID: c.ID, Index: at, At: time.Now()})
	return c, nil
}

// Records snapshots every cell in notebook order for the persistence layer.
func (n *Notebook) Records() []cell.Record {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]cell.Record, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.cells[id].Record())
	}
	return out
}

// Subscribe delivers mutation events until ctx is cancelled or the notebook
// closes.
func (n *Notebook) Subscribe(ctx context.Context) <-chan Event {
	return n.broker.Subscribe(ctx)
}

// Close shuts down event delivery. The cell table stays readable.
func (n *Notebook) Close() {
	n.broker.Close()
}
