package notebook

import (
	"time"

	"github.com/zjrosen/cahier/internal/cell"
)

// EventType identifies a structural notebook mutation.
type EventType string

const (
	CellAdded    EventType = "cell_added"
	CellUpdated  EventType = "cell_updated"
	CellMoved    EventType = "cell_moved"
	CellDeleted  EventType = "cell_deleted"
	CellRestored EventType = "cell_restored"
)

// Event describes one structural mutation. Subscribers typically react by
// rebuilding dependency snapshots or re-rendering.
type Event struct {
	Type   EventType
	CellID cell.ID

	// Index is the cell's position after the mutation; for deletions it is
	// the position the cell held before it was removed.
	Index int

	At time.Time
}
