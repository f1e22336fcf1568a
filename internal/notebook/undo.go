package notebook

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/log"
)

const (
	// DefaultUndoRetention is how long a deleted cell stays restorable.
	DefaultUndoRetention = 10 * time.Minute
	// defaultUndoCleanup is the sweep interval for expired entries.
	defaultUndoCleanup = 30 * time.Minute
)

// DeletedCell is what the undo buffer keeps per deletion: enough to rebuild
// the cell (its persisted record) and put it back where it was.
type DeletedCell struct {
	Record    cell.Record
	Index     int
	DeletedAt time.Time
}

// UndoBuffer stashes recently deleted cells for a grace window so deletions
// can be reverted. Entries expire on their own; after the window a restore
// simply misses.
type UndoBuffer struct {
	cache *gocache.Cache
}

// NewUndoBuffer creates a buffer whose entries live for retention and are
// swept every cleanup interval.
func NewUndoBuffer(retention, cleanup time.Duration) *UndoBuffer {
	return &UndoBuffer{cache: gocache.New(retention, cleanup)}
}

// Stash records a deleted cell under its identity, replacing any earlier
// stash for the same cell.
func (u *UndoBuffer) Stash(dc DeletedCell) {
	u.cache.Set(dc.Record.CellID, dc, gocache.DefaultExpiration)
	log.Debug(log.CatCache, "stashed deleted cell", "cellID", dc.Record.CellID, "index", dc.Index)
}

// Take removes and returns the stashed entry for id. ok is false when the
// entry expired or never existed.
func (u *UndoBuffer) Take(id cell.ID) (DeletedCell, bool) {
	v, found := u.cache.Get(id.String())
	if !found {
		return DeletedCell{}, false
	}
	u.cache.Delete(id.String())

	dc, ok := v.(DeletedCell)
	if !ok {
		log.Error(log.CatCache, "unexpected type in undo buffer", "cellID", id)
		return DeletedCell{}, false
	}
	return dc, true
}

// Len reports how many deletions are currently restorable, expired entries
// not yet swept included.
func (u *UndoBuffer) Len() int {
	return u.cache.ItemCount()
}
