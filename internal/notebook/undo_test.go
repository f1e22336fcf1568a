package notebook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cahier/internal/cell"
)

func TestUndoBuffer_StashAndTake(t *testing.T) {
	u := NewUndoBuffer(DefaultUndoRetention, defaultUndoCleanup)
	c := cell.New("x = 1")

	u.Stash(DeletedCell{Record: c.Record(), Index: 2, DeletedAt: time.Now()})
	require.Equal(t, 1, u.Len())

	dc, ok := u.Take(c.ID)
	require.True(t, ok)
	assert.Equal(t, c.ID.String(), dc.Record.CellID)
	assert.Equal(t, 2, dc.Index)

	// Take consumes the entry.
	_, ok = u.Take(c.ID)
	assert.False(t, ok)
	assert.Zero(t, u.Len())
}

func TestUndoBuffer_TakeMissing(t *testing.T) {
	u := NewUndoBuffer(DefaultUndoRetention, defaultUndoCleanup)

	_, ok := u.Take(cell.NewID())
	assert.False(t, ok)
}

func TestUndoBuffer_RestashReplaces(t *testing.T) {
	u := NewUndoBuffer(DefaultUndoRetention, defaultUndoCleanup)
	c := cell.New("x = 1")

	u.Stash(DeletedCell{Record: c.Record(), Index: 0, DeletedAt: time.Now()})
	u.Stash(DeletedCell{Record: c.Record(), Index: 5, DeletedAt: time.Now()})

	dc, ok := u.Take(c.ID)
	require.True(t, ok)
	assert.Equal(t, 5, dc.Index, "later stash for the same cell wins")
}

func TestUndoBuffer_EntriesExpire(t *testing.T) {
	u := NewUndoBuffer(20*time.Millisecond, time.Minute)
	c := cell.New("x = 1")

	u.Stash(DeletedCell{Record: c.Record(), Index: 0, DeletedAt: time.Now()})
	time.Sleep(40 * time.Millisecond)

	_, ok := u.Take(c.ID)
	assert.False(t, ok, "expired deletions are gone even before the sweeper runs")
}
