package notebook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cahier/internal/cell"
)

func collectEvents(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	out := make([]Event, 0, n)
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	nb := New()
	defer nb.Close()

	assert.NotEmpty(t, nb.ID)
	assert.Zero(t, nb.Len())
	assert.Empty(t, nb.Cells())
}

func TestAddCell_Positions(t *testing.T) {
	nb := New()
	defer nb.Close()

	first := cell.New("a = 1")
	second := cell.New("b = a + 1")
	between := cell.New("a′ = a * 2")

	require.NoError(t, nb.AddCell(first, 0))
	require.NoError(t, nb.AddCell(second, 1))
	require.NoError(t, nb.AddCell(between, 1))

	assert.Equal(t, []cell.ID{first.ID, between.ID, second.ID}, nb.IDs())
	assert.Equal(t, 3, nb.Len())
}

func TestAddCell_OutOfRange(t *testing.T) {
	nb := New()
	defer nb.Close()

	err := nb.AddCell(cell.New("x"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	err = nb.AddCell(cell.New("x"), -1)
	require.Error(t, err)
}

func TestAddCell_Duplicate(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("x = 1")
	require.NoError(t, nb.AppendCell(c))

	err := nb.AppendCell(c)
	assert.ErrorIs(t, err, ErrDuplicateCell)
	assert.Equal(t, 1, nb.Len())
}

func TestCell_Lookup(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("x = 1")
	require.NoError(t, nb.AppendCell(c))

	got, err := nb.Cell(c.ID)
	require.NoError(t, err)
	assert.Same(t, c, got, "lookups return the live cell, not a copy")

	_, err = nb.Cell(cell.NewID())
	assert.ErrorIs(t, err, ErrCellNotFound)
}

func TestIndexOf(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b := cell.New("a"), cell.New("b")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))

	i, err := nb.IndexOf(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	require.NoError(t, nb.MoveCell(a.ID, 1))
	i, err = nb.IndexOf(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, i, "position tracks moves")

	_, err = nb.IndexOf(cell.NewID())
	assert.ErrorIs(t, err, ErrCellNotFound)
}

func TestNewFromRecords(t *testing.T) {
	a := cell.New("x = 1")
	b := cell.New("y = x + 1")
	b.CodeFolded = true

	nb, err := NewFromRecords([]cell.Record{a.Record(), b.Record()})
	require.NoError(t, err)
	defer nb.Close()

	require.Equal(t, 2, nb.Len())
	assert.Equal(t, []cell.ID{a.ID, b.ID}, nb.IDs())

	got, err := nb.Cell(b.ID)
	require.NoError(t, err)
	assert.True(t, got.CodeFolded)
}

func TestNewFromRecords_BadRecord(t *testing.T) {
	good := cell.New("x = 1").Record()
	bad := cell.Record{CellID: "nope"}

	nb, err := NewFromRecords([]cell.Record{good, bad})
	assert.Nil(t, nb)
	require.ErrorIs(t, err, cell.ErrDeserialization)
	assert.Contains(t, err.Error(), "record 1", "error names the failing record")
}

func TestSetCode(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("x = 1")
	require.NoError(t, nb.AppendCell(c))

	require.NoError(t, nb.SetCode(c.ID, "x = 2"))
	assert.Equal(t, "x = 2", c.Code)

	err := nb.SetCode(cell.NewID(), "y = 3")
	assert.ErrorIs(t, err, ErrCellNotFound)
}

func TestSetFolded(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("helper() = 42")
	require.NoError(t, nb.AppendCell(c))

	require.NoError(t, nb.SetFolded(c.ID, true))
	assert.True(t, c.CodeFolded)

	err := nb.SetFolded(cell.NewID(), true)
	assert.ErrorIs(t, err, ErrCellNotFound)
}

func TestMoveCell(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b, c := cell.New("a"), cell.New("b"), cell.New("c")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))
	require.NoError(t, nb.AppendCell(c))

	// to is the position in the final order.
	require.NoError(t, nb.MoveCell(a.ID, 2))
	assert.Equal(t, []cell.ID{b.ID, c.ID, a.ID}, nb.IDs())

	require.NoError(t, nb.MoveCell(a.ID, 0))
	assert.Equal(t, []cell.ID{a.ID, b.ID, c.ID}, nb.IDs())

	require.NoError(t, nb.MoveCell(b.ID, 1), "moving to the current position is a no-op")
	assert.Equal(t, []cell.ID{a.ID, b.ID, c.ID}, nb.IDs())
}

func TestMoveCell_Errors(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("x")
	require.NoError(t, nb.AppendCell(c))

	assert.ErrorIs(t, nb.MoveCell(cell.NewID(), 0), ErrCellNotFound)

	err := nb.MoveCell(c.ID, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDeleteCell(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b := cell.New("a = 1"), cell.New("b = 2")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))

	require.NoError(t, nb.DeleteCell(a.ID))

	assert.Equal(t, []cell.ID{b.ID}, nb.IDs())
	_, err := nb.Cell(a.ID)
	assert.ErrorIs(t, err, ErrCellNotFound)

	assert.ErrorIs(t, nb.DeleteCell(a.ID), ErrCellNotFound)
}

func TestRestoreCell(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b, c := cell.New("a = 1"), cell.New("b = 2"), cell.New("c = 3")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))
	require.NoError(t, nb.AppendCell(c))

	b.SetDisabled(true)
	b.SetQueued(true)
	b.AppendLogs(cell.LogEntry{Level: "info", Message: "ran once"})

	require.NoError(t, nb.DeleteCell(b.ID))
	restored, err := nb.RestoreCell(b.ID)
	require.NoError(t, err)

	// Back at its old position, identity and configuration intact.
	assert.Equal(t, []cell.ID{a.ID, b.ID, c.ID}, nb.IDs())
	assert.Equal(t, b.ID, restored.ID)
	assert.Equal(t, "b = 2", restored.Code)
	assert.True(t, restored.Disabled())

	// Run state does not survive deletion.
	assert.False(t, restored.Queued())
	assert.Empty(t, restored.Logs())
	assert.NotSame(t, b, restored)
}

func TestRestoreCell_IndexClamped(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b := cell.New("a"), cell.New("b")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))

	// Delete the tail cell, then shrink the table below its old position.
	require.NoError(t, nb.DeleteCell(b.ID))
	require.NoError(t, nb.DeleteCell(a.ID))

	restored, err := nb.RestoreCell(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []cell.ID{restored.ID}, nb.IDs())
}

func TestRestoreCell_Errors(t *testing.T) {
	nb := New()
	defer nb.Close()

	c := cell.New("x")
	require.NoError(t, nb.AppendCell(c))

	// Never deleted.
	_, err := nb.RestoreCell(cell.NewID())
	assert.ErrorIs(t, err, ErrNoDeletedCell)

	// Double restore: the stash entry is consumed by the first.
	require.NoError(t, nb.DeleteCell(c.ID))
	_, err = nb.RestoreCell(c.ID)
	require.NoError(t, err)
	_, err = nb.RestoreCell(c.ID)
	assert.ErrorIs(t, err, ErrNoDeletedCell)
}

func TestRecords_SnapshotInOrder(t *testing.T) {
	nb := New()
	defer nb.Close()

	a, b := cell.New("a = 1"), cell.New("b = a * 2")
	require.NoError(t, nb.AppendCell(a))
	require.NoError(t, nb.AppendCell(b))

	recs := nb.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, a.ID.String(), recs[0].CellID)
	assert.Equal(t, b.ID.String(), recs[1].CellID)

	// The snapshot feeds straight back into NewFromRecords.
	clone, err := NewFromRecords(recs)
	require.NoError(t, err)
	defer clone.Close()
	assert.Equal(t, nb.IDs(), clone.IDs())
}

func TestSubscribe_MutationEvents(t *testing.T) {
	nb := New()
	defer nb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := nb.Subscribe(ctx)

	c := cell.New("x = 1")
	require.NoError(t, nb.AppendCell(c))
	require.NoError(t, nb.SetCode(c.ID, "x = 2"))
	require.NoError(t, nb.DeleteCell(c.ID))
	_, err := nb.RestoreCell(c.ID)
	require.NoError(t, err)

	events := collectEvents(t, ch, 4)
	assert.Equal(t, CellAdded, events[0].Type)
	assert.Equal(t, CellUpdated, events[1].Type)
	assert.Equal(t, CellDeleted, events[2].Type)
	assert.Equal(t, CellRestored, events[3].Type)
	for _, ev := range events {
		assert.Equal(t, c.ID, ev.CellID)
		assert.Equal(t, 0, ev.Index)
		assert.False(t, ev.At.IsZero())
	}
}

func TestClose_EndsSubscriptions(t *testing.T) {
	nb := New()
	ch := nb.Subscribe(context.Background())

	nb.Close()

	_, open := <-ch
	assert.False(t, open)
}
