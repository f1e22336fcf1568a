// Package testutil builds cells and notebooks for tests without the
// boilerplate of wiring run state by hand.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cahier/internal/cell"
)

// BuildCell constructs a cell with the given source text and applies the
// options in order. Dependency edges from all options land in a single
// snapshot, installed once.
func BuildCell(t *testing.T, code string, opts ...CellOption) *cell.Cell {
	t.Helper()

	data := cellData{metadata: cell.Metadata{}}
	for _, opt := range opts {
		opt(&data)
	}

	var c *cell.Cell
	if data.id != "" {
		built, err := cell.NewWithID(data.id, code)
		require.NoError(t, err)
		c = built
	} else {
		c = cell.New(code)
	}

	c.CodeFolded = data.folded
	if len(data.metadata) > 0 {
		c.SetMetadata(data.metadata)
	}

	c.SetQueued(data.queued)
	c.SetRunning(data.running)
	c.SetErrored(data.errored)
	c.SetDependsOnDisabledCells(data.depDisabled)
	c.SetDependsOnSkippedCells(data.depSkipped)

	if data.output != nil {
		c.SetOutput(*data.output)
	}
	if len(data.logs) > 0 {
		c.AppendLogs(data.logs...)
	}

	if len(data.downstream) > 0 || len(data.upstream) > 0 || data.precedence != nil {
		deps := cell.NewDependencies()
		for _, e := range data.downstream {
			deps.Downstream().Add(e.variable, e.refs...)
		}
		for _, e := range data.upstream {
			deps.Upstream().Add(e.variable, e.refs...)
		}
		if data.precedence != nil {
			deps.SetPrecedence(*data.precedence)
		}
		c.SetDependencies(deps)
	}

	return c
}
