package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/notebook"
)

// StandardNotebook builds the canonical four-cell chain used across tests:
//
//	base = 10              (active)
//	derived = base * 2     (explicitly disabled)
//	final = derived + 1    (indirectly disabled via derived)
//	debug_dump(final)      (skipped in script exports)
//
// Edges are linked by the real generated IDs. No graph pass runs here: the
// depends_on_* flags are hand-set to the values an engine walk of this
// chain would have produced.
func StandardNotebook(t *testing.T) *notebook.Notebook {
	t.Helper()

	base := BuildCell(t, "base = 10")
	derived := BuildCell(t, "derived = base * 2", Disabled())
	final := BuildCell(t, "final = derived + 1", DependsOnDisabled())
	dump := BuildCell(t, "debug_dump(final)", SkippedAsScript())

	link := func(c *cell.Cell, mutate func(*cell.Dependencies)) {
		deps := cell.NewDependencies()
		mutate(deps)
		c.SetDependencies(deps)
	}

	link(base, func(d *cell.Dependencies) {
		d.Downstream().Add("base", derived.ID)
	})
	link(derived, func(d *cell.Dependencies) {
		d.Upstream().Add("base", base.ID)
		d.Downstream().Add("derived", final.ID)
	})
	link(final, func(d *cell.Dependencies) {
		d.Upstream().Add("derived", derived.ID)
		d.Downstream().Add("final", dump.ID)
	})
	link(dump, func(d *cell.Dependencies) {
		d.Upstream().Add("final", final.ID)
	})

	nb := notebook.New()
	for _, c := range []*cell.Cell{base, derived, final, dump} {
		require.NoError(t, nb.AppendCell(c))
	}
	return nb
}
