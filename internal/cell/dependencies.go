package cell

// DefaultPrecedence is the tie-break rank a fresh dependency snapshot
// carries. The graph builder assigns a lower rank when several cells could
// legally define the same variable and one of them must win; this package
// stores the rank opaquely and never compares it.
const DefaultPrecedence = 99

// Dependencies is one cell's view of the notebook's variable dependency
// graph: which sibling cells consume the variables it defines (downstream)
// and which siblings define the variables it consumes (upstream).
//
// It is pure storage. The reactivity engine computes the edges after each
// structural edit and installs a whole fresh snapshot with
// Cell.SetDependencies; nothing in this package walks or validates the
// graph, and a stale snapshot stays readable until the engine replaces it.
type Dependencies struct {
	downstream Edges
	upstream   Edges
	precedence int
}

// NewDependencies returns an empty snapshot with the default precedence.
func NewDependencies() *Dependencies {
	return &Dependencies{precedence: DefaultPrecedence}
}

// Downstream holds, per variable this cell defines, the cells that consume
// it. A defined variable with no consumers still gets an entry.
func (d *Dependencies) Downstream() *Edges {
	return &d.downstream
}

// Upstream holds, per variable this cell consumes, the cells that define it.
func (d *Dependencies) Upstream() *Edges {
	return &d.upstream
}

// Precedence returns the externally assigned tie-break rank.
func (d *Dependencies) Precedence() int {
	return d.precedence
}

// SetPrecedence records the tie-break rank chosen by the graph builder.
func (d *Dependencies) SetPrecedence(rank int) {
	d.precedence = rank
}

// Edges is an insertion-ordered multimap from variable name to the cells on
// the far end of each edge. Cells are referenced by ID only; the notebook's
// cell table owns the cells themselves, so mutually dependent cells never
// form an ownership cycle through their snapshots.
type Edges struct {
	vars  []string
	cells map[string][]ID
}

// Add appends refs to the edge list for variable. The first mention of a
// variable fixes its position in iteration order; later mentions extend its
// cell sequence in call order. Calling with no refs still registers the
// variable, which is how a definition without consumers is recorded.
func (e *Edges) Add(variable string, refs ...ID) {
	if e.cells == nil {
		e.cells = make(map[string][]ID)
	}
	if _, seen := e.cells[variable]; !seen {
		e.vars = append(e.vars, variable)
		e.cells[variable] = nil
	}
	e.cells[variable] = append(e.cells[variable], refs...)
}

// Cells returns the recorded cells for variable in insertion order, nil for
// an unknown variable. Callers must not modify the returned slice.
func (e *Edges) Cells(variable string) []ID {
	return e.cells[variable]
}

// Has reports whether variable has an entry, even an empty one.
func (e *Edges) Has(variable string) bool {
	_, ok := e.cells[variable]
	return ok
}

// Variables returns the variable names in first-insertion order. Callers
// must not modify the returned slice.
func (e *Edges) Variables() []string {
	return e.vars
}

// Len is the number of distinct variables recorded.
func (e *Edges) Len() int {
	return len(e.vars)
}
