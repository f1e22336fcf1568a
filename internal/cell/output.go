package cell

import "time"

// MIMEPlain is the MIME tag a cell output carries before the cell has ever
// produced richer output.
const MIMEPlain = "text/plain"

// Body is the payload of a cell output. Exactly one variant applies per
// output; a nil Body means the cell has not produced output yet.
type Body interface {
	isBody()
}

// Text is textual output, plain or markup depending on the output's MIME.
type Text string

// Raw is opaque byte output such as an encoded image.
type Raw []byte

// Structured is tree-shaped output destined for rich renderers.
type Structured map[string]any

func (Text) isBody()       {}
func (Raw) isBody()        {}
func (Structured) isBody() {}

// Output is the artifact of a cell's most recent run. A completed run
// replaces the previous output wholesale, so holders of an Output value can
// treat it as immutable; there is no partial update.
type Output struct {
	// Body holds the payload, nil until the cell first runs.
	Body Body

	// MIME tags how Body should be interpreted.
	MIME string

	// RootAssignee names the variable the cell assigns at top level when
	// there is exactly one, empty otherwise. Frontends label the rendered
	// value with it.
	RootAssignee string

	// LastRunAt is when this output was produced, zero before the first run.
	LastRunAt time.Time

	// PersistJSState asks renderers to keep embedded JavaScript state alive
	// across re-renders instead of starting fresh.
	PersistJSState bool

	// HasHookFeatures marks output produced through the execution hook
	// protocol. Renderers treat such output as a continuation of earlier
	// rendered state rather than a fresh document.
	HasHookFeatures bool
}

// LogEntry is one structured record captured while the cell ran. The
// scheduler clears a cell's log at run start and appends entries in the
// order the runtime reports them.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`

	// Group names the logger group the entry came from, when the runtime
	// reports one.
	Group string `json:"group,omitempty"`

	// File and Line locate the emitting statement within the cell's source
	// when known.
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`

	// Values carries the entry's structured key/value payload.
	Values map[string]any `json:"values,omitempty"`

	// At is when the entry was recorded.
	At time.Time `json:"at"`
}
