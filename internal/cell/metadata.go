package cell

import "maps"

// Metadata keys this package recognizes and gives defaulted read semantics.
// Every other key is preserved verbatim so records written by newer
// frontends round-trip through older cores untouched.
const (
	// MetaDisabled records an explicit user request to keep the cell from
	// running.
	MetaDisabled = "disabled"
	// MetaShowLogs controls whether the cell's log entries are surfaced.
	MetaShowLogs = "show_logs"
	// MetaSkipAsScript marks the cell for omission from script exports.
	MetaSkipAsScript = "skip_as_script"
)

// metadataDefaults holds the value each recognized key takes when absent.
// Frontends render configuration toggles from the same table (see
// RecognizedMetadata), so absence and default stay indistinguishable
// everywhere.
var metadataDefaults = map[string]bool{
	MetaDisabled:     false,
	MetaShowLogs:     true,
	MetaSkipAsScript: false,
}

// RecognizedMetadata returns the recognized configuration keys mapped to
// their defaults. Consumers that present configuration UIs should source
// defaults from here rather than hardcoding a second copy.
func RecognizedMetadata() map[string]bool {
	return maps.Clone(metadataDefaults)
}

// Metadata is a cell's open configuration mapping. The recognized keys
// above drive behavior; arbitrary extra keys are legal and opaque.
//
// Values are not deep-copied by Clone, so treat stored values as immutable.
type Metadata map[string]any

// Bool reads a boolean option, falling back to the key's recognized default
// when the key is absent or holds a non-boolean value. Unrecognized keys
// default to false.
func (m Metadata) Bool(key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return metadataDefaults[key]
}

// Clone returns a shallow copy of m. The copy is never nil, so it is always
// safe to mutate.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}
