package eventdata

// TrueInfo is the per-hit truth record of spec.md §3: a schema-flexible
// observable map with no reserved keys.
type TrueInfo struct {
	Record
}

// NewTrueInfo returns an empty TrueInfo ready to accept observables.
func NewTrueInfo() TrueInfo {
	return TrueInfo{Record: newRecord()}
}
