package digitization

import (
	"database/sql"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/gsystem"
	"github.com/gemc-project/gemc-core/internal/touchable"
)

// Electronic is the hardware address a Translation Table resolves an
// identity vector to, spec.md §3.
type Electronic struct {
	Crate, Slot, Channel int
}

// TranslationTable maps a serialized identity vector to its Electronic
// address (spec.md §3). Translation tables are immutable after
// construction: Set (directly or through LoadFromSQLite) populates it
// once per run, Lookup never mutates it.
type TranslationTable struct {
	entries map[string]Electronic
}

// NewTranslationTable returns an empty table to be filled with Set; use
// LoadFromSQLite to populate one backed by the shared sqlite store
// (spec.md §9 DOMAIN STACK: the Translation Table persists its mapping
// in the same engine the System Loader's sqlite factory uses).
func NewTranslationTable() *TranslationTable {
	return &TranslationTable{entries: make(map[string]Electronic)}
}

// Set registers one identity-vector -> Electronic mapping during
// load-translation-table. Calling Set after the table has started
// serving Lookups is a caller bug, not guarded against, matching
// spec.md's "immutable after construction" as a build-time discipline
// rather than a runtime lock.
func (tt *TranslationTable) Set(identityKey string, e Electronic) {
	tt.entries[identityKey] = e
}

// Lookup resolves identityKey, failing with gerr.TTMissingIdentity if
// the table has no entry for it (spec.md §4.4).
func (tt *TranslationTable) Lookup(identityKey string) (Electronic, error) {
	e, ok := tt.entries[identityKey]
	if !ok {
		return Electronic{}, gerr.Newf(gerr.TTMissingIdentity, "no translation-table entry for identity %q", identityKey).
			With("identity", identityKey)
	}
	return e, nil
}

// Len reports how many identities this table resolves.
func (tt *TranslationTable) Len() int { return len(tt.entries) }

// LoadFromSQLite populates tt from the translation_table rows matching
// (digitizationName, runNumber, variation), reusing the schema the
// System Loader's sqlite factory already migrates (spec.md §4.1
// migrations, shared table).
func LoadFromSQLite(db *sql.DB, digitizationName string, runNumber int, variation string) (*TranslationTable, error) {
	tt := NewTranslationTable()
	rows, err := db.Query(`SELECT identity_key, crate, slot, channel FROM translation_table
		WHERE digitization_name = ? AND run_number = ? AND variation = ?`,
		digitizationName, runNumber, variation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var e Electronic
		if err := rows.Scan(&key, &e.Crate, &e.Slot, &e.Channel); err != nil {
			return nil, err
		}
		tt.Set(key, e)
	}
	return tt, rows.Err()
}

// WriteSROKeys is the dispatcher helper of spec.md §4.4: given a hit's
// touchable and a Digitized under construction, it looks up the
// Electronic address for the touchable's identity vector and writes the
// five SRO keys (crate/slot/channel here; timeAtElectronics and
// chargeAtElectronics are left to the caller, which alone knows the
// step's time/charge values).
func WriteSROKeys(tt *TranslationTable, t *touchable.Touchable, d *eventdata.Digitized) error {
	e, err := tt.Lookup(t.Key())
	if err != nil {
		return err
	}
	d.SetElectronic(e.Crate, e.Slot, e.Channel)
	return nil
}

// OpenSQLite reuses the System Loader's sqlite connection+migration
// helper so the Translation Table never diverges from the schema the
// sqlite factory already migrates.
var OpenSQLite = gsystem.OpenSQLite
