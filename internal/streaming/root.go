package streaming

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gerr"

	_ "modernc.org/sqlite"
)

// ROOT is the "root" format of spec.md §4.5: one file per worker, one
// TTree for headers ("event_header"), one per detector for truth
// ("true_info_<det>") and one for digitized ("digitized_<det>").
// Branches are created lazily from the first hit's observable keys; a
// later record carrying a branch outside that locked set is fatal
// (gerr.VariableExists).
//
// No ROOT file binding exists in the available dependency set, so each
// TTree is backed by a sqlite table opened through database/sql and
// modernc.org/sqlite — the same driver gsystem's sqlite factory already
// uses — rather than a hand-rolled binary TTree encoder.
type ROOT struct {
	db     *sql.DB
	path   string
	tables map[string][]string // table name -> ordered branch (column) names

	curEventID int
}

// NewROOT returns a ROOT format whose backing database will be opened
// at path (Streamer appends its own extension to the filename root, so
// path is typically derived from that same root by the caller wiring
// streamers together).
func NewROOT(path string) *ROOT {
	return &ROOT{path: path, tables: make(map[string][]string)}
}

func (r *ROOT) Extension() string { return "root.db" }

func (r *ROOT) open(io.Writer) error {
	if r.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return gerr.Newf(gerr.CantOpenOutput, "opening root store %s: %v", r.path, err)
	}
	r.db = db
	return nil
}

// ensureTree lazily creates the backing table for treeName with columns
// derived from keys, in order. A later call whose keys are the same as,
// or a subset of, the first call's is accepted; a key not in that first
// set is fatal (gerr.VariableExists).
func (r *ROOT) ensureTree(treeName string, keys []string, kinds map[string]eventdata.ValueKind) error {
	existing, ok := r.tables[treeName]
	if !ok {
		cols := make([]string, 0, len(keys)+1)
		cols = append(cols, "rowid_evn INTEGER")
		for _, k := range keys {
			cols = append(cols, sqlColumn(k, kinds[k]))
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(treeName), strings.Join(cols, ", "))
		if _, err := r.db.Exec(stmt); err != nil {
			return gerr.Newf(gerr.CantOpenOutput, "creating tree %s: %v", treeName, err)
		}
		r.tables[treeName] = append([]string(nil), keys...)
		return nil
	}
	for _, k := range keys {
		if !contains(existing, k) {
			return gerr.Newf(gerr.VariableExists, "tree %s: branch %q registered after first schema lock", treeName, k).
				With("tree", treeName).With("branch", k)
		}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func sqlColumn(key string, kind eventdata.ValueKind) string {
	switch kind {
	case eventdata.KindInt:
		return quoteIdent(key) + " INTEGER"
	case eventdata.KindFloat:
		return quoteIdent(key) + " REAL"
	default:
		return quoteIdent(key) + " TEXT"
	}
}

func quoteIdent(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

func (r *ROOT) StartEvent(w io.Writer, eventID int) error {
	if err := r.open(w); err != nil {
		return err
	}
	r.curEventID = eventID
	return nil
}

func (r *ROOT) PublishEventHeader(_ io.Writer, h eventdata.EventHeader) error {
	if err := r.ensureTree("event_header", []string{"thread_id", "timestamp"},
		map[string]eventdata.ValueKind{"thread_id": eventdata.KindInt, "timestamp": eventdata.KindString}); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO "event_header" (rowid_evn, thread_id, timestamp) VALUES (?, ?, ?)`,
		r.curEventID, h.ThreadID, h.Timestamp.Format("2006-01-02T15:04:05.000000000"))
	return err
}

func (r *ROOT) insertRecord(treeName string, detector string, rec *eventdata.Record) error {
	keys := rec.Keys()
	kinds := make(map[string]eventdata.ValueKind, len(keys))
	for _, k := range keys {
		v, _ := rec.Get(k)
		kinds[k] = v.Kind
	}
	if err := r.ensureTree(treeName, keys, kinds); err != nil {
		return err
	}
	cols := []string{"rowid_evn"}
	placeholders := []string{"?"}
	args := []any{r.curEventID}
	for _, k := range keys {
		v, _ := rec.Get(k)
		cols = append(cols, quoteIdent(k))
		placeholders = append(placeholders, "?")
		args = append(args, sqlArg(v))
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(treeName), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	_, err := r.db.Exec(stmt, args...)
	return err
}

func sqlArg(v eventdata.Value) any {
	switch v.Kind {
	case eventdata.KindInt:
		return v.Int
	case eventdata.KindFloat:
		return v.Float
	case eventdata.KindString:
		return v.Str
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *ROOT) PublishTruth(_ io.Writer, detector string, ti eventdata.TrueInfo) error {
	return r.insertRecord("true_info_"+detector, detector, &ti.Record)
}

func (r *ROOT) PublishDigitized(_ io.Writer, detector string, d eventdata.Digitized) error {
	return r.insertRecord("digitized_"+detector, detector, &d.Record)
}

func (r *ROOT) EndEvent(io.Writer) error { return nil }

func (r *ROOT) StartStream(w io.Writer) error { return r.open(w) }

func (r *ROOT) PublishFrameHeader(_ io.Writer, f eventdata.FrameData) error {
	if err := r.ensureTree("frame_header", []string{"frame_id", "frame_duration", "frame_time"},
		map[string]eventdata.ValueKind{"frame_id": eventdata.KindInt, "frame_duration": eventdata.KindFloat, "frame_time": eventdata.KindFloat}); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO "frame_header" (frame_id, frame_duration, frame_time) VALUES (?, ?, ?)`,
		f.FrameID, f.FrameDuration, f.FrameTime())
	return err
}

func (r *ROOT) PublishPayload(_ io.Writer, p eventdata.Payload) error {
	if err := r.ensureTree("frame_payload", []string{"crate", "slot", "channel", "charge", "time"},
		map[string]eventdata.ValueKind{"crate": eventdata.KindInt, "slot": eventdata.KindInt, "channel": eventdata.KindInt,
			"charge": eventdata.KindFloat, "time": eventdata.KindFloat}); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO "frame_payload" (crate, slot, channel, charge, time) VALUES (?, ?, ?, ?, ?)`,
		p.Crate, p.Slot, p.Channel, p.Charge, p.Time)
	return err
}

func (r *ROOT) EndStream(io.Writer) error { return nil }

func (r *ROOT) Close(io.Writer) error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
