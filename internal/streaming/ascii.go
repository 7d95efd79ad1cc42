package streaming

import (
	"fmt"
	"io"

	"github.com/gemc-project/gemc-core/internal/eventdata"
)

// ASCII is the human-readable format of spec.md §4.5: one event per
// block delimited by "Event n. N { ... }", headers and detector banks
// indented. No compatibility requirement beyond round-trip with itself.
type ASCII struct{}

func (ASCII) Extension() string { return "txt" }

func (ASCII) StartEvent(w io.Writer, eventID int) error {
	_, err := fmt.Fprintf(w, "Event n. %d {\n", eventID)
	return err
}

func (ASCII) PublishEventHeader(w io.Writer, h eventdata.EventHeader) error {
	_, err := fmt.Fprintf(w, "  header: thread=%d timestamp=%s\n", h.ThreadID, h.Timestamp.Format("2006-01-02T15:04:05.000000000"))
	return err
}

func writeRecordLine(w io.Writer, label string, r *eventdata.Record) error {
	if _, err := fmt.Fprintf(w, "    %s {", label); err != nil {
		return err
	}
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		if _, err := fmt.Fprintf(w, " %s=%s", k, formatValue(v)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, " }\n")
	return err
}

func formatValue(v eventdata.Value) string {
	switch v.Kind {
	case eventdata.KindInt:
		return fmt.Sprintf("%d", v.Int)
	case eventdata.KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case eventdata.KindString:
		return v.Str
	case eventdata.KindIntArray:
		return fmt.Sprintf("%v", v.Ints)
	case eventdata.KindFloatArray:
		return fmt.Sprintf("%v", v.Floats)
	default:
		return ""
	}
}

func (ASCII) PublishTruth(w io.Writer, detector string, ti eventdata.TrueInfo) error {
	return writeRecordLine(w, "true_info["+detector+"]", &ti.Record)
}

func (ASCII) PublishDigitized(w io.Writer, detector string, d eventdata.Digitized) error {
	return writeRecordLine(w, "digitized["+detector+"]", &d.Record)
}

func (ASCII) EndEvent(w io.Writer) error {
	_, err := fmt.Fprint(w, "}\n")
	return err
}

func (ASCII) StartStream(w io.Writer) error {
	_, err := fmt.Fprint(w, "Frame {\n")
	return err
}

func (ASCII) PublishFrameHeader(w io.Writer, f eventdata.FrameData) error {
	_, err := fmt.Fprintf(w, "  id=%d duration=%g time=%g\n", f.FrameID, f.FrameDuration, f.FrameTime())
	return err
}

func (ASCII) PublishPayload(w io.Writer, p eventdata.Payload) error {
	_, err := fmt.Fprintf(w, "  payload { crate=%d slot=%d channel=%d charge=%g time=%g }\n",
		p.Crate, p.Slot, p.Channel, p.Charge, p.Time)
	return err
}

func (ASCII) EndStream(w io.Writer) error {
	_, err := fmt.Fprint(w, "}\n")
	return err
}

func (ASCII) Close(io.Writer) error { return nil }
