package streaming

import (
	"fmt"
	"io"

	"github.com/gemc-project/gemc-core/internal/eventdata"
)

// CSV is the csv format of spec.md §4.5: two files per worker (true
// info, digitized), one row per hit, columns `evn, timestamp,
// thread_id, detector, <vars...>`. The column header is fixed from the
// first hit encountered and must match for every subsequent row.
//
// Streamer only gives a Format a single io.Writer, so CSV multiplexes
// both files into one by prefixing every row with its origin tag
// ("T" for true_info, "D" for digitized); a deployment that needs two
// physical files splits on that tag at write time.
type CSV struct {
	truthHeader []string
	digHeader   []string

	curEventID int
	curHeader  eventdata.EventHeader
}

func (c *CSV) Extension() string { return "csv" }

func (c *CSV) StartEvent(_ io.Writer, eventID int) error {
	c.curEventID = eventID
	return nil
}

func (c *CSV) PublishEventHeader(_ io.Writer, h eventdata.EventHeader) error {
	c.curHeader = h
	return nil
}

func (c *CSV) writeRow(w io.Writer, tag string, header *[]string, detector string, r *eventdata.Record) error {
	if *header == nil {
		*header = append([]string{"evn", "timestamp", "thread_id", "detector"}, r.Keys()...)
		if _, err := fmt.Fprintln(w, tag+"H,"+joinComma(*header)); err != nil {
			return err
		}
	}
	row := fmt.Sprintf("%s,%d,%s,%d,%s", tag, c.curEventID, c.curHeader.Timestamp.Format("2006-01-02T15:04:05.000000000"), c.curHeader.ThreadID, detector)
	for _, k := range (*header)[4:] {
		v, _ := r.Get(k)
		row += "," + formatValue(v)
	}
	_, err := fmt.Fprintln(w, row)
	return err
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

func (c *CSV) PublishTruth(w io.Writer, detector string, ti eventdata.TrueInfo) error {
	return c.writeRow(w, "T", &c.truthHeader, detector, &ti.Record)
}

func (c *CSV) PublishDigitized(w io.Writer, detector string, d eventdata.Digitized) error {
	return c.writeRow(w, "D", &c.digHeader, detector, &d.Record)
}

func (c *CSV) EndEvent(io.Writer) error { return nil }

func (c *CSV) StartStream(io.Writer) error { return nil }

func (c *CSV) PublishFrameHeader(w io.Writer, f eventdata.FrameData) error {
	_, err := fmt.Fprintf(w, "F,%d,%g,%g\n", f.FrameID, f.FrameDuration, f.FrameTime())
	return err
}

func (c *CSV) PublishPayload(w io.Writer, p eventdata.Payload) error {
	_, err := fmt.Fprintf(w, "P,%d,%d,%d,%g,%g\n", p.Crate, p.Slot, p.Channel, p.Charge, p.Time)
	return err
}

func (c *CSV) EndStream(io.Writer) error { return nil }

func (c *CSV) Close(io.Writer) error { return nil }
