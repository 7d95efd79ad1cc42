package streaming

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gemc-project/gemc-core/internal/eventdata"
)

// JSON is the json format of spec.md §4.5: a single top-level object per
// file, `{"type":"event"|"stream","events":[...]}` or `{...,"frames":[...]}`.
// Because events/frames accumulate across many flush calls, JSON buffers
// the decoded tree in memory and only serializes it once, on Close.
type JSON struct {
	docType string
	events  []jsonEvent
	frames  []jsonFrame

	curEvent *jsonEvent
	curFrame *jsonFrame
}

func (j *JSON) Extension() string { return "json" }

type jsonAddressedRecord struct {
	Address map[string]any `json:"address"`
	Vars    map[string]any `json:"vars"`
}

type jsonDetectorBank struct {
	TrueInfo  []jsonAddressedRecord `json:"true_info"`
	Digitized []jsonAddressedRecord `json:"digitized"`
}

type jsonEventHeader struct {
	Timestamp     string `json:"timestamp"`
	ThreadID      int    `json:"thread_id"`
	G4LocalEvent  int    `json:"g4local_event"`
}

type jsonEvent struct {
	EventNumber int                          `json:"event_number"`
	Header      jsonEventHeader              `json:"header"`
	Detectors   map[string]*jsonDetectorBank `json:"detectors"`
}

type jsonFrame struct {
	FrameID       int              `json:"frame_id"`
	FrameDuration float64          `json:"frame_duration"`
	FrameTime     float64          `json:"frame_time"`
	Payloads      []eventdata.Payload `json:"payloads"`
}

type jsonDocument struct {
	Type   string       `json:"type"`
	Events *[]jsonEvent `json:"events,omitempty"`
	Frames *[]jsonFrame `json:"frames,omitempty"`
}

func recordToVars(r *eventdata.Record) map[string]any {
	out := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		switch v.Kind {
		case eventdata.KindInt:
			out[k] = v.Int
		case eventdata.KindFloat:
			out[k] = v.Float
		case eventdata.KindString:
			out[k] = v.Str
		case eventdata.KindIntArray:
			out[k] = v.Ints
		case eventdata.KindFloatArray:
			out[k] = v.Floats
		}
	}
	return out
}

func digitizedAddress(d *eventdata.Digitized) map[string]any {
	addr := make(map[string]any)
	for _, k := range d.SROKeys() {
		v, _ := d.Get(k)
		switch v.Kind {
		case eventdata.KindInt:
			addr[k] = v.Int
		case eventdata.KindFloat:
			addr[k] = v.Float
		}
	}
	return addr
}

func (j *JSON) StartEvent(_ io.Writer, eventID int) error {
	if j.docType == "" {
		j.docType = "event"
	}
	j.curEvent = &jsonEvent{EventNumber: eventID, Detectors: make(map[string]*jsonDetectorBank)}
	return nil
}

func (j *JSON) PublishEventHeader(_ io.Writer, h eventdata.EventHeader) error {
	j.curEvent.Header = jsonEventHeader{
		Timestamp:    h.Timestamp.Format("2006-01-02T15:04:05.000000000"),
		ThreadID:     h.ThreadID,
		G4LocalEvent: h.EventID,
	}
	return nil
}

func (j *JSON) bank(detector string) *jsonDetectorBank {
	b, ok := j.curEvent.Detectors[detector]
	if !ok {
		b = &jsonDetectorBank{}
		j.curEvent.Detectors[detector] = b
	}
	return b
}

func (j *JSON) PublishTruth(_ io.Writer, detector string, ti eventdata.TrueInfo) error {
	b := j.bank(detector)
	b.TrueInfo = append(b.TrueInfo, jsonAddressedRecord{Address: map[string]any{}, Vars: recordToVars(&ti.Record)})
	return nil
}

func (j *JSON) PublishDigitized(_ io.Writer, detector string, d eventdata.Digitized) error {
	b := j.bank(detector)
	vars := make(map[string]any)
	for _, k := range d.PhysicsKeys() {
		v, _ := d.Get(k)
		switch v.Kind {
		case eventdata.KindInt:
			vars[k] = v.Int
		case eventdata.KindFloat:
			vars[k] = v.Float
		case eventdata.KindString:
			vars[k] = v.Str
		case eventdata.KindIntArray:
			vars[k] = v.Ints
		case eventdata.KindFloatArray:
			vars[k] = v.Floats
		}
	}
	b.Digitized = append(b.Digitized, jsonAddressedRecord{Address: digitizedAddress(&d), Vars: vars})
	return nil
}

func (j *JSON) EndEvent(io.Writer) error {
	j.events = append(j.events, *j.curEvent)
	j.curEvent = nil
	return nil
}

func (j *JSON) StartStream(io.Writer) error {
	if j.docType == "" {
		j.docType = "stream"
	}
	j.curFrame = &jsonFrame{}
	return nil
}

func (j *JSON) PublishFrameHeader(_ io.Writer, f eventdata.FrameData) error {
	j.curFrame.FrameID = f.FrameID
	j.curFrame.FrameDuration = f.FrameDuration
	j.curFrame.FrameTime = f.FrameTime()
	return nil
}

func (j *JSON) PublishPayload(_ io.Writer, p eventdata.Payload) error {
	j.curFrame.Payloads = append(j.curFrame.Payloads, p)
	return nil
}

func (j *JSON) EndStream(io.Writer) error {
	j.frames = append(j.frames, *j.curFrame)
	j.curFrame = nil
	return nil
}

// Close serializes the accumulated document. Called once, from
// Streamer.CloseConnection.
func (j *JSON) Close(w io.Writer) error {
	docType := j.docType
	if docType == "" {
		docType = "event"
	}
	doc := jsonDocument{Type: docType}
	if docType == "event" {
		events := j.events
		if events == nil {
			events = []jsonEvent{}
		}
		doc.Events = &events
	} else {
		frames := j.frames
		if frames == nil {
			frames = []jsonFrame{}
		}
		doc.Frames = &frames
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("streaming: json encode: %w", err)
	}
	return nil
}
