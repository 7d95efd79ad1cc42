package eventdata

import "time"

// EventHeader identifies one event within a run, spec.md §3.
type EventHeader struct {
	EventID   int
	ThreadID  int
	Timestamp time.Time
}

// DataCollection is one sensitive detector's per-event records: an
// ordered list of TrueInfo parallel to an ordered list of Digitized,
// spec.md §3.
type DataCollection struct {
	Truth     []TrueInfo
	Digitized []Digitized
}

// Append adds one hit's truth/digitized pair, keeping the two lists
// parallel.
func (c *DataCollection) Append(truth TrueInfo, dig Digitized) {
	c.Truth = append(c.Truth, truth)
	c.Digitized = append(c.Digitized, dig)
}

// Len reports how many hits this collection holds.
func (c *DataCollection) Len() int { return len(c.Truth) }

// EventData is the per-event container of spec.md §3: a header plus a
// map from sensitive-detector name to its DataCollection.
type EventData struct {
	Header    EventHeader
	Detectors map[string]*DataCollection
}

// NewEventData creates an EventData with an empty detector map.
func NewEventData(header EventHeader) *EventData {
	return &EventData{Header: header, Detectors: make(map[string]*DataCollection)}
}

// Detector returns (creating if absent) the DataCollection for name.
func (e *EventData) Detector(name string) *DataCollection {
	dc, ok := e.Detectors[name]
	if !ok {
		dc = &DataCollection{}
		e.Detectors[name] = dc
	}
	return dc
}
