package eventdata

// Payload is one frame's fixed 5-tuple integral payload, spec.md §3.
type Payload struct {
	Crate   int
	Slot    int
	Channel int
	Charge  float64
	Time    float64
}

// FrameData is a time-window aggregation of Payloads, spec.md §3. Frame
// id and frame duration together define a deterministic frame time; the
// first frame in a stream is id 1 (an Open Question decision, recorded
// in DESIGN.md).
type FrameData struct {
	FrameID       int
	FrameDuration float64
	Payloads      []Payload
}

// FrameTime returns frame-id * frame-duration, the deterministic frame
// time spec.md §3 defines.
func (f FrameData) FrameTime() float64 {
	return float64(f.FrameID) * f.FrameDuration
}
