package streaming

import (
	"fmt"
	"io"
	"os"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gerr"
)

// DefaultFlushLimit is the buffer size at which a Streamer flushes if
// the caller did not configure one (spec.md §6: `ebuffer`, default
// 100).
const DefaultFlushLimit = 100

type bufferedDetectorEntry struct {
	detector  string
	truth     eventdata.TrueInfo
	digitized eventdata.Digitized
	hasDig    bool
}

type bufferedEvent struct {
	eventID int
	header  eventdata.EventHeader
	entries []bufferedDetectorEntry
}

// Streamer is the per-thread sink of spec.md §4.5: bound to one format,
// one output file, one fan-out type (per-event or per-frame), buffering
// events up to FlushLimit before invoking the format's hooks.
type Streamer struct {
	Format     Format
	Type       gconfig.StreamerType
	WorkerID   int
	FlushLimit int

	filenameRoot string
	w            io.WriteCloser

	opened      bool
	insideEvent bool
	pending     *bufferedEvent
	buffer      []*bufferedEvent
}

// New creates a Streamer bound to (format, filenameRoot, typ, workerID),
// matching spec.md §4.5's "on construct" clause. FlushLimit defaults to
// DefaultFlushLimit if limit <= 0.
func New(format Format, filenameRoot string, typ gconfig.StreamerType, workerID, limit int) *Streamer {
	if limit <= 0 {
		limit = DefaultFlushLimit
	}
	return &Streamer{
		Format:       format,
		Type:         typ,
		WorkerID:     workerID,
		FlushLimit:   limit,
		filenameRoot: filenameRoot,
	}
}

// Filename returns the output filename this Streamer writes to:
// "<root>[.<worker>].<extension-for-format>" (spec.md §4.5).
func (s *Streamer) Filename() string {
	if s.WorkerID == 0 {
		return fmt.Sprintf("%s.%s", s.filenameRoot, s.Format.Extension())
	}
	return fmt.Sprintf("%s.%d.%s", s.filenameRoot, s.WorkerID, s.Format.Extension())
}

// OpenConnection opens the underlying medium, truncating prior contents.
// Idempotent: calling it again on an already-open Streamer is a no-op.
func (s *Streamer) OpenConnection() error {
	if s.opened {
		return nil
	}
	f, err := os.Create(s.Filename())
	if err != nil {
		return gerr.Newf(gerr.CantOpenOutput, "opening %s: %v", s.Filename(), err).With("filename", s.Filename())
	}
	s.w = f
	s.opened = true
	return nil
}

func (s *Streamer) requireOpen() error {
	if !s.opened {
		return gerr.New(gerr.CantOpenOutput, "streamer not open").With("filename", s.filenameRoot)
	}
	return nil
}

// StartEvent opens a new event window (spec.md §4.5). Calling StartEvent
// while already inside an event is a protocol error.
func (s *Streamer) StartEvent(eventID int) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.insideEvent {
		return gerr.New(gerr.PublishOutsideEvent, "start-event called while already inside an event")
	}
	s.insideEvent = true
	s.pending = &bufferedEvent{eventID: eventID}
	return nil
}

// PublishEventHeader attaches h to the event currently open. Calling it
// outside a start-event/end-event window is an error (spec.md §4.5).
func (s *Streamer) PublishEventHeader(h eventdata.EventHeader) error {
	if !s.insideEvent {
		return gerr.New(gerr.PublishOutsideEvent, "publish-event-header called outside an event")
	}
	s.pending.header = h
	return nil
}

// PublishTruth appends a new per-detector entry carrying ti, awaiting
// the matching PublishDigitized call for the same detector (spec.md
// §4.5: "for each detector in the event: publish-truth, publish-
// digitized").
func (s *Streamer) PublishTruth(detector string, ti eventdata.TrueInfo) error {
	if !s.insideEvent {
		return gerr.New(gerr.PublishOutsideEvent, "publish-truth called outside an event")
	}
	s.pending.entries = append(s.pending.entries, bufferedDetectorEntry{detector: detector, truth: ti})
	return nil
}

// PublishDigitized fills in the digitized half of the most recently
// opened entry for detector. Calling it without a matching, still-
// pending PublishTruth for the same detector is a protocol error.
func (s *Streamer) PublishDigitized(detector string, d eventdata.Digitized) error {
	if !s.insideEvent {
		return gerr.New(gerr.PublishOutsideEvent, "publish-digitized called outside an event")
	}
	n := len(s.pending.entries)
	if n == 0 || s.pending.entries[n-1].detector != detector || s.pending.entries[n-1].hasDig {
		return gerr.Newf(gerr.PublishOutsideEvent, "publish-digitized for %q without a matching publish-truth", detector).
			With("detector", detector)
	}
	s.pending.entries[n-1].digitized = d
	s.pending.entries[n-1].hasDig = true
	return nil
}

// EndEvent closes the event window, buffers the finished event, and
// flushes if the buffer has reached FlushLimit.
func (s *Streamer) EndEvent() error {
	if !s.insideEvent {
		return gerr.New(gerr.PublishOutsideEvent, "end-event called outside an event")
	}
	s.buffer = append(s.buffer, s.pending)
	s.insideEvent = false
	s.pending = nil
	if len(s.buffer) >= s.FlushLimit {
		return s.flush()
	}
	return nil
}

// PublishEvent is the convenience, whole-event entry point: it drives
// the full per-event fan-out (start, header, per-detector truth/
// digitized, end) in one call, for callers that already have a
// complete eventdata.EventData in hand.
func (s *Streamer) PublishEvent(ev *eventdata.EventData) error {
	if err := s.StartEvent(ev.Header.EventID); err != nil {
		return err
	}
	if err := s.PublishEventHeader(ev.Header); err != nil {
		return err
	}
	for name, dc := range ev.Detectors {
		for i := range dc.Truth {
			if err := s.PublishTruth(name, dc.Truth[i]); err != nil {
				return err
			}
			if err := s.PublishDigitized(name, dc.Digitized[i]); err != nil {
				return err
			}
		}
	}
	return s.EndEvent()
}

// flush invokes the format-specific hooks for every buffered event in
// arrival order, then clears the buffer (spec.md §4.5 buffering
// contract).
func (s *Streamer) flush() error {
	for _, ev := range s.buffer {
		if err := s.Format.StartEvent(s.w, ev.eventID); err != nil {
			return err
		}
		if err := s.Format.PublishEventHeader(s.w, ev.header); err != nil {
			return err
		}
		for _, e := range ev.entries {
			if err := s.Format.PublishTruth(s.w, e.detector, e.truth); err != nil {
				return err
			}
			if err := s.Format.PublishDigitized(s.w, e.detector, e.digitized); err != nil {
				return err
			}
		}
		if err := s.Format.EndEvent(s.w); err != nil {
			return err
		}
	}
	s.buffer = s.buffer[:0]
	return nil
}

// PublishFrame implements the per-frame fan-out of spec.md §4.5.
// Starting a frame forces a buffer flush so event buffers never
// interleave with frame records in the output.
func (s *Streamer) PublishFrame(f eventdata.FrameData) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		return err
	}
	if err := s.Format.StartStream(s.w); err != nil {
		return err
	}
	if err := s.Format.PublishFrameHeader(s.w, f); err != nil {
		return err
	}
	for _, p := range f.Payloads {
		if err := s.Format.PublishPayload(s.w, p); err != nil {
			return err
		}
	}
	return s.Format.EndStream(s.w)
}

// CloseConnection flushes any remaining buffered events, finalizes the
// output, then closes the underlying medium.
func (s *Streamer) CloseConnection() error {
	if !s.opened {
		return nil
	}
	if err := s.flush(); err != nil {
		return err
	}
	if err := s.Format.Close(s.w); err != nil {
		return err
	}
	if err := s.w.Close(); err != nil {
		return gerr.Newf(gerr.CantCloseOutput, "closing %s: %v", s.Filename(), err).With("filename", s.Filename())
	}
	s.opened = false
	return nil
}
