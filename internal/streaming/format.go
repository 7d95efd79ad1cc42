// Package streaming implements Streaming Publication (spec.md §4.5): the
// Streamer lifecycle, its bounded per-thread buffer, and the
// format-specific backends (ascii, csv, json, root-like, binary frame,
// and a bonus grpc format) that turn buffered events and frames into
// bytes on the wire.
package streaming

import (
	"io"

	"github.com/gemc-project/gemc-core/internal/eventdata"
)

// Format is the set of hooks a streaming backend implements; Streamer
// drives them in the exact sequence spec.md §4.5 describes, once per
// buffered event or frame at flush time.
type Format interface {
	// Extension is the format-owned file suffix used to build the
	// output filename "<root>[.<worker>].<extension>".
	Extension() string

	StartEvent(w io.Writer, eventID int) error
	PublishEventHeader(w io.Writer, h eventdata.EventHeader) error
	PublishTruth(w io.Writer, detector string, ti eventdata.TrueInfo) error
	PublishDigitized(w io.Writer, detector string, d eventdata.Digitized) error
	EndEvent(w io.Writer) error

	StartStream(w io.Writer) error
	PublishFrameHeader(w io.Writer, f eventdata.FrameData) error
	PublishPayload(w io.Writer, p eventdata.Payload) error
	EndStream(w io.Writer) error

	// Close finalizes the output (e.g. writes closing markers for
	// structured formats). Called once from Streamer.CloseConnection.
	Close(w io.Writer) error
}
