package streaming

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/stretchr/testify/require"
)

func newStreamer(t *testing.T, f Format, limit int) *Streamer {
	t.Helper()
	dir := t.TempDir()
	s := New(f, filepath.Join(dir, "out"), gconfig.StreamerEvent, 0, limit)
	require.NoError(t, s.OpenConnection())
	return s
}

func basicEvent(id int) *eventdata.EventData {
	ev := eventdata.NewEventData(eventdata.EventHeader{EventID: id, ThreadID: 1, Timestamp: time.Unix(0, 0)})
	dc := ev.Detector("ftof")
	ti := eventdata.NewTrueInfo()
	ti.SetFloat("edep", 1.5)
	d := eventdata.NewDigitized()
	d.SetElectronic(1, 2, 3)
	dc.Append(ti, d)
	return ev
}

func TestStreamerFlushesAtLimit(t *testing.T) {
	s := newStreamer(t, &JSON{}, 2)
	require.NoError(t, s.PublishEvent(basicEvent(1)))
	require.Len(t, s.buffer, 1)
	require.NoError(t, s.PublishEvent(basicEvent(2)))
	require.Len(t, s.buffer, 0) // flushed at limit
}

func TestStreamerDoesNotFlushBelowLimit(t *testing.T) {
	s := newStreamer(t, &JSON{}, 3)
	require.NoError(t, s.PublishEvent(basicEvent(1)))
	require.NoError(t, s.PublishEvent(basicEvent(2)))
	require.Len(t, s.buffer, 2)
}

func TestPublishOutsideEventIsFatal(t *testing.T) {
	s := newStreamer(t, &JSON{}, 10)
	err := s.PublishEventHeader(eventdata.EventHeader{})
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.PublishOutsideEvent, "")))
}

func TestStartEventTwiceIsFatal(t *testing.T) {
	s := newStreamer(t, &JSON{}, 10)
	require.NoError(t, s.StartEvent(1))
	err := s.StartEvent(2)
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.PublishOutsideEvent, "")))
}

func TestPublishDigitizedWithoutMatchingTruthIsFatal(t *testing.T) {
	s := newStreamer(t, &JSON{}, 10)
	require.NoError(t, s.StartEvent(1))
	err := s.PublishDigitized("ftof", eventdata.NewDigitized())
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.PublishOutsideEvent, "")))
}

func TestPublishFrameForcesFlush(t *testing.T) {
	s := newStreamer(t, &JSON{}, 100)
	require.NoError(t, s.PublishEvent(basicEvent(1)))
	require.Len(t, s.buffer, 1)
	require.NoError(t, s.PublishFrame(eventdata.FrameData{FrameID: 1, FrameDuration: 10}))
	require.Len(t, s.buffer, 0)
}

func TestCloseConnectionFlushesRemainder(t *testing.T) {
	dir := t.TempDir()
	j := &JSON{}
	s := New(j, filepath.Join(dir, "out"), gconfig.StreamerEvent, 0, 100)
	require.NoError(t, s.OpenConnection())
	require.NoError(t, s.PublishEvent(basicEvent(1)))
	require.Len(t, s.buffer, 1)
	require.NoError(t, s.CloseConnection())
	require.Len(t, s.buffer, 0)

	raw, err := os.ReadFile(s.Filename())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"event_number": 1`)
}

func TestFilenameIncludesWorkerID(t *testing.T) {
	dir := t.TempDir()
	s := New(&JSON{}, filepath.Join(dir, "out"), gconfig.StreamerEvent, 3, 100)
	require.True(t, strings.HasSuffix(s.Filename(), "out.3.json"))
}

func TestEmptyEventJSONDocument(t *testing.T) {
	dir := t.TempDir()
	s := New(&JSON{}, filepath.Join(dir, "out"), gconfig.StreamerEvent, 0, 100)
	require.NoError(t, s.OpenConnection())
	require.NoError(t, s.CloseConnection())

	raw, err := os.ReadFile(s.Filename())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"type": "event"`)
	require.Contains(t, string(raw), `"events": []`)
}

func TestASCIIRoundTripsOneEventOneHit(t *testing.T) {
	dir := t.TempDir()
	s := New(ASCII{}, filepath.Join(dir, "out"), gconfig.StreamerEvent, 0, 1)
	require.NoError(t, s.OpenConnection())
	require.NoError(t, s.PublishEvent(basicEvent(7)))
	require.NoError(t, s.CloseConnection())

	raw, err := os.ReadFile(s.Filename())
	require.NoError(t, err)
	out := string(raw)
	require.Contains(t, out, "Event n. 7 {")
	require.Contains(t, out, "true_info[ftof]")
	require.Contains(t, out, "edep=1.5")
}

func TestCSVWritesHeaderOnceThenRows(t *testing.T) {
	dir := t.TempDir()
	s := New(&CSV{}, filepath.Join(dir, "out"), gconfig.StreamerEvent, 0, 2)
	require.NoError(t, s.OpenConnection())
	require.NoError(t, s.PublishEvent(basicEvent(1)))
	require.NoError(t, s.PublishEvent(basicEvent(2)))
	require.NoError(t, s.CloseConnection())

	raw, err := os.ReadFile(s.Filename())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	headerCount := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "TH,") {
			headerCount++
		}
	}
	require.Equal(t, 1, headerCount)
}

func TestBinaryFrameEmitsSuperMagicOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	bf := &BinaryFrame{}
	s := New(bf, filepath.Join(dir, "out"), gconfig.StreamerStream, 0, 100)
	require.NoError(t, s.OpenConnection())
	require.NoError(t, s.PublishFrame(eventdata.FrameData{FrameID: 1, FrameDuration: 10,
		Payloads: []eventdata.Payload{{Crate: 1, Slot: 2, Channel: 3, Charge: 4, Time: 5}}}))
	require.NoError(t, s.PublishFrame(eventdata.FrameData{FrameID: 2, FrameDuration: 10}))
	require.NoError(t, s.CloseConnection())

	raw, err := os.ReadFile(s.Filename())
	require.NoError(t, err)
	// super-magic (8) + frame 1 header (52) + 5 payload words (20) = 80,
	// then frame 2 header (52) alone, no repeated super-magic.
	require.Equal(t, 80+frameHeaderSize, len(raw))
	require.Equal(t, byte(0x19), raw[0]) // 0xC0DA2019 little-endian low byte
}

func TestNewFormatUnknownTagIsFatal(t *testing.T) {
	_, err := NewFormat("exotic", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.StreamerFactoryNotFound, "")))
}

func TestNewFormatKnownTags(t *testing.T) {
	for _, tag := range []string{"ascii", "csv", "json", "binary"} {
		f, err := NewFormat(tag, "")
		require.NoError(t, err)
		require.NotNil(t, f)
	}
}
