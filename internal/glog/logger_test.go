package glog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerFormatsComponentAndCounter(t *testing.T) {
	var buf bytes.Buffer
	l := New("gsystem", Trace, &buf)

	l.Infof("loaded %d volumes", 3)
	l.Warningf("material %s unused", "air")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "[gsystem] #1 INFO: loaded 3 volumes")
	require.Contains(t, lines[1], "[gsystem] #2 WARN: material air unused")
}

func TestLoggerSeverityFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New("ghits", Warning, &buf)

	l.Debugf("touchable resolved")
	l.Errorf("missing digitization routine")

	out := buf.String()
	require.NotContains(t, out, "touchable resolved")
	require.Contains(t, out, "missing digitization routine")
}

func TestLoggerNilWriterIsSilent(t *testing.T) {
	l := New("gstreamer_ev", Trace, nil)
	require.NotPanics(t, func() {
		l.Fatalf("cant open output")
	})
}

func TestWithMinIsIndependentCopy(t *testing.T) {
	var buf bytes.Buffer
	base := New("gsystem", Error, &buf)
	chatty := base.WithMin(Trace)

	chatty.Debugf("visible")
	base.Debugf("hidden")

	out := buf.String()
	require.Contains(t, out, "visible")
	require.NotContains(t, out, "hidden")
}
