package gconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
experiment: clas12
runno: 11
gsystem:
  - name: forwardCarriage
    factory: sqlite
    variation: default
    runno: 11
gstreamer:
  - format: ascii
    filename: out
    type: event
  - format: csv
    filename: out
    type: event
ebuffer: 50
verbosity:
  ghits: 2
debug:
  gsystem: 1
checkOverlaps: 2
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	p := writeTemp(t, sampleYAML)
	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, "clas12", cfg.Experiment)
	require.Equal(t, 50, cfg.EBuffer)
	require.Equal(t, DefaultWorldVolume, cfg.WorldVolume)
	require.Equal(t, 2, cfg.VerbosityFor("ghits"))
	require.True(t, cfg.DebugFor("gsystem"))
	require.False(t, cfg.DebugFor("gstreamer_ev"))
	require.Equal(t, OverlapEveryVolume, cfg.CheckOverlaps)
	require.Len(t, cfg.GSystems, 1)
	require.Len(t, cfg.GStreamers, 2)
}

func TestLoadRejectsUnknownFactory(t *testing.T) {
	p := writeTemp(t, "gsystem:\n  - name: x\n    factory: floppyDisk\n")
	_, err := Load(p)
	require.Error(t, err)
}

func TestLoadRejectsMissingStreamerFormat(t *testing.T) {
	p := writeTemp(t, "gstreamer:\n  - filename: out\n    type: event\n")
	_, err := Load(p)
	require.Error(t, err)
}

func TestDefaultsEBufferIs100(t *testing.T) {
	require.Equal(t, 100, Defaults().EBuffer)
}
