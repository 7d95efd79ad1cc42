package hitengine

import (
	"testing"

	"github.com/gemc-project/gemc-core/internal/glog"
	"github.com/gemc-project/gemc-core/internal/touchable"
	"github.com/stretchr/testify/require"
)

// readoutPlugin is a minimal Plugin that applies the default time-cell
// split rule, standing in for a loaded digitization plugin.
type readoutPlugin struct {
	gridStart, timeWindow float64
}

func (p readoutPlugin) ProcessTouchable(t *touchable.Touchable, s Step) []*touchable.Touchable {
	return DefaultProcessTouchable(t, s, p.gridStart, p.timeWindow)
}

// passthroughPlugin returns the input touchable unchanged.
type passthroughPlugin struct{}

func (passthroughPlugin) ProcessTouchable(t *touchable.Touchable, s Step) []*touchable.Touchable {
	return []*touchable.Touchable{t}
}

func newTestEngine() (*Engine, *SensitiveDetector) {
	reg := touchable.NewRegistry("ftof")
	reg.Bind("sys/ftof", touchable.New("sys/ftof", touchable.Readout, []touchable.IdentityEntry{{Name: "sector", Value: 2}}))
	sd := NewSensitiveDetector("ftof", reg, BitParticleID|BitProcessName)
	e := NewEngine(glog.New("hitengine", glog.Trace, nil))
	e.Register(sd)
	e.BindVolume("sys/ftof", "ftof")
	return e, sd
}

func TestProcessStepSingleStepSingleHit(t *testing.T) {
	e, sd := newTestEngine()
	plugin := readoutPlugin{gridStart: 0, timeWindow: 10}

	err := e.ProcessStep("sys/ftof", Step{GlobalTime: 0, EDep: 1.5, TrackID: 1, ParticleID: 11, ProcessName: "eIoni"}, plugin)
	require.NoError(t, err)

	hits := sd.Hits()
	require.Len(t, hits, 1)
	require.Equal(t, 1, hits[0].NSteps())
	require.Equal(t, []float64{1.5}, hits[0].EDep)
	require.Equal(t, []int{11}, hits[0].ParticleIDs)
	require.Equal(t, []string{"eIoni"}, hits[0].ProcessNames)
	require.Equal(t, 1, hits[0].Touchable.StepTimeCellIndex)
}

func TestProcessStepUnregisteredVolumeIsFatal(t *testing.T) {
	e, _ := newTestEngine()
	err := e.ProcessStep("sys/unknown", Step{}, passthroughPlugin{})
	require.Error(t, err)
}

func TestProcessStepAccumulatesMultipleStepsIntoOneHit(t *testing.T) {
	e, sd := newTestEngine()
	plugin := readoutPlugin{gridStart: 0, timeWindow: 10}

	require.NoError(t, e.ProcessStep("sys/ftof", Step{GlobalTime: 1, EDep: 1, TrackID: 5}, plugin))
	require.NoError(t, e.ProcessStep("sys/ftof", Step{GlobalTime: 2, EDep: 2, TrackID: 5}, plugin))

	hits := sd.Hits()
	require.Len(t, hits, 1)
	require.Equal(t, 2, hits[0].NSteps())
	require.Equal(t, []float64{1, 2}, hits[0].EDep)
}

func TestProcessStepSplitsAcrossTimeCellsIntoBothHits(t *testing.T) {
	e, sd := newTestEngine()
	plugin := readoutPlugin{gridStart: 0, timeWindow: 10}

	// First step lands in cell 1 and installs that index on the base touchable.
	require.NoError(t, e.ProcessStep("sys/ftof", Step{GlobalTime: 1, EDep: 1, TrackID: 9}, plugin))
	// Second step at t=15 lands in cell 2: the plugin returns BOTH the
	// cell-1 touchable and a cell-2 clone, so this step's fields land in
	// both hits (spec.md §4.3: "one physical step may contribute to two
	// electronics time cells").
	require.NoError(t, e.ProcessStep("sys/ftof", Step{GlobalTime: 15, EDep: 3, TrackID: 9}, plugin))

	hits := sd.Hits()
	require.Len(t, hits, 2)
	require.Equal(t, []float64{1, 3}, hits[0].EDep)
	require.Equal(t, []float64{3}, hits[1].EDep)
}

func TestEnergyMultiplierScalesEDep(t *testing.T) {
	reg := touchable.NewRegistry("counter")
	tb := touchable.New("sys/ctr", touchable.Counter, []touchable.IdentityEntry{{Name: "layer", Value: 1}})
	tb.EnergyMultiplier = 2.0
	reg.Bind("sys/ctr", tb)
	sd := NewSensitiveDetector("counter", reg, 0)
	e := NewEngine(glog.New("hitengine", glog.Trace, nil))
	e.Register(sd)
	e.BindVolume("sys/ctr", "counter")

	require.NoError(t, e.ProcessStep("sys/ctr", Step{EDep: 4}, passthroughPlugin{}))
	require.Equal(t, []float64{8}, sd.Hits()[0].EDep)
}

func TestEndEventSnapshotsAllDetectors(t *testing.T) {
	e, _ := newTestEngine()
	plugin := readoutPlugin{gridStart: 0, timeWindow: 10}
	require.NoError(t, e.ProcessStep("sys/ftof", Step{GlobalTime: 0, EDep: 1}, plugin))

	snap := e.EndEvent()
	require.Contains(t, snap, "ftof")
	require.Len(t, snap["ftof"], 1)

	e.ResetEvent()
	require.Empty(t, e.EndEvent()["ftof"])
}

func TestBitsetHasRequiresAllBitsSet(t *testing.T) {
	bits := BitParticleID | BitProcessName
	require.True(t, bits.Has(BitParticleID))
	require.True(t, bits.Has(BitParticleID|BitProcessName))
	require.False(t, bits.Has(BitTotalEnergy))
}
