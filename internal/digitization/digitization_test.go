package digitization

import (
	"errors"
	"testing"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
	"github.com/gemc-project/gemc-core/internal/hitengine"
	"github.com/gemc-project/gemc-core/internal/touchable"
	"github.com/stretchr/testify/require"
)

func testLogger() *glog.Logger { return glog.New("digitization", glog.Trace, nil) }

func TestFluxDigitizeUsesGonumStat(t *testing.T) {
	f := NewFlux()
	tb := touchable.New("sys/flux", touchable.Flux, nil)
	hit := hitengine.NewHit(tb)
	hit.AppendStep(f.DefineReadoutSpecs().Bits, hitengine.Step{EDep: 1})
	hit.AppendStep(f.DefineReadoutSpecs().Bits, hitengine.Step{EDep: 3})

	d := f.Digitize(hit, 0)
	mean, ok := d.Get("edepMean")
	require.True(t, ok)
	require.Equal(t, 2.0, mean.Float)
}

func TestCounterDigitizeReportsStepCount(t *testing.T) {
	c := NewCounter()
	tb := touchable.New("sys/ctr", touchable.Counter, nil)
	hit := hitengine.NewHit(tb)
	hit.AppendStep(0, hitengine.Step{EDep: 1})
	hit.AppendStep(0, hitengine.Step{EDep: 1})
	hit.AppendStep(0, hitengine.Step{EDep: 1})

	d := c.Digitize(hit, 0)
	count, ok := d.Get("count")
	require.True(t, ok)
	require.Equal(t, 3, count.Int)
}

func TestDosimeterDigitizeSumsDose(t *testing.T) {
	dm := NewDosimeter()
	tb := touchable.New("sys/dos", touchable.Dosimeter, nil)
	hit := hitengine.NewHit(tb)
	hit.AppendStep(0, hitengine.Step{EDep: 1})
	hit.AppendStep(0, hitengine.Step{EDep: 2})

	d := dm.Digitize(hit, 0)
	total, ok := d.Get("doseTotal")
	require.True(t, ok)
	require.Equal(t, 3.0, total.Float)
}

func TestBaseRulesCollectTruthFillsIdentityAndFields(t *testing.T) {
	b := BaseRules{}
	tb := touchable.New("sys/ftof", touchable.Readout, []touchable.IdentityEntry{{Name: "sector", Value: 2}})
	hit := hitengine.NewHit(tb)
	hit.AppendStep(0, hitengine.Step{EDep: 1.5, GlobalTime: 3, GlobalPosition: hitengine.Position3{X: 1, Y: 2, Z: 3}})

	ti := b.CollectTruth(hit, 0)
	sector, ok := ti.Get("sector")
	require.True(t, ok)
	require.Equal(t, 2, sector.Int)
	edep, ok := ti.Get("edep")
	require.True(t, ok)
	require.Equal(t, 1.5, edep.Float)
}

func TestPluginResolverReturnsBuiltins(t *testing.T) {
	r := NewPluginResolver(nil)
	for _, name := range []string{"flux", "counter", "dosimeter"} {
		p, err := r.Resolve(name)
		require.NoError(t, err)
		require.NotNil(t, p)
	}
}

func TestPluginResolverUnknownNameIsFatal(t *testing.T) {
	r := NewPluginResolver([]string{"/no/such/dir"})
	_, err := r.Resolve("exotic-crystal-ball")
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.PluginNotFound, "")))
}

func TestDispatcherLoadCachesRoutine(t *testing.T) {
	d := NewDispatcher(NewPluginResolver(nil), testLogger())
	r1, err := d.Load("flux", 1, "default")
	require.NoError(t, err)
	r2, err := d.Load("flux", 1, "default")
	require.NoError(t, err)
	require.Same(t, r1, r2)
}

func TestDispatcherRoutineLookup(t *testing.T) {
	d := NewDispatcher(NewPluginResolver(nil), testLogger())
	_, ok := d.Routine("flux")
	require.False(t, ok)

	_, err := d.Load("flux", 1, "default")
	require.NoError(t, err)
	_, ok = d.Routine("flux")
	require.True(t, ok)
}

func TestTranslationTableMissingIdentityIsFatal(t *testing.T) {
	tt := NewTranslationTable()
	_, err := tt.Lookup("2-11")
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.TTMissingIdentity, "")))
}

func TestTranslationTableLookupAndWriteSROKeys(t *testing.T) {
	tt := NewTranslationTable()
	tt.Set("2-11", Electronic{Crate: 1, Slot: 2, Channel: 3})

	tb := touchable.New("sys/ftof", touchable.Readout, []touchable.IdentityEntry{{Name: "sector", Value: 2}, {Name: "paddle", Value: 11}})
	d := eventdata.NewDigitized()
	require.NoError(t, WriteSROKeys(tt, tb, &d))

	crate, ok := d.Get(eventdata.SROCrate)
	require.True(t, ok)
	require.Equal(t, 1, crate.Int)
}

func TestTranslationTableWriteSROKeysMissingIdentityIsFatal(t *testing.T) {
	tt := NewTranslationTable()
	tb := touchable.New("sys/ftof", touchable.Readout, []touchable.IdentityEntry{{Name: "sector", Value: 99}})
	d := eventdata.NewDigitized()
	require.Error(t, WriteSROKeys(tt, tb, &d))
}
