package eventdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordPreservesInsertionOrder(t *testing.T) {
	r := newRecord()
	r.SetInt("b", 1)
	r.SetString("a", "x")
	r.SetFloat("c", 2.5)
	require.Equal(t, []string{"b", "a", "c"}, r.Keys())
}

func TestRecordOverwriteKeepsPosition(t *testing.T) {
	r := newRecord()
	r.SetInt("a", 1)
	r.SetInt("b", 2)
	r.SetInt("a", 99)
	require.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	require.Equal(t, 99, v.Int)
}

func TestDigitizedSROKeysSeparateFromPhysicsKeys(t *testing.T) {
	d := NewDigitized()
	d.SetElectronic(1, 2, 3)
	d.SetFloat(SROTimeAtElectronics, 10.5)
	d.SetFloat(SROChargeAtElectronics, 0.4)
	d.SetFloat("edep", 1.2)
	d.SetInt("sector", 2)

	require.ElementsMatch(t, []string{SROCrate, SROSlot, SROChannel, SROTimeAtElectronics, SROChargeAtElectronics}, d.SROKeys())
	require.ElementsMatch(t, []string{"edep", "sector"}, d.PhysicsKeys())
}

func TestEventDataDetectorCreatesOnDemand(t *testing.T) {
	ev := NewEventData(EventHeader{EventID: 1, ThreadID: 0, Timestamp: time.Unix(0, 0)})
	dc := ev.Detector("ftof")
	dc.Append(NewTrueInfo(), NewDigitized())
	require.Equal(t, 1, ev.Detector("ftof").Len())
}

func TestRunDataSumsNumericNonSROObservables(t *testing.T) {
	rd := NewRunData()

	t1 := NewTrueInfo()
	t1.SetFloat("edep", 1.0)
	d1 := NewDigitized()
	d1.SetElectronic(1, 2, 3)
	d1.SetFloat(SROTimeAtElectronics, 5.0)
	d1.SetFloat("edep", 1.0)
	rd.Accumulate("ftof", t1, d1)

	t2 := NewTrueInfo()
	t2.SetFloat("edep", 2.0)
	d2 := NewDigitized()
	d2.SetElectronic(1, 2, 3)
	d2.SetFloat(SROTimeAtElectronics, 7.0)
	d2.SetFloat("edep", 2.0)
	rd.Accumulate("ftof", t2, d2)

	acc := rd.Detectors["ftof"]
	truthEdep, ok := acc.Truth.Get("edep")
	require.True(t, ok)
	require.Equal(t, 3.0, truthEdep.Float)

	digEdep, ok := acc.Digitized.Get("edep")
	require.True(t, ok)
	require.Equal(t, 3.0, digEdep.Float)

	// SRO key carries the most recent value, not a sum.
	sroTime, ok := acc.Digitized.Get(SROTimeAtElectronics)
	require.True(t, ok)
	require.Equal(t, 7.0, sroTime.Float)
}

func TestRunDataCarriesStringAndArrayObservablesFromMostRecent(t *testing.T) {
	rd := NewRunData()

	d1 := NewDigitized()
	d1.SetString("process", "eIoni")
	d1.SetIntArray("hits", []int{1, 2})
	rd.Accumulate("ctr", NewTrueInfo(), d1)

	d2 := NewDigitized()
	d2.SetString("process", "hIoni")
	d2.SetIntArray("hits", []int{3})
	rd.Accumulate("ctr", NewTrueInfo(), d2)

	acc := rd.Detectors["ctr"]
	proc, _ := acc.Digitized.Get("process")
	require.Equal(t, "hIoni", proc.Str)

	hits, _ := acc.Digitized.Get("hits")
	require.Equal(t, []int{3}, hits.Ints)
}

func TestFrameTimeIsFrameIDTimesDuration(t *testing.T) {
	f := FrameData{FrameID: 3, FrameDuration: 2.5}
	require.Equal(t, 7.5, f.FrameTime())
}
