package touchable

import (
	"errors"
	"testing"

	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/stretchr/testify/require"
)

func TestEqualReadoutRequiresSameTimeCell(t *testing.T) {
	a := New("sys/ftof", Readout, []IdentityEntry{{"sector", 2}, {"paddle", 11}})
	b := a.Clone()

	a.StepTimeCellIndex = 1
	b.StepTimeCellIndex = 1
	require.True(t, a.Equal(b))

	b.StepTimeCellIndex = 2
	require.False(t, a.Equal(b))
}

func TestEqualFluxAndDosimeterRequireSameTrackID(t *testing.T) {
	a := New("sys/veto", Flux, []IdentityEntry{{"sector", 1}})
	b := a.Clone()
	a.TrackID, b.TrackID = 7, 7
	require.True(t, a.Equal(b))

	b.TrackID = 8
	require.False(t, a.Equal(b))

	a.Kind, b.Kind = Dosimeter, Dosimeter
	a.TrackID, b.TrackID = 3, 3
	require.True(t, a.Equal(b))
}

func TestEqualCounterIdentityAlone(t *testing.T) {
	a := New("sys/ctr", Counter, []IdentityEntry{{"layer", 4}})
	b := a.Clone()
	require.True(t, a.Equal(b))

	b.IdentityVector = []IdentityEntry{{"layer", 5}}
	require.False(t, a.Equal(b))
}

func TestEqualMismatchedIdentityLengthIsUnequal(t *testing.T) {
	a := New("sys/ctr", Counter, []IdentityEntry{{"layer", 4}})
	b := New("sys/ctr", Counter, []IdentityEntry{{"layer", 4}, {"sub", 1}})
	require.False(t, a.Equal(b))
	require.False(t, b.Equal(a))
}

func TestEqualityIsReflexiveSymmetricTransitive(t *testing.T) {
	a := New("sys/ctr", Counter, []IdentityEntry{{"layer", 4}})
	b := a.Clone()
	c := a.Clone()

	require.True(t, a.Equal(a))
	require.Equal(t, a.Equal(b), b.Equal(a))
	require.True(t, a.Equal(b) && b.Equal(c) && a.Equal(c))
}

func TestCloneDoesNotAliasIdentityVector(t *testing.T) {
	a := New("sys/ftof", Readout, []IdentityEntry{{"sector", 2}})
	b := a.Clone()
	b.IdentityVector[0].Value = 99
	require.Equal(t, 2, a.IdentityVector[0].Value)
}

func TestTimeCellIndexAtGridStartIsOne(t *testing.T) {
	require.Equal(t, 1, TimeCellIndex(0, 0, 10))
	require.Equal(t, 1, TimeCellIndex(5, 0, 10))
	require.Equal(t, 2, TimeCellIndex(10, 0, 10))
}

func TestRegistryResolveMissingIsFatal(t *testing.T) {
	r := NewRegistry("ftof")
	_, err := r.Resolve("sys/ftof")
	require.Error(t, err)
	require.True(t, errors.Is(err, gerr.New(gerr.TouchableNotRegistered, "")))
}

func TestRegistryBindAndResolve(t *testing.T) {
	r := NewRegistry("ftof")
	tb := New("sys/ftof", Readout, nil)
	r.Bind("sys/ftof", tb)

	got, err := r.Resolve("sys/ftof")
	require.NoError(t, err)
	require.Same(t, tb, got)
	require.Equal(t, 1, r.Len())
}

func TestGroupKeyAgreesWithEqual(t *testing.T) {
	a := New("sys/ftof", Readout, []IdentityEntry{{"sector", 2}, {"paddle", 11}})
	a.StepTimeCellIndex = 1
	b := a.Clone()
	require.Equal(t, a.GroupKey(), b.GroupKey())
	require.True(t, a.Equal(b))

	b.StepTimeCellIndex = 2
	require.NotEqual(t, a.GroupKey(), b.GroupKey())
	require.False(t, a.Equal(b))
}

func TestNewDefaultsEnergyMultiplierAndTimeCell(t *testing.T) {
	tb := New("sys/x", Flux, nil)
	require.Equal(t, 1.0, tb.EnergyMultiplier)
	require.Equal(t, UnsetTimeCell, tb.StepTimeCellIndex)
}
