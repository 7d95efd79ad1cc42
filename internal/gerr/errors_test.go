package gerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCodeBand(t *testing.T) {
	err := Newf(TTMissingIdentity, "identity %s has no translation", "sector2-paddle11")
	code, ok := ExitCode(err)
	require.True(t, ok)
	require.Equal(t, 1102, code)
}

func TestExitCodeUnwrapsThroughFmt(t *testing.T) {
	inner := New(DependenciesUnresolved, "material A depends on B")
	wrapped := fmt.Errorf("building world: %w", inner)

	code, ok := ExitCode(wrapped)
	require.True(t, ok)
	require.Equal(t, 204, code)
}

func TestExitCodeFalseForPlainError(t *testing.T) {
	_, ok := ExitCode(errors.New("boom"))
	require.False(t, ok)
}

func TestWithContextAppearsInMessage(t *testing.T) {
	err := New(NoDigitizationRoutine, "no routine registered").
		With("detector", "FTOF").
		With("event", 42)
	require.Contains(t, err.Error(), "detector=FTOF")
	require.Contains(t, err.Error(), "event=42")
}

func TestIsMatchesByKindOnly(t *testing.T) {
	a := New(CantOpenOutput, "disk full")
	b := New(CantOpenOutput, "permission denied")
	require.True(t, errors.Is(a, b))

	c := New(CantCloseOutput, "disk full")
	require.False(t, errors.Is(a, c))
}
