// Package gerr defines the numeric-coded error taxonomy of spec.md §6-§7:
// every fatal condition the core raises carries a stable exit code grouped
// by owning module (100s options, 200s system/geometry, 500s built-world,
// 600s data, 800s streamer, 1100s translation table, 1200s actions, 2000s
// sensitive detector), plus a human message. Internal packages return
// *Error values; only cmd/gemc decides whether and how to exit.
package gerr

import (
	"errors"
	"fmt"
)

// Exit code bands, spec.md §6.
const (
	BandOptions           = 100
	BandSystemGeometry    = 200
	BandBuiltWorld        = 500
	BandData              = 600
	BandStreamer          = 800
	BandTranslationTable  = 1100
	BandActions           = 1200
	BandSensitiveDetector = 2000
)

// Kind is a stable, named condition within a band. The numeric code is
// Band + Offset; two errors with the same Kind always produce the same code.
type Kind struct {
	Band   int
	Offset int
	Name   string
}

func (k Kind) Code() int { return k.Band + k.Offset }

var (
	// 100s — Options/configuration (spec.md §6).
	BadWorldVolumeString = Kind{BandOptions, 1, "bad-world-volume-string"}

	// 200s — System Loader / geometry (spec.md §4.1, §4.2).
	StoreNotFound            = Kind{BandSystemGeometry, 1, "store-not-found"}
	DuplicateName             = Kind{BandSystemGeometry, 2, "duplicate-name"}
	BadRow                    = Kind{BandSystemGeometry, 3, "bad-row"}
	DependenciesUnresolved    = Kind{BandSystemGeometry, 4, "dependencies-unresolved"}
	MalformedColor            = Kind{BandSystemGeometry, 5, "malformed-color"}
	MalformedRotation         = Kind{BandSystemGeometry, 6, "malformed-rotation"}

	// 500s — Built world (spec.md §4.2).
	MaterialNotFound   = Kind{BandBuiltWorld, 1, "material-not-found"}
	SolidTypeUnsupported = Kind{BandBuiltWorld, 2, "solid-type-not-supported"}
	ParameterMismatch  = Kind{BandBuiltWorld, 3, "parameter-mismatch"}
	FactoryNotFound    = Kind{BandBuiltWorld, 4, "factory-not-found"}

	// 600s — Data (spec.md §4.3, §3).
	SensitiveDetectorNotFound = Kind{BandData, 1, "sensitive-detector-not-found"}
	VariableNotFound          = Kind{BandData, 2, "variable-not-found"}
	WrongPayloadSize          = Kind{BandData, 3, "wrong-payload-size"}

	// 800s — Streamer (spec.md §4.5).
	StreamerFactoryNotFound = Kind{BandStreamer, 1, "factory-not-found"}
	VariableExists          = Kind{BandStreamer, 2, "variable-exists"}
	CantOpenOutput          = Kind{BandStreamer, 3, "cant-open-output"}
	CantCloseOutput         = Kind{BandStreamer, 4, "cant-close-output"}
	PublishOutsideEvent     = Kind{BandStreamer, 5, "publish-outside-event"}

	// 1100s — Translation table (spec.md §4.4).
	IdentityNotFound    = Kind{BandTranslationTable, 1, "identity-not-found"}
	TTMissingIdentity   = Kind{BandTranslationTable, 2, "tt-missing-identity"}

	// 1200s — Actions (spec.md §6).
	RunActionMissing       = Kind{BandActions, 1, "run-action-missing"}
	DigitizationMapMissing = Kind{BandActions, 2, "digitization-map-missing"}
	StreamerMapMissing     = Kind{BandActions, 3, "streamer-map-missing"}

	// 2000s — Sensitive detector / digitization dispatch (spec.md §4.3, §4.4).
	PluginNotFound        = Kind{BandSensitiveDetector, 1, "plugin-not-found"}
	PluginLoadFailed      = Kind{BandSensitiveDetector, 2, "plugin-load-failed"}
	TouchableNotRegistered = Kind{BandSensitiveDetector, 3, "touchable-not-registered"}
	HitNotFound           = Kind{BandSensitiveDetector, 4, "hit-not-found"}
	NoCollection          = Kind{BandSensitiveDetector, 5, "no-collection"}
	NoDigitizationRoutine = Kind{BandSensitiveDetector, 6, "no-digitization-routine"}
)

// Error is the concrete error type returned across package boundaries. It
// carries enough context (spec.md §7: thread id, event id, detector name,
// whatever applies) for post-mortem reproduction without a debugger.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	cause   error
}

func New(k Kind, message string) *Error {
	return &Error{Kind: k, Message: message}
}

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// With attaches a piece of context (e.g. "thread", "event", "detector") and
// returns the same *Error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s] (%d) %s", e.Kind.Name, e.Kind.Code(), e.Message)
	for k, v := range e.Context {
		s += fmt.Sprintf(" %s=%v", k, v)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

// ExitCode returns the stable numeric exit code for err if it (or something
// it wraps) is a *Error, and ok=false otherwise.
func ExitCode(err error) (code int, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code(), true
	}
	return 0, false
}

// Is allows errors.Is(err, gerr.New(SomeKind, "")) style matching on Kind
// alone, ignoring message and context.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}
