// Package gconfig models the configuration surface enumerated in spec.md
// §6. The options/configuration parser itself is an external collaborator
// (out of scope, spec.md §1); this package is the typed struct that
// receives its parsed output, in the style of the teacher's
// internal/config/tuning.go: optional fields as pointers, loaded from a
// file, with defaults applied by the caller rather than baked into the
// zero value.
package gconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Factory is one of the four System Loader store backends, spec.md §4.1.
type Factory string

const (
	FactoryASCII  Factory = "ascii"
	FactorySQLite Factory = "sqlite"
	FactoryCAD    Factory = "CAD"
	FactoryGDML   Factory = "GDML"
)

// GSystem is one entry of the `gsystem` option list.
type GSystem struct {
	Name        string   `yaml:"name"`
	Factory     Factory  `yaml:"factory"`
	Variation   string   `yaml:"variation"`
	RunNumber   int      `yaml:"runno"`
	Annotations []string `yaml:"annotations,omitempty"`
}

// GModifier is one entry of the `gmodifier` option list, applied to a
// named volume before Phase V of the World Builder (spec.md §4.2).
type GModifier struct {
	Name      string  `yaml:"name"`
	Shift     *Vector `yaml:"shift,omitempty"`
	Tilt      *Vector `yaml:"tilt,omitempty"`
	IsPresent *bool   `yaml:"isPresent,omitempty"`
}

// Vector is a bare 3-component value with no implied unit; callers attach
// unit semantics (mm, rad, deg) from the field that holds it.
type Vector struct {
	X, Y, Z float64
}

// StreamerType distinguishes per-event fan-out from per-frame fan-out,
// spec.md §4.5.
type StreamerType string

const (
	StreamerEvent  StreamerType = "event"
	StreamerStream StreamerType = "stream"
)

// GStreamer is one entry of the `gstreamer` option list.
type GStreamer struct {
	Format   string       `yaml:"format"`
	Filename string       `yaml:"filename"`
	Type     StreamerType `yaml:"type"`
}

// OverlapPolicy is the checkOverlaps switch's four-tier behavior
// (SPEC_FULL.md, "Overlap checking switch").
type OverlapPolicy int

const (
	OverlapOff        OverlapPolicy = 0
	OverlapRootOnly    OverlapPolicy = 1
	OverlapEveryVolume OverlapPolicy = 2
)

// Config is the fully assembled configuration surface of spec.md §6.
type Config struct {
	Experiment  string `yaml:"experiment"`
	RunNumber   int    `yaml:"runno"`
	SQL         string `yaml:"sql,omitempty"`
	WorldVolume string `yaml:"worldVolume"`

	GSystems   []GSystem   `yaml:"gsystem"`
	GModifiers []GModifier `yaml:"gmodifier"`
	GStreamers []GStreamer `yaml:"gstreamer"`

	// EBuffer is the streamer flush threshold (spec.md §4.5), default 100.
	EBuffer int `yaml:"ebuffer"`

	// Verbosity/debug are keyed by logger/component name: ghits, gsystem,
	// gstreamer_ev, gstreamer_fr, etc. Values 0..2; a nonzero debug entry
	// enables constructor/destructor traces for that component.
	Verbosity map[string]int `yaml:"verbosity,omitempty"`
	Debug     map[string]int `yaml:"debug,omitempty"`

	Stream                 bool          `yaml:"stream"`
	RecordZeroEdep         bool          `yaml:"recordZeroEdep"`
	CheckOverlaps          OverlapPolicy `yaml:"checkOverlaps"`
	UseBackupMaterial      bool          `yaml:"useBackupMaterial"`
	ShowPredefinedMaterials bool         `yaml:"showPredefinedMaterials"`
	PrintSystemsMaterials   bool         `yaml:"printSystemsMaterials"`
}

// DefaultWorldVolume matches spec.md §6's default: "G4Box 15*m 15*m 15*m G4_AIR".
const DefaultWorldVolume = "G4Box 15*m 15*m 15*m G4_AIR"

// DefaultEBuffer is the streamer flush threshold default, spec.md §4.5.
const DefaultEBuffer = 100

// Defaults returns a Config with every field at its documented default.
func Defaults() *Config {
	return &Config{
		WorldVolume: DefaultWorldVolume,
		EBuffer:     DefaultEBuffer,
		Verbosity:   map[string]int{},
		Debug:       map[string]int{},
	}
}

// Load reads a YAML configuration file and overlays it onto Defaults().
// Mandatory-missing keys (gsystem entries without a name, streamers
// without a format) are a configuration error surfaced here, not later at
// run time — spec.md §9, "cumulative option parsing semantics".
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gconfig: reading %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("gconfig: parsing %s: %w", path, err)
	}
	if cfg.EBuffer <= 0 {
		cfg.EBuffer = DefaultEBuffer
	}
	if cfg.WorldVolume == "" {
		cfg.WorldVolume = DefaultWorldVolume
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the mandatory-key invariants of each cumulative option
// list: every gsystem needs a name and factory, every gstreamer needs a
// format and type.
func (c *Config) Validate() error {
	for i, s := range c.GSystems {
		if s.Name == "" {
			return fmt.Errorf("gconfig: gsystem[%d] missing name", i)
		}
		switch s.Factory {
		case FactoryASCII, FactorySQLite, FactoryCAD, FactoryGDML:
		default:
			return fmt.Errorf("gconfig: gsystem[%d] %q has unknown factory %q", i, s.Name, s.Factory)
		}
	}
	for i, s := range c.GStreamers {
		if s.Format == "" {
			return fmt.Errorf("gconfig: gstreamer[%d] missing format", i)
		}
		if s.Type != StreamerEvent && s.Type != StreamerStream {
			return fmt.Errorf("gconfig: gstreamer[%d] %q has unknown type %q", i, s.Format, s.Type)
		}
	}
	return nil
}

// VerbosityFor returns the configured verbosity level for component,
// defaulting to 0 (quiet) when unset.
func (c *Config) VerbosityFor(component string) int {
	if c.Verbosity == nil {
		return 0
	}
	return c.Verbosity[component]
}

// DebugFor reports whether constructor/destructor traces are enabled for
// component.
func (c *Config) DebugFor(component string) bool {
	if c.Debug == nil {
		return false
	}
	return c.Debug[component] != 0
}
