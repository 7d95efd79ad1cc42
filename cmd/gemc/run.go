package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gemc-project/gemc-core/internal/digitization"
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
	"github.com/gemc-project/gemc-core/internal/gsystem"
	"github.com/gemc-project/gemc-core/internal/hitengine"
	"github.com/gemc-project/gemc-core/internal/monitor"
	"github.com/gemc-project/gemc-core/internal/streaming"
	"github.com/gemc-project/gemc-core/internal/touchable"
	"github.com/gemc-project/gemc-core/internal/world"
)

// sensitiveBinding is the build-time, single-thread result of scanning
// the built world for volumes that name a digitization routine: which
// detector each volume belongs to, and the routine that detector uses.
// Computed once and then treated as immutable (spec.md §5), shared by
// every worker goroutine by value, not by pointer into mutable state.
type sensitiveBinding struct {
	volumeKey string
	identity  []touchable.IdentityEntry
	detector  string
	routine   *digitization.Routine
}

// run wires gconfig -> gsystem -> world -> touchable/hitengine ->
// digitization -> eventdata -> streaming and drives opts.Workers worker
// threads against the result, following the teacher's main()'s
// WaitGroup-plus-signal-context shape.
func run(ctx context.Context, cfg *gconfig.Config, log *glog.Logger, opts runOptions) error {
	runID := uuid.New().String()
	log.Infof("starting run %s (%d worker(s))", runID, opts.Workers)

	built, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	if opts.DumpTree {
		fmt.Print(world.DumpDependencyTree(built))
		return nil
	}

	stats := monitor.NewStats()

	dispatcher := digitization.NewDispatcher(
		digitization.NewPluginResolver(pluginSearchPaths(opts.PluginDir)),
		glog.New("gdigitization", glog.Info, os.Stdout),
	)

	bindings, err := bindSensitiveVolumes(built, cfg, dispatcher)
	if err != nil {
		return err
	}

	var monitorServer *monitor.WebServer
	if opts.MonitorAddr != "" {
		monitorServer = monitor.NewWebServer(opts.MonitorAddr, stats, glog.New("monitor", glog.Info, os.Stdout))
	}

	fns := make([]func() error, 0, opts.Workers+1)
	if monitorServer != nil {
		fns = append(fns, func() error { return monitorServer.Start(ctx) })
	}
	for w := 0; w < opts.Workers; w++ {
		workerID := w
		fns = append(fns, func() error {
			return runWorker(ctx, workerID, runID, cfg, bindings, stats, log, opts.EventsPerRun)
		})
	}

	return waitForWorkers(fns)
}

// buildWorld loads every configured gsystem, unions them, applies
// modifiers, and runs the World Builder's fixed-point resolution
// (spec.md §4.1, §4.2). When no gsystem is configured, it synthesizes a
// single root-volume system from cfg.WorldVolume (spec.md §6 default:
// "G4Box 15*m 15*m 15*m G4_AIR"), the one case the System Loader
// contract doesn't itself cover.
func buildWorld(cfg *gconfig.Config, log *glog.Logger) (*world.World, error) {
	systems := make([]*gsystem.System, 0, len(cfg.GSystems)+1)
	for _, gs := range cfg.GSystems {
		req := gsystem.Request{
			Experiment:  cfg.Experiment,
			System:      gs.Name,
			Variation:   gs.Variation,
			RunNumber:   gs.RunNumber,
			Factory:     gs.Factory,
			SearchPaths: []string{".", "./systems"},
			StorePath:   cfg.SQL,
		}
		sys, err := gsystem.Load(req, log)
		if err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	if len(systems) == 0 {
		worldSys, err := worldOnlySystem(cfg.Experiment, cfg.RunNumber, cfg.WorldVolume)
		if err != nil {
			return nil, err
		}
		systems = append(systems, worldSys)
	}

	union, err := gsystem.NewUnion(systems)
	if err != nil {
		return nil, err
	}

	builder := world.NewBuilder(union, log)
	builder.OverlapPolicy = cfg.CheckOverlaps
	world.ApplyModifiers(builder.Arena(), cfg.GModifiers)

	built, err := builder.Build()
	if err != nil {
		return nil, err
	}
	log.Infof("world built: %d volumes, %d materials, %d passes", built.Arena.Len(), len(built.Materials), builder.Passes())
	return built, nil
}

// worldOnlySystem builds a one-volume System containing just the root
// world box described by a `worldVolume` configuration string of the
// form "<shape> <dim>*<unit> <dim>*<unit> <dim>*<unit> <material>"
// (spec.md §6's default: "G4Box 15*m 15*m 15*m G4_AIR"). Parsing this
// literal is the one piece of the geometry-primitives surface the core
// cannot avoid owning, since without it there is nothing for any other
// system's volumes to mount onto.
func worldOnlySystem(experiment string, runNumber int, spec string) (*gsystem.System, error) {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return nil, gerr.Newf(gerr.BadWorldVolumeString, "worldVolume %q: expected '<shape> <dims...> <material>'", spec)
	}

	shapeType := fields[0]
	material := fields[len(fields)-1]
	dims := fields[1 : len(fields)-1]

	params := make([]gsystem.Param, 0, len(dims))
	for _, d := range dims {
		p, err := parseDimToken(d)
		if err != nil {
			return nil, gerr.Newf(gerr.BadWorldVolumeString, "worldVolume %q: %v", spec, err)
		}
		params = append(params, p)
	}

	sys := gsystem.NewSystem("world", experiment, "default", runNumber)
	root := &gsystem.Volume{
		Name:       "root",
		MotherName: gsystem.RootMotherName,
		Shape:      gsystem.ShapeRef{Type: shapeType, Parameters: params},
		Material:   material,
		Existence:  true,
	}
	if err := sys.AddVolume(root); err != nil {
		return nil, err
	}
	return sys, nil
}

// parseDimToken parses one "<value>*<unit>" shape-parameter token.
func parseDimToken(tok string) (gsystem.Param, error) {
	value, unit, ok := strings.Cut(tok, "*")
	if !ok {
		return gsystem.Param{}, fmt.Errorf("malformed dimension token %q, expected value*unit", tok)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return gsystem.Param{}, fmt.Errorf("dimension token %q: %w", tok, err)
	}
	return gsystem.Param{Value: v, Unit: unit}, nil
}

// pluginSearchPaths assembles the dynamic digitization plugin search
// path list: the caller's --plugin-dir first, then the conventional
// install-relative directory.
func pluginSearchPaths(extra string) []string {
	paths := []string{"./plugins"}
	if extra != "" {
		paths = append([]string{extra}, paths...)
	}
	return paths
}

// bindSensitiveVolumes scans every existing, digitization-bearing volume
// in the built world, loads its digitization routine once (spec.md §4.4:
// "resolved once, before any worker starts"), and returns the resulting
// read-only binding list every worker goroutine shares.
func bindSensitiveVolumes(built *world.World, cfg *gconfig.Config, dispatcher *digitization.Dispatcher) ([]sensitiveBinding, error) {
	variationOf := make(map[string]string, len(cfg.GSystems))
	for _, gs := range cfg.GSystems {
		variationOf[gs.Name] = gs.Variation
	}

	var bindings []sensitiveBinding
	for _, bv := range built.Arena.All() {
		if !bv.Volume.Existence || bv.Volume.DigitizationName == "" {
			continue
		}
		variation := variationOf[bv.Volume.System]
		if variation == "" {
			variation = "default"
		}
		routine, err := dispatcher.Load(bv.Volume.DigitizationName, cfg.RunNumber, variation)
		if err != nil {
			return nil, err
		}
		identity := make([]touchable.IdentityEntry, len(bv.Volume.IdentityVector))
		for i, e := range bv.Volume.IdentityVector {
			identity[i] = touchable.IdentityEntry{Name: e.Name, Value: e.Value}
		}
		bindings = append(bindings, sensitiveBinding{
			volumeKey: bv.Key(),
			identity:  identity,
			detector:  bv.Volume.DigitizationName,
			routine:   routine,
		})
	}
	return bindings, nil
}

// touchableKind maps a digitization routine name to the Touchable kind
// that determines its equality discriminator (spec.md §4.3): the three
// built-ins each get their own kind, anything dynamically loaded is
// treated as a general readout element.
func touchableKind(digitizationName string) touchable.Kind {
	switch digitizationName {
	case "flux":
		return touchable.Flux
	case "counter":
		return touchable.Counter
	case "dosimeter":
		return touchable.Dosimeter
	default:
		return touchable.Readout
	}
}

// runWorker is one transport-engine worker thread's lifetime: it owns a
// thread-local Hit Engine, a thread-local Registry per detector, and a
// thread-local streamer set, processes opts events, and tears its
// streamers down on exit (spec.md §5).
func runWorker(ctx context.Context, workerID int, runID string, cfg *gconfig.Config, bindings []sensitiveBinding, stats *monitor.Stats, log *glog.Logger, events int) error {
	engineLog := glog.New(fmt.Sprintf("ghits.%d.%s", workerID, runID[:8]), glog.Info, os.Stdout)
	engine := hitengine.NewEngine(engineLog)

	registries := make(map[string]*touchable.Registry)
	for _, b := range bindings {
		reg, ok := registries[b.detector]
		if !ok {
			reg = touchable.NewRegistry(b.detector)
			registries[b.detector] = reg
			engine.Register(hitengine.NewSensitiveDetector(b.detector, reg, b.routine.Specs.Bits))
		}
		t := touchable.New(b.volumeKey, touchableKind(b.detector), b.identity)
		reg.Bind(b.volumeKey, t)
		engine.BindVolume(b.volumeKey, b.detector)
	}

	streamers, err := buildStreamers(cfg.GStreamers, workerID, cfg.EBuffer)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range streamers {
			if cerr := s.CloseConnection(); cerr != nil {
				log.Errorf("worker %d: closing streamer %s: %v", workerID, s.Filename(), cerr)
			}
		}
	}()

	runAcc := eventdata.NewRunData()
	source := newDemoStepSource(workerID, bindings)

	for ev := 0; ev < events; ev++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		header := eventdata.EventHeader{EventID: ev + 1, ThreadID: workerID, Timestamp: time.Now()}
		evData := eventdata.NewEventData(header)

		for _, step := range source.stepsForEvent(ev) {
			if err := engine.ProcessStep(step.volumeKey, step.step, step.binding.routine.Plugin); err != nil {
				return err
			}
			stats.RecordHit(step.binding.detector)
		}

		hits := engine.EndEvent()
		for detector, hs := range hits {
			dc := evData.Detector(detector)
			routine := routineFor(bindings, detector)
			for _, h := range hs {
				for step := 0; step < h.NSteps(); step++ {
					truth := routine.Plugin.CollectTruth(h, step)
					dig := routine.Plugin.Digitize(h, step)
					dc.Append(truth, dig)
					runAcc.Accumulate(detector, truth, dig)
				}
			}
		}
		stats.RecordEventProcessed()

		for _, s := range streamers {
			if s.Type != gconfig.StreamerEvent {
				continue
			}
			if err := s.PublishEvent(evData); err != nil {
				return err
			}
		}
		engine.ResetEvent()
	}

	for _, s := range streamers {
		if s.Type != gconfig.StreamerStream {
			continue
		}
		frame := eventdata.FrameData{FrameID: 1, FrameDuration: 1, Payloads: demoPayloads(workerID)}
		if err := s.PublishFrame(frame); err != nil {
			return err
		}
	}

	log.Infof("worker %d: processed %d events, %d detectors accumulated in run data", workerID, events, len(runAcc.Detectors))
	return nil
}

func routineFor(bindings []sensitiveBinding, detector string) *digitization.Routine {
	for _, b := range bindings {
		if b.detector == detector {
			return b.routine
		}
	}
	return nil
}

// buildStreamers constructs one streaming.Streamer per configured
// gstreamer entry, each bound to this worker's id (spec.md §4.5).
func buildStreamers(entries []gconfig.GStreamer, workerID, ebuffer int) ([]*streaming.Streamer, error) {
	streamers := make([]*streaming.Streamer, 0, len(entries))
	for _, gs := range entries {
		format, err := streaming.NewFormat(gs.Format, gs.Filename)
		if err != nil {
			return nil, err
		}
		s := streaming.New(format, gs.Filename, gs.Type, workerID, ebuffer)
		if err := s.OpenConnection(); err != nil {
			return nil, err
		}
		streamers = append(streamers, s)
	}
	return streamers, nil
}
