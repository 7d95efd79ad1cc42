// Command gemc builds one world from a configuration file, binds its
// sensitive volumes to per-thread Hit Engines and digitization routines,
// and runs the configured number of worker threads against it, streaming
// the resulting events and frames through the configured output sinks.
//
// The transport/physics engine is an external collaborator (spec.md §1):
// this binary does not perform stepping physics itself. In the absence of
// a real engine attached, it drives each worker with a small synthetic
// step generator so the full world-build -> hit-engine -> digitization ->
// streaming pipeline can be exercised end to end; a real deployment
// replaces demoStepSource with the transport engine's step callback.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
)

// Version is the build version stamped into --version output.
const Version = "0.1.0"

var (
	configFile   = flag.String("config", "gemc.yaml", "path to the YAML configuration file")
	workers      = flag.Int("workers", 1, "number of worker threads to run")
	eventsPerRun = flag.Int("events", 10, "number of synthetic events per worker (demo step source only)")
	monitorAddr  = flag.String("monitor", ":8090", "operational dashboard listen address; empty disables it")
	dumpTree     = flag.Bool("dump-tree", false, "print the built world's dependency tree and exit")
	pluginDir    = flag.String("plugin-dir", "", "additional search path for dynamically loaded digitization plugins (.so)")
	versionFlag  = flag.Bool("version", false, "print version information and exit")
	versionShort = flag.Bool("v", false, "print version information and exit (shorthand)")
)

func main() {
	flag.Parse()

	if *versionFlag || *versionShort {
		fmt.Printf("gemc-core v%s\n", Version)
		return
	}

	log := glog.New("gemc", glog.Info, os.Stdout)

	cfg, err := gconfig.Load(*configFile)
	if err != nil {
		log.Errorf("loading configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		Workers:      *workers,
		EventsPerRun: *eventsPerRun,
		MonitorAddr:  *monitorAddr,
		DumpTree:     *dumpTree,
		PluginDir:    *pluginDir,
	}

	if err := run(ctx, cfg, log, opts); err != nil {
		code, ok := gerr.ExitCode(err)
		if !ok {
			code = 1
		}
		log.Errorf("fatal: %v", err)
		os.Exit(code)
	}
}

// runOptions bundles the flag-derived knobs run needs, kept separate
// from gconfig.Config since these are process invocation concerns, not
// part of the simulation job's declarative configuration (spec.md §6).
type runOptions struct {
	Workers      int
	EventsPerRun int
	MonitorAddr  string
	DumpTree     bool
	PluginDir    string
}

// waitForWorkers runs fns concurrently, tracked by a WaitGroup in the
// same shape the teacher's main() uses for its per-subsystem goroutines,
// and returns the first non-nil error encountered.
func waitForWorkers(fns []func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
