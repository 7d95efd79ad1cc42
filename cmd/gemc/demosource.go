package main

import (
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/hitengine"
)

// demoStep pairs one synthetic transport step with the sensitive-volume
// binding it targets.
type demoStep struct {
	volumeKey string
	binding   sensitiveBinding
	step      hitengine.Step
}

// demoStepSource is the stand-in for the transport engine (spec.md §1,
// "external collaborator"): a deterministic, seedless generator that
// feeds one step per bound sensitive volume per event, enough to
// exercise the Hit Engine, digitization, and streaming pipeline without
// a real physics engine attached.
type demoStepSource struct {
	workerID int
	bindings []sensitiveBinding
}

func newDemoStepSource(workerID int, bindings []sensitiveBinding) *demoStepSource {
	return &demoStepSource{workerID: workerID, bindings: bindings}
}

// stepsForEvent returns one step per bound sensitive volume, with
// energy deposits varying deterministically by worker, event, and
// volume index so successive events are distinguishable without any
// wall-clock or random source.
func (d *demoStepSource) stepsForEvent(eventIndex int) []demoStep {
	if len(d.bindings) == 0 {
		return nil
	}
	out := make([]demoStep, 0, len(d.bindings))
	for i, b := range d.bindings {
		edep := 0.5 + float64((eventIndex+i+d.workerID)%7)*0.1
		step := hitengine.Step{
			GlobalTime:     float64(eventIndex) * 1.5,
			GlobalPosition: hitengine.Position3{X: float64(i), Y: float64(d.workerID), Z: float64(eventIndex)},
			LocalPosition:  hitengine.Position3{},
			EDep:           edep,
			TrackID:        eventIndex + 1,
			ParticleID:     11,
			TotalEnergy:    edep * 2,
			ProcessName:    "demo",
		}
		out = append(out, demoStep{volumeKey: b.volumeKey, binding: b, step: step})
	}
	return out
}

// demoPayloads builds one synthetic frame payload per worker, enough to
// exercise the frame-fan-out streamer formats.
func demoPayloads(workerID int) []eventdata.Payload {
	return []eventdata.Payload{
		{Crate: 1, Slot: 2, Channel: workerID, Charge: 100, Time: 10},
	}
}
