package hitengine

import "github.com/gemc-project/gemc-core/internal/touchable"

// DefaultProcessTouchable implements the default process-touchable rule
// of spec.md §4.3/§4.4: readout touchables are split by electronics
// time cell; every other kind passes through unchanged with its track
// id left for the caller to assign.
//
// For a readout touchable: compute the step's time-cell index from
// gridStart/timeWindow. If base's index is unset or already matches,
// return base alone with the index installed. Otherwise base belongs to
// a different cell than the new step: return BOTH base (untouched) and
// a clone carrying the new index, so one physical step can contribute
// to two electronics time cells.
func DefaultProcessTouchable(base *touchable.Touchable, step Step, gridStart, timeWindow float64) []*touchable.Touchable {
	if base.Kind != touchable.Readout {
		return []*touchable.Touchable{base}
	}

	idx := touchable.TimeCellIndex(step.GlobalTime, gridStart, timeWindow)
	if base.StepTimeCellIndex == touchable.UnsetTimeCell || base.StepTimeCellIndex == idx {
		base.StepTimeCellIndex = idx
		return []*touchable.Touchable{base}
	}

	split := base.Clone()
	split.StepTimeCellIndex = idx
	return []*touchable.Touchable{base, split}
}
