package gridastar

import (
	log "github.com/sirupsen/logrus"
)

// StepSnapshot exposes the per-iteration state of the search.
// Events holds what the step emitted; the same events also reach the
// configured Observer.
type StepSnapshot struct {
	Current    Coord   `json:"current"`
	HasCurrent bool    `json:"has_current"`
	Events     []Event `json:"events,omitempty"`
	Done       bool    `json:"done"`
	Result     Result  `json:"result"`
	StepIndex  int     `json:"step"`
}

// Stepper runs a search one popped cell per Step call. It owns no goroutines;
// the caller decides the pace and may simply stop stepping to abandon a run.
type Stepper struct {
	engine   *engine
	recorder *stepRecorder
	logger   log.FieldLogger
	metrics  *Metrics

	stepCount int
	failed    error
}

type stepRecorder struct {
	next   Observer
	events []Event
}

func (r *stepRecorder) Observe(e Event) {
	r.events = append(r.events, e)
	r.next.Observe(e)
}

// NewStepper validates the request, resets the grid's search state and
// seeds the frontier. No cell is popped until the first Step.
func NewStepper(grid *Grid, start, end Coord, options ...Option) (*Stepper, error) {
	opts := applyOptions(options)
	if err := Validate(grid, start, end); err != nil {
		return nil, err
	}
	recorder := &stepRecorder{next: opts.Observer}
	return &Stepper{
		engine:   newEngine(grid, start, end, recorder),
		recorder: recorder,
		logger:   opts.Logger.WithFields(log.Fields{"start": start, "end": end}),
		metrics:  opts.Metrics,
	}, nil
}

// Done reports whether the run has finished.
func (s *Stepper) Done() bool { return s.engine.done }

// Step advances the search by one popped cell and returns a snapshot.
// Once the run is done every call returns the terminal snapshot again,
// along with the error that aborted it, if any.
func (s *Stepper) Step() (StepSnapshot, error) {
	if s.engine.done {
		return StepSnapshot{
			Done:      true,
			Result:    s.engine.result,
			StepIndex: s.stepCount,
		}, s.failed
	}

	s.stepCount++
	s.recorder.events = nil
	current, err := s.engine.step()
	if err != nil {
		s.logger.WithError(err).Error("step aborted")
		s.metrics.observeFailure()
		s.failed = err
		return StepSnapshot{Done: true, StepIndex: s.stepCount}, err
	}

	snapshot := StepSnapshot{
		Events:    s.recorder.events,
		Done:      s.engine.done,
		StepIndex: s.stepCount,
	}
	if current >= 0 {
		snapshot.Current = s.engine.grid.coord(current)
		snapshot.HasCurrent = true
	}
	if s.engine.done {
		snapshot.Result = s.engine.result
		s.metrics.observe(s.engine.result)
		s.logger.WithFields(log.Fields{
			"outcome":  s.engine.result.Outcome,
			"expanded": s.engine.result.Expanded,
			"steps":    s.stepCount,
		}).Debug("stepped search finished")
	}
	return snapshot, nil
}
