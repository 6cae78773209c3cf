package gridastar

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

// Outcome is how a search run ended.
type Outcome int

const (
	PathFound Outcome = iota + 1
	NoPath
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case PathFound:
		return "path-found"
	case NoPath:
		return "no-path"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("n/a:%d", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result contains the outcome of a search.
// Path runs from start to end inclusive and is only set for PathFound.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Path     []Coord `json:"path,omitempty"`
	Cost     float64 `json:"cost"`
	Expanded int     `json:"expanded"`
}

// Options defines parameters for the search.
type Options struct {
	Observer Observer
	Logger   log.FieldLogger
	Metrics  *Metrics
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithObserver sets the observer that receives search events.
func WithObserver(observer Observer) Option {
	return func(options *Options) { options.Observer = observer }
}

// WithLogger sets the logger used for run-level debug logs.
func WithLogger(logger log.FieldLogger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithMetrics records each finished run in m.
func WithMetrics(m *Metrics) Option {
	return func(options *Options) { options.Metrics = m }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		Observer: nopObserver{},
		Logger:   discardLogger(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Observer == nil {
		searchOptions.Observer = nopObserver{}
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = discardLogger()
	}
	return searchOptions
}

func discardLogger() log.FieldLogger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Validate checks a search request without touching the grid.
func Validate(grid *Grid, start, end Coord) error {
	switch {
	case grid == nil:
		return fmt.Errorf("%w: nil grid", ErrInvalidRequest)
	case !grid.InBounds(start):
		return fmt.Errorf("%w: start %v out of bounds", ErrInvalidRequest, start)
	case !grid.InBounds(end):
		return fmt.Errorf("%w: end %v out of bounds", ErrInvalidRequest, end)
	case start == end:
		return fmt.Errorf("%w: start and end are both %v", ErrInvalidRequest, start)
	case grid.IsObstacle(start):
		return fmt.Errorf("%w: start %v is an obstacle", ErrInvalidRequest, start)
	case grid.IsObstacle(end):
		return fmt.Errorf("%w: end %v is an obstacle", ErrInvalidRequest, end)
	}
	return nil
}

// Search runs A* from start to end on grid.
//
// The request is validated before anything is mutated; then the grid's
// search state is reset and the run proceeds until the goal is popped, the
// frontier is exhausted, or ctx is done. ctx is checked once per popped cell.
// A cancelled run returns a Cancelled result and a nil error, leaving the grid
// in a state that Reset fully clears.
func Search(
	ctx context.Context,
	grid *Grid,
	start Coord,
	end Coord,
	options ...Option,
) (Result, error) {
	searchOptions := applyOptions(options)
	if err := Validate(grid, start, end); err != nil {
		return Result{}, err
	}

	logger := searchOptions.Logger.WithFields(log.Fields{"start": start, "end": end})
	logger.Debug("search started")
	began := time.Now()

	e := newEngine(grid, start, end, searchOptions.Observer)
	for !e.done {
		select {
		case <-ctx.Done():
			e.finish(Result{Outcome: Cancelled, Expanded: e.expanded})
			continue
		default:
		}
		if _, err := e.step(); err != nil {
			logger.WithError(err).Error("search aborted")
			searchOptions.Metrics.observeFailure()
			return Result{Expanded: e.expanded}, err
		}
	}

	searchOptions.Metrics.observe(e.result)
	searchOptions.Metrics.observeDuration(time.Since(began))
	logger.WithFields(log.Fields{
		"outcome":  e.result.Outcome,
		"expanded": e.result.Expanded,
		"length":   len(e.result.Path),
	}).Debug("search finished")
	return e.result, nil
}

// SearchGrid runs Search between the grid's own start and end endpoints.
func SearchGrid(ctx context.Context, grid *Grid, options ...Option) (Result, error) {
	if grid == nil {
		return Result{}, fmt.Errorf("%w: nil grid", ErrInvalidRequest)
	}
	start, ok := grid.Start()
	if !ok {
		return Result{}, fmt.Errorf("%w: start not set", ErrInvalidRequest)
	}
	end, ok := grid.End()
	if !ok {
		return Result{}, fmt.Errorf("%w: end not set", ErrInvalidRequest)
	}
	return Search(ctx, grid, start, end, options...)
}
