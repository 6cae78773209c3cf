// Package vizserver is the HTTP and websocket backend of the grid visualizer.
//
// It owns one grid session. Edits, steps and streamed runs are serialized
// through the session lock: while a run streams over /run every edit is
// refused with 409 Conflict, which keeps the grid frozen for the engine.
package vizserver

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/wallgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

//go:embed static/index.html
var indexHTML []byte

// Config defines the server's grid defaults and run pacing.
type Config struct {
	Rows        int
	Cols        int
	WallDensity float64
	// MaxCells caps rows*cols of a requested grid; zero means DefaultMaxCells.
	MaxCells   int
	VisitDelay time.Duration
	PathDelay  time.Duration
	// Seed drives wall and endpoint generation; zero picks a time based seed.
	Seed     int64
	Logger   log.FieldLogger
	Registry *prometheus.Registry
}

// Server serves the visualizer API.
type Server struct {
	router   *way.Router
	upgrader websocket.Upgrader
	cfg      Config
	logger   log.FieldLogger
	metrics  *gridastar.Metrics

	mu      sync.Mutex
	rng     *rand.Rand
	grid    *gridastar.Grid
	stepper *gridastar.Stepper
	running bool
}

// DefaultMaxCells is the grid size cap when Config.MaxCells is unset.
const DefaultMaxCells = 1 << 20

var errBusy = errors.New("a search is running")

// New builds a server with a freshly generated grid.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.StandardLogger()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	metrics, err := gridastar.NewMetrics(cfg.Registry)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(seed)),
	}
	grid, err := s.generate(cfg.Rows, cfg.Cols, cfg.WallDensity, s.rng)
	if err != nil {
		return nil, err
	}
	s.grid = grid
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc(http.MethodGet, "/", s.handleIndex)
	s.router.HandleFunc(http.MethodGet, "/grid", s.handleGetGrid)
	s.router.HandleFunc(http.MethodPost, "/grid", s.handleNewGrid)
	s.router.HandleFunc(http.MethodPut, "/grid/obstacle", s.handleObstacle)
	s.router.HandleFunc(http.MethodPut, "/grid/start", s.handleEndpoint(endpointStart))
	s.router.HandleFunc(http.MethodPut, "/grid/end", s.handleEndpoint(endpointEnd))
	s.router.HandleFunc(http.MethodDelete, "/grid/start", s.handleClearEndpoint(endpointStart))
	s.router.HandleFunc(http.MethodDelete, "/grid/end", s.handleClearEndpoint(endpointEnd))
	s.router.HandleFunc(http.MethodPost, "/grid/reset", s.handleReset)
	s.router.HandleFunc(http.MethodGet, "/step", s.handleStep)
	s.router.HandleFunc(http.MethodGet, "/run", s.handleRun)
	s.router.Handle(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// generate builds a grid with random endpoints and uniform walls that spare them.
func (s *Server) generate(rows, cols int, density float64, rng *rand.Rand) (*gridastar.Grid, error) {
	grid, err := gridastar.NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	start, end := wallgen.RandomEndpoints(rows, cols, rng)
	if err := wallgen.Apply(grid, wallgen.Uniform(rows, cols, density, rng, start, end)); err != nil {
		return nil, err
	}
	if start != end {
		if err := grid.SetStart(start); err != nil {
			return nil, err
		}
		if err := grid.SetEnd(end); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

type gridView struct {
	Rows    int               `json:"rows"`
	Cols    int               `json:"cols"`
	Walls   []gridastar.Coord `json:"walls"`
	Start   *gridastar.Coord  `json:"start,omitempty"`
	End     *gridastar.Coord  `json:"end,omitempty"`
	Running bool              `json:"running"`
}

// view must be called with s.mu held.
func (s *Server) view() gridView {
	v := gridView{
		Rows:    s.grid.Rows(),
		Cols:    s.grid.Cols(),
		Walls:   []gridastar.Coord{},
		Running: s.running,
	}
	for r := 0; r < v.Rows; r++ {
		for c := 0; c < v.Cols; c++ {
			p := gridastar.Coord{Row: r, Col: c}
			if s.grid.IsObstacle(p) {
				v.Walls = append(v.Walls, p)
			}
		}
	}
	if start, ok := s.grid.Start(); ok {
		v.Start = &start
	}
	if end, ok := s.grid.End(); ok {
		v.End = &end
	}
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.view()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleNewGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := intParam(q.Get("rows"), s.cfg.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cols, err := intParam(q.Get("cols"), s.cfg.Cols)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if rows > 0 && cols > 0 && rows > s.cfg.MaxCells/cols {
		writeError(w, http.StatusBadRequest, fmt.Errorf("grid of %dx%d exceeds %d cells", rows, cols, s.cfg.MaxCells))
		return
	}
	density, err := floatParam(q.Get("density"), s.cfg.WallDensity)
	if err != nil || density < 0 || density > 1 {
		writeError(w, http.StatusBadRequest, errors.New("density must be within [0,1]"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		writeError(w, http.StatusConflict, errBusy)
		return
	}
	rng := s.rng
	if seedStr := q.Get("seed"); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		rng = rand.New(rand.NewSource(seed))
	}
	grid, err := s.generate(rows, cols, density, rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.grid = grid
	s.stepper = nil
	s.logger.WithFields(log.Fields{"rows": rows, "cols": cols, "density": density}).Info("grid generated")
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleObstacle(w http.ResponseWriter, r *http.Request) {
	at, err := coordParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	on, err := strconv.ParseBool(r.URL.Query().Get("on"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.edit(w, func() error { return s.grid.SetObstacle(at, on) })
}

type endpoint int

const (
	endpointStart endpoint = iota
	endpointEnd
)

func (s *Server) handleEndpoint(which endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at, err := coordParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.edit(w, func() error {
			if which == endpointStart {
				return s.grid.SetStart(at)
			}
			return s.grid.SetEnd(at)
		})
	}
}

func (s *Server) handleClearEndpoint(which endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.edit(w, func() error {
			if which == endpointStart {
				s.grid.ClearStart()
			} else {
				s.grid.ClearEnd()
			}
			return nil
		})
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	keep, err := boolParam(r.URL.Query().Get("keep_obstacles"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.edit(w, func() error {
		s.grid.Reset(keep)
		return nil
	})
}

// edit applies an edit to an idle grid. Any stepped run is dropped, since the
// grid it was borrowing has changed.
func (s *Server) edit(w http.ResponseWriter, apply func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		writeError(w, http.StatusConflict, errBusy)
		return
	}
	if err := apply(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.stepper = nil
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		writeError(w, http.StatusConflict, errBusy)
		return
	}
	if s.stepper == nil {
		start, end, err := s.endpoints()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.stepper, err = gridastar.NewStepper(s.grid, start, end,
			gridastar.WithLogger(s.logger),
			gridastar.WithMetrics(s.metrics))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}
	snapshot, err := s.stepper.Step()
	if err != nil {
		s.logger.WithError(err).Error("step failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// endpoints must be called with s.mu held.
func (s *Server) endpoints() (gridastar.Coord, gridastar.Coord, error) {
	start, ok := s.grid.Start()
	if !ok {
		return start, start, errors.New("start is not set")
	}
	end, ok := s.grid.End()
	if !ok {
		return start, end, errors.New("end is not set")
	}
	return start, end, gridastar.Validate(s.grid, start, end)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func floatParam(value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

func boolParam(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func coordParams(r *http.Request) (gridastar.Coord, error) {
	q := r.URL.Query()
	row, err := strconv.Atoi(q.Get("row"))
	if err != nil {
		return gridastar.Coord{}, errors.New("row must be an integer")
	}
	col, err := strconv.Atoi(q.Get("col"))
	if err != nil {
		return gridastar.Coord{}, errors.New("col must be an integer")
	}
	return gridastar.Coord{Row: row, Col: col}, nil
}
