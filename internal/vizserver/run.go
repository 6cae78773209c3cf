package vizserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pdrpinto/gridastar"
	log "github.com/sirupsen/logrus"
)

// Message types streamed over /run.
const (
	MessageStart  = "start"
	MessageEvent  = "event"
	MessageResult = "result"
	MessageError  = "error"
)

// Message is one frame of a streamed run.
type Message struct {
	Type   string            `json:"type"`
	RunID  string            `json:"run_id"`
	Event  *gridastar.Event  `json:"event,omitempty"`
	Result *gridastar.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// handleRun upgrades to a websocket and streams a full search, pacing visited
// and path events so the client can animate them. Closing the socket cancels
// the run.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, errBusy)
		return
	}
	start, end, err := s.endpoints()
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	grid := s.grid
	s.running = true
	s.stepper = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	runID := uuid.NewString()
	logger := s.logger.WithField("run_id", runID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				logger.WithError(err).Debug("run connection closed by client")
				return
			}
		}
	}()

	if err := conn.WriteJSON(Message{Type: MessageStart, RunID: runID}); err != nil {
		logger.WithError(err).Warn("write start failed")
		return
	}

	stream := &streamObserver{
		ctx:        ctx,
		cancel:     cancel,
		conn:       conn,
		runID:      runID,
		visitDelay: s.cfg.VisitDelay,
		pathDelay:  s.cfg.PathDelay,
		logger:     logger,
	}
	logger.WithFields(log.Fields{"start": start, "end": end}).Info("run started")
	result, err := gridastar.Search(ctx, grid, start, end,
		gridastar.WithObserver(stream),
		gridastar.WithLogger(logger),
		gridastar.WithMetrics(s.metrics))
	if err != nil {
		logger.WithError(err).Error("run failed")
		_ = conn.WriteJSON(Message{Type: MessageError, RunID: runID, Error: err.Error()})
		return
	}
	logger.WithFields(log.Fields{
		"outcome":  result.Outcome,
		"expanded": result.Expanded,
	}).Info("run finished")

	if result.Outcome == gridastar.Cancelled {
		return
	}
	if err := conn.WriteJSON(Message{Type: MessageResult, RunID: runID, Result: &result}); err != nil {
		logger.WithError(err).Warn("write result failed")
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(time.Second))
}

// streamObserver writes each event to the socket. It is the only writer while
// the search runs. A failed write cancels the run.
type streamObserver struct {
	ctx        context.Context
	cancel     context.CancelFunc
	conn       *websocket.Conn
	runID      string
	visitDelay time.Duration
	pathDelay  time.Duration
	logger     log.FieldLogger
}

func (o *streamObserver) Observe(e gridastar.Event) {
	if o.ctx.Err() != nil {
		return
	}
	if err := o.conn.WriteJSON(Message{Type: MessageEvent, RunID: o.runID, Event: &e}); err != nil {
		o.logger.WithError(err).Debug("write event failed")
		o.cancel()
		return
	}
	switch e.Kind {
	case gridastar.Visited:
		o.pause(o.visitDelay)
	case gridastar.PathMember:
		o.pause(o.pathDelay)
	}
}

func (o *streamObserver) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-o.ctx.Done():
	}
}
