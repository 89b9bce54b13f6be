package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/miretskiy/schedsim/internal/store"
	"github.com/miretskiy/schedsim/live"
	"github.com/miretskiy/schedsim/simulator"
	"github.com/miretskiy/schedsim/workload"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// ClientMessage is a control command sent by the browser.
type ClientMessage struct {
	Type      string                  `json:"type"` // start, pause, reset, speed, configure, randomize, compare
	Speed     int                     `json:"speed,omitempty"`
	Config    *simulator.SimConfig    `json:"config,omitempty"`
	Processes []simulator.ProcessSpec `json:"processes,omitempty"`
	Shape     *workload.Shape         `json:"shape,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type       string                       `json:"type"` // status, state, comparison, error
	Status     simulator.Status             `json:"status,omitempty"`
	Config     *simulator.SimConfig         `json:"config,omitempty"`
	Processes  []simulator.ProcessSpec      `json:"processes,omitempty"`
	State      *simulator.State             `json:"state,omitempty"`
	Comparison []simulator.ComparisonResult `json:"comparison,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

// session is one browser connection driving its own simulation.
type session struct {
	srv    *server
	conn   *safeConn
	driver *live.Driver
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrading connection", "error", err)
		return
	}
	defer conn.Close()

	driver, err := live.New(nil, simulator.DefaultConfig(), s.logger)
	if err != nil {
		s.logger.Error("creating driver", "error", err)
		return
	}
	defer driver.Close()

	sess := &session{srv: s, conn: &safeConn{Conn: conn}, driver: driver}
	driver.OnTick(sess.onTick)

	s.logger.Info("client connected", "remote", r.RemoteAddr)
	if err := sess.sendStatus(); err != nil {
		s.logger.Error("sending status", "error", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn("reading message", "error", err)
			}
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.send(ServerMessage{Type: "error", Error: "invalid message: " + err.Error()})
			continue
		}
		s.logger.Debug("received command", "type", msg.Type)

		if err := sess.handle(msg); err != nil {
			sess.send(ServerMessage{Type: "error", Error: err.Error()})
		}
	}
	s.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

func (sess *session) handle(msg ClientMessage) error {
	d := sess.driver
	switch msg.Type {
	case "start":
		if err := d.Start(); err != nil {
			return err
		}
	case "pause":
		d.Pause()
	case "reset":
		d.Reset()
	case "speed":
		if err := d.SetSpeed(msg.Speed); err != nil {
			return err
		}
	case "configure":
		cfg := d.Config()
		if msg.Config != nil {
			cfg = *msg.Config
			if cfg.SpeedMs == 0 {
				cfg.SpeedMs = d.Config().SpeedMs
			}
		}
		procs := msg.Processes
		if procs == nil {
			procs = d.Processes()
		}
		if err := workload.Validate(procs); err != nil {
			return err
		}
		if err := d.Configure(procs, cfg); err != nil {
			return err
		}
	case "randomize":
		var shape workload.Shape
		if msg.Shape != nil {
			shape = *msg.Shape
		}
		procs := workload.RandomWith(workload.DefaultRandomCount, rand.New(rand.NewSource(time.Now().UnixNano())), shape)
		if err := d.Configure(procs, d.Config()); err != nil {
			return err
		}
	case "compare":
		results, err := simulator.RunAll(d.Processes(), d.Config().Options())
		if err != nil {
			return err
		}
		promMetrics.comparisons.Inc()
		return sess.send(ServerMessage{Type: "comparison", Comparison: results})
	default:
		sess.srv.logger.Warn("unknown command", "type", msg.Type)
		return nil
	}
	return sess.sendStatus()
}

// onTick runs on the driver's timer goroutine for every new snapshot.
func (sess *session) onTick(state *simulator.State, cfg simulator.SimConfig) {
	updatePrometheusMetrics(state, cfg.Policy)

	if err := sess.send(ServerMessage{Type: "state", Status: state.Status, State: state}); err != nil {
		sess.srv.logger.Warn("sending state", "error", err)
	}
	if state.Status == simulator.StatusFinished && sess.srv.store != nil {
		run := store.NewRun(state, cfg)
		if err := sess.srv.store.SaveRun(context.Background(), run); err != nil {
			sess.srv.logger.Error("saving run", "error", err)
			return
		}
		sess.srv.logger.Info("run saved", "id", run.ID, "policy", cfg.Policy)
	}
}

func (sess *session) sendStatus() error {
	cfg := sess.driver.Config()
	state := sess.driver.Snapshot()
	return sess.send(ServerMessage{
		Type:      "status",
		Status:    state.Status,
		Config:    &cfg,
		Processes: sess.driver.Processes(),
		State:     state,
	})
}

func (sess *session) send(msg ServerMessage) error {
	return sess.conn.WriteJSON(msg)
}
