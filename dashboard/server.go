package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/display"
	"github.com/achilleasa/polaris-bench/hardware"
	"github.com/achilleasa/polaris-bench/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to a client.
	writeWait = time.Second
)

// The benchmark operations exposed by the dashboard.
type Controller interface {
	Start() error
	Stop()
	State() benchmark.State
	Latest() (benchmark.Snapshot, bool)
	Subscribe(fn func(benchmark.Snapshot)) (remove func())
}

// Messages pushed to websocket clients.
type message struct {
	Type     string              `json:"type"`
	State    string              `json:"state,omitempty"`
	Snapshot *benchmark.Snapshot `json:"snapshot,omitempty"`
	Cards    []display.Card      `json:"cards,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Messages sent by websocket clients.
type request struct {
	Action string `json:"action"`
}

type hardwareView struct {
	Report hardware.Report `json:"report"`
	Cards  []display.Card  `json:"cards"`
}

type hardwareResponse struct {
	Host   hardwareView `json:"host"`
	Client hardwareView `json:"client"`
}

// A Server serves the benchmark page, the hardware report and a websocket
// feed that streams snapshots and accepts start/stop actions.
type Server struct {
	logger log.Logger
	ctrl   Controller
	host   hardware.Report
	mux    *http.ServeMux

	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex
	closed       bool

	unsubscribe func()
}

// Create a server for ctrl. The host report is shown next to the report
// derived from each client's user agent.
func NewServer(ctrl Controller, host hardware.Report) *Server {
	s := &Server{
		logger: log.New("dashboard"),
		ctrl:   ctrl,
		host:   host,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}

	s.mux.HandleFunc("/", s.serveHome)
	s.mux.HandleFunc("/api/hardware", s.serveHardware)
	s.mux.HandleFunc("/api/snapshot", s.serveSnapshot)
	s.mux.HandleFunc("/ws", s.handleWebSocket)

	s.unsubscribe = ctrl.Subscribe(s.onSnapshot)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Disconnect all clients and stop forwarding snapshots.
func (s *Server) Close() {
	s.unsubscribe()

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	s.closed = true
	for conn, connMutex := range s.clients {
		connMutex.Lock()
		conn.Close()
		connMutex.Unlock()
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
}

// Number of connected websocket clients.
func (s *Server) Clients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Title:       "polaris-bench",
		State:       s.ctrl.State().String(),
		HostCards:   s.host.Cards(),
		ClientCards: hardware.FromUserAgent(r.UserAgent()).Cards(),
		MetricCards: s.metricCards(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.ExecuteTemplate(w, "page", data); err != nil {
		s.logger.Errorf("could not render page: %v", err)
	}
}

func (s *Server) serveHardware(w http.ResponseWriter, r *http.Request) {
	client := hardware.FromUserAgent(r.UserAgent())
	writeJSON(w, hardwareResponse{
		Host:   hardwareView{Report: s.host, Cards: s.host.Cards()},
		Client: hardwareView{Report: client, Cards: client.Cards()},
	})
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.stateMessage())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warningf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	if s.closed {
		s.clientsMutex.Unlock()
		return
	}
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	s.logger.Debugf("client %s connected", conn.RemoteAddr())
	s.send(conn, connMutex, s.stateMessage())

	for {
		var req request
		if err = conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warningf("websocket read error: %v", err)
			}
			return
		}

		if err = s.handleAction(req.Action); err != nil {
			s.send(conn, connMutex, message{Type: "error", Error: err.Error()})
			continue
		}
		s.broadcast(s.stateMessage())
	}
}

func (s *Server) handleAction(action string) error {
	switch action {
	case "start":
		s.logger.Info("starting benchmark")
		return s.ctrl.Start()
	case "stop":
		s.logger.Info("stopping benchmark")
		s.ctrl.Stop()
		return nil
	}
	return ErrUnknownAction
}

func (s *Server) onSnapshot(snap benchmark.Snapshot) {
	s.broadcast(message{
		Type:     "snapshot",
		State:    benchmark.Running.String(),
		Snapshot: &snap,
		Cards:    benchmark.MetricCards(&snap),
	})
}

func (s *Server) stateMessage() message {
	msg := message{
		Type:  "state",
		State: s.ctrl.State().String(),
		Cards: s.metricCards(),
	}
	if snap, ok := s.ctrl.Latest(); ok {
		msg.Snapshot = &snap
	}
	return msg
}

func (s *Server) metricCards() []display.Card {
	if snap, ok := s.ctrl.Latest(); ok {
		return benchmark.MetricCards(&snap)
	}
	return benchmark.MetricCards(nil)
}

func (s *Server) send(conn *websocket.Conn, connMutex *sync.Mutex, msg message) error {
	connMutex.Lock()
	defer connMutex.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (s *Server) broadcast(msg message) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	for conn, connMutex := range s.clients {
		if err := s.send(conn, connMutex, msg); err != nil {
			s.logger.Debugf("could not write to client %s: %v", conn.RemoteAddr(), err)
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
