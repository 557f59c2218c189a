// Package stubserver implements an in-process bridge backend double: the
// WebSocket message plane and the HTTP control plane, driven by canned
// fixtures. It backs both the test suites and the mock-server CLI command.
package stubserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

// Config controls stub behavior.
type Config struct {
	// Token is the token every request must carry. Empty disables checking.
	Token string
	// Version is the version served on /api/data/system and the system
	// fixture. Defaults to the fixture's own version.
	Version string
	// LegacyVersion, when set, makes the stub act as a 2.x backend: the
	// modern data endpoint 404s and /information reports this version.
	LegacyVersion string
	// MuteEvents lists request events the stub swallows without replying.
	// Used to provoke client-side request timeouts.
	MuteEvents []event.Type
	// PushDelay delays DATA_UPDATE pushes after acknowledging a request.
	PushDelay time.Duration
}

// Server is the stub backend.
type Server struct {
	config   Config
	fixtures *Fixtures
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu sync.Mutex
	// listener registrations per connection
	registered map[*websocket.Conn]bool
	muted      map[event.Type]bool
}

// New creates a stub backend serving the given fixtures.
func New(config Config, fixtures *Fixtures, logger zerolog.Logger) *Server {
	if fixtures == nil {
		fixtures = DefaultFixtures()
	}
	if config.Version != "" {
		fixtures.System.Version = config.Version
	}
	muted := make(map[event.Type]bool, len(config.MuteEvents))
	for _, eventType := range config.MuteEvents {
		muted[eventType] = true
	}
	return &Server{
		config:   config,
		fixtures: fixtures,
		logger:   logger.With().Str("component", "stubserver").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		registered: make(map[*websocket.Conn]bool),
		muted:      muted,
	}
}

// Handler returns the stub's HTTP handler: the WebSocket endpoint plus the
// control-plane routes the client probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/websocket", s.handleWebSocket)
	mux.HandleFunc("/api/data/system", s.handleDataSystem)
	mux.HandleFunc("/information", s.handleInformation)
	return mux
}

func (s *Server) handleDataSystem(w http.ResponseWriter, r *http.Request) {
	if s.config.LegacyVersion != "" {
		http.NotFound(w, r)
		return
	}
	if !s.checkHTTPToken(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.fixtures.System)
}

func (s *Server) handleInformation(w http.ResponseWriter, r *http.Request) {
	if s.config.LegacyVersion == "" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.config.LegacyVersion,
	})
}

func (s *Server) checkHTTPToken(w http.ResponseWriter, r *http.Request) bool {
	if s.config.Token == "" {
		return true
	}
	if r.Header.Get("token") != s.config.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid token"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// frame is one outbound server message.
type frame struct {
	ID      string        `json:"id,omitempty"`
	Type    event.Type    `json:"type"`
	SubType event.SubType `json:"subtype,omitempty"`
	Module  string        `json:"module,omitempty"`
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
}

// session is one WebSocket connection's state. The write mutex serializes
// direct replies against delayed pushes.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *session) write(f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer func() {
		s.mu.Lock()
		delete(s.registered, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	sess := &session{conn: conn}
	s.logger.Debug().Str("remote", r.RemoteAddr).Msg("Client connected")

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Msg("Client disconnected")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		req, err := event.DecodeRequest(raw)
		if err != nil {
			_ = sess.write(frame{Type: event.TypeError, SubType: event.SubTypeBadJSON, Message: "Invalid JSON"})
			continue
		}
		s.dispatch(sess, req)
	}
}

func (s *Server) dispatch(sess *session, req *event.Request) {
	if s.muted[req.Event] {
		s.logger.Debug().Str("event", string(req.Event)).Msg("Muted event, not replying")
		return
	}
	if s.config.Token != "" && req.Token != s.config.Token {
		_ = sess.write(frame{
			ID:      req.ID,
			Type:    event.TypeError,
			SubType: event.SubTypeBadToken,
			Message: "Invalid token",
		})
		return
	}

	switch req.Event {
	case event.TypeGetData:
		modules := requestedModules(req.Data)
		_ = sess.write(frame{ID: req.ID, Type: event.TypeDataGet, Message: "Getting data"})
		go s.pushModules(sess, req.ID, modules)

	case event.TypeRegisterDataListener:
		s.mu.Lock()
		already := s.registered[sess.conn]
		s.registered[sess.conn] = true
		s.mu.Unlock()
		if already {
			_ = sess.write(frame{
				ID:      req.ID,
				Type:    event.TypeError,
				SubType: event.SubTypeListenerAlreadyRegistered,
				Message: "Listener already registered",
			})
			return
		}
		_ = sess.write(frame{ID: req.ID, Type: event.TypeDataListenerRegistered, Message: "Data listener registered"})
		go s.pushModules(sess, req.ID, requestedModules(req.Data))

	case event.TypeGetDirectories:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeDirectories, Message: "Got directories", Data: s.fixtures.Directories})

	case event.TypeGetFiles:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeFiles, Message: "Got files", Data: s.fixtures.Files})

	case event.TypeGetFile:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeFile, Message: "Got file", Data: s.fixtures.File})

	case event.TypeKeyboardKeypress:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeKeyboardKeyPressed, Message: "Key pressed", Data: req.Data})

	case event.TypeKeyboardText:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeKeyboardTextSent, Message: "Text sent", Data: req.Data})

	case event.TypeNotification:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeNotificationSent, Message: "Notification sent"})

	case event.TypeOpen:
		_ = sess.write(frame{ID: req.ID, Type: event.TypeOpened, Message: "Opened", Data: req.Data})

	case event.TypePowerSleep:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerSleeping, Message: "Sleeping"})
	case event.TypePowerHibernate:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerHibernating, Message: "Hibernating"})
	case event.TypePowerRestart:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerRestarting, Message: "Restarting"})
	case event.TypePowerShutdown:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerShuttingDown, Message: "Shutting down"})
	case event.TypePowerLock:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerLocking, Message: "Locking"})
	case event.TypePowerLogout:
		_ = sess.write(frame{ID: req.ID, Type: event.TypePowerLoggingOut, Message: "Logging out"})

	case event.TypeApplicationUpdate, event.TypeExitApplication, event.TypeMediaControl:
		// Fire-and-forget on the client side; nothing to reply.

	default:
		_ = sess.write(frame{
			ID:      req.ID,
			Type:    event.TypeError,
			SubType: event.SubTypeUnknownEvent,
			Message: "Unknown event",
		})
	}
}

// pushModules sends one DATA_UPDATE per requested module, echoing the request
// id the way the backend does.
func (s *Server) pushModules(sess *session, requestID string, modules []string) {
	if s.config.PushDelay > 0 {
		time.Sleep(s.config.PushDelay)
	}
	for _, module := range modules {
		data, ok := s.fixtures.moduleData(module)
		if !ok {
			s.logger.Warn().Str("module", module).Msg("No fixture for module")
			continue
		}
		if err := sess.write(frame{
			ID:     requestID,
			Type:   event.TypeDataUpdate,
			Module: module,
			Data:   data,
		}); err != nil {
			s.logger.Debug().Err(err).Str("module", module).Msg("Push failed")
			return
		}
	}
}

// requestedModules extracts the modules list from a GET_DATA or
// REGISTER_DATA_LISTENER payload. A missing list means all modules.
func requestedModules(data any) []string {
	payload, ok := data.(map[string]any)
	if !ok {
		return models.AllModules
	}
	raw, ok := payload["modules"].([]any)
	if !ok {
		return models.AllModules
	}
	modules := make([]string, 0, len(raw))
	for _, entry := range raw {
		if name, ok := entry.(string); ok {
			modules = append(modules, name)
		}
	}
	return modules
}
