package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pkalinn/revolver/internal/chamber"
	"github.com/pkalinn/revolver/internal/common/clock"
	"github.com/pkalinn/revolver/internal/common/uuid"
	"github.com/pkalinn/revolver/internal/game"
	"github.com/pkalinn/revolver/internal/models"
)

// Config holds the configuration for the realtime coordinator
type Config struct {
	// Clock provides wall-clock reads
	Clock clock.Clock

	// Spinner draws lethal slots and first turns for new sessions
	Spinner chamber.Spinner

	// UUIDGenerator allocates connection, game and player identifiers
	UUIDGenerator uuid.UUID

	// TurnTimeout is the per-turn budget; zero means the game default
	TurnTimeout time.Duration

	// SweepInterval is how often stale bindings and empty games are swept
	SweepInterval time.Duration

	// TickInterval is how often remaining-turn-time updates are pushed
	TickInterval time.Duration

	// ReclaimDelay is how long a finished game stays visible before the
	// registry reclaims it
	ReclaimDelay time.Duration

	// StaleAfter is the idle threshold for directory eviction
	StaleAfter time.Duration
}

const (
	defaultSweepInterval = 60 * time.Second
	defaultTickInterval  = time.Second
	defaultReclaimDelay  = 30 * time.Second
	defaultStaleAfter    = time.Hour
)

// Server is the connection coordinator: it owns every inbound realtime
// connection, dispatches protocol messages into the session engine and
// fans resulting events back out. All engine mutation, including timer
// callbacks and sweep ticks, runs under one mutex.
type Server struct {
	cfg       *Config
	registry  *game.Registry
	directory *game.Directory
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client

	done chan struct{}
}

// New creates a new coordinator
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, game.ErrNilConfig
	}
	if cfg.Clock == nil {
		return nil, game.ErrNilClock
	}
	if cfg.Spinner == nil {
		return nil, game.ErrNilSpinner
	}
	if cfg.UUIDGenerator == nil {
		return nil, game.ErrNilUUIDGenerator
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.ReclaimDelay <= 0 {
		cfg.ReclaimDelay = defaultReclaimDelay
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}

	registry, err := game.NewRegistry(&game.RegistryConfig{
		Session: &game.Config{
			Clock:       cfg.Clock,
			Spinner:     cfg.Spinner,
			TurnTimeout: cfg.TurnTimeout,
			OnTimeout:   s.onTurnTimeout,
		},
		UUIDGenerator: cfg.UUIDGenerator,
	})
	if err != nil {
		return nil, err
	}
	s.registry = registry

	directory, err := game.NewDirectory(cfg.Clock)
	if err != nil {
		return nil, err
	}
	s.directory = directory

	return s, nil
}

// Start launches the sweep and timer-broadcast cadences
func (s *Server) Start() {
	go s.sweepLoop()
	go s.timerLoop()
}

// Stop halts the background cadences
func (s *Server) Stop() {
	close(s.done)
}

// HandleConnection upgrades an HTTP request and runs the connection until
// it closes.
func (s *Server) HandleConnection(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	cl := &client{
		id:   "conn_" + uuid.ShortToken(s.cfg.UUIDGenerator, 9),
		conn: conn,
	}

	s.mu.Lock()
	s.clients[cl.id] = cl
	s.mu.Unlock()

	if err := cl.Send(&connectedEvent{
		Type:    "connected",
		Message: "Connected to the revolver server",
	}); err != nil {
		log.Printf("welcome send failed for %s: %v", cl.id, err)
	}

	s.readLoop(cl)
}

func (s *Server) readLoop(cl *client) {
	defer cl.close()

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			s.handleClientGone(cl)
			return
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			s.sendError(cl, game.ErrMalformedMessage.Error())
			continue
		}

		s.dispatch(cl, &req)
	}
}

func (s *Server) dispatch(cl *client, req *request) {
	switch req.Type {
	case "setName":
		s.handleSetName(cl, req)
	case "getLobby":
		s.handleGetLobby(cl)
	case "createGame":
		s.handleCreateGame(cl, req)
	case "joinGame":
		s.handleJoinGame(cl, req)
	case "shoot":
		s.handleShoot(cl, req)
	case "leaveGame":
		s.handleLeaveGame(cl)
	case "ping":
		s.send(cl, &pongEvent{Type: "pong"})
	default:
		s.sendError(cl, fmt.Sprintf("unknown message type %q", req.Type))
	}
}

func (s *Server) handleSetName(cl *client, req *request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := req.Name
	if name == "" {
		name = "player_" + uuid.ShortToken(s.cfg.UUIDGenerator, 5)
	}
	cl.playerName = name

	// A reconnecting client takes over its old binding's delivery path.
	s.directory.Rebind(name, cl)

	if sess, playerID, ok := s.registry.FindByPlayer(name); ok {
		s.send(cl, &hasActiveGameEvent{
			Type:          "hasActiveGame",
			GameID:        sess.ID(),
			GameStarted:   sess.Started(),
			PlayerID:      playerID,
			OnlinePlayers: s.onlinePlayersLocked(),
		})
		return
	}

	s.send(cl, &noActiveGameEvent{Type: "noActiveGame"})
}

func (s *Server) handleGetLobby(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl.inLobby = true
	s.send(cl, &lobbyUpdateEvent{
		Type:          "lobbyUpdate",
		Games:         s.registry.Joinable(),
		OnlinePlayers: s.onlinePlayersLocked(),
	})
}

func (s *Server) handleCreateGame(cl *client, req *request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := req.PlayerName
	if name == "" {
		name = cl.playerName
	}
	if name == "" {
		s.send(cl, &errorEvent{Type: "error", Message: game.ErrNameRequired.Error()})
		return
	}

	if s.directory.IsNameActive(name, s.registry) {
		s.send(cl, &errorEvent{Type: "error", Message: game.ErrPlayerAlreadyInGame.Error()})
		return
	}

	sess, err := s.registry.Create(name)
	if err != nil {
		s.send(cl, &errorEvent{Type: "error", Message: err.Error()})
		return
	}

	playerID := "player_" + uuid.ShortToken(s.cfg.UUIDGenerator, 9)
	if err := sess.AddPlayer(playerID, name); err != nil {
		s.send(cl, &errorEvent{Type: "error", Message: err.Error()})
		return
	}

	cl.playerName = name
	cl.inLobby = false
	s.directory.Bind(name, sess.ID(), playerID, cl)

	s.send(cl, &gameCreatedEvent{
		Type:          "gameCreated",
		GameID:        sess.ID(),
		PlayerID:      playerID,
		PlayerName:    name,
		State:         sess.State(),
		OnlinePlayers: s.onlinePlayersLocked(),
	})

	s.broadcastLobbyLocked()
}

func (s *Server) handleJoinGame(cl *client, req *request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := req.PlayerName
	if name == "" {
		name = cl.playerName
	}
	if name == "" {
		s.send(cl, &errorEvent{Type: "error", Message: game.ErrNameRequired.Error()})
		return
	}

	sess := s.registry.Get(req.GameID)
	if sess == nil {
		s.send(cl, &errorEvent{Type: "error", Message: game.ErrGameNotFound.Error()})
		return
	}

	// Rejoining one's own game rebinds the existing seat; holding a seat
	// anywhere else blocks the join.
	if !sess.HasPlayer(name) && s.directory.IsNameActive(name, s.registry) {
		s.send(cl, &errorEvent{Type: "error", Message: game.ErrPlayerAlreadyInGame.Error()})
		return
	}

	playerID := "player_" + uuid.ShortToken(s.cfg.UUIDGenerator, 9)
	if err := sess.AddPlayer(playerID, name); err != nil {
		s.send(cl, &errorEvent{Type: "error", Message: err.Error()})
		return
	}

	cl.playerName = name
	cl.inLobby = false
	s.directory.Bind(name, sess.ID(), playerID, cl)

	s.send(cl, &joinedGameEvent{
		Type:       "joinedGame",
		GameID:     sess.ID(),
		PlayerID:   playerID,
		PlayerName: name,
		State:      sess.State(),
	})

	if sess.Started() {
		first := sess.CurrentPlayer()
		s.broadcastToGameLocked(sess, &gameStartedEvent{
			Type:    "gameStarted",
			State:   sess.State(),
			Message: fmt.Sprintf("🎲 First player chosen at random: %s", first.Name),
		})
	}

	s.broadcastLobbyLocked()
}

func (s *Server) handleShoot(cl *client, req *request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	binding, ok := s.directory.Lookup(cl.playerName)
	if !ok {
		return
	}

	sess := s.registry.Get(binding.GameID)
	if sess == nil || sess.Finished() {
		return
	}

	s.directory.Touch(cl.playerName)

	isSelfShot := req.TargetID == binding.PlayerID
	result, err := sess.Shoot(req.TargetID, isSelfShot)
	if err != nil {
		s.send(cl, &errorEvent{Type: "error", Message: err.Error()})
		return
	}
	if result == nil {
		return
	}

	s.broadcastToGameLocked(sess, &shotResultEvent{
		Type:   "shotResult",
		Result: result,
		State:  sess.State(),
	})

	if result.GameOver {
		s.scheduleReclaim(sess.ID())
	}
}

func (s *Server) handleLeaveGame(cl *client) {
	s.mu.Lock()
	s.leaveLocked(cl)
	s.mu.Unlock()

	s.send(cl, &leftGameEvent{Type: "leftGame", Message: "You left the game"})
}

// handleClientGone runs the disconnect path when a connection drops. A
// stale connection that was already superseded by a reconnect must not
// tear down the new binding.
func (s *Server) handleClientGone(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, cl.id)

	if cl.playerName == "" {
		return
	}
	if binding, ok := s.directory.Lookup(cl.playerName); !ok || binding.Conn != game.Sink(cl) {
		return
	}

	s.leaveLocked(cl)
}

// leaveLocked removes the client's player from their session: the
// disconnect-elimination path while the game runs, a plain removal before
// it starts.
func (s *Server) leaveLocked(cl *client) {
	name := cl.playerName
	binding, ok := s.directory.Lookup(name)
	if !ok {
		return
	}

	if sess := s.registry.Get(binding.GameID); sess != nil {
		if sess.Started() && !sess.Finished() {
			if result := sess.HandleDisconnect(name); result != nil {
				s.broadcastToGameLocked(sess, &shotResultEvent{
					Type:   "shotResult",
					Result: result,
					State:  sess.State(),
				})
				s.scheduleReclaim(sess.ID())
			}
		} else {
			sess.RemovePlayer(name)
			s.broadcastToGameLocked(sess, &stateUpdateEvent{
				Type:  "stateUpdate",
				State: sess.State(),
			})
		}
	}

	s.directory.Unbind(name)
	s.registry.SweepEmpty()
	s.broadcastLobbyLocked()
}

// onTurnTimeout is installed on every session's timer. It re-enters the
// coordinator lock, so a timeout that lost the race to an action resolves
// as a stale-generation no-op inside the session.
func (s *Server) onTurnTimeout(gameID string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.registry.Get(gameID)
	if sess == nil {
		return
	}

	ev := sess.HandleTurnTimeout(gen)
	if ev == nil {
		return
	}

	s.broadcastToGameLocked(sess, &turnTimeoutEvent{
		Type:    "turnTimeout",
		Message: ev.Message,
		State:   sess.State(),
	})
}

// scheduleReclaim removes a finished game after the grace delay so
// clients can render the outcome before the lobby reclaims the slot.
func (s *Server) scheduleReclaim(gameID string) {
	time.AfterFunc(s.cfg.ReclaimDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.registry.Remove(gameID)
		s.broadcastLobbyLocked()
	})
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			stale := s.directory.SweepStale(s.cfg.StaleAfter)
			empty := s.registry.SweepEmpty()
			s.mu.Unlock()
			if stale > 0 || empty > 0 {
				log.Printf("sweep: evicted %d stale bindings, removed %d empty games", stale, empty)
			}
		}
	}
}

func (s *Server) timerLoop() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			for _, sess := range s.registry.Active() {
				if !sess.Started() || sess.Finished() {
					continue
				}
				s.broadcastToGameLocked(sess, &timerUpdateEvent{
					Type:          "timerUpdate",
					RemainingTime: sess.RemainingTime(),
				})
			}
			s.mu.Unlock()
		}
	}
}

// broadcastToGameLocked pushes an event to every participant of one
// session; players whose binding is gone are skipped.
func (s *Server) broadcastToGameLocked(sess *game.Session, v interface{}) {
	for _, p := range sess.Players() {
		binding, ok := s.directory.Lookup(p.Name)
		if !ok || binding.Conn == nil {
			continue
		}
		if err := binding.Conn.Send(v); err != nil {
			log.Printf("send to player %s failed: %v", p.ID, err)
		}
	}
}

// broadcastLobbyLocked pushes the joinable-game list to every connection
// currently watching the lobby.
func (s *Server) broadcastLobbyLocked() {
	ev := &lobbyUpdateEvent{
		Type:          "lobbyUpdate",
		Games:         s.registry.Joinable(),
		OnlinePlayers: s.onlinePlayersLocked(),
	}

	for _, cl := range s.clients {
		if !cl.inLobby {
			continue
		}
		if err := cl.Send(ev); err != nil {
			log.Printf("lobby update to %s failed: %v", cl.id, err)
		}
	}
}

// onlinePlayersLocked builds the roster of named connections, flagging
// the ones currently inside an active game.
func (s *Server) onlinePlayersLocked() []*models.OnlinePlayer {
	inGame := make(map[string]bool)
	for _, sess := range s.registry.Active() {
		for _, p := range sess.Players() {
			inGame[p.Name] = true
		}
	}

	online := make([]*models.OnlinePlayer, 0, len(s.clients))
	for _, cl := range s.clients {
		if cl.playerName == "" {
			continue
		}
		online = append(online, &models.OnlinePlayer{
			Name:   cl.playerName,
			InGame: inGame[cl.playerName],
		})
	}
	return online
}

func (s *Server) send(cl *client, v interface{}) {
	if err := cl.Send(v); err != nil {
		log.Printf("send to %s failed: %v", cl.id, err)
	}
}

func (s *Server) sendError(cl *client, msg string) {
	s.send(cl, &errorEvent{Type: "error", Message: msg})
}
