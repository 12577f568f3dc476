package game

import (
	"fmt"
	"time"

	"github.com/pkalinn/revolver/internal/chamber"
	"github.com/pkalinn/revolver/internal/models"
)

// Session owns the turn state machine for exactly one game. It holds no
// locks of its own: every mutation, including timer callbacks, must be
// funnelled through the caller's single serialization point.
type Session struct {
	id          string
	creatorName string
	createdAt   time.Time

	players      []*models.Player
	currentIndex int

	// lethalSlot is drawn once at creation and never reshuffled; the
	// outcome of every shot is fully determined by its distance from
	// chamberPos.
	lethalSlot   int
	chamberPos   int
	started      bool
	finished     bool
	lastShotSelf bool

	turnStart time.Time
	timer     *time.Timer
	timerGen  uint64

	cfg *Config
}

// NewSession creates an open one-slot session for the given creator
func NewSession(id, creatorName string, cfg *Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:          id,
		creatorName: creatorName,
		createdAt:   cfg.Clock.Now(),
		players:     make([]*models.Player, 0, MaxPlayers),
		lethalSlot:  cfg.Spinner.LethalSlot(),
		cfg:         cfg,
	}, nil
}

// Restore rebuilds a session from a stored record. Restored sessions never
// arm timers; the stateless transport resolves turns only on request.
func Restore(rec *models.GameRecord, cfg *Config) (*Session, error) {
	if rec == nil {
		return nil, ErrGameNotFound
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	players := make([]*models.Player, len(rec.Players))
	for i, p := range rec.Players {
		cp := *p
		players[i] = &cp
	}

	return &Session{
		id:           rec.ID,
		creatorName:  rec.CreatorName,
		createdAt:    rec.CreatedAt,
		players:      players,
		currentIndex: rec.CurrentIndex,
		lethalSlot:   rec.LethalSlot,
		chamberPos:   rec.ChamberPosition,
		started:      rec.Started,
		finished:     rec.Finished,
		lastShotSelf: rec.LastShotSelf,
		turnStart:    rec.TurnStartedAt,
		cfg:          &Config{Clock: cfg.Clock, Spinner: cfg.Spinner, TurnTimeout: cfg.TurnTimeout},
	}, nil
}

// Snapshot captures the session's state as a storable record
func (s *Session) Snapshot() *models.GameRecord {
	players := make([]*models.Player, len(s.players))
	for i, p := range s.players {
		cp := *p
		players[i] = &cp
	}

	return &models.GameRecord{
		ID:              s.id,
		CreatorName:     s.creatorName,
		CreatedAt:       s.createdAt,
		Players:         players,
		CurrentIndex:    s.currentIndex,
		LethalSlot:      s.lethalSlot,
		ChamberPosition: s.chamberPos,
		Started:         s.started,
		Finished:        s.finished,
		LastShotSelf:    s.lastShotSelf,
		TurnStartedAt:   s.turnStart,
	}
}

// ID returns the game identifier
func (s *Session) ID() string { return s.id }

// CreatorName returns the display name of the creating player
func (s *Session) CreatorName() string { return s.creatorName }

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Started reports whether the second player has joined
func (s *Session) Started() bool { return s.started }

// Finished reports whether the session reached its terminal state
func (s *Session) Finished() bool { return s.finished }

// PlayerCount returns the number of participants, alive or not
func (s *Session) PlayerCount() int { return len(s.players) }

// IsFull reports whether the session is at capacity
func (s *Session) IsFull() bool { return len(s.players) >= MaxPlayers }

// HasPlayer reports whether a participant with the given name is in the session
func (s *Session) HasPlayer(name string) bool {
	return s.findByName(name) != nil
}

// PlayerID returns the participant id bound to a display name
func (s *Session) PlayerID(name string) (string, bool) {
	if p := s.findByName(name); p != nil {
		return p.ID, true
	}
	return "", false
}

// Players returns the participant list for read-only iteration
func (s *Session) Players() []*models.Player {
	out := make([]*models.Player, len(s.players))
	copy(out, s.players)
	return out
}

// CurrentPlayer returns the turn holder, or nil when the session is empty
func (s *Session) CurrentPlayer() *models.Player {
	if len(s.players) == 0 {
		return nil
	}
	return s.players[s.currentIndex]
}

// AddPlayer adds a participant, or rebinds an existing one under the same
// name to a fresh participant id on reconnect. Adding the second player
// starts the game: the first turn holder is drawn and the timer armed.
func (s *Session) AddPlayer(playerID, name string) error {
	if existing := s.findByName(name); existing != nil {
		existing.ID = playerID
		return nil
	}

	if s.finished || s.IsFull() {
		return ErrGameFull
	}

	s.players = append(s.players, &models.Player{
		ID:    playerID,
		Name:  name,
		Alive: true,
	})

	if len(s.players) >= MaxPlayers && !s.started {
		s.started = true
		s.currentIndex = s.cfg.Spinner.FirstTurn(len(s.players))
		s.armTimer()
	}

	return nil
}

// RemovePlayer removes a participant by name. This is the pre-start path;
// leaving an active game goes through HandleDisconnect instead.
func (s *Session) RemovePlayer(name string) bool {
	for i, p := range s.players {
		if p.Name != name {
			continue
		}
		s.players = append(s.players[:i], s.players[i+1:]...)
		if i == s.currentIndex && len(s.players) > 0 {
			s.currentIndex = s.currentIndex % len(s.players)
		}
		return true
	}
	return false
}

// HandleDisconnect marks a participant dead when they drop out of an
// active game. The player stays in the list so the outcome message can
// still name them. Returns the terminal result, or nil when the game
// somehow continues.
func (s *Session) HandleDisconnect(name string) *models.ShotResult {
	if s.finished {
		return nil
	}

	quitter := s.findByName(name)
	if quitter == nil {
		return nil
	}

	quitter.Alive = false
	s.cancelTimer()

	alive := s.alivePlayers()

	if len(alive) == 1 {
		s.finished = true
		winner := alive[0]
		return &models.ShotResult{
			Disconnected: true,
			Killed:       quitter.ID,
			KilledName:   quitter.Name,
			Winner:       winner.ID,
			WinnerName:   winner.Name,
			GameOver:     true,
			Message:      fmt.Sprintf("🏃 %s left the game. %s wins!", quitter.Name, winner.Name),
		}
	}

	if len(alive) == 0 {
		s.finished = true
		return &models.ShotResult{
			Disconnected: true,
			GameOver:     true,
			Message:      "All players left the game",
		}
	}

	return nil
}

// Shoot resolves one action against the target. A finished session
// swallows the call; an unknown or already-dead target is rejected before
// the chamber moves.
func (s *Session) Shoot(targetID string, isSelfShot bool) (*models.ShotResult, error) {
	if s.finished {
		return nil, nil
	}

	var target *models.Player
	if isSelfShot {
		target = s.CurrentPlayer()
	} else {
		target = s.findByID(targetID)
	}

	if target == nil || !target.Alive {
		return nil, ErrInvalidTarget
	}

	// The acting player has moved; the pending timeout is dead either way.
	s.cancelTimer()

	hit := s.chamberPos == s.lethalSlot
	s.chamberPos = (s.chamberPos + 1) % chamber.Slots

	if hit {
		target.Alive = false

		alive := s.alivePlayers()
		if len(alive) <= 1 {
			s.finished = true
			result := &models.ShotResult{
				Shot:       true,
				Hit:        true,
				IsSelfShot: isSelfShot,
				Killed:     target.ID,
				KilledName: target.Name,
				GameOver:   true,
				Message:    fmt.Sprintf("💥 Bang! %s is out.", target.Name),
			}
			if len(alive) == 1 {
				result.Winner = alive[0].ID
				result.WinnerName = alive[0].Name
				result.Message = fmt.Sprintf("💥 Bang! %s is out. %s wins!", target.Name, alive[0].Name)
			}
			return result, nil
		}
	}

	s.advanceTurn(isSelfShot, hit)

	if !s.finished {
		s.armTimer()
	}

	current := s.CurrentPlayer()
	result := &models.ShotResult{
		Shot:       true,
		Hit:        hit,
		IsSelfShot: isSelfShot,
		GameOver:   s.finished,
		Message:    shotMessage(hit, isSelfShot),
	}
	if current != nil {
		result.CurrentPlayer = current.ID
		result.CurrentPlayerName = current.Name
	}
	return result, nil
}

// HandleTurnTimeout skips the current turn when the timer for generation
// gen is still the live one. A stale generation means an action resolved
// while the timeout was in flight; it must change nothing.
func (s *Session) HandleTurnTimeout(gen uint64) *TimeoutEvent {
	if s.finished || gen != s.timerGen {
		return nil
	}

	skipped := s.CurrentPlayer()
	if skipped == nil {
		return nil
	}

	// A skipped turn is not an action: the chamber does not move.
	s.moveToNextAlive()
	s.armTimer()

	return &TimeoutEvent{
		SkippedID:   skipped.ID,
		SkippedName: skipped.Name,
		Message:     fmt.Sprintf("⏰ Time's up! %s skipped their turn.", skipped.Name),
	}
}

// RemainingTime returns the seconds left in the current turn, zero once
// the session is finished or no turn is running.
func (s *Session) RemainingTime() int {
	if s.turnStart.IsZero() || s.finished {
		return 0
	}

	remaining := s.cfg.turnTimeout() - s.cfg.Clock.Now().Sub(s.turnStart)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// State builds the full projection pushed to the game's own players
func (s *Session) State() *models.GameState {
	state := &models.GameState{
		Players:       s.Players(),
		GameOver:      s.finished,
		GameStarted:   s.started,
		RoundNumber:   s.chamberPos + 1,
		LastShotSelf:  s.lastShotSelf,
		RemainingTime: s.RemainingTime(),
	}
	if current := s.CurrentPlayer(); current != nil {
		state.CurrentPlayer = current.ID
		state.CurrentPlayerName = current.Name
	}
	return state
}

// LobbyInfo builds the lobby-safe summary, omitting turn internals
func (s *Session) LobbyInfo() *models.LobbyInfo {
	names := make([]string, len(s.players))
	for i, p := range s.players {
		names[i] = p.Name
	}

	return &models.LobbyInfo{
		GameID:      s.id,
		CreatorName: s.creatorName,
		Players:     names,
		PlayerCount: len(s.players),
		MaxPlayers:  MaxPlayers,
		GameStarted: s.started,
		GameOver:    s.finished,
		CreatedAt:   s.createdAt,
	}
}

func (s *Session) findByName(name string) *models.Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *Session) findByID(id string) *models.Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) alivePlayers() []*models.Player {
	alive := make([]*models.Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// advanceTurn applies the continuation rule: a self-target miss keeps the
// turn, everything else passes it to the next alive player.
func (s *Session) advanceTurn(isSelfShot, hit bool) {
	if s.finished {
		return
	}

	if isSelfShot && !hit {
		s.lastShotSelf = true
		return
	}

	s.lastShotSelf = false
	s.moveToNextAlive()
}

// moveToNextAlive is a circular scan bounded by the participant count so
// it terminates even if nobody is alive.
func (s *Session) moveToNextAlive() {
	if len(s.players) == 0 {
		return
	}

	for attempts := 0; attempts <= len(s.players); attempts++ {
		s.currentIndex = (s.currentIndex + 1) % len(s.players)
		if s.players[s.currentIndex].Alive {
			return
		}
	}
}

// armTimer starts the turn countdown, cancelling any previous handle
// first. The generation counter makes a timeout that already fired but
// lost the race detectably stale.
func (s *Session) armTimer() {
	s.cancelTimer()
	s.turnStart = s.cfg.Clock.Now()
	s.timerGen++

	if s.cfg.OnTimeout == nil {
		return
	}

	gen := s.timerGen
	s.timer = time.AfterFunc(s.cfg.turnTimeout(), func() {
		s.cfg.OnTimeout(s.id, gen)
	})
}

func (s *Session) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.turnStart = time.Time{}
}

func shotMessage(hit, isSelfShot bool) string {
	if hit {
		return "💥 Bang! The shot was lethal!"
	}
	if isSelfShot {
		return "🔫 Click... Empty chamber. You shoot again!"
	}
	return "🔫 Click... Empty chamber. The turn passes to your opponent!"
}
