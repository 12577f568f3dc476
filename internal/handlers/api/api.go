// Package api is the stateless request/response transport: one HTTP call
// per action, game state round-tripped through the keyed store between
// requests. It shares the session rules with the realtime transport but
// runs them without push timers or lobby broadcast.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pkalinn/revolver/internal/chamber"
	"github.com/pkalinn/revolver/internal/common/clock"
	"github.com/pkalinn/revolver/internal/common/uuid"
	"github.com/pkalinn/revolver/internal/game"
	gameRepo "github.com/pkalinn/revolver/internal/repositories/game"
)

// Config holds the configuration for the stateless transport
type Config struct {
	// Repo is the keyed store game snapshots live in between requests
	Repo gameRepo.Repository

	// Clock provides wall-clock reads
	Clock clock.Clock

	// Spinner draws lethal slots and first turns for new games
	Spinner chamber.Spinner

	// UUIDGenerator allocates game and player identifiers
	UUIDGenerator uuid.UUID

	// TurnTimeout is the per-turn budget used for remaining-time
	// projections; this transport never enforces it
	TurnTimeout time.Duration
}

// Handler serves the stateless game API
type Handler struct {
	cfg *Config
}

// New creates a new stateless transport handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, game.ErrNilConfig
	}
	if cfg.Repo == nil {
		return nil, errors.New("repository cannot be nil")
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

	return &Handler{cfg: cfg}, nil
}

// Register mounts the game routes on a router group
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/games", h.CreateGame)
	rg.GET("/games", h.ListGames)
	rg.GET("/games/:id", h.GetGame)
	rg.POST("/games/:id/join", h.JoinGame)
	rg.POST("/games/:id/shoot", h.Shoot)
	rg.POST("/games/:id/leave", h.LeaveGame)
}

// sessionConfig builds the engine dependencies for one request. OnTimeout
// stays nil: restored sessions never arm timers.
func (h *Handler) sessionConfig() *game.Config {
	return &game.Config{
		Clock:       h.cfg.Clock,
		Spinner:     h.cfg.Spinner,
		TurnTimeout: h.cfg.TurnTimeout,
	}
}

type createGameRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

type joinGameRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

type shootRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

type leaveGameRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

// CreateGame handles game creation requests
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "error", nil, game.ErrMalformedMessage.Error())
		return
	}

	if h.nameActive(c, req.PlayerName) {
		respond(c, http.StatusConflict, "error", nil, game.ErrPlayerAlreadyInGame.Error())
		return
	}

	sess, err := game.NewSession(uuid.ShortToken(h.cfg.UUIDGenerator, 9), req.PlayerName, h.sessionConfig())
	if err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	playerID := "player_" + uuid.ShortToken(h.cfg.UUIDGenerator, 9)
	if err := sess.AddPlayer(playerID, req.PlayerName); err != nil {
		respond(c, http.StatusConflict, "error", nil, err.Error())
		return
	}

	if err := h.cfg.Repo.SaveGame(c.Request.Context(), &gameRepo.SaveGameInput{Record: sess.Snapshot()}); err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	respond(c, http.StatusCreated, "success", gin.H{
		"gameId":     sess.ID(),
		"playerId":   playerID,
		"playerName": req.PlayerName,
		"state":      sess.State(),
	}, "")
}

// ListGames handles lobby listing requests
func (h *Handler) ListGames(c *gin.Context) {
	out, err := h.cfg.Repo.GetActiveGames(c.Request.Context(), &gameRepo.GetActiveGamesInput{})
	if err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	games := make([]interface{}, 0, len(out.Records))
	for _, rec := range out.Records {
		sess, err := game.Restore(rec, h.sessionConfig())
		if err != nil {
			continue
		}
		games = append(games, sess.LobbyInfo())
	}

	respond(c, http.StatusOK, "success", gin.H{"games": games}, "")
}

// GetGame handles state polling requests
func (h *Handler) GetGame(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	respond(c, http.StatusOK, "success", gin.H{"state": sess.State()}, "")
}

// JoinGame handles join requests
func (h *Handler) JoinGame(c *gin.Context) {
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "error", nil, game.ErrMalformedMessage.Error())
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	if !sess.HasPlayer(req.PlayerName) && h.nameActive(c, req.PlayerName) {
		respond(c, http.StatusConflict, "error", nil, game.ErrPlayerAlreadyInGame.Error())
		return
	}

	playerID := "player_" + uuid.ShortToken(h.cfg.UUIDGenerator, 9)
	if err := sess.AddPlayer(playerID, req.PlayerName); err != nil {
		respond(c, http.StatusConflict, "error", nil, err.Error())
		return
	}

	if err := h.cfg.Repo.SaveGame(c.Request.Context(), &gameRepo.SaveGameInput{Record: sess.Snapshot()}); err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	respond(c, http.StatusOK, "success", gin.H{
		"gameId":     sess.ID(),
		"playerId":   playerID,
		"playerName": req.PlayerName,
		"state":      sess.State(),
	}, "")
}

// Shoot handles action resolution requests
func (h *Handler) Shoot(c *gin.Context) {
	var req shootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "error", nil, game.ErrMalformedMessage.Error())
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	result, err := sess.Shoot(req.TargetID, req.TargetID == req.PlayerID)
	if err != nil {
		respond(c, http.StatusBadRequest, "error", nil, err.Error())
		return
	}
	if result == nil {
		// Already finished; nothing moved.
		respond(c, http.StatusOK, "success", gin.H{"state": sess.State()}, "")
		return
	}

	if err := h.cfg.Repo.SaveGame(c.Request.Context(), &gameRepo.SaveGameInput{Record: sess.Snapshot()}); err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	respond(c, http.StatusOK, "success", gin.H{
		"result": result,
		"state":  sess.State(),
	}, "")
}

// LeaveGame handles leave requests: the disconnect-elimination path while
// the game runs, a plain removal before it starts.
func (h *Handler) LeaveGame(c *gin.Context) {
	var req leaveGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "error", nil, game.ErrMalformedMessage.Error())
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if sess.Started() && !sess.Finished() {
		result := sess.HandleDisconnect(req.PlayerName)
		if err := h.cfg.Repo.SaveGame(ctx, &gameRepo.SaveGameInput{Record: sess.Snapshot()}); err != nil {
			respond(c, http.StatusInternalServerError, "error", nil, err.Error())
			return
		}
		if err := h.cfg.Repo.UnbindPlayer(ctx, &gameRepo.UnbindPlayerInput{PlayerName: req.PlayerName}); err != nil {
			respond(c, http.StatusInternalServerError, "error", nil, err.Error())
			return
		}

		respond(c, http.StatusOK, "success", gin.H{
			"result": result,
			"state":  sess.State(),
		}, "")
		return
	}

	sess.RemovePlayer(req.PlayerName)

	var err error
	if sess.PlayerCount() == 0 {
		err = h.cfg.Repo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: sess.ID()})
	} else {
		err = h.cfg.Repo.SaveGame(ctx, &gameRepo.SaveGameInput{Record: sess.Snapshot()})
	}
	if err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	if err := h.cfg.Repo.UnbindPlayer(ctx, &gameRepo.UnbindPlayerInput{PlayerName: req.PlayerName}); err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	respond(c, http.StatusOK, "success", gin.H{"message": "You left the game"}, "")
}

// loadSession restores the session named by the :id route param,
// answering 404 when the store has no record of it.
func (h *Handler) loadSession(c *gin.Context) (*game.Session, bool) {
	out, err := h.cfg.Repo.GetGame(c.Request.Context(), &gameRepo.GetGameInput{GameID: c.Param("id")})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			respond(c, http.StatusNotFound, "error", nil, game.ErrGameNotFound.Error())
		} else {
			respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		}
		return nil, false
	}

	sess, err := game.Restore(out.Record, h.sessionConfig())
	if err != nil {
		respond(c, http.StatusInternalServerError, "error", nil, err.Error())
		return nil, false
	}
	return sess, true
}

// nameActive reports whether the name already holds a seat in some
// non-finished game.
func (h *Handler) nameActive(c *gin.Context, name string) bool {
	out, err := h.cfg.Repo.GetGameByPlayer(c.Request.Context(), &gameRepo.GetGameByPlayerInput{PlayerName: name})
	if err != nil {
		return false
	}

	if out.Record.Finished {
		return false
	}
	for _, p := range out.Record.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// respond sends a consistent JSON response
func respond(c *gin.Context, code int, status string, data interface{}, errMsg string) {
	body := gin.H{"status": status}
	if data != nil {
		body["data"] = data
	}
	if errMsg != "" {
		body["error"] = errMsg
	}
	c.JSON(code, body)
}
