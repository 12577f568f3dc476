package ws

import "github.com/pkalinn/revolver/internal/models"

// request is the single inbound message shape; Type selects which of the
// remaining fields matter.
type request struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
}

type connectedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type noActiveGameEvent struct {
	Type string `json:"type"`
}

type hasActiveGameEvent struct {
	Type          string                 `json:"type"`
	GameID        string                 `json:"gameId"`
	GameStarted   bool                   `json:"gameStarted"`
	PlayerID      string                 `json:"playerId"`
	OnlinePlayers []*models.OnlinePlayer `json:"onlinePlayers"`
}

type lobbyUpdateEvent struct {
	Type          string                 `json:"type"`
	Games         []*models.LobbyInfo    `json:"games"`
	OnlinePlayers []*models.OnlinePlayer `json:"onlinePlayers"`
}

type gameCreatedEvent struct {
	Type          string                 `json:"type"`
	GameID        string                 `json:"gameId"`
	PlayerID      string                 `json:"playerId"`
	PlayerName    string                 `json:"playerName"`
	State         *models.GameState      `json:"state"`
	OnlinePlayers []*models.OnlinePlayer `json:"onlinePlayers"`
}

type joinedGameEvent struct {
	Type       string            `json:"type"`
	GameID     string            `json:"gameId"`
	PlayerID   string            `json:"playerId"`
	PlayerName string            `json:"playerName"`
	State      *models.GameState `json:"state"`
}

type gameStartedEvent struct {
	Type    string            `json:"type"`
	State   *models.GameState `json:"state"`
	Message string            `json:"message"`
}

type shotResultEvent struct {
	Type   string             `json:"type"`
	Result *models.ShotResult `json:"result"`
	State  *models.GameState  `json:"state"`
}

type stateUpdateEvent struct {
	Type  string            `json:"type"`
	State *models.GameState `json:"state"`
}

type turnTimeoutEvent struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	State   *models.GameState `json:"state"`
}

type timerUpdateEvent struct {
	Type          string `json:"type"`
	RemainingTime int    `json:"remainingTime"`
}

type leftGameEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongEvent struct {
	Type string `json:"type"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
