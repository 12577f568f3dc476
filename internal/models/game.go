package models

import (
	"time"
)

// GameState is the full per-game projection pushed to the game's own
// players. Field names match the wire protocol.
type GameState struct {
	// Players lists every participant that joined, with alive flags
	Players []*Player `json:"players"`

	// CurrentPlayer is the id of the turn holder, empty once nobody holds it
	CurrentPlayer string `json:"currentPlayer"`

	// CurrentPlayerName is the display name of the turn holder
	CurrentPlayerName string `json:"currentPlayerName"`

	// GameOver is true once the game reached its terminal state
	GameOver bool `json:"gameOver"`

	// GameStarted is true once the second player joined
	GameStarted bool `json:"gameStarted"`

	// RoundNumber is the chamber position plus one
	RoundNumber int `json:"roundNumber"`

	// LastShotSelf is true when the previous action was a self-target miss
	LastShotSelf bool `json:"lastShotSelf"`

	// RemainingTime is the seconds left in the current turn
	RemainingTime int `json:"remainingTime"`
}

// LobbyInfo is the lobby-safe summary of a game, omitting turn internals
type LobbyInfo struct {
	// GameID is the game's identifier
	GameID string `json:"gameId"`

	// CreatorName is the display name of the player who created the game
	CreatorName string `json:"creatorName"`

	// Players lists the display names of everyone in the game
	Players []string `json:"players"`

	// PlayerCount is the current number of players
	PlayerCount int `json:"playerCount"`

	// MaxPlayers is the game's capacity
	MaxPlayers int `json:"maxPlayers"`

	// GameStarted is true once the second player joined
	GameStarted bool `json:"gameStarted"`

	// GameOver is true once the game reached its terminal state
	GameOver bool `json:"gameOver"`

	// CreatedAt is when the game was created
	CreatedAt time.Time `json:"createdAt"`
}

// ShotResult describes one resolved action, or the synthetic elimination
// produced when a player withdraws from an active game.
type ShotResult struct {
	// Shot is true when the result came from a trigger pull
	Shot bool `json:"shot"`

	// Hit is true when the chamber position matched the lethal slot
	Hit bool `json:"hit"`

	// IsSelfShot is true when the shooter targeted themselves
	IsSelfShot bool `json:"isSelfShot"`

	// Disconnected is true for the withdrawal-elimination variant
	Disconnected bool `json:"disconnected,omitempty"`

	// Killed is the id of the eliminated player, set on a hit or withdrawal
	Killed string `json:"killed,omitempty"`

	// KilledName is the display name of the eliminated player
	KilledName string `json:"killedName,omitempty"`

	// Winner is the id of the surviving player once the game ends
	Winner string `json:"winner,omitempty"`

	// WinnerName is the display name of the winner
	WinnerName string `json:"winnerName,omitempty"`

	// CurrentPlayer is the id of the next turn holder when play continues
	CurrentPlayer string `json:"currentPlayer,omitempty"`

	// CurrentPlayerName is the display name of the next turn holder
	CurrentPlayerName string `json:"currentPlayerName,omitempty"`

	// GameOver is true when this result ended the game
	GameOver bool `json:"gameOver"`

	// Message is the human-readable outcome description
	Message string `json:"message,omitempty"`
}

// GameRecord is the serializable snapshot of a session's state. The
// stateless transport round-trips these through the keyed store between
// requests; timers are not part of the record.
type GameRecord struct {
	// ID is the game's identifier
	ID string

	// CreatorName is the display name of the creating player
	CreatorName string

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// Players is the ordered participant list
	Players []*Player

	// CurrentIndex is the index of the turn holder
	CurrentIndex int

	// LethalSlot is the chamber position that eliminates on match
	LethalSlot int

	// ChamberPosition is the counter compared against LethalSlot, 0..5
	ChamberPosition int

	// Started is true once the second player joined
	Started bool

	// Finished is true once the game reached its terminal state
	Finished bool

	// LastShotSelf is true when the previous action was a self-target miss
	LastShotSelf bool

	// TurnStartedAt is when the current turn began, zero when no turn runs
	TurnStartedAt time.Time
}
