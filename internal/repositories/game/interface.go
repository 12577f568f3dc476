package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pkalinn/revolver/internal/repositories/game Repository

import (
	"context"
)

// Repository defines the keyed store the stateless transport round-trips
// game snapshots through between requests.
type Repository interface {
	// SaveGame persists a game snapshot
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game snapshot by ID
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameByPlayer retrieves the game snapshot a player name is bound to
	GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*GetGameOutput, error)

	// DeleteGame removes a game snapshot and its player bindings
	DeleteGame(ctx context.Context, input *DeleteGameInput) error

	// UnbindPlayer removes a player-name binding without touching the game
	UnbindPlayer(ctx context.Context, input *UnbindPlayerInput) error

	// GetActiveGames retrieves all non-finished game snapshots, newest first
	GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error)
}
