package game

// Error is a game-domain error
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrGameNotFound        Error = "game not found"
	ErrGameFull            Error = "cannot join - game is full or finished"
	ErrInvalidTarget       Error = "invalid target"
	ErrPlayerAlreadyInGame Error = "player is already in a game"
	ErrNameRequired        Error = "player name is required"
	ErrMalformedMessage    Error = "malformed message"
	ErrNilConfig           Error = "config cannot be nil"
	ErrNilClock            Error = "clock cannot be nil"
	ErrNilSpinner          Error = "spinner cannot be nil"
	ErrNilUUIDGenerator    Error = "UUID generator cannot be nil"
)
