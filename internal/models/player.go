package models

// Player represents a participant bound to a game session
type Player struct {
	// ID is the server-assigned player identifier, unique per connection
	ID string `json:"id"`

	// Name is the display name the player announced
	Name string `json:"name"`

	// Alive is false once the player has been eliminated
	Alive bool `json:"alive"`
}

// OnlinePlayer is one entry of the connected-player roster sent with
// lobby updates.
type OnlinePlayer struct {
	// Name is the player's display name
	Name string `json:"name"`

	// InGame is true when the player is currently inside an active game
	InGame bool `json:"inGame"`
}
