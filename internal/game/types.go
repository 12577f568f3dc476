package game

import (
	"time"

	"github.com/pkalinn/revolver/internal/chamber"
	"github.com/pkalinn/revolver/internal/common/clock"
	"github.com/pkalinn/revolver/internal/common/uuid"
)

const (
	// MaxPlayers is the session capacity
	MaxPlayers = 2

	// DefaultTurnTimeout is the per-turn budget
	DefaultTurnTimeout = 10 * time.Second
)

// TimeoutFunc is invoked by an expired turn timer. It runs on a timer
// goroutine; implementations must funnel the call back into the single
// serialization point before touching any session.
type TimeoutFunc func(gameID string, gen uint64)

// Config holds the dependencies a session needs
type Config struct {
	// Clock provides wall-clock reads for turn deadlines
	Clock clock.Clock

	// Spinner draws the lethal slot and the first turn holder
	Spinner chamber.Spinner

	// TurnTimeout is the per-turn budget; zero means DefaultTurnTimeout
	TurnTimeout time.Duration

	// OnTimeout is called when a turn timer expires. Nil disables timers,
	// which is how the stateless transport runs sessions.
	OnTimeout TimeoutFunc
}

func (c *Config) validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Clock == nil {
		return ErrNilClock
	}
	if c.Spinner == nil {
		return ErrNilSpinner
	}
	return nil
}

func (c *Config) turnTimeout() time.Duration {
	if c.TurnTimeout > 0 {
		return c.TurnTimeout
	}
	return DefaultTurnTimeout
}

// TimeoutEvent is produced when a turn expires. A skipped turn is not an
// action: the chamber position does not move.
type TimeoutEvent struct {
	// SkippedID is the id of the player who lost the turn
	SkippedID string

	// SkippedName is the display name of the player who lost the turn
	SkippedName string

	// Message is the human-readable notification
	Message string
}

// RegistryConfig holds the dependencies for a session registry
type RegistryConfig struct {
	// Session is the per-session dependency set handed to every game
	Session *Config

	// UUIDGenerator allocates game identifiers
	UUIDGenerator uuid.UUID
}
