package chamber

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_spinner.go github.com/pkalinn/revolver/internal/chamber Spinner

// Slots is the number of chamber positions in the cylinder
const Slots = 6

// Spinner provides the one-shot random draws a session makes at creation
// and start: the lethal chamber slot and the first turn holder.
type Spinner interface {
	// LethalSlot picks the chamber position holding the round, in [0, Slots)
	LethalSlot() int

	// FirstTurn picks which of n players takes the opening turn, in [0, n)
	FirstTurn(n int) int
}

// Config for the random spinner
type Config struct {
	// Optional seed for testing
	Seed int64
}

// RandomSpinner implements Spinner backed by math/rand
type RandomSpinner struct {
	random *rand.Rand
}

// New creates a new random spinner
func New(cfg *Config) *RandomSpinner {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &RandomSpinner{
		random: rand.New(rand.NewSource(seed)),
	}
}

// LethalSlot picks a chamber position uniformly
func (s *RandomSpinner) LethalSlot() int {
	return s.random.Intn(Slots)
}

// FirstTurn picks the opening turn holder uniformly
func (s *RandomSpinner) FirstTurn(n int) int {
	if n < 1 {
		return 0
	}
	return s.random.Intn(n)
}
