package game

import (
	"time"

	"github.com/pkalinn/revolver/internal/common/clock"
)

// Sink is an opaque outbound event channel. The realtime transport's
// connections implement it; the directory never inspects what it holds.
type Sink interface {
	Send(v interface{}) error
}

// Binding records where a display name currently lives: which game, under
// which participant id, and over which connection.
type Binding struct {
	// GameID is the session the name is bound to
	GameID string

	// PlayerID is the participant id inside that session
	PlayerID string

	// Conn is the connection to deliver events through
	Conn Sink

	// LastActive is when the binding was last used
	LastActive time.Time
}

// Directory maps display names to their session and connection bindings.
// One active session per display name; mutation is serialized by the
// caller.
type Directory struct {
	clock    clock.Clock
	bindings map[string]*Binding
}

// NewDirectory creates a new participant directory
func NewDirectory(clk clock.Clock) (*Directory, error) {
	if clk == nil {
		return nil, ErrNilClock
	}

	return &Directory{
		clock:    clk,
		bindings: make(map[string]*Binding),
	}, nil
}

// Bind creates or replaces the binding for a name. Replacing is what lets
// a client reconnect under the same name and resume its game.
func (d *Directory) Bind(name, gameID, playerID string, conn Sink) {
	d.bindings[name] = &Binding{
		GameID:     gameID,
		PlayerID:   playerID,
		Conn:       conn,
		LastActive: d.clock.Now(),
	}
}

// Rebind swaps the connection on an existing binding, keeping the game
// and participant ids. Returns false when the name has no binding.
func (d *Directory) Rebind(name string, conn Sink) bool {
	b, ok := d.bindings[name]
	if !ok {
		return false
	}
	b.Conn = conn
	b.LastActive = d.clock.Now()
	return true
}

// Unbind removes the binding for a name
func (d *Directory) Unbind(name string) {
	delete(d.bindings, name)
}

// Lookup returns the binding for a name
func (d *Directory) Lookup(name string) (*Binding, bool) {
	b, ok := d.bindings[name]
	return b, ok
}

// Touch refreshes a binding's last-active timestamp
func (d *Directory) Touch(name string) {
	if b, ok := d.bindings[name]; ok {
		b.LastActive = d.clock.Now()
	}
}

// IsNameActive reports whether the name is participating in a session
// that has not finished. Used to block duplicate creates and joins.
func (d *Directory) IsNameActive(name string, reg *Registry) bool {
	sess, _, ok := reg.FindByPlayer(name)
	return ok && !sess.Finished()
}

// SweepStale evicts bindings idle past maxIdle. It does not touch the
// sessions themselves. Returns how many entries were dropped.
func (d *Directory) SweepStale(maxIdle time.Duration) int {
	now := d.clock.Now()
	removed := 0
	for name, b := range d.bindings {
		if now.Sub(b.LastActive) > maxIdle {
			delete(d.bindings, name)
			removed++
		}
	}
	return removed
}
