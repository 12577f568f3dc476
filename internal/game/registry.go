package game

import (
	"sort"

	"github.com/pkalinn/revolver/internal/models"
	"github.com/pkalinn/revolver/internal/common/uuid"
)

// Registry owns the collection of live sessions. Like the sessions it
// holds, it relies on the caller's single serialization point.
type Registry struct {
	sessions map[string]*Session
	cfg      *RegistryConfig
}

// NewRegistry creates a new session registry
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}

	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}, nil
}

// Create allocates an id, constructs an open session and inserts it
func (r *Registry) Create(creatorName string) (*Session, error) {
	id := uuid.ShortToken(r.cfg.UUIDGenerator, 9)

	sess, err := NewSession(id, creatorName, r.cfg.Session)
	if err != nil {
		return nil, err
	}

	r.sessions[id] = sess
	return sess, nil
}

// Get returns the session with the given id, or nil
func (r *Registry) Get(id string) *Session {
	return r.sessions[id]
}

// Remove drops a session from the registry
func (r *Registry) Remove(id string) {
	delete(r.sessions, id)
}

// Active returns every non-finished session, newest first
func (r *Registry) Active() []*Session {
	active := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		if !sess.Finished() {
			active = append(active, sess)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt().After(active[j].CreatedAt())
	})
	return active
}

// Joinable returns the lobby summaries of every non-finished session,
// newest first.
func (r *Registry) Joinable() []*models.LobbyInfo {
	active := r.Active()
	infos := make([]*models.LobbyInfo, len(active))
	for i, sess := range active {
		infos[i] = sess.LobbyInfo()
	}
	return infos
}

// FindByPlayer scans for the session containing the named participant and
// returns it together with that participant's id.
func (r *Registry) FindByPlayer(name string) (*Session, string, bool) {
	for _, sess := range r.sessions {
		if id, ok := sess.PlayerID(name); ok {
			return sess, id, true
		}
	}
	return nil, "", false
}

// SweepEmpty removes sessions with zero participants, catching games
// abandoned before the second join. Returns how many were dropped.
func (r *Registry) SweepEmpty() int {
	removed := 0
	for id, sess := range r.sessions {
		if sess.PlayerCount() == 0 {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
