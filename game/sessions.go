package game

// Sessions maps connection identities to players, preserving join order so
// snapshots list players in a stable order.
type Sessions struct {
	order []*Player
	byID  map[string]*Player
}

func newSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Player)}
}

// Add registers p under its ID. It reports false if the ID is taken.
func (s *Sessions) Add(p *Player) bool {
	if _, ok := s.byID[p.ID]; ok {
		return false
	}
	s.byID[p.ID] = p
	s.order = append(s.order, p)
	return true
}

// Remove drops the player bound to id.
func (s *Sessions) Remove(id string) bool {
	p, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	kept := s.order[:0]
	for _, other := range s.order {
		if other != p {
			kept = append(kept, other)
		}
	}
	clear(s.order[len(kept):])
	s.order = kept
	return true
}

// Get returns the player bound to id.
func (s *Sessions) Get(id string) (*Player, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// SetIntent overwrites the stored intent of a connection. Last write wins.
func (s *Sessions) SetIntent(id string, in Intent) bool {
	p, ok := s.byID[id]
	if !ok {
		return false
	}
	p.Intent = in
	return true
}

// Len is the number of connected players.
func (s *Sessions) Len() int {
	return len(s.order)
}

// Players returns players in join order. The slice must not be modified.
func (s *Sessions) Players() []*Player {
	return s.order
}
