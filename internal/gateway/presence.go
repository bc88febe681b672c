package gateway

import "sync"

// OnlineUser is one entry of the users:online-list snapshot.
type OnlineUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// presenceEntry exists iff the user has at least one live connection.
type presenceEntry struct {
	name  string
	conns map[string]struct{}
}

// PresenceRegistry відстежує, хто зараз онлайн. Зберігає МНОЖИНУ
// з'єднань на користувача, щоб події online/offline спрацьовували один
// раз на справжній перехід, а не на кожну вкладку браузера.
//
// The registry is an explicit object constructed once at process start
// and injected into the Hub; the mutex is held only across map
// mutation, never across I/O.
type PresenceRegistry struct {
	mu      sync.Mutex
	entries map[string]*presenceEntry
}

// NewPresenceRegistry creates an empty registry.
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{entries: make(map[string]*presenceEntry)}
}

// Add records a connection for the user and reports whether it is the
// user's first live connection (i.e. a true offline->online transition).
func (p *PresenceRegistry) Add(userID, name, connID string) (first bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[userID]
	if !ok {
		entry = &presenceEntry{name: name, conns: make(map[string]struct{})}
		p.entries[userID] = entry
	}
	entry.conns[connID] = struct{}{}
	return !ok
}

// Remove drops a connection and reports whether it was the user's last
// one; if so the entry is deleted. Unknown IDs are a no-op.
func (p *PresenceRegistry) Remove(userID, connID string) (last bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[userID]
	if !ok {
		return false
	}
	delete(entry.conns, connID)
	if len(entry.conns) == 0 {
		delete(p.entries, userID)
		return true
	}
	return false
}

// List returns a snapshot of everyone currently online. Sent to each
// newly admitted connection to seed its view.
func (p *PresenceRegistry) List() []OnlineUser {
	p.mu.Lock()
	defer p.mu.Unlock()

	users := make([]OnlineUser, 0, len(p.entries))
	for id, entry := range p.entries {
		users = append(users, OnlineUser{UserID: id, Name: entry.name})
	}
	return users
}
