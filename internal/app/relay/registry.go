package relay

import "sync"

// Registry is the process-local presence map from a user id to the set of live
// connections currently announcing that identity. One user may hold zero, one,
// or many connections at once (multiple devices or tabs).
//
// Entries are ephemeral: nothing is persisted, and the map is rebuilt from zero
// on process restart. A connection is removed on disconnect, never by garbage
// collection.
type Registry struct {
	mu sync.RWMutex

	// byUser maps a user id to that user's connected clients.
	byUser map[string]map[*Client]struct{}

	// byClient maps a client back to the user id it is registered under,
	// so Unregister and re-registration do not need to scan every user.
	byClient map[*Client]string
}

// NewRegistry creates an empty presence Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser:   make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]string),
	}
}

// Register associates the client with userID. A client may be registered under
// only one user id at a time; re-registering under a different id silently
// moves the client to the new identity.
func (reg *Registry) Register(userID string, c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if prevID, ok := reg.byClient[c]; ok {
		if prevID == userID {
			return
		}
		reg.removeLocked(prevID, c)
	}

	set, ok := reg.byUser[userID]
	if !ok {
		set = make(map[*Client]struct{})
		reg.byUser[userID] = set
	}
	set[c] = struct{}{}
	reg.byClient[c] = userID
}

// Unregister removes the client from whatever user id it belongs to.
// It is a no-op for clients that never registered.
func (reg *Registry) Unregister(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	userID, ok := reg.byClient[c]
	if !ok {
		return
	}

	reg.removeLocked(userID, c)
	delete(reg.byClient, c)
}

// removeLocked deletes the client from a user's set and drops the set when it
// empties. Callers must hold mu.
func (reg *Registry) removeLocked(userID string, c *Client) {
	set, ok := reg.byUser[userID]
	if !ok {
		return
	}

	delete(set, c)
	if len(set) == 0 {
		delete(reg.byUser, userID)
	}
}

// ChannelsFor returns a snapshot of the clients currently registered under
// userID. The slice is safe to iterate without holding any lock.
func (reg *Registry) ChannelsFor(userID string) []*Client {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	set := reg.byUser[userID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}

	return clients
}

// OnlineUsers reports how many distinct user ids currently hold at least one
// live connection.
func (reg *Registry) OnlineUsers() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.byUser)
}
