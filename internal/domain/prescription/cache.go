package prescription

import "sync"

// ListCache is the per-view snapshot of the last fetched prescription list,
// keyed by session. A fulfill updates exactly the affected entry in the
// acting view's list; consistency with other views is eventual and nothing
// here triggers a refetch.
type ListCache struct {
	mu    sync.RWMutex
	lists map[string][]Prescription
}

func NewListCache() *ListCache {
	return &ListCache{lists: make(map[string][]Prescription)}
}

func (c *ListCache) Put(sessionID string, list []Prescription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[sessionID] = append([]Prescription(nil), list...)
}

func (c *ListCache) Get(sessionID string) ([]Prescription, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.lists[sessionID]
	if !ok {
		return nil, false
	}
	return append([]Prescription(nil), list...), true
}

// Status returns the cached status for a prescription, if held.
func (c *ListCache) Status(sessionID string, id int) (Status, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.lists[sessionID] {
		if p.ID == id {
			return p.Status, true
		}
	}
	return "", false
}

// SetStatus updates the one matching entry in the session's cached list.
func (c *ListCache) SetStatus(sessionID string, id int, st Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.lists[sessionID]
	for i := range list {
		if list[i].ID == id {
			list[i].Status = st
			return true
		}
	}
	return false
}

// Remove drops the entry from the session's cached list.
func (c *ListCache) Remove(sessionID string, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.lists[sessionID]
	for i := range list {
		if list[i].ID == id {
			c.lists[sessionID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Drop discards the session's cached list entirely.
func (c *ListCache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, sessionID)
}
