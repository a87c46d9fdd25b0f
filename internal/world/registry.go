package world

import (
	"net"
	"sort"
	"sync"
)

// Registry is the stable handle table of connected clients, keyed by car
// slot. Handles are stable for the client's lifetime.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint8]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[uint8]*Client)}
}

// Insert registers c under its CarID.
func (r *Registry) Insert(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.CarID] = c
}

// Remove unregisters the client at carID.
func (r *Registry) Remove(carID uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, carID)
}

// Get returns the client at carID, or nil if absent.
func (r *Registry) Get(carID uint8) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[carID]
}

// ByGUID returns the first active client with the given GUID, or nil.
func (r *Registry) ByGUID(guid string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.GUID == guid {
			return c
		}
	}
	return nil
}

// ByIP returns the first client whose remote IP matches ip. Behavior under
// shared/NAT'd IPs is unspecified upstream; this simply returns the first
// match found during iteration.
func (r *Registry) ByIP(ip net.IP) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.RemoteIP.Equal(ip) {
			return c
		}
	}
	return nil
}

// ByUDPAddr returns the client bound to addr, or nil.
func (r *Registry) ByUDPAddr(addr *net.UDPAddr) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		bound := c.BoundUDPAddr()
		if bound != nil && bound.IP.Equal(addr.IP) && bound.Port == addr.Port {
			return c
		}
	}
	return nil
}

// Count returns the number of active clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// All returns a stable-ordered snapshot of every active client pointer.
// Pointers are shared, not copied — callers must use Client's own
// synchronized accessors.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CarID < out[j].CarID })
	return out
}
