package world

import (
	"net"
	"sync"
	"time"
)

// Client is one connected driver's authoritative session state. The tick
// engine is its sole mutator in steady state (§5); the handshake worker
// populates it once at creation. A mutex guards it because HTTP lobby reads
// and the handshake worker may still observe it concurrently with the tick.
type Client struct {
	mu sync.RWMutex

	CarID        uint8
	GUID         string
	Driver       Driver
	RemoteIP     net.IP
	UDPAddr      *net.UDPAddr
	IsAdmin      bool
	FirstUpdateSent bool
	ChecksumValid   bool

	Motion       MotionSnapshot
	Damage       Damage
	Compound     string
	Bop          Bop
	LapsDone     uint32
	P2PRemaining int16
	MandatoryPitDone bool

	LastPingTime time.Time
	LastPongTime time.Time
	PingMs       int64
	TimeOffsetMs int64
}

// NewClient constructs a Client freshly assigned to carID.
func NewClient(carID uint8, guid string, driver Driver, remoteIP net.IP) *Client {
	now := time.Now()
	return &Client{
		CarID:        carID,
		GUID:         guid,
		Driver:       driver,
		RemoteIP:     remoteIP,
		P2PRemaining: -1,
		LastPingTime: now,
		LastPongTime: now,
	}
}

// BindUDP records the client's UDP return address.
func (c *Client) BindUDP(addr *net.UDPAddr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UDPAddr = addr
}

// BoundUDPAddr returns the client's UDP return address, or nil if unbound.
func (c *Client) BoundUDPAddr() *net.UDPAddr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.UDPAddr
}

// MarkFirstUpdate marks the first-update-sent flag and reports whether this
// call is the one that set it (i.e. whether the burst still needs sending).
func (c *Client) MarkFirstUpdate() (justSet bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FirstUpdateSent {
		return false
	}
	c.FirstUpdateSent = true
	return true
}

// HasSentFirstUpdate reports whether the client's first CarUpdate has been
// processed, i.e. whether it has received its first-update burst.
func (c *Client) HasSentFirstUpdate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.FirstUpdateSent
}

// SetChecksumValid records that the client's Checksum packet was received.
// The server never compares hashes against on-disk assets (open question,
// carried through from upstream).
func (c *Client) SetChecksumValid() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChecksumValid = true
}

// UpdateMotion overwrites the motion snapshot — overwrite semantics, no
// interpolation, per §3.
func (c *Client) UpdateMotion(m MotionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Motion = m
}

// SnapshotMotion returns a copy of the current motion snapshot.
func (c *Client) SnapshotMotion() MotionSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Motion
}

// SetDamage overwrites all five damage zones.
func (c *Client) SetDamage(d Damage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Damage = d
}

// SetCompound updates the client's current tyre compound.
func (c *Client) SetCompound(compound string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Compound = compound
}

// CompoundSnapshot returns the client's current tyre compound.
func (c *Client) CompoundSnapshot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Compound
}

// MandatoryPitSatisfied reports whether the client has completed its
// mandatory pit stop.
func (c *Client) MandatoryPitSatisfied() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MandatoryPitDone
}

// SetBop sets the client's ballast/restrictor pair.
func (c *Client) SetBop(b Bop) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Bop = b
}

// BopSnapshot returns the client's current BoP pair.
func (c *Client) BopSnapshot() Bop {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Bop
}

// IncrementLaps bumps the client's completed-lap counter by one.
func (c *Client) IncrementLaps() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LapsDone++
	return c.LapsDone
}

// RecordPong updates ping/time-offset/liveness from a Pong reply. pingMs is
// the round-trip time in milliseconds, computed by the caller from the
// wire's u32 millisecond timestamps (which wrap modulo 2^32, not a Unix
// epoch value safe to convert back to a time.Time).
func (c *Client) RecordPong(now time.Time, pingMs int64, clientOffsetMs uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PingMs = pingMs
	c.TimeOffsetMs = pingMs/2 + int64(clientOffsetMs)
	c.LastPongTime = now
}

// RecordPing stamps the time a ping was sent.
func (c *Client) RecordPing(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastPingTime = now
}

// Liveness returns the last ping/pong timestamps.
func (c *Client) Liveness() (lastPing, lastPong time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LastPingTime, c.LastPongTime
}

// IsStale reports whether the client's pong silence has exceeded timeout.
func (c *Client) IsStale(now time.Time, timeout time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return now.Sub(c.LastPongTime) >= timeout
}

// DecrementP2P decrements the push-to-pass counter and returns the new
// value; probing (count already -1) leaves it untouched.
func (c *Client) DecrementP2P() int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.P2PRemaining <= 0 {
		return c.P2PRemaining
	}
	c.P2PRemaining--
	return c.P2PRemaining
}

// P2PCount returns the current push-to-pass counter.
func (c *Client) P2PCount() int16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.P2PRemaining
}
