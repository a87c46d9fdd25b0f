package world

import (
	"net"
	"testing"
	"time"
)

func TestRegistryInsertGetRemove(t *testing.T) {
	r := NewRegistry()
	c := NewClient(0, "guid-1", Driver{Name: "Driver One"}, net.ParseIP("127.0.0.1"))
	r.Insert(c)
	if r.Count() != 1 {
		t.Fatalf("expected 1 client, got %d", r.Count())
	}
	if got := r.Get(0); got != c {
		t.Error("Get did not return inserted client")
	}
	if got := r.ByGUID("guid-1"); got != c {
		t.Error("ByGUID did not find client")
	}
	r.Remove(0)
	if r.Count() != 0 {
		t.Errorf("expected 0 clients after remove, got %d", r.Count())
	}
}

func TestRegistryByIPReturnsFirstMatch(t *testing.T) {
	r := NewRegistry()
	ip := net.ParseIP("10.0.0.5")
	c1 := NewClient(0, "g1", Driver{}, ip)
	r.Insert(c1)
	if got := r.ByIP(ip); got != c1 {
		t.Error("expected to find client by IP")
	}
	if got := r.ByIP(net.ParseIP("10.0.0.6")); got != nil {
		t.Error("expected no match for different IP")
	}
}

func TestClientIsStaleAfterPongTimeout(t *testing.T) {
	c := NewClient(0, "g", Driver{}, nil)
	now := time.Now()
	c.LastPongTime = now.Add(-11 * time.Second)
	if !c.IsStale(now, 10*time.Second) {
		t.Error("expected client to be stale")
	}
	c.LastPongTime = now
	if c.IsStale(now, 10*time.Second) {
		t.Error("expected client not stale")
	}
}
