package metrics

import "testing"

func TestNewRegistersDistinctCollectors(t *testing.T) {
	r := New()
	if r.ConnectedClients == nil || r.TickDuration == nil || r.TickOverruns == nil {
		t.Fatal("expected core collectors to be non-nil")
	}
	r.ConnectedClients.Set(3)
	r.TickOverruns.Inc()
	r.DatagramsIn.Add(4)
}
