package ws

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// fakeConn records everything sent to it.
type fakeConn struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (c *fakeConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("send failed")
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.payloads...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryMultipleConnectionsPerUser(t *testing.T) {
	reg := NewRegistry(testLogger())
	c1 := &fakeConn{}
	c2 := &fakeConn{}

	reg.Register("alice", c1)
	reg.Register("alice", c2)

	if got := len(reg.ConnectionsFor("alice")); got != 2 {
		t.Fatalf("ConnectionsFor(alice) = %d connections, want 2", got)
	}
}

func TestRegistryRepeatedRegisterIsSetSemantics(t *testing.T) {
	reg := NewRegistry(testLogger())
	c := &fakeConn{}

	reg.Register("alice", c)
	reg.Register("alice", c)
	reg.Register("alice", c)

	if got := len(reg.ConnectionsFor("alice")); got != 1 {
		t.Fatalf("ConnectionsFor(alice) = %d connections, want 1", got)
	}

	reg.Broadcast("alice", []byte(`{"type":"edit_item"}`))
	if got := len(c.received()); got != 1 {
		t.Fatalf("connection received %d payloads, want 1 (no duplicate delivery)", got)
	}
}

func TestRegistryUnregisterCleansUp(t *testing.T) {
	reg := NewRegistry(testLogger())
	c1 := &fakeConn{}
	c2 := &fakeConn{}

	reg.Register("alice", c1)
	reg.Register("alice", c2)

	reg.Unregister(c1)
	if got := len(reg.ConnectionsFor("alice")); got != 1 {
		t.Fatalf("after first unregister: %d connections, want 1", got)
	}

	reg.Unregister(c2)
	if got := len(reg.ConnectionsFor("alice")); got != 0 {
		t.Fatalf("after last unregister: %d connections, want 0", got)
	}

	// The drained user entry must be gone, and broadcasting into the empty
	// set must be a quiet no-op.
	reg.mu.RLock()
	_, exists := reg.rooms["alice"]
	reg.mu.RUnlock()
	if exists {
		t.Fatal("user entry still present after last connection closed")
	}
	reg.Broadcast("alice", []byte(`{}`))
}

func TestRegistryUnregisterUnknownConnection(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register("alice", &fakeConn{})

	// A connection that never joined must not panic or disturb others.
	reg.Unregister(&fakeConn{})

	if got := len(reg.ConnectionsFor("alice")); got != 1 {
		t.Fatalf("ConnectionsFor(alice) = %d connections, want 1", got)
	}
}

func TestBroadcastIsolationBetweenUsers(t *testing.T) {
	reg := NewRegistry(testLogger())
	alice := &fakeConn{}
	bob := &fakeConn{}

	reg.Register("alice", alice)
	reg.Register("bob", bob)

	reg.Broadcast("alice", []byte(`{"type":"add_item"}`))

	if got := len(alice.received()); got != 1 {
		t.Fatalf("alice received %d payloads, want 1", got)
	}
	if got := len(bob.received()); got != 0 {
		t.Fatalf("bob received %d payloads, want 0", got)
	}
}

func TestBroadcastSurvivesSendFailure(t *testing.T) {
	reg := NewRegistry(testLogger())
	dead := &fakeConn{fail: true}
	live := &fakeConn{}

	reg.Register("alice", dead)
	reg.Register("alice", live)

	reg.Broadcast("alice", []byte(`{"type":"move_item"}`))

	if got := len(live.received()); got != 1 {
		t.Fatalf("live connection received %d payloads, want 1", got)
	}
}
