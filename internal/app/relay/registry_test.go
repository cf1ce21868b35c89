package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// newTestClient builds a Client detached from any websocket connection.
// Registry and Hub never touch the conn, only the send queue.
func newTestClient(buffer int) *Client {
	return &Client{
		send:   make(chan []byte, buffer),
		logger: zerolog.Nop(),
	}
}

func containsClient(clients []*Client, c *Client) bool {
	for _, got := range clients {
		if got == c {
			return true
		}
	}
	return false
}

func TestRegistry_RegisterThenChannelsFor(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(1)

	reg.Register("u1", c)

	if got := reg.ChannelsFor("u1"); !containsClient(got, c) {
		t.Fatal("registered client missing from ChannelsFor")
	}
}

func TestRegistry_UnregisterRemovesClient(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(1)

	reg.Register("u1", c)
	reg.Unregister(c)

	if got := reg.ChannelsFor("u1"); len(got) != 0 {
		t.Fatalf("ChannelsFor after unregister = %d clients, want 0", len(got))
	}
	if reg.OnlineUsers() != 0 {
		t.Errorf("OnlineUsers = %d, want 0", reg.OnlineUsers())
	}
}

func TestRegistry_UnregisterUnknownClientIsNoOp(t *testing.T) {
	reg := NewRegistry()
	reg.Unregister(newTestClient(1))

	if reg.OnlineUsers() != 0 {
		t.Errorf("OnlineUsers = %d, want 0", reg.OnlineUsers())
	}
}

func TestRegistry_MultipleClientsPerUser(t *testing.T) {
	reg := NewRegistry()
	phone := newTestClient(1)
	laptop := newTestClient(1)

	reg.Register("u1", phone)
	reg.Register("u1", laptop)

	got := reg.ChannelsFor("u1")
	if len(got) != 2 || !containsClient(got, phone) || !containsClient(got, laptop) {
		t.Fatalf("ChannelsFor = %d clients, want both registered connections", len(got))
	}

	reg.Unregister(phone)

	got = reg.ChannelsFor("u1")
	if len(got) != 1 || !containsClient(got, laptop) {
		t.Fatalf("after one disconnect ChannelsFor = %v clients, want only the remaining one", len(got))
	}
}

func TestRegistry_ReRegisterMovesClient(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(1)

	reg.Register("u1", c)
	reg.Register("u2", c)

	if got := reg.ChannelsFor("u1"); len(got) != 0 {
		t.Errorf("client still registered under old user id")
	}
	if got := reg.ChannelsFor("u2"); !containsClient(got, c) {
		t.Errorf("client not registered under new user id")
	}
}

func TestRegistry_ReRegisterSameUserIsStable(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(1)

	reg.Register("u1", c)
	reg.Register("u1", c)

	if got := reg.ChannelsFor("u1"); len(got) != 1 {
		t.Errorf("ChannelsFor = %d clients, want 1", len(got))
	}
}

func TestRegistry_ChannelsForUnknownUserIsEmpty(t *testing.T) {
	reg := NewRegistry()

	if got := reg.ChannelsFor("nobody"); len(got) != 0 {
		t.Errorf("ChannelsFor unknown user = %d clients, want 0", len(got))
	}
}

func TestRegistry_ConcurrentRegisterUnregister(t *testing.T) {
	reg := NewRegistry()

	const workers = 16
	const iterations = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", w%4)
			for i := 0; i < iterations; i++ {
				c := newTestClient(1)
				reg.Register(userID, c)
				reg.ChannelsFor(userID)
				reg.Unregister(c)
			}
		}(w)
	}
	wg.Wait()

	if reg.OnlineUsers() != 0 {
		t.Errorf("OnlineUsers after churn = %d, want 0", reg.OnlineUsers())
	}
}
