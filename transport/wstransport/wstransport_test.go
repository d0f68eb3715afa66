package wstransport

import (
	"testing"
	"time"

	"netphys/transport"
)

func waitForState(t *testing.T, tr transport.Transport, want transport.State) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tr.State() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("state never reached %s, stuck at %s", want, tr.State())
}

func TestHostClientRoundTrip(t *testing.T) {
	host := NewHost("127.0.0.1:18271", nil)
	defer host.Close()
	if st := host.Open(transport.Config{}); st != transport.Connected {
		t.Fatalf("host.Open() = %s, want CONNECTED", st)
	}

	client := NewClient("127.0.0.1:18271", nil)
	defer client.Close()
	if st := client.Open(transport.Config{}); st != transport.Connected {
		t.Fatalf("client.Open() = %s, want CONNECTED", st)
	}

	waitForState(t, host, transport.Connected)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && host.GetNumPlayers() < 2 {
		time.Sleep(10 * time.Millisecond)
	}
	if host.GetNumPlayers() != 2 {
		t.Fatalf("host.GetNumPlayers() = %d, want 2", host.GetNumPlayers())
	}

	host.StartSession()
	waitForState(t, client, transport.InSession)

	var received []byte
	client.Receive(func(peer string, data []byte) {})

	players := host.GetPlayers()
	if len(players) != 1 {
		t.Fatalf("host.GetPlayers() = %v, want exactly one client", players)
	}
	if err := host.SendTo(players[0], []byte("hello")); err != nil {
		t.Fatalf("SendTo failed: %v", err)
	}

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		client.Receive(func(peer string, data []byte) {
			received = data
		})
		if received != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if string(received) != "hello" {
		t.Fatalf("client received %q, want %q", received, "hello")
	}
}
