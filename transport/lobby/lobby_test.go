package lobby

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	dir := NewDirectory(nil)
	srv := httptest.NewServer(dir.Handler())
	defer srv.Close()

	addr := strings.TrimPrefix(srv.URL, "http://")
	host, portStr, _ := strings.Cut(addr, ":")
	var port int
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}
	client := NewClient(host, port)

	if err := client.Register(Room{ID: "room-1", HostAddress: "127.0.0.1:9000", MaxPlayers: 4, APIVersion: "1.0"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	room, err := client.Lookup("room-1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if room.HostAddress != "127.0.0.1:9000" {
		t.Errorf("HostAddress = %q, want %q", room.HostAddress, "127.0.0.1:9000")
	}

	if err := client.Unregister("room-1"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if _, err := client.Lookup("room-1"); err == nil {
		t.Error("Lookup succeeded after Unregister")
	}
}
