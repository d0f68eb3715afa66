// Package lobby implements the rendezvous service named by the
// configuration document's lobby.address/lobby.port keys: a tiny HTTP
// directory a host registers a room under, and a client queries to learn
// the host's dial address before handing off to wstransport.
package lobby

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// Room is what a host publishes and a client looks up.
type Room struct {
	ID          string `json:"id"`
	HostAddress string `json:"hostAddress"`
	MaxPlayers  int    `json:"maxPlayers"`
	APIVersion  string `json:"apiVersion"`
}

// Directory is the lobby's in-memory room table. It is safe for concurrent
// use; Register/Lookup/Unregister are called from HTTP handlers running on
// arbitrary goroutines.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[string]Room
	logger *log.Logger
}

// NewDirectory returns an empty room directory.
func NewDirectory(logger *log.Logger) *Directory {
	if logger == nil {
		logger = log.Default()
	}
	return &Directory{rooms: make(map[string]Room), logger: logger}
}

func (d *Directory) register(r Room) {
	d.mu.Lock()
	d.rooms[r.ID] = r
	d.mu.Unlock()
	d.logger.Printf("[lobby] registered room %s at %s", r.ID, r.HostAddress)
}

func (d *Directory) unregister(id string) {
	d.mu.Lock()
	delete(d.rooms, id)
	d.mu.Unlock()
	d.logger.Printf("[lobby] unregistered room %s", id)
}

func (d *Directory) lookup(id string) (Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[id]
	return r, ok
}

// Handler returns an http.Handler serving the lobby's two endpoints:
// POST /rooms registers or updates a room, GET /rooms/{id} looks one up,
// DELETE /rooms/{id} unregisters it.
func (d *Directory) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var room Room
		if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d.register(room)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/rooms/"):]
		switch r.Method {
		case http.MethodGet:
			room, ok := d.lookup(id)
			if !ok {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(room)
		case http.MethodDelete:
			d.unregister(id)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	return mux
}

// Client is the host/client-side counterpart: a thin HTTP client against a
// running Directory, addressed by the lobby.address/lobby.port config
// fields.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a lobby Client pointed at address:port.
func NewClient(address string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", address, port),
		http:    &http.Client{},
	}
}

// Register publishes room so a client can later look it up by ID.
func (c *Client) Register(room Room) error {
	body, err := json.Marshal(room)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+"/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("lobby: register returned %s", resp.Status)
	}
	return nil
}

// Lookup resolves a room ID to its host address.
func (c *Client) Lookup(id string) (Room, error) {
	resp, err := c.http.Get(c.baseURL + "/rooms/" + id)
	if err != nil {
		return Room{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Room{}, fmt.Errorf("lobby: lookup %s returned %s", id, resp.Status)
	}
	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return Room{}, err
	}
	return room, nil
}

// Unregister removes a room, normally called from the host's disconnect
// path.
func (c *Client) Unregister(id string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/rooms/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
