package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client recebe os eventos de um fundo (Code) ou de todos (Code vazio).
type Client struct {
	ID   string
	Code string
	Send chan []byte
}

// wants: mensagem sem code (ex. FundTypeCreated) só vai para quem não filtrou.
func (c *Client) wants(code string) bool {
	return c.Code == "" || c.Code == code
}

// Message é um envelope já serializado e o code do fundo a que se refere ("" = sem fundo).
type Message struct {
	Code string
	Body []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client

	sendAll chan Message

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		sendAll:  make(chan Message, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = h.newID()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "code", c.Code, "total", total)

		case c := <-h.unreg:
			h.mu.Lock()
			if c != nil && c.ID != "" {
				if _, ok := h.clients[c.ID]; ok {
					delete(h.clients, c.ID)
					close(c.Send)
				}
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case msg := <-h.sendAll:
			h.deliver(msg)

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) deliver(msg Message) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		if !c.wants(msg.Code) {
			continue
		}
		select {
		case c.Send <- msg.Body:
		default:
			// cliente lento -> dropa para não travar o hub
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		if _, ok := h.clients[c.ID]; ok {
			delete(h.clients, c.ID)
			close(c.Send)
			h.log.Warn("client_dropped_slow", "id", c.ID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Depois do Stop ninguém lê os canais: Register/Unregister/Broadcast viram no-op.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stop:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stop:
	}
}

func (h *Hub) Broadcast(m Message) {
	select {
	case h.sendAll <- m:
	case <-h.stop:
	}
}
