package server

import (
	"net"
	"sync"

	"github.com/rs/zerolog/log"

	"cardroom.com/server/logging"
)

var registryLogger = log.With().Str("logger_name", "server::registry").Logger()

const clientSendBuffer = 64

// Client is one registered connection with its outbound queue. A write
// goroutine drains the queue so senders never block on the socket.
type Client struct {
	ID   string
	conn net.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func newClient(id string, conn net.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		done: make(chan struct{}),
	}
}

// writeLoop drains the outbound queue onto the connection. It exits on
// deregistration or a failed write; the read loop notices the dead
// connection and deregisters.
func (c *Client) writeLoop() {
	for {
		select {
		case data := <-c.send:
			if _, err := c.conn.Write(data); err != nil {
				registryLogger.Debug().
					Str(logging.PlayerIDKey, c.ID).
					Msgf("Write failed, dropping outbound messages: %v", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

// enqueue is a best-effort send. A closed client or a full queue drops
// the message rather than blocking the game on a slow consumer.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		registryLogger.Warn().
			Str(logging.PlayerIDKey, c.ID).
			Msg("Outbound queue full, dropping message")
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Registry maps player identifiers to their connections. It has its own
// lock, separate from the table lock.
type Registry struct {
	clients map[string]*Client
	lock    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a connection and starts its write goroutine.
func (r *Registry) Register(id string, conn net.Conn) *Client {
	client := newClient(id, conn)
	r.lock.Lock()
	r.clients[id] = client
	r.lock.Unlock()
	go client.writeLoop()
	return client
}

// Deregister removes the connection and closes it.
func (r *Registry) Deregister(id string) {
	r.lock.Lock()
	client, ok := r.clients[id]
	delete(r.clients, id)
	r.lock.Unlock()
	if ok {
		client.close()
	}
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.clients)
}

// Broadcast delivers to every registered connection except excludeID.
// Delivery failure to one recipient does not affect the others.
func (r *Registry) Broadcast(data []byte, excludeID string) {
	r.lock.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for id, client := range r.clients {
		if id == excludeID {
			continue
		}
		clients = append(clients, client)
	}
	r.lock.RUnlock()

	for _, client := range clients {
		client.enqueue(data)
	}
}

// Unicast delivers to one registered connection; a no-op when the
// identifier is not registered.
func (r *Registry) Unicast(id string, data []byte) {
	r.lock.RLock()
	client, ok := r.clients[id]
	r.lock.RUnlock()
	if ok {
		client.enqueue(data)
	}
}
