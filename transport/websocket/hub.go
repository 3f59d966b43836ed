package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hackz-rabuka/room-server/game/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// GlobalTopic is the single broadcast scope all game connections share.
const GlobalTopic = "robby"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Dispatcher consumes inbound game frames. Implemented by the room
// service.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw []byte)
}

// clientKind separates game connections from relay connections.
type clientKind int

const (
	kindGame clientKind = iota
	kindRelay
)

// Client represents one WebSocket connection. Game connections carry
// the dispatcher their inbound frames are handed to.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	kind     clientKind
	dispatch Dispatcher
}

// relayFrame carries one inbound relay payload and its sender.
type relayFrame struct {
	sender *Client
	data   []byte
}

// Hub maintains the set of active connections and fans events out to
// them. The run loop is the sole owner of the membership maps.
type Hub struct {
	// Game connections by topic. Every game connection is subscribed to
	// GlobalTopic for its whole lifetime.
	topics map[string]map[*Client]bool

	// Relay connections tracked for the peer echo.
	relays map[*Client]bool

	publish    chan []byte
	relay      chan *relayFrame
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		relays:     make(map[*Client]bool),
		publish:    make(chan []byte, 64),
		relay:      make(chan *relayFrame, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.publish:
			h.publishToTopic(GlobalTopic, data)

		case frame := <-h.relay:
			h.relayToPeers(frame)
		}
	}
}

// PublishGlobal queues one serialized event for every subscriber of the
// global topic. It implements service.Publisher.
func (h *Hub) PublishGlobal(data []byte) {
	h.publish <- data
}

// ServeWS upgrades a game connection and wires its inbound frames to the
// given dispatcher.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, dispatcher Dispatcher) {
	h.serve(w, r, kindGame, dispatcher)
}

// ServeRelay upgrades a relay connection and wires it into the hub.
func (h *Hub) ServeRelay(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, kindRelay, nil)
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, kind clientKind, dispatcher Dispatcher) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		kind:     kind,
		dispatch: dispatcher,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// registerClient subscribes a new connection to its scope.
func (h *Hub) registerClient(client *Client) {
	switch client.kind {
	case kindGame:
		if h.topics[GlobalTopic] == nil {
			h.topics[GlobalTopic] = make(map[*Client]bool)
		}
		h.topics[GlobalTopic][client] = true
		log.Debug().Int("subscribers", len(h.topics[GlobalTopic])).Msg("game connection opened")

	case kindRelay:
		h.relays[client] = true
		log.Debug().Int("peers", len(h.relays)).Msg("relay connection opened")
	}
}

// unregisterClient removes a connection from its scope.
func (h *Hub) unregisterClient(client *Client) {
	switch client.kind {
	case kindGame:
		if clients, ok := h.topics[GlobalTopic]; ok {
			if _, ok := clients[client]; ok {
				delete(clients, client)
				close(client.send)

				if len(clients) == 0 {
					delete(h.topics, GlobalTopic)
				}
				log.Debug().Int("subscribers", len(clients)).Msg("game connection closed")
			}
		}

	case kindRelay:
		if _, ok := h.relays[client]; ok {
			delete(h.relays, client)
			close(client.send)
			log.Debug().Int("peers", len(h.relays)).Msg("relay connection closed")
		}
	}
}

// publishToTopic fans one event out to every subscriber of a topic.
// Delivery is best-effort: a subscriber with a full buffer is dropped.
func (h *Hub) publishToTopic(topic string, data []byte) {
	for client := range h.topics[topic] {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// relayToPeers wraps an inbound relay frame and fans it out to every
// relay connection except the sender.
func (h *Hub) relayToPeers(frame *relayFrame) {
	data, err := json.Marshal(protocol.WrapRelay(frame.data))
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal relay envelope")
		return
	}

	for client := range h.relays {
		if client == frame.sender {
			continue
		}
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump pumps messages from the connection into the hub: game frames
// go to the dispatcher, relay frames to the peer echo.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}

		switch c.kind {
		case kindGame:
			c.dispatch.Dispatch(context.Background(), data)
		case kindRelay:
			c.hub.relay <- &relayFrame{sender: c, data: data}
		}
	}
}

// writePump pumps messages from the hub to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
