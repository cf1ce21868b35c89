package relay

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"moodlink/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// maximum allowed size (in bytes) for private message text.
	MaxTextBytes = 5000

	// capacity of the per-connection outbound queue.
	sendChannelBuffer = 256
)

// Client represents one active WebSocket connection. A connection carries no
// identity until it announces one with a register_socket event; after that it
// appears in the presence registry until it disconnects.
type Client struct {
	// hub routes private messages and owns the presence registry.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded websocket connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, remoteAddr string) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "relay").
		Str("remote_addr", remoteAddr).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		send:   make(chan []byte, sendChannelBuffer),
		logger: clientLogger,
	}
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), event parsing, and performs cleanup upon
// connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect removes the connection from the presence registry and
// closes the socket when ReadPump terminates. Registry removal must happen here
// rather than being left to garbage collection.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.registry.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage dispatches one raw websocket frame to its event handler.
// Malformed or unsupported events are logged and dropped; a bad frame from one
// connection must never affect another.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inbound Envelope
	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Type {
	case TypeRegisterSocket:
		c.handleRegister(inbound.Payload)

	case TypeSendPrivateMessage:
		c.handleSendPrivate(inbound.Payload)

	default:
		c.logger.Warn().Str("msg_type", string(inbound.Type)).Msg("Client sent unsupported message type")
	}
}

// handleRegister binds this connection to the announced user id.
func (c *Client) handleRegister(payloadBytes json.RawMessage) {
	var payload RegisterPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid register_socket payload")
		return
	}

	if payload.UserID == "" {
		c.logger.Warn().Msg("register_socket with empty userId ignored")
		return
	}

	c.hub.registry.Register(payload.UserID, c)
	c.logger.Info().Str("user_id", payload.UserID).Msg("Connection registered for user")
}

// handleSendPrivate relays a private message to the target user's connections.
func (c *Client) handleSendPrivate(payloadBytes json.RawMessage) {
	var payload SendPrivatePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid send_private_message payload")
		return
	}

	if payload.TargetUserID == "" {
		c.logger.Warn().Msg("send_private_message with empty targetUserId ignored")
		return
	}

	if len(payload.Text) > MaxTextBytes {
		c.logger.Warn().Int("text_bytes", len(payload.Text)).Msg("Private message text too long, dropped")
		return
	}

	c.hub.RelayPrivateMessage(payload.SenderID, payload.SenderName, payload.TargetUserID, payload.Text)
}

// WritePump handles writing messages from the Client.send channel to the
// WebSocket connection and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them
// to the WebSocket. Returns true if the WritePump loop should continue, false if
// it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the
// connection heartbeat. Returns false if WritePump should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue places pre-marshaled bytes on the client's send queue without
// blocking. A full queue drops the message; delivery is best-effort and a slow
// connection must never stall the sender.
func (c *Client) enqueue(messageBytes []byte) {
	select {
	case c.send <- messageBytes:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
	}
}
