package relay

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"moodlink/internal/pkg/logx"
)

// Hub owns the presence registry and routes private messages between online
// users. It is the only in-process mutable shared state; all mutation goes
// through the registry's synchronized methods.
type Hub struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewHub constructs a Hub with an empty presence registry.
func NewHub() *Hub {
	return &Hub{
		registry: NewRegistry(),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Registry exposes the presence registry, primarily for handlers and tests.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// RelayPrivateMessage forwards a text message to every connection currently
// registered under targetUserID. The payload is marshaled once and the same
// bytes are enqueued to each connection. Messages to offline users are dropped
// silently: no queuing, no persistence, no delivery confirmation to the sender.
func (h *Hub) RelayPrivateMessage(senderID, senderName, targetUserID, text string) {
	clients := h.registry.ChannelsFor(targetUserID)
	if len(clients) == 0 {
		h.logger.Debug().
			Str("target_user_id", targetUserID).
			Msg("Target user offline, private message dropped")
		return
	}

	envelope, err := NewEnvelope(TypeReceivePrivateMessage, ReceivePrivatePayload{
		Text:       text,
		SenderName: senderName,
		SenderID:   senderID,
		IsSelf:     false,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build receive_private_message envelope")
		return
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal receive_private_message envelope")
		return
	}

	for _, client := range clients {
		client.enqueue(messageBytes)
	}

	h.logger.Debug().
		Str("sender_id", senderID).
		Str("target_user_id", targetUserID).
		Int("connections", len(clients)).
		Msg("Private message relayed")
}
