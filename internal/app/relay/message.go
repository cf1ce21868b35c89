/*
Package relay contains the core logic for live private messaging: the presence
registry mapping user ids to their active connections, the websocket client
lifecycle, and the hub that routes private messages between online users.
*/
package relay

import "encoding/json"

// MessageType identifies the kind of event carried by a websocket envelope.
type MessageType string

const (
	// TypeRegisterSocket binds the sending connection to a user id.
	TypeRegisterSocket MessageType = "register_socket"

	// TypeSendPrivateMessage asks the server to relay a text to a target user.
	TypeSendPrivateMessage MessageType = "send_private_message"

	// TypeReceivePrivateMessage is delivered to every connection registered
	// under the target user id.
	TypeReceivePrivateMessage MessageType = "receive_private_message"
)

// Envelope is the wire format for every websocket event in both directions.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterPayload carries the identity a connection announces after connecting.
type RegisterPayload struct {
	UserID string `json:"userId"`
}

// SendPrivatePayload is the client request to relay a private text message.
type SendPrivatePayload struct {
	TargetUserID string `json:"targetUserId"`
	Text         string `json:"text"`
	SenderName   string `json:"senderName"`
	SenderID     string `json:"senderId"`
}

// ReceivePrivatePayload is the event delivered to the target user's connections.
type ReceivePrivatePayload struct {
	Text       string `json:"text"`
	SenderName string `json:"senderName"`
	SenderID   string `json:"senderId"`
	IsSelf     bool   `json:"isSelf"`
}

// NewEnvelope marshals payload and wraps it with the given type.
func NewEnvelope(msgType MessageType, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{Type: msgType, Payload: raw}, nil
}
