package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeJoinRoom           MessageType = "joinRoom"
	MessageTypeStartGame          MessageType = "startGame"
	MessageTypeDealCommunityCards MessageType = "dealCommunityCards"
	MessageTypeTransferChip       MessageType = "transferChip"
	MessageTypeRevealHands        MessageType = "revealHands"

	// Server to client messages
	MessageTypeUpdateLobby         MessageType = "updateLobby"
	MessageTypeGameStarted         MessageType = "gameStarted"
	MessageTypeCommunityCardsDealt MessageType = "communityCardsDealt"
	MessageTypeGameStateUpdated    MessageType = "gameStateUpdated"
	MessageTypeHandsRevealed       MessageType = "handsRevealed"
	MessageTypeError               MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
