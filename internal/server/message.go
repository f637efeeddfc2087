package server

import (
	"encoding/json"
	"time"

	"github.com/lox/chipswap/internal/deck"
	"github.com/lox/chipswap/internal/game"
)

// Message represents the base WebSocket message structure. Data is decoded
// per-type at the boundary before any of it reaches a room.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message stamped with the given time
func NewMessage(messageType MessageType, data interface{}, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

type JoinRoomData struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
}

type TransferChipData struct {
	TargetPlayerID game.ConnectionID `json:"targetPlayerId"`
}

// startGame, dealCommunityCards and revealHands carry no payload.

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UpdateLobbyData carries the full player mapping with hands emptied; it is
// identical for every recipient.
type UpdateLobbyData struct {
	Players map[game.ConnectionID]*game.Player `json:"players"`
}

// gameStarted and gameStateUpdated carry a per-recipient game.RoomState.

type CommunityCardsDealtData struct {
	CommunityCards []deck.Card         `json:"communityCards"`
	BettingRound   game.BettingRound   `json:"bettingRound"`
	ChipHistory    []game.ChipSnapshot `json:"chipHistory"`
}

type HandsRevealedData struct {
	Players     map[game.ConnectionID]*game.Player `json:"players"`
	Result      game.Result                        `json:"result"`
	RevealOrder []game.RevealEntry                 `json:"revealOrder"`
}

// RoomInfo is one row of the lobby discovery listing served over HTTP.
type RoomInfo struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Started     bool   `json:"started"`
}
