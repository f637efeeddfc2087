package server

import (
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/chipswap/internal/game"
)

// MessageSender delivers a message to one connection. Delivery is
// fire-and-forget: there is no acknowledgment or retry, but per-recipient
// ordering matches the order server-side mutations were applied.
type MessageSender interface {
	SendTo(id game.ConnectionID, msg *Message)
}

// Coordinator maps each live connection to its current room and player
// identity, routes client actions to the room they target and broadcasts the
// resulting state. A single mutex serialises every action end to end, so a
// room never observes a partially-applied mutation. Authorisation,
// precondition and lookup failures are all silent no-ops by design: a
// malformed or out-of-order action can never corrupt shared state.
type Coordinator struct {
	mu          sync.Mutex
	registry    *game.Registry
	memberships map[game.ConnectionID]string
	sender      MessageSender
	rng         *rand.Rand
	clock       quartz.Clock
	logger      *log.Logger
}

// NewCoordinator creates a coordinator over the given room registry.
func NewCoordinator(registry *game.Registry, sender MessageSender, rng *rand.Rand, clock quartz.Clock, logger *log.Logger) *Coordinator {
	return &Coordinator{
		registry:    registry,
		memberships: make(map[game.ConnectionID]string),
		sender:      sender,
		rng:         rng,
		clock:       clock,
		logger:      logger.WithPrefix("coordinator"),
	}
}

// JoinRoom seats a connection in the named room, creating the room on first
// join. A connection already seated elsewhere leaves that room first. When
// the target room's game is already running, the joiner additionally gets a
// redacted snapshot of the current state.
func (co *Coordinator) JoinRoom(id game.ConnectionID, roomName, username string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if current, ok := co.memberships[id]; ok && current != roomName {
		co.leaveLocked(id)
	}

	room, created := co.registry.GetOrCreate(roomName)
	room.AddPlayer(id, username)
	co.memberships[id] = roomName

	co.logger.Info("Player joined room", "room", roomName, "player", id, "username", username, "created", created)

	co.broadcastLobby(room)

	if room.Started() {
		co.sendView(room, id, MessageTypeGameStarted)
	}
}

// LeaveOrDisconnect removes a connection from its room, reassigning the host
// and destroying the room when it empties. Safe to call for connections that
// never joined a room.
func (co *Coordinator) LeaveOrDisconnect(id game.ConnectionID) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.leaveLocked(id)
}

// StartGame starts a new hand in the caller's room. Host-only.
func (co *Coordinator) StartGame(id game.ConnectionID) {
	co.mu.Lock()
	defer co.mu.Unlock()

	room := co.roomOf(id)
	if room == nil || !room.StartGame(id, co.rng) {
		co.logger.Debug("Ignoring startGame", "player", id)
		return
	}

	co.logger.Info("Game started", "room", room.Name(), "players", room.PlayerCount())
	co.broadcastViews(room, MessageTypeGameStarted)
}

// DealCommunityCards advances the caller's room by one betting round.
// Host-only.
func (co *Coordinator) DealCommunityCards(id game.ConnectionID) {
	co.mu.Lock()
	defer co.mu.Unlock()

	room := co.roomOf(id)
	if room == nil || !room.DealCommunityCards(id) {
		co.logger.Debug("Ignoring dealCommunityCards", "player", id)
		return
	}

	co.logger.Info("Community cards dealt", "room", room.Name(), "round", room.Round())

	// The board is public, so everyone gets the same payload.
	co.broadcast(room, MessageTypeCommunityCardsDealt, CommunityCardsDealtData{
		CommunityCards: room.Community(),
		BettingRound:   room.Round(),
		ChipHistory:    room.ChipHistory(),
	})
}

// TransferChip swaps chip tokens between the caller and the target player.
func (co *Coordinator) TransferChip(id, target game.ConnectionID) {
	co.mu.Lock()
	defer co.mu.Unlock()

	room := co.roomOf(id)
	if room == nil || !room.TransferChip(id, target) {
		co.logger.Debug("Ignoring transferChip", "player", id, "target", target)
		return
	}

	co.logger.Info("Chip transferred", "room", room.Name(), "from", id, "to", target)
	co.broadcastViews(room, MessageTypeGameStateUpdated)
}

// RevealHands scores the caller's room and broadcasts the unredacted hands,
// the outcome and the chip-ascending reveal order. Host-only, river only.
func (co *Coordinator) RevealHands(id game.ConnectionID) {
	co.mu.Lock()
	defer co.mu.Unlock()

	room := co.roomOf(id)
	if room == nil {
		co.logger.Debug("Ignoring revealHands", "player", id)
		return
	}
	outcome, ok := room.RevealHands(id)
	if !ok {
		co.logger.Debug("Ignoring revealHands", "player", id)
		return
	}

	co.logger.Info("Hands revealed", "room", room.Name(), "result", outcome.Result)
	co.broadcast(room, MessageTypeHandsRevealed, HandsRevealedData{
		Players:     room.RevealedView(),
		Result:      outcome.Result,
		RevealOrder: outcome.Order,
	})
}

// ListRooms returns the live rooms for lobby discovery.
func (co *Coordinator) ListRooms() []RoomInfo {
	co.mu.Lock()
	defer co.mu.Unlock()

	rooms := make([]RoomInfo, 0, co.registry.Len())
	for _, name := range co.registry.Names() {
		room := co.registry.Get(name)
		rooms = append(rooms, RoomInfo{
			Name:        name,
			PlayerCount: room.PlayerCount(),
			Started:     room.Started(),
		})
	}
	return rooms
}

// leaveLocked performs the leave sequence for a connection. Caller holds mu.
func (co *Coordinator) leaveLocked(id game.ConnectionID) {
	roomName, ok := co.memberships[id]
	if !ok {
		return
	}
	delete(co.memberships, id)

	room := co.registry.Get(roomName)
	if room == nil {
		return
	}
	room.RemovePlayer(id)

	if room.Empty() {
		co.registry.Remove(roomName)
		co.logger.Info("Room destroyed", "room", roomName)
		return
	}

	co.logger.Info("Player left room", "room", roomName, "player", id, "remaining", room.PlayerCount())
	co.broadcastLobby(room)
}

// roomOf resolves the room a connection is seated in. Caller holds mu.
func (co *Coordinator) roomOf(id game.ConnectionID) *game.Room {
	roomName, ok := co.memberships[id]
	if !ok {
		return nil
	}
	return co.registry.Get(roomName)
}

// broadcast sends the same payload to every player in the room.
func (co *Coordinator) broadcast(room *game.Room, messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data, co.clock.Now())
	if err != nil {
		co.logger.Error("Failed to create broadcast message", "type", messageType, "error", err)
		return
	}
	for _, pid := range room.PlayerIDs() {
		co.sender.SendTo(pid, msg)
	}
}

// broadcastViews sends each player their own redacted projection of the room.
func (co *Coordinator) broadcastViews(room *game.Room, messageType MessageType) {
	for _, pid := range room.PlayerIDs() {
		co.sendView(room, pid, messageType)
	}
}

// sendView sends one player their redacted projection of the room.
func (co *Coordinator) sendView(room *game.Room, id game.ConnectionID, messageType MessageType) {
	msg, err := NewMessage(messageType, room.ViewFor(id), co.clock.Now())
	if err != nil {
		co.logger.Error("Failed to create view message", "type", messageType, "error", err)
		return
	}
	co.sender.SendTo(id, msg)
}

// broadcastLobby sends the redacted player mapping to the whole room.
func (co *Coordinator) broadcastLobby(room *game.Room) {
	co.broadcast(room, MessageTypeUpdateLobby, UpdateLobbyData{Players: room.LobbyView()})
}
