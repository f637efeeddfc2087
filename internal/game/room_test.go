package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/chipswap/internal/deck"
	"github.com/lox/chipswap/internal/randutil"
)

func newTestRoom(t *testing.T, players ...string) *Room {
	t.Helper()
	room := NewRoom("test-room")
	for i, name := range players {
		room.AddPlayer(ConnectionID(rune('a'+i)), name)
	}
	return room
}

func assertSingleHost(t *testing.T, room *Room) {
	t.Helper()
	hosts := 0
	for _, id := range room.PlayerIDs() {
		if room.Player(id).IsHost {
			hosts++
			assert.Equal(t, room.HostID(), id, "isHost player must match hostID")
		}
	}
	assert.Equal(t, 1, hosts, "exactly one player must be host")
}

func TestFirstPlayerBecomesHost(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")

	require.Equal(t, ConnectionID("a"), room.HostID())
	assert.True(t, room.Player("a").IsHost)
	assert.False(t, room.Player("b").IsHost)
	assertSingleHost(t, room)
}

func TestHostReassignmentFollowsJoinOrder(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")

	require.True(t, room.RemovePlayer("a"))
	assert.Equal(t, ConnectionID("b"), room.HostID())
	assertSingleHost(t, room)

	require.True(t, room.RemovePlayer("b"))
	assert.Equal(t, ConnectionID("c"), room.HostID())
	assertSingleHost(t, room)

	require.True(t, room.RemovePlayer("c"))
	assert.True(t, room.Empty())
	assert.Equal(t, ConnectionID(""), room.HostID())
}

func TestNonHostLeaveKeepsHost(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")

	require.True(t, room.RemovePlayer("b"))
	assert.Equal(t, ConnectionID("a"), room.HostID())
	assertSingleHost(t, room)
}

func TestRemoveUnknownPlayer(t *testing.T) {
	room := newTestRoom(t, "alice")
	assert.False(t, room.RemovePlayer("zz"))
}

func TestStartGameDealsAndAssignsChips(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")

	require.True(t, room.StartGame("a", randutil.New(42)))
	require.True(t, room.Started())
	assert.Equal(t, PreFlop, room.Round())

	// 52 minus two hole cards per player.
	assert.Equal(t, 52-6, room.deck.Remaining())

	seen := make(map[deck.Card]bool)
	for _, c := range room.deck.Cards() {
		seen[c] = true
	}
	for i, id := range room.PlayerIDs() {
		p := room.Player(id)
		require.Len(t, p.Hand, 2)
		assert.Equal(t, i+1, p.Chip, "chips are assigned positionally in join order")
		for _, c := range p.Hand {
			assert.False(t, seen[c], "card %v dealt twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 52, "deck plus hands must cover the 52-card universe")

	require.Len(t, room.ChipHistory(), 1)
	snap := room.ChipHistory()[0]
	assert.Equal(t, ChipEntry{Username: "alice", Chip: 1}, snap["a"])
	assert.Equal(t, ChipEntry{Username: "carol", Chip: 3}, snap["c"])
}

func TestStartGameRequiresHost(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	assert.False(t, room.StartGame("b", randutil.New(1)))
	assert.False(t, room.Started())
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	room := newTestRoom(t, "alice")
	assert.False(t, room.StartGame("a", randutil.New(1)))
	assert.False(t, room.Started())
}

func TestStartGameResetsHandScopedState(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	require.True(t, room.StartGame("a", randutil.New(1)))
	for i := 0; i < 3; i++ {
		require.True(t, room.DealCommunityCards("a"))
	}
	_, ok := room.RevealHands("a")
	require.True(t, ok)
	require.True(t, room.Revealed())

	require.True(t, room.StartGame("a", randutil.New(2)))
	assert.Equal(t, PreFlop, room.Round())
	assert.Empty(t, room.Community())
	assert.False(t, room.Revealed())
	assert.Equal(t, Result(""), room.Result())
	assert.Len(t, room.ChipHistory(), 1)
}

func TestRoundAdvancement(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	require.True(t, room.StartGame("a", randutil.New(42)))

	wantCounts := []int{3, 4, 5, 5}
	wantRounds := []BettingRound{Flop, Turn, River, River}
	wantOK := []bool{true, true, true, false}

	for i := range wantCounts {
		ok := room.DealCommunityCards("a")
		assert.Equal(t, wantOK[i], ok, "deal %d", i+1)
		assert.Len(t, room.Community(), wantCounts[i], "deal %d", i+1)
		assert.Equal(t, wantRounds[i], room.Round(), "deal %d", i+1)
	}

	// Initial deal plus one snapshot per successful community deal.
	assert.Len(t, room.ChipHistory(), 4)
}

func TestDealCommunityCardsRequiresHostAndStart(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	assert.False(t, room.DealCommunityCards("a"), "game not started")

	require.True(t, room.StartGame("a", randutil.New(1)))
	assert.False(t, room.DealCommunityCards("b"), "not host")
	assert.Empty(t, room.Community())
}

func TestTransferChipSwaps(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")
	require.True(t, room.StartGame("a", randutil.New(42)))

	require.True(t, room.TransferChip("a", "c"))
	assert.Equal(t, 3, room.Player("a").Chip)
	assert.Equal(t, 1, room.Player("c").Chip)
	assert.Equal(t, 2, room.Player("b").Chip)

	// Two consecutive swaps are the identity.
	require.True(t, room.TransferChip("a", "c"))
	assert.Equal(t, 1, room.Player("a").Chip)
	assert.Equal(t, 3, room.Player("c").Chip)

	chips := map[int]bool{}
	for _, id := range room.PlayerIDs() {
		chips[room.Player(id).Chip] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, chips, "chip set is invariant under transfers")
}

func TestTransferChipPreconditions(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")

	assert.False(t, room.TransferChip("a", "b"), "no chips before dealing")

	require.True(t, room.StartGame("a", randutil.New(1)))
	assert.False(t, room.TransferChip("a", "zz"), "unknown target")
	assert.False(t, room.TransferChip("zz", "a"), "unknown source")

	for i := 0; i < 3; i++ {
		require.True(t, room.DealCommunityCards("a"))
	}
	_, ok := room.RevealHands("a")
	require.True(t, ok)
	assert.False(t, room.TransferChip("a", "b"), "no transfers after reveal")
}

// fixHands overwrites dealt state so hand strengths are deterministic.
func fixHands(t *testing.T, room *Room, hands map[ConnectionID][]deck.Card, community []deck.Card) {
	t.Helper()
	for id, hand := range hands {
		require.NotNil(t, room.Player(id))
		room.players[id].Hand = hand
	}
	room.community = community
	room.round = River
}

func TestRevealHandsWonWhenChipOrderMatchesStrength(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")
	require.True(t, room.StartGame("a", randutil.New(42)))

	// Strengths ascend with chips: high card 12 < pair 109 < trips 311.
	fixHands(t, room, map[ConnectionID][]deck.Card{
		"a": {{Suit: deck.Clubs, Rank: deck.Three}, {Suit: deck.Hearts, Rank: deck.Seven}},
		"b": {{Suit: deck.Diamonds, Rank: deck.Nine}, {Suit: deck.Hearts, Rank: deck.Four}},
		"c": {{Suit: deck.Spades, Rank: deck.Jack}, {Suit: deck.Clubs, Rank: deck.Jack}},
	}, []deck.Card{
		{Suit: deck.Diamonds, Rank: deck.Two},
		{Suit: deck.Spades, Rank: deck.Five},
		{Suit: deck.Clubs, Rank: deck.Nine},
		{Suit: deck.Hearts, Rank: deck.Jack},
		{Suit: deck.Diamonds, Rank: deck.Queen},
	})

	outcome, ok := room.RevealHands("a")
	require.True(t, ok)
	assert.Equal(t, ResultWon, outcome.Result)
	assert.True(t, room.Revealed())
	assert.Equal(t, ResultWon, room.Result())

	require.Len(t, outcome.Order, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{outcome.Order[0].Chip, outcome.Order[1].Chip, outcome.Order[2].Chip})
	assert.True(t, outcome.Order[0].HandStrength < outcome.Order[1].HandStrength)
	assert.True(t, outcome.Order[1].HandStrength < outcome.Order[2].HandStrength)
}

func TestRevealHandsLostWhenChipOrderInverted(t *testing.T) {
	room := newTestRoom(t, "alice", "bob", "carol")
	require.True(t, room.StartGame("a", randutil.New(42)))

	fixHands(t, room, map[ConnectionID][]deck.Card{
		"a": {{Suit: deck.Clubs, Rank: deck.Three}, {Suit: deck.Hearts, Rank: deck.Seven}},
		"b": {{Suit: deck.Diamonds, Rank: deck.Nine}, {Suit: deck.Hearts, Rank: deck.Four}},
		"c": {{Suit: deck.Spades, Rank: deck.Jack}, {Suit: deck.Clubs, Rank: deck.Jack}},
	}, []deck.Card{
		{Suit: deck.Diamonds, Rank: deck.Two},
		{Suit: deck.Spades, Rank: deck.Five},
		{Suit: deck.Clubs, Rank: deck.Nine},
		{Suit: deck.Hearts, Rank: deck.Jack},
		{Suit: deck.Diamonds, Rank: deck.Queen},
	})

	// Swap the weakest and strongest hands' chips.
	require.True(t, room.TransferChip("a", "c"))

	outcome, ok := room.RevealHands("a")
	require.True(t, ok)
	assert.Equal(t, ResultLost, outcome.Result)
}

func TestRevealHandsOnlyAtRiver(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	require.True(t, room.StartGame("a", randutil.New(1)))

	_, ok := room.RevealHands("a")
	assert.False(t, ok, "pre-flop reveal must no-op")

	require.True(t, room.DealCommunityCards("a"))
	require.True(t, room.DealCommunityCards("a"))
	_, ok = room.RevealHands("a")
	assert.False(t, ok, "turn reveal must no-op")

	require.True(t, room.DealCommunityCards("a"))
	_, ok = room.RevealHands("b")
	assert.False(t, ok, "non-host reveal must no-op")

	_, ok = room.RevealHands("a")
	assert.True(t, ok)
}

func TestRevealSkipsUndealtLateJoiner(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	require.True(t, room.StartGame("a", randutil.New(1)))
	room.AddPlayer("late", "dave")

	for i := 0; i < 3; i++ {
		require.True(t, room.DealCommunityCards("a"))
	}

	outcome, ok := room.RevealHands("a")
	require.True(t, ok)
	assert.Len(t, outcome.Order, 2, "late joiner holds no chip and is not scored")
}

func TestRejoinKeepsSeatAndUpdatesUsername(t *testing.T) {
	room := newTestRoom(t, "alice", "bob")
	require.True(t, room.StartGame("a", randutil.New(1)))

	hand := room.Player("a").Hand
	room.AddPlayer("a", "alicia")

	assert.Equal(t, "alicia", room.Player("a").Username)
	assert.Equal(t, hand, room.Player("a").Hand, "rejoin must not reset the hand")
	assert.Equal(t, 2, room.PlayerCount())
}
