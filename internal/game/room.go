package game

import (
	rand "math/rand/v2"
	"sort"

	"github.com/lox/chipswap/internal/deck"
	"github.com/lox/chipswap/internal/evaluator"
)

// BettingRound is the phase gating how many community cards are visible.
// The wire representation is the numeric value.
type BettingRound int

const (
	PreFlop BettingRound = iota
	Flop
	Turn
	River
)

// String returns the string representation of a betting round
func (b BettingRound) String() string {
	switch b {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Result is the outcome of a reveal. Empty until hands are revealed.
type Result string

const (
	ResultWon  Result = "won"
	ResultLost Result = "lost"
)

// ChipEntry is one player's chip assignment inside a history snapshot.
type ChipEntry struct {
	Username string `json:"username"`
	Chip     int    `json:"chip"`
}

// ChipSnapshot maps each dealt player to their chip at a point in time.
// Snapshots are taken immediately after dealing and after each community
// card reveal.
type ChipSnapshot map[ConnectionID]ChipEntry

// RevealEntry is one player's line in the reveal order, ascending by chip.
type RevealEntry struct {
	ID           ConnectionID `json:"id"`
	Username     string       `json:"username"`
	Chip         int          `json:"chip"`
	Hand         []deck.Card  `json:"hand"`
	HandStrength int          `json:"handStrength"`
}

// RevealOutcome is the scored result of a reveal.
type RevealOutcome struct {
	Order  []RevealEntry
	Result Result
}

// Room is the authoritative state container for one game instance. It is not
// safe for concurrent use; the coordinator serialises all access. Every
// operation that can fail validates its authorisation and preconditions and
// reports false without touching state, so out-of-order client actions can
// never corrupt a room.
type Room struct {
	name        string
	order       []ConnectionID
	players     map[ConnectionID]*Player
	started     bool
	deck        *deck.Deck
	community   []deck.Card
	round       BettingRound
	hostID      ConnectionID
	chipHistory []ChipSnapshot
	revealed    bool
	result      Result
}

// NewRoom creates an empty room.
func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		players: make(map[ConnectionID]*Player),
	}
}

// Name returns the room's registry key.
func (r *Room) Name() string {
	return r.name
}

// AddPlayer seats a player. The first player to join becomes host. Joining
// again with an id already seated only updates the username.
func (r *Room) AddPlayer(id ConnectionID, username string) *Player {
	if p, ok := r.players[id]; ok {
		p.Username = username
		return p
	}

	p := &Player{
		ID:       id,
		Username: username,
		Hand:     []deck.Card{},
	}
	if len(r.players) == 0 {
		r.hostID = id
		p.IsHost = true
	}
	r.players[id] = p
	r.order = append(r.order, id)
	return p
}

// RemovePlayer unseats a player. If the host leaves and players remain, the
// first remaining player in join order becomes host. This is a deterministic
// policy, not a fairness guarantee.
func (r *Room) RemovePlayer(id ConnectionID) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if r.hostID == id {
		r.hostID = ""
		if len(r.order) > 0 {
			r.hostID = r.order[0]
			r.players[r.hostID].IsHost = true
		}
	}
	return true
}

// Empty reports whether the room has no seated players.
func (r *Room) Empty() bool {
	return len(r.players) == 0
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// PlayerIDs returns the seated connection ids in join order.
func (r *Room) PlayerIDs() []ConnectionID {
	out := make([]ConnectionID, len(r.order))
	copy(out, r.order)
	return out
}

// Player returns the seated player with the given id, or nil.
func (r *Room) Player(id ConnectionID) *Player {
	return r.players[id]
}

// HostID returns the current host's connection id, empty when the room is.
func (r *Room) HostID() ConnectionID {
	return r.hostID
}

// Started reports whether a game is in progress.
func (r *Room) Started() bool {
	return r.started
}

// Round returns the current betting round.
func (r *Room) Round() BettingRound {
	return r.round
}

// Revealed reports whether hands have been revealed this game.
func (r *Room) Revealed() bool {
	return r.revealed
}

// Result returns the reveal outcome, empty before reveal.
func (r *Room) Result() Result {
	return r.result
}

// Community returns a copy of the dealt community cards.
func (r *Room) Community() []deck.Card {
	out := make([]deck.Card, len(r.community))
	copy(out, r.community)
	return out
}

// ChipHistory returns the recorded chip snapshots.
func (r *Room) ChipHistory() []ChipSnapshot {
	return r.chipHistory
}

// StartGame resets all hand-scoped state, shuffles a fresh deck, deals two
// cards to each player in join order and assigns chip tokens 1..N
// positionally. Host-only; requires at least two players.
func (r *Room) StartGame(caller ConnectionID, rng *rand.Rand) bool {
	if caller != r.hostID || len(r.players) < 2 {
		return false
	}

	r.started = true
	r.deck = deck.NewShuffled(rng)
	r.community = nil
	r.round = PreFlop
	r.chipHistory = nil
	r.revealed = false
	r.result = ""

	for i, id := range r.order {
		p := r.players[id]
		p.Hand = r.deck.DrawN(2)
		p.Chip = i + 1
	}
	r.snapshotChips()
	return true
}

// DealCommunityCards advances exactly one betting round: the flop deals
// three cards, the turn and river one each. Calling at the river is a no-op.
// Host-only; requires a started game.
func (r *Room) DealCommunityCards(caller ConnectionID) bool {
	if caller != r.hostID || !r.started {
		return false
	}

	switch r.round {
	case PreFlop:
		r.community = append(r.community, r.deck.DrawN(3)...)
		r.round = Flop
	case Flop:
		r.community = append(r.community, r.deck.Draw())
		r.round = Turn
	case Turn:
		r.community = append(r.community, r.deck.Draw())
		r.round = River
	default:
		return false
	}

	r.snapshotChips()
	return true
}

// TransferChip swaps the chip tokens of the caller and the target. Any
// seated player may transfer with any other before reveal; the caller's chip
// must be assigned. Chip identity is preserved: the operation is exactly a
// pairwise swap.
func (r *Room) TransferChip(caller, target ConnectionID) bool {
	source, ok := r.players[caller]
	if !ok {
		return false
	}
	dest, ok := r.players[target]
	if !ok {
		return false
	}
	if source.Chip == 0 || r.revealed {
		return false
	}

	source.Chip, dest.Chip = dest.Chip, source.Chip
	return true
}

// RevealHands scores every dealt player's hand and checks whether chip order
// exactly matches hand-strength order: walking players in ascending chip
// order, each hand must be strictly stronger than the previous one.
// Host-only; only allowed at the river.
func (r *Room) RevealHands(caller ConnectionID) (*RevealOutcome, bool) {
	if caller != r.hostID || !r.started || r.round != River {
		return nil, false
	}

	var entries []RevealEntry
	for _, id := range r.order {
		p := r.players[id]
		if p.Chip == 0 {
			// Late joiners observe; they hold no hand or chip.
			continue
		}
		entries = append(entries, RevealEntry{
			ID:           id,
			Username:     p.Username,
			Chip:         p.Chip,
			Hand:         append([]deck.Card{}, p.Hand...),
			HandStrength: evaluator.Score(p.Hand, r.community),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Chip < entries[j].Chip
	})

	result := ResultWon
	for i := 1; i < len(entries); i++ {
		if entries[i].HandStrength <= entries[i-1].HandStrength {
			result = ResultLost
			break
		}
	}

	r.revealed = true
	r.result = result
	return &RevealOutcome{Order: entries, Result: result}, true
}

// snapshotChips appends the current chip assignment to the history.
func (r *Room) snapshotChips() {
	snap := make(ChipSnapshot, len(r.players))
	for id, p := range r.players {
		if p.Chip == 0 {
			continue
		}
		snap[id] = ChipEntry{Username: p.Username, Chip: p.Chip}
	}
	r.chipHistory = append(r.chipHistory, snap)
}
