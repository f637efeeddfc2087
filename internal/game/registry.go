package game

import "sort"

// Registry is the process-wide table of rooms, keyed by name. Rooms are
// created on first join and must be removed once their last player leaves.
// The registry is not safe for concurrent use; the owning coordinator
// serialises access to it.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate resolves a room by name, creating it when unseen. The second
// return value reports whether the room was created by this call.
func (reg *Registry) GetOrCreate(name string) (*Room, bool) {
	if room, ok := reg.rooms[name]; ok {
		return room, false
	}
	room := NewRoom(name)
	reg.rooms[name] = room
	return room, true
}

// Get returns the room with the given name, or nil.
func (reg *Registry) Get(name string) *Room {
	return reg.rooms[name]
}

// Remove deletes a room from the registry.
func (reg *Registry) Remove(name string) {
	delete(reg.rooms, name)
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	return len(reg.rooms)
}

// Names returns the live room names in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.rooms))
	for name := range reg.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
