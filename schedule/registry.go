package schedule

import "sort"

// RoomSet is a set of room identifiers within one building.
type RoomSet map[string]struct{}

// NewRoomSet returns a set holding rooms.
func NewRoomSet(rooms ...string) RoomSet {
	s := make(RoomSet, len(rooms))
	for _, r := range rooms {
		s[r] = struct{}{}
	}
	return s
}

func (s RoomSet) Add(room string) { s[room] = struct{}{} }

func (s RoomSet) Has(room string) bool {
	_, ok := s[room]
	return ok
}

// Difference returns a new set with the rooms of s that are not in other.
func (s RoomSet) Difference(other RoomSet) RoomSet {
	out := make(RoomSet, len(s))
	for r := range s {
		if !other.Has(r) {
			out[r] = struct{}{}
		}
	}
	return out
}

// Sorted lists the rooms in ascending order.
func (s RoomSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Registry maps a building code to every room known in it.
type Registry map[string]RoomSet

// BuildRegistry collects the rooms observed in t.
func BuildRegistry(t Table) Registry {
	reg := make(Registry)
	for _, m := range t {
		rooms, ok := reg[m.Building]
		if !ok {
			rooms = make(RoomSet)
			reg[m.Building] = rooms
		}
		rooms.Add(m.Room)
	}
	return reg
}

// Has reports whether building is known.
func (r Registry) Has(building string) bool {
	_, ok := r[building]
	return ok
}

// Buildings lists the building codes in ascending order.
func (r Registry) Buildings() []string {
	out := make([]string, 0, len(r))
	for b := range r {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
