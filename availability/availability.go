// Package availability answers "which rooms are free" for a day and time by
// subtracting the rooms a schedule occupies from the known rooms.
package availability

import "timeschd-roomfinder/schedule"

// Occupied returns the rooms in building that hold a meeting on day at minutes.
func Occupied(t schedule.Table, building string, day schedule.Day, minutes int) schedule.RoomSet {
	rooms := make(schedule.RoomSet)
	for _, m := range t {
		if m.Building == building && m.Occupies(day, minutes) {
			rooms.Add(m.Room)
		}
	}
	return rooms
}

// FindAvailable returns the rooms of building that are free on day at minutes.
// rooms is the universe for the building and is not modified.
func FindAvailable(t schedule.Table, building string, day schedule.Day, minutes int, rooms schedule.RoomSet) schedule.RoomSet {
	return rooms.Difference(Occupied(t, building, day, minutes))
}

// FindAvailableAny runs FindAvailable for every building in reg. Buildings
// with no free room are left out of the result.
func FindAvailableAny(t schedule.Table, day schedule.Day, minutes int, reg schedule.Registry) map[string]schedule.RoomSet {
	occupied := make(map[string]schedule.RoomSet)
	for _, m := range t {
		if !m.Occupies(day, minutes) {
			continue
		}
		rooms, ok := occupied[m.Building]
		if !ok {
			rooms = make(schedule.RoomSet)
			occupied[m.Building] = rooms
		}
		rooms.Add(m.Room)
	}

	out := make(map[string]schedule.RoomSet, len(reg))
	for building, rooms := range reg {
		free := rooms.Difference(occupied[building])
		if len(free) > 0 {
			out[building] = free
		}
	}
	return out
}
