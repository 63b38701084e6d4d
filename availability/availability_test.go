package availability

import (
	"reflect"
	"testing"

	"timeschd-roomfinder/schedule"
)

func eebTable() schedule.Table {
	return schedule.Table{
		{Days: schedule.NewDaySet(schedule.Monday), Start: 540, End: 600, Building: "EEB", Room: "125"},
	}
}

func TestFindAvailableExample(t *testing.T) {
	reg := schedule.Registry{"EEB": schedule.NewRoomSet("125", "042")}

	got := FindAvailable(eebTable(), "EEB", schedule.Monday, 570, reg["EEB"])
	if !reflect.DeepEqual(got.Sorted(), []string{"042"}) {
		t.Errorf("at 570: %v", got.Sorted())
	}

	got = FindAvailable(eebTable(), "EEB", schedule.Monday, 601, reg["EEB"])
	if !reflect.DeepEqual(got.Sorted(), []string{"042", "125"}) {
		t.Errorf("at 601: %v", got.Sorted())
	}
	if len(reg["EEB"]) != 2 {
		t.Fatal("registry was modified")
	}
}

func TestBoundaryMinutesAreOccupied(t *testing.T) {
	rooms := schedule.NewRoomSet("125", "042")
	for _, minutes := range []int{540, 600} {
		got := FindAvailable(eebTable(), "EEB", schedule.Monday, minutes, rooms)
		if got.Has("125") {
			t.Errorf("room 125 free at boundary minute %d", minutes)
		}
	}
}

func TestOtherDayAndBuildingIgnored(t *testing.T) {
	table := schedule.Table{
		{Days: schedule.NewDaySet(schedule.Thursday), Start: 540, End: 600, Building: "EEB", Room: "125"},
		{Days: schedule.NewDaySet(schedule.Tuesday), Start: 540, End: 600, Building: "MGH", Room: "125"},
	}
	got := FindAvailable(table, "EEB", schedule.Tuesday, 570, schedule.NewRoomSet("125"))
	if !got.Has("125") {
		t.Fatal("room occupied by a Thursday or other-building meeting")
	}
}

// Available and occupied rooms partition the registry for every query.
func TestPartition(t *testing.T) {
	table := schedule.Table{
		{Days: schedule.NewDaySet(schedule.Monday, schedule.Wednesday), Start: 480, End: 530, Building: "EEB", Room: "125"},
		{Days: schedule.NewDaySet(schedule.Tuesday, schedule.Thursday), Start: 510, End: 620, Building: "EEB", Room: "042"},
		{Days: schedule.NewDaySet(schedule.Monday), Start: 600, End: 650, Building: "EEB", Room: "003"},
		{Days: schedule.NewDaySet(schedule.Friday), Start: 700, End: 760, Building: "MGH", Room: "030"},
	}
	reg := schedule.BuildRegistry(table)

	for building, rooms := range reg {
		for day := schedule.Monday; day <= schedule.Saturday; day++ {
			for minutes := 450; minutes <= 800; minutes += 10 {
				free := FindAvailable(table, building, day, minutes, rooms)
				busy := Occupied(table, building, day, minutes)
				for r := range free {
					if busy.Has(r) {
						t.Fatalf("%s %v %d: room %s both free and occupied", building, day, minutes, r)
					}
				}
				for r := range rooms {
					if !free.Has(r) && !busy.Has(r) {
						t.Fatalf("%s %v %d: room %s neither free nor occupied", building, day, minutes, r)
					}
				}
				if len(free)+len(busy) != len(rooms) {
					t.Fatalf("%s %v %d: %d free + %d busy != %d rooms", building, day, minutes, len(free), len(busy), len(rooms))
				}
			}
		}
	}
}

func TestFindAvailableAny(t *testing.T) {
	table := schedule.Table{
		{Days: schedule.NewDaySet(schedule.Monday), Start: 540, End: 600, Building: "EEB", Room: "125"},
		{Days: schedule.NewDaySet(schedule.Monday), Start: 540, End: 600, Building: "MGH", Room: "030"},
	}
	reg := schedule.Registry{
		"EEB": schedule.NewRoomSet("125", "042"),
		"MGH": schedule.NewRoomSet("030"),
	}

	got := FindAvailableAny(table, schedule.Monday, 570, reg)
	if _, ok := got["MGH"]; ok {
		t.Errorf("MGH returned with no free rooms: %v", got["MGH"])
	}
	if !reflect.DeepEqual(got["EEB"].Sorted(), []string{"042"}) {
		t.Errorf("EEB = %v", got["EEB"].Sorted())
	}
	for b, rooms := range got {
		if len(rooms) == 0 {
			t.Errorf("building %s returned empty", b)
		}
	}

	got["EEB"].Add("999")
	if reg["EEB"].Has("999") || len(reg["EEB"]) != 2 {
		t.Fatal("result aliases the registry")
	}

	later := FindAvailableAny(table, schedule.Monday, 700, reg)
	if len(later) != 2 || len(later["EEB"]) != 2 {
		t.Errorf("at 700: %v", later)
	}
}
