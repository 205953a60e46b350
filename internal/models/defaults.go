package models

import "fmt"

// DefaultState returns the base configuration for a system with the given
// number of preamp boards: 4 analog sources, 6 zones per board (all muted, in
// standby, at minimum volume, routed to source 0), and the stock groups.
func DefaultState(boards int) State {
	if boards < 1 {
		boards = 1
	}
	if boards > MaxBoards {
		boards = MaxBoards
	}

	sources := make([]Source, NumSources)
	for i := range sources {
		sources[i] = Source{
			ID:   i,
			Name: fmt.Sprintf("Source %d", i+1),
		}
	}

	zones := make([]Zone, boards*ZonesPerBoard)
	for i := range zones {
		zones[i] = Zone{
			ID:       i,
			Name:     fmt.Sprintf("Zone %d", i+1),
			SourceID: 0,
			Mute:     true,
			Standby:  true,
			Vol:      MinVol,
		}
	}

	groups := []Group{
		{ID: 0, Name: "Group 1", ZoneIDs: []int{0, 1, 2}},
		{ID: 1, Name: "Group 2", ZoneIDs: []int{2, 3, 4}},
		{ID: 2, Name: "Group 3", ZoneIDs: []int{5}},
	}

	return State{
		Sources: sources,
		Zones:   zones,
		Groups:  groups,
	}
}
