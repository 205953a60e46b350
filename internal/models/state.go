// Package models defines the data structures for the EthAudio system.
// JSON field names match the original controller's wire format exactly.
package models

// Source represents one of the 4 system-wide audio inputs.
type Source struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Digital bool   `json:"digital"` // digital vs RCA analog input select
}

// Zone represents one amplified output channel.
type Zone struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	SourceID int    `json:"source_id"`
	Mute     bool   `json:"mute"`
	Standby  bool   `json:"stby"`
	Vol      int    `json:"vol"`      // dB attenuation, range [-79, 0], 0 is loudest
	Disabled bool   `json:"disabled"` // zone has no speakers connected
}

// Group is a named collection of zones controlled together.
type Group struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	ZoneIDs []int  `json:"zones"`
}

// State is the complete system configuration.
type State struct {
	Sources []Source `json:"sources"`
	Zones   []Zone   `json:"zones"`
	Groups  []Group  `json:"groups"`
}

// DeepCopy returns a copy of the state sharing no memory with the original.
func (s State) DeepCopy() State {
	next := State{}

	next.Sources = make([]Source, len(s.Sources))
	copy(next.Sources, s.Sources)

	next.Zones = make([]Zone, len(s.Zones))
	copy(next.Zones, s.Zones)

	// Groups carry a zone id slice that needs its own copy.
	next.Groups = make([]Group, len(s.Groups))
	for i, g := range s.Groups {
		ng := g
		if g.ZoneIDs != nil {
			ng.ZoneIDs = make([]int, len(g.ZoneIDs))
			copy(ng.ZoneIDs, g.ZoneIDs)
		}
		next.Groups[i] = ng
	}

	return next
}

// System-wide sizing and volume constants.
const (
	NumSources    = 4
	ZonesPerBoard = 6
	MaxBoards     = 15

	MinVol = -79 // quietest; implies mute + standby
	MaxVol = 0   // loudest

	// SourceDisconnected marks a zone with no source routed to it.
	SourceDisconnected = -1
)

// ClampVol clamps a volume to the valid attenuation range.
func ClampVol(vol int) int {
	if vol < MinVol {
		return MinVol
	}
	if vol > MaxVol {
		return MaxVol
	}
	return vol
}
