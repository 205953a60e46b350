package models

// SourceUpdate is the patch for modifying a source. Nil fields keep the
// source's current value.
type SourceUpdate struct {
	Name    *string `json:"name,omitempty"`
	Digital *bool   `json:"digital,omitempty"`
}

// ZoneUpdate is the patch for modifying a zone. Nil fields keep the zone's
// current value.
type ZoneUpdate struct {
	Name     *string `json:"name,omitempty"`
	SourceID *int    `json:"source_id,omitempty"`
	Mute     *bool   `json:"mute,omitempty"`
	Standby  *bool   `json:"stby,omitempty"`
	Vol      *int    `json:"vol,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`
}

// GroupUpdate is the patch for configuring a group. SourceID, Mute, and
// Standby pass through to every member zone; VolDelta adjusts each member's
// volume relative to its current value. A non-nil ZoneIDs replaces the
// member list wholesale.
type GroupUpdate struct {
	Name     *string `json:"name,omitempty"`
	SourceID *int    `json:"source_id,omitempty"`
	ZoneIDs  []int   `json:"zones,omitempty"`
	Mute     *bool   `json:"mute,omitempty"`
	Standby  *bool   `json:"stby,omitempty"`
	VolDelta *int    `json:"vol_delta,omitempty"`
}

// GroupCreate is the request for creating a new group.
type GroupCreate struct {
	Name    string `json:"name"`
	ZoneIDs []int  `json:"zones"`
}
