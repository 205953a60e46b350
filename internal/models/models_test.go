package models_test

import (
	"encoding/json"
	"testing"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

func TestDefaultState(t *testing.T) {
	state := models.DefaultState(3)

	if len(state.Sources) != 4 {
		t.Errorf("sources = %d, want 4", len(state.Sources))
	}
	if len(state.Zones) != 18 {
		t.Errorf("zones = %d, want 18", len(state.Zones))
	}
	if len(state.Groups) != 3 {
		t.Errorf("groups = %d, want 3", len(state.Groups))
	}

	for i, s := range state.Sources {
		if s.ID != i || s.Digital {
			t.Errorf("source %d = %+v, want analog with id %d", i, s, i)
		}
	}
	for i, z := range state.Zones {
		if z.ID != i {
			t.Errorf("zone %d has id %d", i, z.ID)
		}
		if !z.Mute || !z.Standby || z.Vol != models.MinVol || z.SourceID != 0 {
			t.Errorf("zone %d not in safe default state: %+v", i, z)
		}
	}
}

func TestDefaultStateClampsBoards(t *testing.T) {
	if got := len(models.DefaultState(0).Zones); got != models.ZonesPerBoard {
		t.Errorf("0 boards: %d zones, want %d", got, models.ZonesPerBoard)
	}
	want := models.MaxBoards * models.ZonesPerBoard
	if got := len(models.DefaultState(99).Zones); got != want {
		t.Errorf("99 boards: %d zones, want %d", got, want)
	}
}

func TestDeepCopyNoAliasing(t *testing.T) {
	orig := models.DefaultState(1)
	cp := orig.DeepCopy()

	cp.Zones[0].Vol = -10
	cp.Sources[0].Name = "changed"
	cp.Groups[0].ZoneIDs[0] = 99

	if orig.Zones[0].Vol != models.MinVol {
		t.Error("zone mutation leaked into original")
	}
	if orig.Sources[0].Name == "changed" {
		t.Error("source mutation leaked into original")
	}
	if orig.Groups[0].ZoneIDs[0] == 99 {
		t.Error("group zone list shares memory with original")
	}
}

func TestClampVol(t *testing.T) {
	tests := []struct{ in, want int }{
		{-100, models.MinVol},
		{models.MinVol, models.MinVol},
		{-40, -40},
		{models.MaxVol, models.MaxVol},
		{5, models.MaxVol},
	}
	for _, tc := range tests {
		if got := models.ClampVol(tc.in); got != tc.want {
			t.Errorf("ClampVol(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestZoneWireFormat(t *testing.T) {
	z := models.Zone{ID: 2, Name: "Zone 3", SourceID: 1, Standby: true, Vol: -20}
	data, err := json.Marshal(z)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	// The standby flag travels as "stby" on the wire.
	if _, ok := fields["stby"]; !ok {
		t.Errorf("zone JSON missing stby field: %s", data)
	}
	if _, ok := fields["source_id"]; !ok {
		t.Errorf("zone JSON missing source_id field: %s", data)
	}
}

func TestAppErrorWireFormat(t *testing.T) {
	appErr := models.ErrNotFound("zone 99 not found")
	data, err := json.Marshal(appErr)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["error"] != "zone 99 not found" {
		t.Errorf("error JSON = %s, want {\"error\": ...}", data)
	}
	if len(fields) != 1 {
		t.Errorf("error JSON leaks internal fields: %s", data)
	}
}
