package dispatch_test

import (
	"context"
	"testing"

	"github.com/micro-nova/ethaudio-go/internal/config"
	"github.com/micro-nova/ethaudio-go/internal/controller"
	"github.com/micro-nova/ethaudio-go/internal/dispatch"
	"github.com/micro-nova/ethaudio-go/internal/events"
	"github.com/micro-nova/ethaudio-go/internal/hardware"
	"github.com/micro-nova/ethaudio-go/internal/runtime"
)

func newTestDispatcher(t *testing.T) (*dispatch.Dispatcher, *hardware.MockBus) {
	t.Helper()
	bus := hardware.NewMockBus()
	ctrl, err := controller.New(runtime.New(bus), config.NewMemStore(1), events.NewBus())
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	return dispatch.New(ctrl), bus
}

func TestReturnState(t *testing.T) {
	d, _ := newTestDispatcher(t)

	state, appErr := d.Dispatch(context.Background(), []byte(`{"command": "return_state"}`))
	if appErr != nil {
		t.Fatalf("return_state failed: %v", appErr)
	}
	if len(state.Zones) != 6 || len(state.Sources) != 4 {
		t.Errorf("unexpected state shape: %d zones, %d sources", len(state.Zones), len(state.Sources))
	}
}

func TestSetZoneCommand(t *testing.T) {
	d, bus := newTestDispatcher(t)

	state, appErr := d.Dispatch(context.Background(),
		[]byte(`{"command": "set_zone", "id": 2, "vol": -20}`))
	if appErr != nil {
		t.Fatalf("set_zone failed: %v", appErr)
	}
	z := state.Zones[2]
	if z.Vol != -20 || z.Mute || z.Standby {
		t.Errorf("zone 2 = %+v, want vol=-20 mute=false stby=false", z)
	}
	if got := bus.Register(hardware.BoardBaseAddr(0), hardware.RegCh3Atten); got != 0x14 {
		t.Errorf("CH3_ATTEN = 0x%02x, want 0x14", got)
	}
}

func TestSetSourceCommand(t *testing.T) {
	d, bus := newTestDispatcher(t)

	state, appErr := d.Dispatch(context.Background(),
		[]byte(`{"command": "set_source", "id": 1, "digital": true}`))
	if appErr != nil {
		t.Fatalf("set_source failed: %v", appErr)
	}
	if !state.Sources[1].Digital {
		t.Error("source 1 not digital")
	}
	if got := bus.Register(hardware.BoardBaseAddr(0), hardware.RegSrcAD); got != 0x02 {
		t.Errorf("SRC_AD = 0x%02x, want 0x02", got)
	}
}

func TestGroupCommands(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	state, appErr := d.Dispatch(ctx,
		[]byte(`{"command": "create_group", "name": "Party", "zones": [0, 1]}`))
	if appErr != nil {
		t.Fatalf("create_group failed: %v", appErr)
	}
	created := state.Groups[len(state.Groups)-1]
	if created.Name != "Party" {
		t.Errorf("created group = %+v", created)
	}

	state, appErr = d.Dispatch(ctx,
		[]byte(`{"command": "set_group", "id": 0, "vol_delta": 19}`))
	if appErr != nil {
		t.Fatalf("set_group failed: %v", appErr)
	}
	if state.Zones[0].Vol != -60 {
		t.Errorf("zone 0 vol = %d, want -60", state.Zones[0].Vol)
	}

	before := len(state.Groups)
	state, appErr = d.Dispatch(ctx,
		[]byte(`{"command": "delete_group", "id": 2}`))
	if appErr != nil {
		t.Fatalf("delete_group failed: %v", appErr)
	}
	if len(state.Groups) != before-1 {
		t.Errorf("group count = %d, want %d", len(state.Groups), before-1)
	}
}

func TestDispatchErrors(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
		code string
	}{
		{"malformed json", `{"command": `, "BAD_REQUEST"},
		{"missing command", `{"id": 1}`, "BAD_REQUEST"},
		{"unknown command", `{"command": "set_volume"}`, "BAD_REQUEST"},
		{"set_zone missing id", `{"command": "set_zone", "vol": -10}`, "BAD_REQUEST"},
		{"set_source missing id", `{"command": "set_source", "digital": true}`, "BAD_REQUEST"},
		{"delete_group missing id", `{"command": "delete_group"}`, "BAD_REQUEST"},
		{"unknown zone", `{"command": "set_zone", "id": 999, "vol": -10}`, "NOT_FOUND"},
		{"vol out of range", `{"command": "set_zone", "id": 0, "vol": -100}`, "BAD_REQUEST"},
		{"create_group no name", `{"command": "create_group", "zones": [0]}`, "BAD_REQUEST"},
	}
	for _, tc := range tests {
		_, appErr := d.Dispatch(ctx, []byte(tc.raw))
		if appErr == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if appErr.Code != tc.code {
			t.Errorf("%s: code = %s, want %s", tc.name, appErr.Code, tc.code)
		}
	}
}

func TestDispatchErrorLeavesStateUntouched(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	before, _ := d.Dispatch(ctx, []byte(`{"command": "return_state"}`))
	if _, appErr := d.Dispatch(ctx, []byte(`{"command": "set_zone", "id": 0, "vol": 5}`)); appErr == nil {
		t.Fatal("expected error")
	}
	after, _ := d.Dispatch(ctx, []byte(`{"command": "return_state"}`))

	if len(before.Zones) != len(after.Zones) {
		t.Fatal("state shape changed")
	}
	for i := range before.Zones {
		if before.Zones[i] != after.Zones[i] {
			t.Errorf("zone %d changed: %+v -> %+v", i, before.Zones[i], after.Zones[i])
		}
	}
}
