package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/micro-nova/ethaudio-go/internal/config"
	"github.com/micro-nova/ethaudio-go/internal/models"
)

func TestMemStoreDefaults(t *testing.T) {
	store := config.NewMemStore(2)

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Zones) != 12 {
		t.Errorf("zones = %d, want 12", len(state.Zones))
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	store := config.NewMemStore(1)

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	state.Zones[0].Vol = -25
	if err := store.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the saved pointer must not affect the stored copy.
	state.Zones[0].Vol = -50

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Zones[0].Vol != -25 {
		t.Errorf("vol = %d, want -25", loaded.Zones[0].Vol)
	}
}

func TestLoadDaemonDefaults(t *testing.T) {
	cfg, err := config.LoadDaemon("")
	if err != nil {
		t.Fatalf("LoadDaemon: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.Boards != 1 || cfg.Hostname != "ethaudio" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadDaemonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ethaudio.yaml")
	body := `
listen: ":9090"
boards: 3
mock: true
log:
  file: /tmp/ethaudio.log
  debug: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadDaemon(path)
	if err != nil {
		t.Fatalf("LoadDaemon: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.Boards != 3 || !cfg.Mock {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Log.File != "/tmp/ethaudio.log" || !cfg.Log.Debug {
		t.Errorf("log config not applied: %+v", cfg.Log)
	}
	// Values absent from the file keep their defaults.
	if cfg.Log.MaxSizeMB != 10 {
		t.Errorf("MaxSizeMB = %d, want default 10", cfg.Log.MaxSizeMB)
	}
}

func TestLoadDaemonInvalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadDaemon(badYAML); err == nil {
		t.Error("expected error for malformed YAML")
	}

	tooManyBoards := filepath.Join(dir, "boards.yaml")
	if err := os.WriteFile(tooManyBoards, []byte("boards: 16"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadDaemon(tooManyBoards); err == nil {
		t.Errorf("expected error for boards > %d", models.MaxBoards)
	}

	if _, err := config.LoadDaemon(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
