package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHostKeyPathCreatesDirectory(t *testing.T) {
	want := filepath.Join(t.TempDir(), "keys", "nested", "host_key")

	got, err := hostKeyPath(want)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("hostKeyPath() = %q, expected %q", got, want)
	}
	info, err := os.Stat(filepath.Dir(want))
	if err != nil {
		t.Fatalf("key directory missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("key directory mode = %o, expected 700", perm)
	}
}

func TestNewSSHServerDefaults(t *testing.T) {
	dir := t.TempDir()
	srv, err := NewSSHServer(SSHServerConfig{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(dir, "host_key"),
		DBPath:      filepath.Join(dir, "scores.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Shutdown()

	if srv.config.TickRate != DefaultSSHServerConfig().TickRate {
		t.Errorf("TickRate = %d, expected default", srv.config.TickRate)
	}
	if srv.store == nil {
		t.Error("store not opened")
	}
	if active, served := srv.Sessions(); active != 0 || served != 0 {
		t.Errorf("Sessions() = %d, %d before serving", active, served)
	}
}
