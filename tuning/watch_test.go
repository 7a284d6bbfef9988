package tuning

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDebouncerDropsRapidRepeats(t *testing.T) {
	deb := newDebouncer(100 * time.Millisecond)
	base := time.Now()

	if !deb.allow("world.yaml", base) {
		t.Fatal("first event should pass")
	}
	if deb.allow("world.yaml", base.Add(40*time.Millisecond)) {
		t.Fatal("repeat inside the window should be dropped")
	}
	if !deb.allow("player.yaml", base.Add(41*time.Millisecond)) {
		t.Fatal("a different file should not be suppressed")
	}
	if !deb.allow("world.yaml", base.Add(150*time.Millisecond)) {
		t.Fatal("repeat past the window should pass")
	}
}

func TestCloseWithPendingEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	// Queue far more writes than the channel buffers and never read them,
	// so the forwarder is mid-send when Close lands.
	for i := 0; i < 40; i++ {
		name := filepath.Join(dir, fmt.Sprintf("spec%d.yaml", i))
		if err := os.WriteFile(name, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	time.Sleep(150 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Both channels must end up closed; the drains hang (and the test
	// times out) if they are left dangling.
	for range w.Events {
	}
	for range w.Errors {
	}

	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatchedFileKinds(t *testing.T) {
	tests := []struct {
		path   string
		spec   bool
		script bool
	}{
		{"tuning/world.yaml", true, false},
		{"tuning/world.YML", true, false},
		{"script/scripts/level.tengo", false, true},
		{"notes.txt", false, false},
		{"tuning/world.yaml.swp", false, false},
	}
	for _, tt := range tests {
		if got := isSpecFile(tt.path); got != tt.spec {
			t.Errorf("isSpecFile(%s) = %v, want %v", tt.path, got, tt.spec)
		}
		if got := isScriptFile(tt.path); got != tt.script {
			t.Errorf("isScriptFile(%s) = %v, want %v", tt.path, got, tt.script)
		}
	}
}
