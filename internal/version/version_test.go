package version

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGamePatch(t *testing.T) {
	dir := t.TempDir()
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, "Version.txt"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("live_1.5.3-110682\n")
	patch, err := GamePatch(dir)
	if err != nil {
		t.Fatalf("GamePatch: %v", err)
	}
	if patch != "1.5.3" {
		t.Errorf("patch = %q, want 1.5.3", patch)
	}

	write("garbage")
	if _, err := GamePatch(dir); err == nil {
		t.Error("want error for tag without separators")
	}

	if _, err := GamePatch(t.TempDir()); err == nil {
		t.Error("want error for missing Version.txt")
	}
}
