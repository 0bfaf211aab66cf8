package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestLatestSaveFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "GameSave_00_GD.sav"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(dir, "GameSave_01_GD.sav"), now.Add(-time.Minute))
	touch(t, filepath.Join(dir, "GameSave_02_GD.sav"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "notes.txt"), now)              // wrong shape
	touch(t, filepath.Join(dir, "GameSave_01_GD.sav.bak"), now) // wrong suffix

	got, err := LatestSaveFile(dir)
	if err != nil {
		t.Fatalf("LatestSaveFile error: %v", err)
	}
	if want := filepath.Join(dir, "GameSave_01_GD.sav"); got != want {
		t.Errorf("latest = %s, want %s", got, want)
	}
}

func TestLatestSaveFileEmpty(t *testing.T) {
	if _, err := LatestSaveFile(t.TempDir()); !errors.Is(err, ErrNoSaveFile) {
		t.Errorf("error = %v, want ErrNoSaveFile", err)
	}
}

func TestSteamIDDir(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "logs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "76561198000000000"), 0755); err != nil {
		t.Fatal(err)
	}

	if got, want := steamIDDir(base), filepath.Join(base, "76561198000000000"); got != want {
		t.Errorf("steamIDDir = %s, want %s", got, want)
	}
}

func TestSteamIDDirFallsBackToBase(t *testing.T) {
	base := t.TempDir()
	if got := steamIDDir(base); got != base {
		t.Errorf("steamIDDir = %s, want base %s", got, base)
	}
	if got := steamIDDir(filepath.Join(base, "missing")); got != filepath.Join(base, "missing") {
		t.Error("missing base should be returned as-is")
	}
}

func TestIsSaveFileName(t *testing.T) {
	cases := map[string]bool{
		"GameSave_00_GD.sav": true,
		"GameSave_12_GD.sav": true,
		"GameSave_GD.sav":    true,
		"gamesave_00_GD.sav": false,
		"GameSave_00_SD.sav": false,
		"_GD.sav":            false,
	}
	for name, want := range cases {
		if got := isSaveFileName(name); got != want {
			t.Errorf("isSaveFileName(%q) = %v, want %v", name, got, want)
		}
	}
}
