package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Anwar-ar/DaveSaveEd/internal/config"
	"github.com/Anwar-ar/DaveSaveEd/internal/discover"
)

func TestResolveSavePathFlagWins(t *testing.T) {
	fileFlag = "/flag/GameSave_00_GD.sav"
	defer func() { fileFlag = "" }()

	cfg := &config.Config{}
	cfg.Save.File = "/config/GameSave_01_GD.sav"

	got, err := resolveSavePath(cfg)
	if err != nil {
		t.Fatalf("resolveSavePath error: %v", err)
	}
	if got != "/flag/GameSave_00_GD.sav" {
		t.Errorf("path = %q, want flag value", got)
	}
}

func TestResolveSavePathConfigFile(t *testing.T) {
	fileFlag = ""
	cfg := &config.Config{}
	cfg.Save.File = "/config/GameSave_01_GD.sav"

	got, err := resolveSavePath(cfg)
	if err != nil {
		t.Fatalf("resolveSavePath error: %v", err)
	}
	if got != "/config/GameSave_01_GD.sav" {
		t.Errorf("path = %q, want config value", got)
	}
}

func TestResolveSavePathScansConfigDir(t *testing.T) {
	fileFlag = ""
	dir := t.TempDir()
	old := filepath.Join(dir, "GameSave_00_GD.sav")
	newer := filepath.Join(dir, "GameSave_01_GD.sav")
	for _, p := range []string{old, newer} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	cfg := &config.Config{}
	cfg.Save.Dir = dir

	got, err := resolveSavePath(cfg)
	if err != nil {
		t.Fatalf("resolveSavePath error: %v", err)
	}
	if got != newer {
		t.Errorf("path = %q, want newest save %q", got, newer)
	}
}

func TestResolveSavePathEmptyDir(t *testing.T) {
	fileFlag = ""
	cfg := &config.Config{}
	cfg.Save.Dir = t.TempDir()

	if _, err := resolveSavePath(cfg); !errors.Is(err, discover.ErrNoSaveFile) {
		t.Errorf("error = %v, want ErrNoSaveFile", err)
	}
}
