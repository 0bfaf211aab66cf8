// Package discover guesses the game's save directory and newest save file.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSaveFile reports a directory with no matching save files.
var ErrNoSaveFile = errors.New("no save files found")

// save files are named GameSave_<slot>_GD.sav
const (
	savePrefix = "GameSave"
	saveSuffix = "_GD.sav"
)

// SaveDir returns the platform save directory: the game keeps saves under
// <home>/AppData/LocalLow/nexon/DAVE THE DIVER/SteamSData/<steamID>/. When a
// numeric SteamID folder exists its path is returned, otherwise the base
// SteamSData path is returned as-is and the caller's file scan decides.
func SaveDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	base := filepath.Join(home, "AppData", "LocalLow", "nexon", "DAVE THE DIVER", "SteamSData")
	return steamIDDir(base), nil
}

// steamIDDir returns the first all-digit subdirectory of base, or base
// itself when none exists.
func steamIDDir(base string) string {
	entries, err := os.ReadDir(base)
	if err != nil {
		return base
	}
	for _, e := range entries {
		if e.IsDir() && isAllDigits(e.Name()) {
			return filepath.Join(base, e.Name())
		}
	}
	return base
}

// LatestSaveFile returns the most recently modified GameSave_*_GD.sav file
// in dir.
func LatestSaveFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read save dir %q: %w", dir, err)
	}

	var newest string
	var newestTime time.Time
	for _, e := range entries {
		if e.IsDir() || !isSaveFileName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = e.Name()
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoSaveFile, dir)
	}
	return filepath.Join(dir, newest), nil
}

func isSaveFileName(name string) bool {
	return len(name) > 10 &&
		strings.HasPrefix(name, savePrefix) &&
		strings.HasSuffix(name, saveSuffix)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
