// Package savegame holds the decoded save document and implements the
// load/mutate/write lifecycle, the typed field accessors, and the bulk
// inventory mutators.
package savegame

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Anwar-ar/DaveSaveEd/internal/codec"
	"github.com/Anwar-ar/DaveSaveEd/internal/logging"
)

// MaxCurrency is the largest value the game accepts for gold, bei and
// artisan's flame. Setters clamp to it. Follower count is deliberately
// not clamped; the game imposes no ceiling there.
const MaxCurrency int64 = 999999999

// backupSubdir is the folder created under the system temp directory for
// pre-write copies of the original save.
const backupSubdir = "DaveSaveEd_Backups"

var (
	// ErrNotLoaded reports an operation invoked before a successful Load.
	ErrNotLoaded = errors.New("no save file loaded")
	// ErrSectionMissing reports an absent or malformed top-level section.
	ErrSectionMissing = errors.New("save section missing or malformed")
	// ErrNilRefData reports a bulk operation invoked without a reference store.
	ErrNilRefData = errors.New("reference data store is nil")
)

// Manager owns exactly one loaded save file: its path, its decoded document
// and the loaded flag. It is not safe for concurrent use; the design assumes
// one editing session per file.
type Manager struct {
	log    logging.Logger
	doc    *Document
	path   string
	loaded bool

	// BackupDir overrides the backup location when non-empty. Used by
	// configuration and tests; the default is <tempdir>/DaveSaveEd_Backups.
	BackupDir string
}

// NewManager returns an empty Manager reporting diagnostics to log.
func NewManager(log logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard
	}
	return &Manager{log: log}
}

// IsLoaded reports whether a save file is currently loaded.
func (m *Manager) IsLoaded() bool { return m.loaded }

// Path returns the path of the loaded save file, or "".
func (m *Manager) Path() string { return m.path }

// Document exposes the loaded document for read-only inspection (dumps).
// Nil when nothing is loaded.
func (m *Manager) Document() *Document {
	if !m.loaded {
		return nil
	}
	return m.doc
}

// Load reads, decodes and parses a save file. On any failure the prior
// state is fully discarded: loaded becomes false and the document is reset.
func (m *Manager) Load(path string) error {
	m.loaded = false
	m.path = ""
	m.doc = nil

	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Logf(m.log, logging.Error, "could not read save file %s: %v", path, err)
		return fmt.Errorf("read save file: %w", err)
	}
	logging.Logf(m.log, logging.Info, "read %d bytes from %s", len(raw), path)

	text, err := codec.Decode(raw)
	if err != nil {
		logging.Logf(m.log, logging.Error, "decode failed for %s: %v", path, err)
		return err
	}

	doc, err := NewDocument(text)
	if err != nil {
		logging.Logf(m.log, logging.Error, "parse failed for %s: %v", path, err)
		return fmt.Errorf("%w: %v", codec.ErrFormat, err)
	}

	m.doc = doc
	m.path = path
	m.loaded = true
	m.log.Log(logging.Info, "save file loaded and parsed")
	return nil
}

// Write re-encodes the document and overwrites the original save file,
// copying the current on-disk original to a timestamped backup first. It
// returns the backup path on success. The original is never left half
// written: every failure before the final write leaves it untouched, and
// the backup (once made) survives any later failure.
func (m *Manager) Write() (string, error) {
	if !m.loaded || m.path == "" {
		m.log.Log(logging.Warning, "attempted to write save file, but no file is loaded")
		return "", ErrNotLoaded
	}

	backupPath, err := m.backupOriginal()
	if err != nil {
		return "", err
	}
	logging.Logf(m.log, logging.Info, "original save backed up to %s", backupPath)

	raw := codec.Encode(m.doc.Compact())
	if err := os.WriteFile(m.path, raw, 0644); err != nil {
		logging.Logf(m.log, logging.Error, "could not write save file %s: %v", m.path, err)
		return "", fmt.Errorf("write save file: %w", err)
	}

	logging.Logf(m.log, logging.Info, "modified save written to %s", m.path)
	return backupPath, nil
}

// backupOriginal copies the on-disk original into the backup directory under
// a timestamped name, creating the directory if needed.
func (m *Manager) backupOriginal() (string, error) {
	dir := m.BackupDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), backupSubdir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		// Temp location unusable; fall back to a backups folder beside
		// the save file.
		logging.Logf(m.log, logging.Error, "backup dir %s unavailable (%v), falling back beside save", dir, err)
		dir = filepath.Join(filepath.Dir(m.path), "backups")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create backup dir: %w", err)
		}
	}

	base := filepath.Base(m.path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s_%s%s", stem, time.Now().Format("20060102_150405"), ext)
	backupPath := filepath.Join(dir, name)

	if err := copyFile(m.path, backupPath); err != nil {
		logging.Logf(m.log, logging.Error, "backup copy failed: %v", err)
		return "", fmt.Errorf("backup save file: %w", err)
	}
	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// currency getter/setter field paths
const (
	goldField     = "PlayerInfo.m_Gold"
	beiField      = "PlayerInfo.m_Bei"
	flameField    = "PlayerInfo.m_ChefFlame"
	followerField = "SNSInfo.m_Follow_Count"
)

// GetGold returns the gold balance, or 0 when unloaded or the field is
// absent. Absence is "zero", never an error.
func (m *Manager) GetGold() int64 { return m.getField("PlayerInfo", goldField) }

// GetBei returns the bei balance, or 0.
func (m *Manager) GetBei() int64 { return m.getField("PlayerInfo", beiField) }

// GetArtisansFlame returns the artisan's flame balance, or 0.
func (m *Manager) GetArtisansFlame() int64 { return m.getField("PlayerInfo", flameField) }

// GetFollowerCount returns the social follower count, or 0.
func (m *Manager) GetFollowerCount() int64 { return m.getField("SNSInfo", followerField) }

func (m *Manager) getField(section, path string) int64 {
	if !m.loaded {
		return 0
	}
	if _, ok := m.doc.Section(section); !ok {
		return 0
	}
	f := m.doc.Get(path)
	if !f.Exists() {
		return 0
	}
	return f.Int()
}

// SetGold sets the gold balance, clamped to MaxCurrency.
func (m *Manager) SetGold(v int64) { m.setClamped("gold", "PlayerInfo", goldField, v) }

// SetBei sets the bei balance, clamped to MaxCurrency.
func (m *Manager) SetBei(v int64) { m.setClamped("bei", "PlayerInfo", beiField, v) }

// SetArtisansFlame sets the artisan's flame balance, clamped to MaxCurrency.
func (m *Manager) SetArtisansFlame(v int64) {
	m.setClamped("artisan's flame", "PlayerInfo", flameField, v)
}

// SetFollowerCount sets the follower count. Unlike the currency setters it
// applies no clamp.
func (m *Manager) SetFollowerCount(v int64) {
	if !m.guardSection("follower count", "SNSInfo") {
		return
	}
	if err := m.doc.Set(followerField, v); err != nil {
		logging.Logf(m.log, logging.Error, "set follower count: %v", err)
		return
	}
	logging.Logf(m.log, logging.Info, "follower count set to %d", v)
}

func (m *Manager) setClamped(label, section, path string, v int64) {
	if !m.guardSection(label, section) {
		return
	}
	if v > MaxCurrency {
		v = MaxCurrency
	}
	if err := m.doc.Set(path, v); err != nil {
		logging.Logf(m.log, logging.Error, "set %s: %v", label, err)
		return
	}
	logging.Logf(m.log, logging.Info, "%s set to %d", label, v)
}

// guardSection checks that the document is loaded and the owning section is
// present and an object. Setters never create a missing section.
func (m *Manager) guardSection(label, section string) bool {
	if m.loaded {
		if _, ok := m.doc.Section(section); ok {
			return true
		}
	}
	logging.Logf(m.log, logging.Warning, "attempted to set %s, but %s section not found or invalid", label, section)
	return false
}
