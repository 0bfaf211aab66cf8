package refdata

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/Anwar-ar/DaveSaveEd/internal/logging"
)

// openFromDump loads a SQL dump (optionally gzip-compressed) into a fresh
// in-memory database. The game data itself never changes at runtime, so the
// dump is executed once and the store is read-only from then on.
func openFromDump(path string, log logging.Logger) (*Store, error) {
	script, err := ReadDump(path)
	if err != nil {
		return nil, err
	}
	logging.Logf(log, logging.Info, "reference SQL dump read, %d bytes", len(script))

	s, err := open(":memory:", log)
	if err != nil {
		return nil, err
	}
	if err := s.ExecScript(script); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Log(logging.Info, "in-memory reference database populated")
	return s, nil
}

// ReadDump reads a SQL dump file, transparently decompressing .gz files.
func ReadDump(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open reference dump: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("open gzip reference dump: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read reference dump: %w", err)
	}
	return string(data), nil
}
