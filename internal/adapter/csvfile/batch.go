package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
)

// move is a pending or completed rename from one name to another.
type move struct {
	from string
	to   string
}

// batch stages table files under temporary names and swaps them in together.
// Until commit succeeds no file outside the temporaries has been touched, and
// a commit that fails part way puts the previous files back.
type batch struct {
	staged []move   // temp -> target
	stale  []string // removed on commit
}

// add writes t to a temporary file next to path.
func (b *batch) add(path string, t domain.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := writeTable(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmp.Name()) //nolint:errcheck // best effort
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck // best effort
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck // best effort
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}

	b.staged = append(b.staged, move{from: tmp.Name(), to: path})
	return nil
}

// remove schedules path for deletion on commit.
func (b *batch) remove(path string) {
	b.stale = append(b.stale, path)
}

// commit moves every existing target and stale file aside, renames the
// temporaries into place and finally drops the set-aside copies. On failure
// the set-aside files are restored.
func (b *batch) commit() error {
	for _, s := range b.staged {
		if err := checkReplaceable(s.to); err != nil {
			return err
		}
	}
	for _, path := range b.stale {
		if err := checkReplaceable(path); err != nil {
			return err
		}
	}

	var aside []move // backup -> original
	restore := func() {
		for i := len(aside) - 1; i >= 0; i-- {
			os.Rename(aside[i].from, aside[i].to) //nolint:errcheck // best effort
		}
	}

	targets := make([]string, 0, len(b.staged)+len(b.stale))
	for _, s := range b.staged {
		targets = append(targets, s.to)
	}
	targets = append(targets, b.stale...)

	for _, path := range targets {
		backup, err := setAside(path)
		if err != nil {
			restore()
			return err
		}
		if backup != "" {
			aside = append(aside, move{from: backup, to: path})
		}
	}

	for i, s := range b.staged {
		if err := os.Rename(s.from, s.to); err != nil {
			for _, placed := range b.staged[:i] {
				os.Remove(placed.to) //nolint:errcheck // replaced by restore below
			}
			restore()
			return fmt.Errorf("rename to %s: %w", s.to, err)
		}
	}

	var errs []error
	for _, a := range aside {
		if err := os.Remove(a.from); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("outputs written, remove old copies: %w", errors.Join(errs...))
	}
	return nil
}

// discard removes temporaries that were not committed.
func (b *batch) discard() {
	for _, s := range b.staged {
		os.Remove(s.from) //nolint:errcheck // already renamed after a commit
	}
}

// checkReplaceable fails when path exists and is not a regular file, which
// would make a rename onto it or its removal fail mid-commit.
func checkReplaceable(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", path)
	}
	return nil
}

// setAside renames path to a hidden backup name in the same directory and
// returns that name, or "" when path does not exist.
func setAside(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	placeholder, err := os.CreateTemp(filepath.Dir(path), ".bak-"+filepath.Base(path)+"-*")
	if err != nil {
		return "", fmt.Errorf("reserve backup name: %w", err)
	}
	backup := placeholder.Name()
	placeholder.Close()

	if err := os.Rename(path, backup); err != nil {
		os.Remove(backup) //nolint:errcheck // best effort
		return "", fmt.Errorf("set aside %s: %w", path, err)
	}
	return backup, nil
}

func writeTable(f *os.File, t domain.Table) error {
	cw := csv.NewWriter(f)
	cw.Comma = Delimiter
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
