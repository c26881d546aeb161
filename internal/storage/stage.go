package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Staged is a file artifact written to a temporary path and renamed into
// place on Commit. The temporary file lives in the same directory as the
// final path so the rename stays on one filesystem.
//
// Usage:
//
//	st, err := NewStaged(finalPath)
//	...write to st.Path()...
//	err = st.Commit() // or st.Discard() on failure
type Staged struct {
	final string
	tmp   string
	done  bool
}

// NewStaged reserves a temporary file next to finalPath and returns the
// staged artifact. The temporary file is created empty; writers truncate or
// append as they see fit.
func NewStaged(finalPath string) (*Staged, error) {
	dir := filepath.Dir(finalPath)
	base := filepath.Base(finalPath)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", finalPath, err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("stage %s: close: %w", finalPath, err)
	}
	return &Staged{final: finalPath, tmp: tmp}, nil
}

// Path returns the temporary path writers should target until Commit.
func (s *Staged) Path() string { return s.tmp }

// FinalPath returns the destination path the artifact will have after Commit.
func (s *Staged) FinalPath() string { return s.final }

// Commit renames the temporary file onto the final path, replacing any
// previous artifact. After a successful Commit, Discard is a no-op.
func (s *Staged) Commit() error {
	if s.done {
		return nil
	}
	if err := os.Rename(s.tmp, s.final); err != nil {
		return fmt.Errorf("commit %s: %w", s.final, err)
	}
	s.done = true
	return nil
}

// Discard removes the temporary file if Commit has not happened. It is safe
// to call unconditionally (e.g. via defer); errors are ignored because the
// leftover file is harmless and the run is already failing when Discard does
// real work.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	_ = os.Remove(s.tmp)
	s.done = true
}
