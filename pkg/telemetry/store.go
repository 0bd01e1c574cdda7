package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SnapshotStore persists a best-effort snapshot of recent log entries.
// The snapshot is overwritten wholesale on every save, last write wins;
// it is never reloaded into a running buffer.
type SnapshotStore interface {
	Save(data []byte) error
	Load() ([]byte, error)
	Delete() error
}

// FileStore writes snapshots to a single file on the given filesystem.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Save(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Load() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) Delete() error {
	err := s.fs.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot %s: %w", s.path, err)
	}
	return nil
}

// NopStore discards snapshots. Useful for tests or when persistence is disabled.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (*NopStore) Save([]byte) error    { return nil }
func (*NopStore) Load() ([]byte, error) { return nil, nil }
func (*NopStore) Delete() error        { return nil }
