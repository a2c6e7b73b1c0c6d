package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

// Compile-time check: StateFile implements geosuggest.QueryStore.
var _ geosuggest.QueryStore = (*StateFile)(nil)

type stateDoc struct {
	LastQuery string    `toml:"last_query"`
	SavedAt   time.Time `toml:"saved_at"`
}

// StateFile persists the last query in a TOML file. A sibling .lock file
// serialises concurrent terminals.
type StateFile struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
	now    func() time.Time
}

// NewStateFile stores state at path.
func NewStateFile(path string, logger *zap.Logger) *StateFile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateFile{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
		now:    time.Now,
	}
}

// DefaultStatePath is <user config dir>/geosuggest/state.toml.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "geosuggest", "state.toml")
}

// Load returns the saved query. A missing or unreadable file counts as no query.
func (s *StateFile) Load() (string, bool) {
	doc, err := s.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read state file", zap.String("path", s.path), zap.Error(err))
		}
		return "", false
	}
	return doc.LastQuery, true
}

// Save writes query, replacing the file atomically.
func (s *StateFile) Save(query string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock state file: %w", err)
	}
	defer s.unlock()

	data, err := toml.Marshal(stateDoc{LastQuery: query, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (s *StateFile) read() (stateDoc, error) {
	if _, err := os.Stat(s.path); err != nil {
		return stateDoc{}, err
	}
	if err := s.lock.RLock(); err != nil {
		return stateDoc{}, fmt.Errorf("lock state file: %w", err)
	}
	defer s.unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return stateDoc{}, err
	}
	var doc stateDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return stateDoc{}, fmt.Errorf("decode state: %w", err)
	}
	return doc, nil
}

func (s *StateFile) unlock() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("unlock state file", zap.String("path", s.path), zap.Error(err))
	}
}
