package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/logging"
	"github.com/croftbox/hsworker/internal/wire"
	"github.com/croftbox/hsworker/internal/worker"
)

// startFunc is injectable for tests.
type startFunc func(name, workingDir string, args []string) (*worker.Handle, error)

// Store is an explicit, owned table of sessions keyed by configuration.
// Tests construct isolated instances; nothing here is process-global.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	ids      IDSource

	workerName string
	outputRoot string
	start      startFunc
	watch      *Watcher
}

// NewStore creates a session store that launches workers by the given
// executable name and places per-session scratch directories under
// outputRoot.
func NewStore(workerName, outputRoot string) *Store {
	return &Store{
		sessions:   make(map[string]*State),
		workerName: workerName,
		outputRoot: outputRoot,
		start:      worker.Start,
	}
}

// ValidOrRefresh returns a usable session for cfg. If a cached session
// exists for a structurally equal configuration and is not stale, it is
// returned unchanged without spawning anything. Otherwise any existing
// session for that configuration is torn down and a fresh worker is
// started. Start failures propagate to the caller; no retry happens
// here.
func (s *Store) ValidOrRefresh(cfg config.Config) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := wire.ConfigKey(cfg)

	if cur, ok := s.sessions[key]; ok {
		if !cur.Stale() {
			return cur, nil
		}

		s.teardownLocked(key, cur)
	}

	// The session's timestamp is the governing file's own mtime, so the
	// session can never look fresher than the content it reflects.
	ts, err := config.ModStamp(cfg)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	id := s.ids.Next()

	outputDir := filepath.Join(s.outputRoot, fmt.Sprintf("session-%d", id))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	h, err := s.start(s.workerName, outputDir, config.WorkerFlags(cfg))
	if err != nil {
		return nil, err
	}

	st := &State{
		ID:          id,
		Config:      cfg,
		ConfigStamp: ts,
		Worker:      h,
		OutputDir:   outputDir,
		LastResult:  compile.Identity(),
	}

	s.sessions[key] = st

	if s.watch != nil {
		if path, ok := config.StalenessPath(cfg); ok {
			if err := s.watch.add(path); err != nil {
				logging.WithFields("path", path).Warn("cannot watch config file", "err", err)
			}
		}
	}

	logging.WithFields("session", uint64(id), "worker", s.workerName).Debug("session started")

	return st, nil
}

// UpdateAfterCompilation replaces the session's module graph and last
// result. It never resets the config timestamp or replaces the worker.
func (s *Store) UpdateAfterCompilation(st *State, graph []hs.ModuleSummary, result compile.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.ModuleGraph = graph
	st.LastResult = result
}

// Invalidate tears down the session cached for cfg, if any. Used after
// a protocol decode error or worker crash, when the session cannot be
// trusted anymore.
func (s *Store) Invalidate(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := wire.ConfigKey(cfg)
	if cur, ok := s.sessions[key]; ok {
		s.teardownLocked(key, cur)
	}
}

// invalidateByPath tears down every session whose staleness file is
// path. Called from the watcher.
func (s *Store) invalidateByPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, st := range s.sessions {
		if p, ok := config.StalenessPath(st.Config); ok && p == path {
			s.teardownLocked(key, st)
		}
	}
}

// Shutdown tears down every cached session.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, st := range s.sessions {
		s.teardownLocked(key, st)
	}
}

func (s *Store) teardownLocked(key string, st *State) {
	delete(s.sessions, key)

	// A non-zero exit during teardown is routine for a worker being
	// replaced; only log it.
	if err := st.Worker.Close(); err != nil {
		logging.WithFields("session", uint64(st.ID)).Debug("worker teardown", "err", err)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
