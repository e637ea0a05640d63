// Package session caches the pairing of a build configuration with a
// running worker process and its accumulated compilation state.
package session

import (
	"sync/atomic"

	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/stamp"
	"github.com/croftbox/hsworker/internal/worker"
)

// ID is an opaque session handle. IDs are strictly increasing within a
// process lifetime and never reused.
type ID uint64

// FirstID is the id assigned to the first session.
const FirstID ID = 1

// IDSource hands out strictly increasing session ids, starting at
// FirstID. Safe for concurrent use.
type IDSource struct {
	last atomic.Uint64
}

// Next returns the next session id.
func (s *IDSource) Next() ID {
	return ID(s.last.Add(1) + uint64(FirstID) - 1)
}

// State is the cached per-session bundle. It is created when a worker
// is successfully launched for a configuration, mutated only by
// replacing ModuleGraph and LastResult after a compilation round, and
// destroyed when its worker is torn down or superseded.
type State struct {
	ID          ID
	Config      config.Config
	ConfigStamp stamp.TimeStamp
	Worker      *worker.Handle
	OutputDir   string
	ModuleGraph []hs.ModuleSummary
	LastResult  compile.Result
}

// Stale reports whether the content behind the session's configuration
// has changed since the session was created.
func (s *State) Stale() bool {
	return config.Stale(s.Config, s.ConfigStamp)
}
