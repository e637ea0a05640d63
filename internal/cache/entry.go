package cache

import (
	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/stamp"
	"github.com/croftbox/hsworker/internal/wire"
)

// Entry is the persisted outcome of the last compilation round for one
// configuration.
type Entry struct {
	// Stamp is the configuration timestamp of the session that
	// produced the result
	Stamp stamp.TimeStamp

	// Result is the folded compilation result
	Result compile.Result

	// Graph is the module graph reported by the worker
	Graph []hs.ModuleSummary
}

func (e *Entry) encode() []byte {
	b := wire.AppendTimeStamp(nil, e.Stamp)
	b = wire.AppendResult(b, e.Result)
	return wire.AppendSummaries(b, e.Graph)
}

func decodeEntry(b []byte) (*Entry, error) {
	ts, rest, err := wire.DecodeTimeStamp(b)
	if err != nil {
		return nil, err
	}

	result, rest, err := wire.DecodeResult(rest)
	if err != nil {
		return nil, err
	}

	graph, rest, err := wire.DecodeSummaries(rest)
	if err != nil {
		return nil, err
	}

	if len(rest) != 0 {
		return nil, wire.Trailing(len(rest))
	}

	return &Entry{Stamp: ts, Result: result, Graph: graph}, nil
}

// Fresh reports whether the entry still reflects the configuration's
// on-disk content.
func (e *Entry) Fresh(cfg config.Config) bool {
	return !config.Stale(cfg, e.Stamp)
}
