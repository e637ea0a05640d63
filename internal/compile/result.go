// Package compile defines compilation outcomes and their aggregation
// across incremental passes.
package compile

import (
	"sort"
	"time"
)

// Severity classifies a diagnostic note. Errors order before warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Note is a single diagnostic produced by a compilation pass.
type Note struct {
	Severity Severity
	Message  string
}

// Result is the outcome of one or more compilation passes. Notes is a
// multiset held in ascending order; duplicates are significant, since
// independent passes over different targets may legitimately report the
// same note twice.
type Result struct {
	Succeeded bool
	Notes     []Note
	Elapsed   time.Duration
}

// Identity is the neutral element of Merge: a successful result with no
// notes and zero elapsed time.
func Identity() Result {
	return Result{Succeeded: true}
}

// NewResult builds a result with its notes in canonical order.
func NewResult(succeeded bool, notes []Note, elapsed time.Duration) Result {
	return Result{
		Succeeded: succeeded,
		Notes:     SortNotes(notes),
		Elapsed:   elapsed,
	}
}

// Merge combines two results. Success requires both inputs to have
// succeeded, notes are the multiset union of both inputs, and elapsed
// times add. Merge is associative and commutative with Identity as its
// neutral element, so any number of passes fold to the same outcome
// regardless of order or grouping.
func Merge(a, b Result) Result {
	notes := make([]Note, 0, len(a.Notes)+len(b.Notes))
	notes = append(notes, a.Notes...)
	notes = append(notes, b.Notes...)

	return Result{
		Succeeded: a.Succeeded && b.Succeeded,
		Notes:     SortNotes(notes),
		Elapsed:   a.Elapsed + b.Elapsed,
	}
}

// SortNotes returns the notes in ascending order. An empty input yields
// nil so that merged results compare equal to Identity.
func SortNotes(notes []Note) []Note {
	if len(notes) == 0 {
		return nil
	}

	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return NoteLess(sorted[i], sorted[j])
	})

	return sorted
}

// NoteLess orders notes by severity, then message.
func NoteLess(a, b Note) bool {
	if a.Severity != b.Severity {
		return a.Severity < b.Severity
	}

	return a.Message < b.Message
}
