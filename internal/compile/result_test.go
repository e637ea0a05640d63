package compile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeExample(t *testing.T) {
	noteA := Note{Severity: SeverityWarning, Message: "unused import"}
	noteB := Note{Severity: SeverityError, Message: "type mismatch"}

	r1 := NewResult(true, []Note{noteA}, 1500*time.Millisecond)
	r2 := NewResult(false, []Note{noteA, noteB}, 2*time.Second)

	merged := Merge(r1, r2)

	assert.False(t, merged.Succeeded)
	assert.Equal(t, 3500*time.Millisecond, merged.Elapsed)

	// noteA appears with combined multiplicity
	assert.Equal(t, []Note{noteB, noteA, noteA}, merged.Notes)
}

func TestMergeIdentity(t *testing.T) {
	r := NewResult(false, []Note{
		{Severity: SeverityError, Message: "boom"},
		{Severity: SeverityError, Message: "boom"},
	}, 42*time.Millisecond)

	assert.Equal(t, r, Merge(Identity(), r))
	assert.Equal(t, r, Merge(r, Identity()))
	assert.Equal(t, Identity(), Merge(Identity(), Identity()))
}

func TestMergeCommutative(t *testing.T) {
	a := NewResult(true, []Note{{Severity: SeverityWarning, Message: "w1"}}, time.Second)
	b := NewResult(false, []Note{{Severity: SeverityError, Message: "e1"}}, 2*time.Second)

	assert.Equal(t, Merge(a, b), Merge(b, a))
}

func TestMergeAssociative(t *testing.T) {
	a := NewResult(true, []Note{{Severity: SeverityWarning, Message: "w1"}}, time.Second)
	b := NewResult(false, []Note{{Severity: SeverityError, Message: "e1"}}, 2*time.Second)
	c := NewResult(true, []Note{{Severity: SeverityWarning, Message: "w1"}}, 3*time.Second)

	assert.Equal(t, Merge(a, Merge(b, c)), Merge(Merge(a, b), c))
}

func TestSortNotes(t *testing.T) {
	notes := []Note{
		{Severity: SeverityWarning, Message: "b"},
		{Severity: SeverityError, Message: "z"},
		{Severity: SeverityWarning, Message: "a"},
	}

	sorted := SortNotes(notes)

	assert.Equal(t, []Note{
		{Severity: SeverityError, Message: "z"},
		{Severity: SeverityWarning, Message: "a"},
		{Severity: SeverityWarning, Message: "b"},
	}, sorted)

	// Input is not mutated
	assert.Equal(t, Note{Severity: SeverityWarning, Message: "b"}, notes[0])

	// Empty and nil both normalize to nil
	assert.Nil(t, SortNotes(nil))
	assert.Nil(t, SortNotes([]Note{}))
}
