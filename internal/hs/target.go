package hs

import "strings"

// Target identifies what a compilation request should build. Exactly
// one of the three variants is active.
type Target interface {
	isTarget()
	String() string
}

// ModuleTarget requests compilation of a module by name.
type ModuleTarget struct {
	Module ModuleName
}

// FileTarget requests compilation of a single source file.
type FileTarget struct {
	Path string
}

// CabalTarget requests compilation of a project descriptor file.
type CabalTarget struct {
	Path string
}

func (ModuleTarget) isTarget() {}
func (FileTarget) isTarget()   {}
func (CabalTarget) isTarget()  {}

func (t ModuleTarget) String() string { return "module:" + string(t.Module) }
func (t FileTarget) String() string   { return t.Path }
func (t CabalTarget) String() string  { return t.Path }

// ParseTarget parses a target argument. "module:<name>" selects a
// module target, a path ending in ".cabal" a descriptor target, and
// anything else a file target.
func ParseTarget(s string) Target {
	if name, ok := strings.CutPrefix(s, "module:"); ok {
		return ModuleTarget{Module: ModuleName(name)}
	}

	if strings.HasSuffix(s, ".cabal") {
		return CabalTarget{Path: s}
	}

	return FileTarget{Path: s}
}
