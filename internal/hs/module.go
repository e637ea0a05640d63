// Package hs models Haskell build entities: module names, module
// summaries, build targets and cabal components. The types here are
// pure values; anything touching the file system or a worker process
// lives elsewhere.
package hs

import (
	"path/filepath"
	"strings"
)

// ModuleName is a dot-separated Haskell module identifier, e.g.
// "Data.Map.Strict". Equality and ordering are structural.
type ModuleName string

// Parts splits the module name into its dot-separated components.
func (m ModuleName) Parts() []string {
	if m == "" {
		return nil
	}

	return strings.Split(string(m), ".")
}

func (m ModuleName) String() string {
	return string(m)
}

// Less reports whether m orders before other.
func (m ModuleName) Less(other ModuleName) bool {
	return m < other
}

// HsFileType distinguishes regular source files from boot interface files.
type HsFileType int

const (
	SourceFile HsFileType = iota
	BootFile
)

func (t HsFileType) String() string {
	switch t {
	case SourceFile:
		return "source"
	case BootFile:
		return "boot"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for this file type.
func (t HsFileType) Ext() string {
	if t == BootFile {
		return ".hs-boot"
	}

	return ".hs"
}

// FromSourcePath converts a relative source path into a module name and
// file type. The conversion is total: any path yields a result, even if
// the file would not be a valid Haskell module.
func FromSourcePath(path string) (ModuleName, HsFileType) {
	ft := SourceFile

	path = filepath.ToSlash(path)
	if rest, ok := strings.CutSuffix(path, ".hs-boot"); ok {
		ft = BootFile
		path = rest
	} else {
		path = strings.TrimSuffix(path, ".hs")
	}

	return ModuleName(strings.ReplaceAll(path, "/", ".")), ft
}

// SourcePath converts a module name back into a relative source path
// for the given file type.
func (m ModuleName) SourcePath(ft HsFileType) string {
	return filepath.FromSlash(strings.ReplaceAll(string(m), ".", "/")) + ft.Ext()
}

// ModuleSummary is one node of a module dependency graph.
type ModuleSummary struct {
	Module   ModuleName
	FileType HsFileType
	Imports  []ModuleName
	Location string
}
