package wire

import (
	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/stamp"
)

// Union discriminator bytes. Values are part of the wire format and
// must never be renumbered.
const (
	tagFileConfig  = 0
	tagCabalConfig = 1
	tagEmptyConfig = 2

	tagLibrary    = 0
	tagExecutable = 1

	tagModuleTarget = 0
	tagFileTarget   = 1
	tagCabalTarget  = 2

	tagSourceFile = 0
	tagBootFile   = 1

	tagSeverityError   = 0
	tagSeverityWarning = 1
)

// AppendTimeStamp encodes a timestamp as epoch nanoseconds.
func AppendTimeStamp(b []byte, ts stamp.TimeStamp) []byte {
	return appendVarint(b, ts.UnixNano())
}

func DecodeTimeStamp(b []byte) (stamp.TimeStamp, []byte, error) {
	ns, rest, err := decodeVarint(b, "timestamp")
	if err != nil {
		return stamp.TimeStamp{}, nil, err
	}

	return stamp.FromEpochNano(ns), rest, nil
}

// AppendModuleName encodes a module name as text.
func AppendModuleName(b []byte, m hs.ModuleName) []byte {
	return AppendString(b, string(m))
}

func DecodeModuleName(b []byte) (hs.ModuleName, []byte, error) {
	s, rest, err := DecodeString(b)
	if err != nil {
		return "", nil, err
	}

	return hs.ModuleName(s), rest, nil
}

// AppendModuleNames encodes an ordered sequence of module names.
func AppendModuleNames(b []byte, ms []hs.ModuleName) []byte {
	b = appendUvarint(b, uint64(len(ms)))
	for _, m := range ms {
		b = AppendModuleName(b, m)
	}

	return b
}

func DecodeModuleNames(b []byte) ([]hs.ModuleName, []byte, error) {
	n, rest, err := decodeUvarint(b, "module name count")
	if err != nil {
		return nil, nil, err
	}

	var ms []hs.ModuleName
	for i := uint64(0); i < n; i++ {
		var m hs.ModuleName
		m, rest, err = DecodeModuleName(rest)
		if err != nil {
			return nil, nil, err
		}

		ms = append(ms, m)
	}

	return ms, rest, nil
}

// AppendFileType encodes a source file type.
func AppendFileType(b []byte, ft hs.HsFileType) []byte {
	if ft == hs.BootFile {
		return append(b, tagBootFile)
	}

	return append(b, tagSourceFile)
}

func DecodeFileType(b []byte) (hs.HsFileType, []byte, error) {
	if len(b) == 0 {
		return 0, nil, decodeErrf("truncated file type")
	}

	switch b[0] {
	case tagSourceFile:
		return hs.SourceFile, b[1:], nil
	case tagBootFile:
		return hs.BootFile, b[1:], nil
	default:
		return 0, nil, decodeErrf("unknown file type tag 0x%02x", b[0])
	}
}

// AppendComponent encodes a cabal component.
func AppendComponent(b []byte, c hs.Component) []byte {
	if c.Kind == hs.Executable {
		b = append(b, tagExecutable)
		return AppendString(b, c.Name)
	}

	return append(b, tagLibrary)
}

func DecodeComponent(b []byte) (hs.Component, []byte, error) {
	if len(b) == 0 {
		return hs.Component{}, nil, decodeErrf("truncated component")
	}

	switch b[0] {
	case tagLibrary:
		return hs.LibraryComponent(), b[1:], nil
	case tagExecutable:
		name, rest, err := DecodeString(b[1:])
		if err != nil {
			return hs.Component{}, nil, err
		}

		return hs.ExecutableComponent(name), rest, nil
	default:
		return hs.Component{}, nil, decodeErrf("unknown component tag 0x%02x", b[0])
	}
}

// AppendConfig encodes a session configuration.
func AppendConfig(b []byte, c config.Config) []byte {
	switch c := c.(type) {
	case config.File:
		b = append(b, tagFileConfig)
		b = AppendString(b, c.FileName)
		return AppendStrings(b, c.Flags)
	case config.Cabal:
		b = append(b, tagCabalConfig)
		b = AppendString(b, c.Name)
		b = AppendString(b, c.CabalFile)
		b = AppendComponent(b, c.Component)
		return AppendStrings(b, c.ConfigFlags)
	case config.Empty:
		b = append(b, tagEmptyConfig)
		return AppendStrings(b, c.Flags)
	default:
		panic("wire: unencodable session config")
	}
}

func DecodeConfig(b []byte) (config.Config, []byte, error) {
	if len(b) == 0 {
		return nil, nil, decodeErrf("truncated session config")
	}

	tag, rest := b[0], b[1:]
	switch tag {
	case tagFileConfig:
		fileName, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		flags, rest, err := DecodeStrings(rest)
		if err != nil {
			return nil, nil, err
		}

		return config.File{FileName: fileName, Flags: flags}, rest, nil
	case tagCabalConfig:
		name, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		cabalFile, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		component, rest, err := DecodeComponent(rest)
		if err != nil {
			return nil, nil, err
		}

		flags, rest, err := DecodeStrings(rest)
		if err != nil {
			return nil, nil, err
		}

		return config.Cabal{Name: name, CabalFile: cabalFile, Component: component, ConfigFlags: flags}, rest, nil
	case tagEmptyConfig:
		flags, rest, err := DecodeStrings(rest)
		if err != nil {
			return nil, nil, err
		}

		return config.Empty{Flags: flags}, rest, nil
	default:
		return nil, nil, decodeErrf("unknown session config tag 0x%02x", tag)
	}
}

// AppendTarget encodes a compilation target.
func AppendTarget(b []byte, t hs.Target) []byte {
	switch t := t.(type) {
	case hs.ModuleTarget:
		b = append(b, tagModuleTarget)
		return AppendModuleName(b, t.Module)
	case hs.FileTarget:
		b = append(b, tagFileTarget)
		return AppendString(b, t.Path)
	case hs.CabalTarget:
		b = append(b, tagCabalTarget)
		return AppendString(b, t.Path)
	default:
		panic("wire: unencodable target")
	}
}

func DecodeTarget(b []byte) (hs.Target, []byte, error) {
	if len(b) == 0 {
		return nil, nil, decodeErrf("truncated target")
	}

	tag, rest := b[0], b[1:]
	switch tag {
	case tagModuleTarget:
		m, rest, err := DecodeModuleName(rest)
		if err != nil {
			return nil, nil, err
		}

		return hs.ModuleTarget{Module: m}, rest, nil
	case tagFileTarget:
		p, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		return hs.FileTarget{Path: p}, rest, nil
	case tagCabalTarget:
		p, rest, err := DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		return hs.CabalTarget{Path: p}, rest, nil
	default:
		return nil, nil, decodeErrf("unknown target tag 0x%02x", tag)
	}
}

// AppendSummary encodes one module graph node.
func AppendSummary(b []byte, s hs.ModuleSummary) []byte {
	b = AppendModuleName(b, s.Module)
	b = AppendFileType(b, s.FileType)
	b = AppendModuleNames(b, s.Imports)
	return AppendString(b, s.Location)
}

func DecodeSummary(b []byte) (hs.ModuleSummary, []byte, error) {
	m, rest, err := DecodeModuleName(b)
	if err != nil {
		return hs.ModuleSummary{}, nil, err
	}

	ft, rest, err := DecodeFileType(rest)
	if err != nil {
		return hs.ModuleSummary{}, nil, err
	}

	imports, rest, err := DecodeModuleNames(rest)
	if err != nil {
		return hs.ModuleSummary{}, nil, err
	}

	loc, rest, err := DecodeString(rest)
	if err != nil {
		return hs.ModuleSummary{}, nil, err
	}

	return hs.ModuleSummary{Module: m, FileType: ft, Imports: imports, Location: loc}, rest, nil
}

// AppendSummaries encodes an ordered module graph.
func AppendSummaries(b []byte, ss []hs.ModuleSummary) []byte {
	b = appendUvarint(b, uint64(len(ss)))
	for _, s := range ss {
		b = AppendSummary(b, s)
	}

	return b
}

func DecodeSummaries(b []byte) ([]hs.ModuleSummary, []byte, error) {
	n, rest, err := decodeUvarint(b, "summary count")
	if err != nil {
		return nil, nil, err
	}

	var ss []hs.ModuleSummary
	for i := uint64(0); i < n; i++ {
		var s hs.ModuleSummary
		s, rest, err = DecodeSummary(rest)
		if err != nil {
			return nil, nil, err
		}

		ss = append(ss, s)
	}

	return ss, rest, nil
}

// AppendNote encodes a diagnostic note.
func AppendNote(b []byte, n compile.Note) []byte {
	if n.Severity == compile.SeverityWarning {
		b = append(b, tagSeverityWarning)
	} else {
		b = append(b, tagSeverityError)
	}

	return AppendString(b, n.Message)
}

func DecodeNote(b []byte) (compile.Note, []byte, error) {
	if len(b) == 0 {
		return compile.Note{}, nil, decodeErrf("truncated note")
	}

	var sev compile.Severity
	switch b[0] {
	case tagSeverityError:
		sev = compile.SeverityError
	case tagSeverityWarning:
		sev = compile.SeverityWarning
	default:
		return compile.Note{}, nil, decodeErrf("unknown severity tag 0x%02x", b[0])
	}

	msg, rest, err := DecodeString(b[1:])
	if err != nil {
		return compile.Note{}, nil, err
	}

	return compile.Note{Severity: sev, Message: msg}, rest, nil
}

// AppendNotes encodes a note multiset as an ascending-sorted sequence
// with duplicates preserved.
func AppendNotes(b []byte, notes []compile.Note) []byte {
	sorted := compile.SortNotes(notes)
	b = appendUvarint(b, uint64(len(sorted)))
	for _, n := range sorted {
		b = AppendNote(b, n)
	}

	return b
}

func DecodeNotes(b []byte) ([]compile.Note, []byte, error) {
	n, rest, err := decodeUvarint(b, "note count")
	if err != nil {
		return nil, nil, err
	}

	var notes []compile.Note
	for i := uint64(0); i < n; i++ {
		var note compile.Note
		note, rest, err = DecodeNote(rest)
		if err != nil {
			return nil, nil, err
		}

		notes = append(notes, note)
	}

	return notes, rest, nil
}

// AppendResult encodes a compilation result.
func AppendResult(b []byte, r compile.Result) []byte {
	b = AppendBool(b, r.Succeeded)
	b = AppendNotes(b, r.Notes)
	return AppendDuration(b, r.Elapsed)
}

func DecodeResult(b []byte) (compile.Result, []byte, error) {
	ok, rest, err := DecodeBool(b)
	if err != nil {
		return compile.Result{}, nil, err
	}

	notes, rest, err := DecodeNotes(rest)
	if err != nil {
		return compile.Result{}, nil, err
	}

	elapsed, rest, err := DecodeDuration(rest)
	if err != nil {
		return compile.Result{}, nil, err
	}

	return compile.Result{Succeeded: ok, Notes: notes, Elapsed: elapsed}, rest, nil
}
