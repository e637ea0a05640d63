package hs

import "strings"

// ComponentKind selects which kind of build artifact a component is.
type ComponentKind int

const (
	Library ComponentKind = iota
	Executable
)

// Component identifies the build artifact a configuration targets. Name
// is only meaningful for Executable components.
type Component struct {
	Kind ComponentKind
	Name string
}

// LibraryComponent returns the library component.
func LibraryComponent() Component {
	return Component{Kind: Library}
}

// ExecutableComponent returns the executable component with the given name.
func ExecutableComponent(name string) Component {
	return Component{Kind: Executable, Name: name}
}

// TargetString renders the component in the project-descriptor target
// syntax: "lib" for the library, "exe:<name>" for an executable.
func (c Component) TargetString() string {
	if c.Kind == Executable {
		return "exe:" + c.Name
	}

	return "lib"
}

// ComponentFromTarget parses a descriptor target string. The conversion
// is total: anything that is not an "exe:<name>" target is treated as
// the library component, so the reverse direction is lossy.
func ComponentFromTarget(s string) Component {
	if name, ok := strings.CutPrefix(s, "exe:"); ok {
		return ExecutableComponent(name)
	}

	return LibraryComponent()
}
