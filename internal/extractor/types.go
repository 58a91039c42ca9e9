package extractor

// Kind discriminates the shapes an export fact can take.
type Kind int

const (
	// KindLocal is a value or type declared in the module itself.
	KindLocal Kind = iota
	// KindReexport forwards a single name from another module.
	KindReexport
	// KindWildcard forwards every export of another module.
	KindWildcard
)

// ExportFact is one export declaration as seen at a module's top level.
// Facts are produced in declaration order; consumers rely on that when
// breaking name collisions by first occurrence.
type ExportFact struct {
	// Name is the identifier visible to importers, after any alias.
	// Empty for wildcard facts.
	Name string `json:"name"`
	// LocalName is the identifier inside the source module. Equals Name
	// unless the declaration renamed it.
	LocalName string `json:"local_name,omitempty"`
	// Kind tags the fact shape.
	Kind Kind `json:"kind"`
	// Source is the module specifier forwarded from. Set only for
	// re-export and wildcard facts.
	Source string `json:"source,omitempty"`
}

// IsReexport reports whether the fact forwards from another module
// rather than declaring something locally.
func (f ExportFact) IsReexport() bool {
	return f.Kind == KindReexport || f.Kind == KindWildcard
}
