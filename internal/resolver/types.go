package resolver

// Resolution is the outcome of resolving an export name through a barrel.
type Resolution struct {
	// Location is where the name is actually defined: an absolute file
	// path, the absolute path of a barrel directory that declares the
	// name in its own index file, or a package specifier when External.
	Location string `json:"location"`
	// Name is the identifier to request from Location. It differs from
	// the originally requested name when an alias was unwound along the
	// chain.
	Name string `json:"name"`
	// Chain lists the index files visited on the way, outermost first.
	// Diagnostic only; it never influences the result.
	Chain []string `json:"chain,omitempty"`
	// External marks Location as a package specifier resolved by the
	// host ecosystem rather than a path on disk.
	External bool `json:"external,omitempty"`
}
