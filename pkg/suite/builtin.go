package suite

// Built-in catalog names accepted by [Builtin].
const (
	BuiltinDefault = "default"
	BuiltinToy     = "toy"
)

// Default returns the reference six-suite catalog: three families of
// 64-byte and 32-byte cornerstones with 48, 80 and 64 byte entry points.
func Default() *Catalog {
	return MustCatalog(
		Suite{Name: "a", CornerstoneLen: 64, EntrypointLen: 48},
		Suite{Name: "b", CornerstoneLen: 32, EntrypointLen: 48},
		Suite{Name: "c", CornerstoneLen: 64, EntrypointLen: 80},
		Suite{Name: "d", CornerstoneLen: 32, EntrypointLen: 80},
		Suite{Name: "e", CornerstoneLen: 64, EntrypointLen: 64},
		Suite{Name: "f", CornerstoneLen: 32, EntrypointLen: 64},
	)
}

// Toy returns a minimal catalog with cornerstone lengths 1, 2, 1, 1. It
// exercises the allocator's candidate pruning because every grid step
// immediately runs into the exclusive slot.
func Toy() *Catalog {
	return MustCatalog(
		Suite{Name: "a", CornerstoneLen: 1},
		Suite{Name: "b", CornerstoneLen: 2},
		Suite{Name: "c", CornerstoneLen: 1},
		Suite{Name: "d", CornerstoneLen: 1},
	)
}

// Builtin returns a built-in catalog by name.
func Builtin(name string) (*Catalog, bool) {
	switch name {
	case BuiltinDefault, "":
		return Default(), true
	case BuiltinToy:
		return Toy(), true
	}
	return nil, false
}
