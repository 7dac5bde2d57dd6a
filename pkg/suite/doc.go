// Package suite defines the catalog of cryptographic suites whose
// cornerstones share a message header.
//
// A [Suite] is identified by name and carries two lengths: the byte length
// of its cornerstone (the fixed-size public value placed in the header) and
// the byte length of its entry points. Only the cornerstone length matters
// for placement; the entry point length is carried for header layout
// tooling.
//
// A [Catalog] is an ordered, immutable list of suites. Declaration order is
// significant: the position allocator processes suites in that order, so
// reordering a catalog changes every suite's candidate offsets.
//
// Catalogs are built in code with [NewCatalog], taken from the built-in
// [Default] and [Toy] catalogs, or loaded from TOML, YAML or JSONC files
// with [LoadFile] and [Parse].
package suite
