// Package domain defines the core business entities for Vedika.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A heterogeneous source record tagged with its Category
//   - Document: The normalised, embeddable unit stored in the vector index
//   - QueryResult: A retrieved Document with its distance to the query
//   - Answer: The synthesised response and the results it was built from
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
