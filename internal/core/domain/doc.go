// Package domain defines the core business entities for AskCSV.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested CSV file with metadata
//   - Chunk: A retrievable unit within a document
//   - RowRecord: One parsed data row, header-keyed
//   - Answer: The outcome of a question, with its terminal state
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
