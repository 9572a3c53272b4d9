// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TableParser: Reads raw uploads into header-keyed rows
//   - Chunker: Splits a parsed table into retrievable chunks
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Language model completions (gate and synthesis)
//   - DocumentStore: Document, chunk and similarity persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Custom prompt templates. Without it, services use
//     their embedded defaults.
//   - AIConfigValidator: Connectivity checks for the settings surface.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
