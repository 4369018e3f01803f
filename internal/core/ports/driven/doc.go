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
//   - VectorIndex: Durable nearest-neighbour store (SQLite or in-memory)
//   - EmbeddingService: Generates vector embeddings for the index
//   - BatchSource: Lists and reads the source batches to ingest
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates for answer synthesis
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, answers are built
//     by the extractive fallback.
//   - AIConfigValidator: Connectivity checks for the settings command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
