/*
Package ports defines the driven ports (interfaces) of the pageflow engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various page sources, session stores and analytics backends.

# Key Interfaces

  - CatalogLoader: Loads page definitions (e.g., from embedded YAML, Loam or memory).
  - ContextStore: Persists and loads conversation sessions (page + user context).
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - AnalyticsSink: Receives analytics events emitted by transitions.
  - Escalator: Handles selections that could not be resolved deterministically.
*/
package ports
