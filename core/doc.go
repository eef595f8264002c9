// Package core contains the shared domain types and service contracts of the
// meal planning system: sessions and the SessionRegistry contract, durable
// preference/history records and the MemoryStore contract, the Stage
// abstraction driven by the orchestrator, and the request/response types of a
// planning run. Concrete implementations live in their own packages (session,
// memory, stage, orchestrator) and depend on core, never the other way
// around.
package core
