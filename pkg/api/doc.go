// Package api contains the core building blocks of the provenant engine:
// graphs, work-node contracts, evidence events, policy definitions, and the
// error types shared across the module.
//
// Most users interact with the higher-level provenant package, which
// re-exports selected types and helpers from this package. The api package
// is intended for custom integrations or contributors extending the engine
// itself.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Graphs and work nodes
//   - Content addressing
//   - Evidence events and recorders
//   - Policy rules and lifecycle states
//
// # Graphs and Work Nodes
//
// A Graph describes a workflow: a set of work nodes and the dependency
// edges between them. Graphs validate their own structure (no cycles, no
// dangling edges) and produce a deterministic topological order, which the
// executor follows strictly serially.
//
// A Node is the capability contract for a unit of work. Nodes are expected
// to be pure: the same inputs must produce output with the same content
// address. That contract is what makes re-execution reproducible and is
// enforced by the executor after every node.
//
// # Content Addressing
//
// Every input and output carries a content address derived purely from the
// bytes it references ("sha256:<hex>"). Two outputs are identical exactly
// when their addresses are, so lineage can be compared without the raw
// content.
//
// # Evidence
//
// Evidence is the append-only, ordered record of what happened during a
// run. The Recorder interface is the sink for evidence events; ready-made
// implementations log via slog, fan out to several sinks, or discard
// events. The EvidenceStore interface adds durable, ordered retrieval for
// policy evaluation.
//
// # Policy
//
// PolicyRule, StateDef, and the Policy interface define the lifecycle
// gating layer. Rules evaluate against the evidence trail; transitions
// between lifecycle states are legal only when every required rule passes.
// Unknown rule types, states, and rule names fail closed.
//
// See the provenant package documentation for end-to-end usage.
package api
