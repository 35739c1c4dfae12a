// Package provenant executes directed-acyclic workflows as pure,
// content-addressed transformations and gates every lifecycle transition
// behind an immutable policy layer.
//
// The promise is simple: given identical inputs, re-execution yields
// identical content addresses, and no lifecycle transition (say, draft to
// sealed) happens unless a declared set of policy rules, evaluated against
// the accumulated evidence trail, all pass.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Graph
//  2. Executor
//  3. Evidence
//  4. Policy
//  5. Bundle
//
// # Graph
//
// A Graph holds work nodes and the dependency edges between them. It
// validates its own structure (no cycles, no dangling edges) and produces
// a deterministic execution order: ties between unordered nodes always
// break by ascending node id, so re-sorting an unchanged graph yields the
// same order every time. Graphs are built before a run, typically with the
// fluent GraphBuilder:
//
//	graph := provenant.New("pipeline").
//	    Node(parse).
//	    Node(report).
//	    Edge("parse", "report").
//	    MustBuild()
//
// # Executor
//
// The Executor walks the graph strictly serially in topological order. It
// feeds each node the content-addressed outputs of its dependencies,
// verifies after every node that the output's claimed content address
// re-derives from the bytes it references (a mismatch fails the run with a
// DeterminismError), and records an evidence event for every step and for
// the run as a whole. Each run returns a fresh Result, so concurrent runs
// never share mutable state:
//
//	store := provenant.NewMemoryEvidenceStore()
//	ec := provenant.NewExecutionContext(nil)
//	ec.Recorder = provenant.NewStoreRecorder(store, ec.ExecutionID)
//
//	result, err := provenant.NewExecutor(ec).Run(ctx, graph)
//
// # Evidence
//
// Evidence is the append-only, ordered record of what happened during a
// run: execution_start, one node_execution per node, and
// execution_complete or execution_failure. Events are created when the
// fact they describe becomes true and are never edited or deleted; a
// failed run keeps its partial trail on purpose. Stores come in two
// flavors: in-memory for tests and SQLite for durability.
//
// # Policy
//
// The Policy engine loads immutable rule and state-machine definitions
// (from YAML files or in-process config) and evaluates them against an
// evidence trail. Policy is law: enforcement is always strict, a failing
// error-severity rule aborts with a PolicyError, and unknown rule types or
// unresolved lookups fail closed. CanTransition gates lifecycle
// transitions the same way:
//
//	pol, err := provenant.LoadPolicy("rules.yaml", "states.yaml")
//	if pol.CanTransition("draft", "sealed", events) { ... }
//
// # Bundle
//
// The bundle package seals a completed run's artifacts, evidence, and
// lineage into a trust bundle that any third party can verify offline by
// re-hashing the manifest's entries: no engine, no trust, no authority
// required. The provenant CLI wraps that verification.
//
// For examples, see the package tests and the cmd/provenant command.
package provenant
