package provenant

import (
	"database/sql"

	"github.com/provenantdev/provenant/internal/evidence"
	"github.com/provenantdev/provenant/internal/executor"
	"github.com/provenantdev/provenant/internal/policy"
	"github.com/provenantdev/provenant/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Graph            = api.Graph
	Edge             = api.Edge
	Node             = api.Node
	NodeFunc         = api.NodeFunc
	FuncNode         = api.FuncNode
	NodeInput        = api.NodeInput
	NodeOutput       = api.NodeOutput
	ExecutionContext = api.ExecutionContext
	Executor         = api.Executor
	Result           = api.Result
	Lineage          = api.Lineage

	Event         = api.Event
	EventType     = api.EventType
	Recorder      = api.Recorder
	EvidenceStore = api.EvidenceStore

	Policy             = api.Policy
	PolicyRule         = api.PolicyRule
	StateDef           = api.StateDef
	StateTransition    = api.StateTransition
	RuleType           = api.RuleType
	Severity           = api.Severity
	Enforcement        = api.Enforcement
	IntegrityCheckFunc = api.IntegrityCheckFunc
	Condition          = api.Condition

	GraphError       = api.GraphError
	ExecutionError   = api.ExecutionError
	DeterminismError = api.DeterminismError
	PolicyError      = api.PolicyError
)

// Re-export evidence event types for convenience.

const (
	EventExecutionStart    = api.EventExecutionStart
	EventNodeExecution     = api.EventNodeExecution
	EventExecutionComplete = api.EventExecutionComplete
	EventExecutionFailure  = api.EventExecutionFailure
	EventPolicyCheck       = api.EventPolicyCheck
	EventValidation        = api.EventValidation
	EventBundleSealed      = api.EventBundleSealed
)

// Re-export rule vocabulary.

const (
	RuleEvidenceCheck   = api.RuleEvidenceCheck
	RuleExecutionCheck  = api.RuleExecutionCheck
	RuleLineageCheck    = api.RuleLineageCheck
	RuleValidationCheck = api.RuleValidationCheck
	RuleIntegrityCheck  = api.RuleIntegrityCheck

	SeverityError   = api.SeverityError
	SeverityWarning = api.SeverityWarning

	EnforceStrict = api.EnforceStrict
)

// Re-export common helpers.

var (
	NewExecutionContext  = api.NewExecutionContext
	NewNoopRecorder      = func() Recorder { return api.NoopRecorder{} }
	NewLoggingRecorder   = api.NewLoggingRecorder
	NewCompositeRecorder = api.NewCompositeRecorder
	ParseCondition       = api.ParseCondition
	AddressFor           = api.AddressFor
	AddressForFile       = api.AddressForFile
)

// Executor constructors
// These wrap the internal/executor package so external callers never need
// to import internal packages.

// NewExecutor returns an Executor bound to the given run context.
// Each run should use its own ExecutionContext; the executor itself keeps
// no per-run state.
func NewExecutor(ec ExecutionContext) Executor {
	return executor.New(ec)
}

// ExecutorConfig configures an Executor beyond its run context.
type ExecutorConfig struct {
	// Ingest supplies inputs to root nodes, keyed by node id.
	Ingest map[string][]NodeInput
}

// NewExecutorWithConfig returns an Executor with root-node ingest inputs.
func NewExecutorWithConfig(ec ExecutionContext, cfg ExecutorConfig) Executor {
	return executor.NewWithConfig(executor.Config{
		Context: ec,
		Ingest:  cfg.Ingest,
	})
}

// Policy constructors

// PolicyConfig configures a policy engine built from in-process
// definitions rather than files.
type PolicyConfig struct {
	Rules           []PolicyRule
	States          []StateDef
	TransitionRules []PolicyRule

	// IntegrityChecks registers named integrity_check verifiers in
	// addition to the built-in sealing check.
	IntegrityChecks map[string]IntegrityCheckFunc
}

// NewPolicy returns a strict policy engine over explicit definitions.
func NewPolicy(cfg PolicyConfig) Policy {
	return policy.New(policy.Config{
		Rules:           cfg.Rules,
		States:          cfg.States,
		TransitionRules: cfg.TransitionRules,
		IntegrityChecks: cfg.IntegrityChecks,
	})
}

// LoadPolicy returns a strict policy engine loaded from optional YAML
// rule and state definition files. Either path may be empty or missing;
// the engine then has zero rules or zero states defined.
func LoadPolicy(rulesPath, statesPath string) (Policy, error) {
	return policy.Load(rulesPath, statesPath, policy.Config{})
}

// LoadPolicyWithConfig is LoadPolicy plus in-process configuration, e.g.
// extra integrity checks.
func LoadPolicyWithConfig(rulesPath, statesPath string, cfg PolicyConfig) (Policy, error) {
	return policy.Load(rulesPath, statesPath, policy.Config{
		Rules:           cfg.Rules,
		States:          cfg.States,
		TransitionRules: cfg.TransitionRules,
		IntegrityChecks: cfg.IntegrityChecks,
	})
}

// Evidence store constructors

// NewMemoryEvidenceStore returns an in-memory, append-only evidence store.
// Best for tests and single-process runs.
func NewMemoryEvidenceStore() EvidenceStore {
	return evidence.NewMemoryStore()
}

// NewSQLiteEvidenceStore returns an evidence store that persists events in
// a SQLite database.
//
//	db, _ := sql.Open("sqlite", "file:evidence.db?_journal=WAL")
//	store, err := provenant.NewSQLiteEvidenceStore(db)
func NewSQLiteEvidenceStore(db *sql.DB) (EvidenceStore, error) {
	return evidence.NewSQLiteStore(db)
}

// NewStoreRecorder returns a Recorder that appends typed events to store
// on behalf of the given execution.
func NewStoreRecorder(store EvidenceStore, executionID string) Recorder {
	return evidence.NewStoreRecorder(store, executionID)
}
