package provenant_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	provenant "github.com/provenantdev/provenant"
	"github.com/provenantdev/provenant/pkg/bundle"
)

// writeOutput materializes content under the run's work directory and
// returns a content-addressed output for it.
func writeOutput(ec provenant.ExecutionContext, name string, content []byte) (provenant.NodeOutput, error) {
	path := filepath.Join(ec.WorkDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return provenant.NodeOutput{}, err
	}
	return provenant.NodeOutput{
		ContentAddress: provenant.AddressFor(content),
		Path:           path,
	}, nil
}

// pipeline builds a three-stage graph where every stage derives its
// output from the content addresses of its inputs.
func pipeline(t *testing.T) *provenant.Graph {
	t.Helper()

	stage := func(id string) provenant.NodeFunc {
		return func(ctx context.Context, inputs []provenant.NodeInput, ec provenant.ExecutionContext) (provenant.NodeOutput, error) {
			content := []byte(id)
			for _, in := range inputs {
				content = append(content, '\n')
				content = append(content, in.ContentAddress...)
			}
			return writeOutput(ec, id+".out", content)
		}
	}

	return provenant.New("report-pipeline").
		NodeFn("ingest", "source", stage("ingest")).
		NodeFn("transform", "task", stage("transform")).
		NodeFn("report", "sink", stage("report")).
		Edge("ingest", "transform").
		Edge("transform", "report").
		MustBuild()
}

// TestLifecycle drives a run end to end: execute against a SQLite
// evidence store, check policy, seal a bundle, verify it offline, and
// finally transition the run's state.
func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := provenant.NewSQLiteEvidenceStore(db)
	require.NoError(t, err)

	workDir := t.TempDir()
	ec := provenant.NewExecutionContext(nil).WithWorkDir(workDir)
	ec.Recorder = provenant.NewStoreRecorder(store, ec.ExecutionID)

	res, err := provenant.NewExecutor(ec).Run(ctx, pipeline(t))
	require.NoError(t, err)
	require.Equal(t, []string{"ingest", "transform", "report"}, res.Order)
	require.Len(t, res.Outputs, 3)

	pol := provenant.NewPolicy(provenant.PolicyConfig{
		Rules: []provenant.PolicyRule{
			{ID: "run-completed", Type: provenant.RuleExecutionCheck, Check: "deterministic_execution", Severity: provenant.SeverityError},
			{ID: "has-lineage", Type: provenant.RuleLineageCheck, Severity: provenant.SeverityWarning},
			{ID: "is-sealed", Name: "bundle must be sealed", Type: provenant.RuleIntegrityCheck, Check: "bundle_sealed", Severity: provenant.SeverityError},
		},
		States: []provenant.StateDef{
			{ID: "draft", Transitions: []provenant.StateTransition{
				{To: "sealed", Requires: []string{"sealing_evidence"}},
			}},
			{ID: "sealed"},
		},
		TransitionRules: []provenant.PolicyRule{
			{ID: "tr-seal", Name: "sealing_evidence", Type: provenant.RuleIntegrityCheck, Check: "bundle_sealed", Severity: provenant.SeverityError},
		},
	})
	require.Equal(t, provenant.EnforceStrict, pol.Enforcement())

	// Before sealing: the sealing rule fails and, under strict
	// enforcement, surfaces as a PolicyError alongside the full batch.
	events, err := store.ListEvents(ctx, ec.ExecutionID)
	require.NoError(t, err)

	results, err := pol.CheckRules(ctx, events, ec.Recorder)
	require.Error(t, err)
	var pe *provenant.PolicyError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "is-sealed", pe.RuleID)
	require.True(t, results["run-completed"])
	require.True(t, results["has-lineage"])
	require.False(t, results["is-sealed"])

	require.False(t, pol.CanTransition("draft", "sealed", events))

	// Seal and verify offline.
	bundleDir := filepath.Join(workDir, "trust-bundle")
	m, err := bundle.Seal(ctx, bundleDir, res, store)
	require.NoError(t, err)
	require.Equal(t, ec.ExecutionID, m.ExecutionID)

	vr, err := bundle.Verify(bundleDir)
	require.NoError(t, err)
	require.True(t, vr.Valid, "verification errors: %v", vr.Errors)

	// With sealing evidence in the trail, policy and transition both
	// clear. Re-list events so the bundle_sealed event is included.
	events, err = store.ListEvents(ctx, ec.ExecutionID)
	require.NoError(t, err)

	results, err = pol.CheckRules(ctx, events, ec.Recorder)
	require.NoError(t, err)
	require.True(t, results["is-sealed"])

	require.True(t, pol.CanTransition("draft", "sealed", events))
	require.False(t, pol.CanTransition("sealed", "draft", events))
}

// TestReexecutionReproducesAddresses re-runs the same graph in a fresh
// work directory and expects identical content addresses for every node.
func TestReexecutionReproducesAddresses(t *testing.T) {
	ctx := context.Background()

	run := func(dir string) *provenant.Result {
		ec := provenant.NewExecutionContext(nil).WithWorkDir(dir)
		res, err := provenant.NewExecutor(ec).Run(ctx, pipeline(t))
		require.NoError(t, err)
		return res
	}

	first := run(t.TempDir())
	second := run(t.TempDir())

	require.NotEqual(t, first.ExecutionID, second.ExecutionID)
	require.Equal(t, first.Order, second.Order)
	for id, out := range first.Outputs {
		require.Equal(t, out.ContentAddress, second.Outputs[id].ContentAddress, "node %s", id)
	}
}

// TestBuilderRejectsBrokenGraphs exercises the builder's accumulated
// error reporting.
func TestBuilderRejectsBrokenGraphs(t *testing.T) {
	noop := func(ctx context.Context, inputs []provenant.NodeInput, ec provenant.ExecutionContext) (provenant.NodeOutput, error) {
		return provenant.NodeOutput{}, nil
	}

	t.Run("duplicate node", func(t *testing.T) {
		_, err := provenant.New("g").
			NodeFn("a", "task", noop).
			NodeFn("a", "task", noop).
			Build()
		require.Error(t, err)
		var ge *provenant.GraphError
		require.ErrorAs(t, err, &ge)
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := provenant.New("g").
			NodeFn("a", "task", noop).
			NodeFn("b", "task", noop).
			Edge("a", "b").
			Edge("b", "a").
			Build()
		require.Error(t, err)
	})

	t.Run("dangling edge", func(t *testing.T) {
		_, err := provenant.New("g").
			NodeFn("a", "task", noop).
			Edge("a", "ghost").
			Build()
		require.Error(t, err)
	})
}

// TestMemoryStoreLifecycle is the in-memory twin of TestLifecycle's
// storage layer, for callers that don't want SQLite.
func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := provenant.NewMemoryEvidenceStore()

	ec := provenant.NewExecutionContext(nil).WithWorkDir(t.TempDir())
	ec.Recorder = provenant.NewStoreRecorder(store, ec.ExecutionID)

	_, err := provenant.NewExecutor(ec).Run(ctx, pipeline(t))
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, ec.ExecutionID)
	require.NoError(t, err)
	require.Len(t, events, 5)
	require.Equal(t, provenant.EventExecutionStart, events[0].Type)
	require.Equal(t, provenant.EventExecutionComplete, events[len(events)-1].Type)
}
