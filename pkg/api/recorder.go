package api

import (
	"context"
	"log/slog"
)

// Recorder is the append-only evidence sink consumed by the executor and
// the policy engine.
//
// Implementations must treat every call as a fact that already happened:
// events may be persisted, forwarded, or logged, but never rewritten.
type Recorder interface {
	// RecordExecutionStart records the beginning of a run together with
	// the graph identity and the computed node order.
	RecordExecutionStart(ctx context.Context, executionID, graphID string, nodeOrder []string) error

	// RecordNodeExecution records one completed node: its identity, the
	// content addresses of its inputs and output, and the node's own
	// evidence payload.
	RecordNodeExecution(ctx context.Context, nodeID, nodeType string, inputAddresses []string, outputAddress string, evidence map[string]any) error

	// RecordExecutionComplete records a successful run with the content
	// address of every node's output.
	RecordExecutionComplete(ctx context.Context, executionID string, outputs map[string]string) error

	// RecordExecutionFailure records an aborted run and its cause.
	RecordExecutionFailure(ctx context.Context, executionID string, cause error) error

	// RecordPolicyCheck records one policy rule evaluation, pass or fail.
	RecordPolicyCheck(ctx context.Context, ruleID string, passed bool, details map[string]any) error
}

// NoopRecorder discards all evidence. It is used as the default when no
// recorder is configured.
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) RecordExecutionStart(ctx context.Context, executionID, graphID string, nodeOrder []string) error {
	return nil
}
func (NoopRecorder) RecordNodeExecution(ctx context.Context, nodeID, nodeType string, inputAddresses []string, outputAddress string, evidence map[string]any) error {
	return nil
}
func (NoopRecorder) RecordExecutionComplete(ctx context.Context, executionID string, outputs map[string]string) error {
	return nil
}
func (NoopRecorder) RecordExecutionFailure(ctx context.Context, executionID string, cause error) error {
	return nil
}
func (NoopRecorder) RecordPolicyCheck(ctx context.Context, ruleID string, passed bool, details map[string]any) error {
	return nil
}

// CompositeRecorder fans every event out to multiple recorders.
type CompositeRecorder struct {
	recorders []Recorder
}

// NewCompositeRecorder creates a Recorder that forwards events to each
// non-nil recorder in recs.
func NewCompositeRecorder(recs ...Recorder) Recorder {
	filtered := make([]Recorder, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return NoopRecorder{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeRecorder{recorders: filtered}
}

func (c *CompositeRecorder) each(fn func(r Recorder) error) error {
	var firstErr error
	for _, r := range c.recorders {
		if err := fn(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *CompositeRecorder) RecordExecutionStart(ctx context.Context, executionID, graphID string, nodeOrder []string) error {
	return c.each(func(r Recorder) error {
		return r.RecordExecutionStart(ctx, executionID, graphID, nodeOrder)
	})
}

func (c *CompositeRecorder) RecordNodeExecution(ctx context.Context, nodeID, nodeType string, inputAddresses []string, outputAddress string, evidence map[string]any) error {
	return c.each(func(r Recorder) error {
		return r.RecordNodeExecution(ctx, nodeID, nodeType, inputAddresses, outputAddress, evidence)
	})
}

func (c *CompositeRecorder) RecordExecutionComplete(ctx context.Context, executionID string, outputs map[string]string) error {
	return c.each(func(r Recorder) error {
		return r.RecordExecutionComplete(ctx, executionID, outputs)
	})
}

func (c *CompositeRecorder) RecordExecutionFailure(ctx context.Context, executionID string, cause error) error {
	return c.each(func(r Recorder) error {
		return r.RecordExecutionFailure(ctx, executionID, cause)
	})
}

func (c *CompositeRecorder) RecordPolicyCheck(ctx context.Context, ruleID string, passed bool, details map[string]any) error {
	return c.each(func(r Recorder) error {
		return r.RecordPolicyCheck(ctx, ruleID, passed, details)
	})
}

// LoggingRecorder writes structured logs for every evidence event using
// log/slog. It never fails.
type LoggingRecorder struct {
	Logger *slog.Logger
}

// NewLoggingRecorder creates a Recorder that logs evidence events using
// the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingRecorder(logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingRecorder{Logger: logger}
}

func (l *LoggingRecorder) RecordExecutionStart(ctx context.Context, executionID, graphID string, nodeOrder []string) error {
	l.Logger.InfoContext(ctx, "execution_start",
		slog.String("execution_id", executionID),
		slog.String("graph_id", graphID),
		slog.Any("node_order", nodeOrder),
	)
	return nil
}

func (l *LoggingRecorder) RecordNodeExecution(ctx context.Context, nodeID, nodeType string, inputAddresses []string, outputAddress string, evidence map[string]any) error {
	l.Logger.InfoContext(ctx, "node_execution",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
		slog.Any("inputs", inputAddresses),
		slog.String("output", outputAddress),
	)
	return nil
}

func (l *LoggingRecorder) RecordExecutionComplete(ctx context.Context, executionID string, outputs map[string]string) error {
	l.Logger.InfoContext(ctx, "execution_complete",
		slog.String("execution_id", executionID),
		slog.Int("nodes", len(outputs)),
	)
	return nil
}

func (l *LoggingRecorder) RecordExecutionFailure(ctx context.Context, executionID string, cause error) error {
	l.Logger.ErrorContext(ctx, "execution_failure",
		slog.String("execution_id", executionID),
		slog.String("error", cause.Error()),
	)
	return nil
}

func (l *LoggingRecorder) RecordPolicyCheck(ctx context.Context, ruleID string, passed bool, details map[string]any) error {
	l.Logger.InfoContext(ctx, "policy_check",
		slog.String("rule_id", ruleID),
		slog.Bool("passed", passed),
	)
	return nil
}
