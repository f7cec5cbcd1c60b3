package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent names the emitting package or command.
	FieldComponent = "component"
	// FieldRunID identifies one ingest run.
	FieldRunID = "run_id"
	// FieldRow is the 1-based CSV data row being processed.
	FieldRow = "row"
	// FieldAlias is the raw or upper-cased name being resolved.
	FieldAlias = "alias"
	// FieldPersonID is the stored record identifier.
	FieldPersonID = "person_id"
	// FieldOutcome is the resolution outcome (created, matched, ambiguous).
	FieldOutcome = "outcome"
	// FieldDocumentID is the document tid.
	FieldDocumentID = "tid"
	// FieldEventType is a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	rowKey
)

// WithRunID tags ctx with an ingest run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithRow tags ctx with the CSV row number.
func WithRow(ctx context.Context, row int) context.Context {
	return context.WithValue(ctx, rowKey, row)
}

// RowFromContext returns the CSV row number, if any.
func RowFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	row, ok := ctx.Value(rowKey).(int)
	return row, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if row, ok := RowFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldRow, row))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
