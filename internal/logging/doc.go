// Package logging assembles the structured slog loggers used by the CLI,
// the resolver and the ingest pipeline.
//
// It owns the console and JSON handlers, maps configured levels, and can tee
// console output into a JSON log file. Context helpers tag lines with the
// ingest run identifier and CSV row so one batch can be followed end to end.
// NewNop gives tests and optional collaborators a logger that cannot fail.
package logging
