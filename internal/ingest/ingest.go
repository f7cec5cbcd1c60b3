package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"namedisambig/internal/logging"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
	"namedisambig/internal/textutil"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrLocked is returned when another run holds the ingest lock.
	ErrLocked = errors.New("ingest already running")
)

// Row results reported to the RowRecorder.
const (
	RowIngested = "ingested"
	RowSkipped  = "skipped"
)

// Resolver maps an alias to a stored person.
type Resolver interface {
	Resolve(ctx context.Context, alias string) (resolver.Resolution, error)
}

// Linker persists documents and their author/recipient links.
type Linker interface {
	SaveDocument(ctx context.Context, doc store.Document) error
	LinkAuthor(ctx context.Context, personID int64, tid string) error
	LinkRecipient(ctx context.Context, personID int64, tid string) error
}

// RowRecorder receives one call per processed row.
type RowRecorder interface {
	IncrementRow(result string)
}

// Options configures an Ingester.
type Options struct {
	// Separator splits several names inside one cell. Defaults to ";".
	Separator string
	// LockPath is the flock file; empty disables locking.
	LockPath string
	Logger   *slog.Logger
	Metrics  RowRecorder
}

// Summary reports one run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Rows      int           `json:"rows"`
	Documents int           `json:"documents"`
	Names     int           `json:"names"`
	Created   int           `json:"created"`
	Matched   int           `json:"matched"`
	Ambiguous int           `json:"ambiguous"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration_ns"`
}

// Ingester runs CSV ingestion.
type Ingester struct {
	resolver Resolver
	linker   Linker
	opts     Options
	logger   *slog.Logger
}

// New constructs an Ingester.
func New(res Resolver, linker Linker, opts Options) (*Ingester, error) {
	if res == nil || linker == nil {
		return nil, errors.New("ingest: resolver and linker are required")
	}
	if opts.Separator == "" {
		opts.Separator = ";"
	}
	return &Ingester{
		resolver: res,
		linker:   linker,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "ingest"),
	}, nil
}

// RunFile ingests the CSV file at path.
func (in *Ingester) RunFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return in.Run(ctx, f)
}

// Run ingests CSV rows from r. The summary is returned even when the run
// stops early.
func (in *Ingester) Run(ctx context.Context, r io.Reader) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, in.logger)

	unlock, err := in.lock()
	if err != nil {
		return summary, err
	}
	defer unlock()

	err = in.run(ctx, r, &summary)
	summary.Duration = time.Since(started)
	if err != nil {
		logging.ErrorWithContext(logger, "ingest aborted", "ingest_aborted",
			logging.Error(err),
			logging.Int("rows", summary.Rows),
			logging.String(logging.FieldErrorHint, "fix the reported row or store problem and re-run; completed rows are kept"),
		)
		return summary, err
	}
	logger.Info("ingest complete",
		logging.Int("rows", summary.Rows),
		logging.Int("documents", summary.Documents),
		logging.Int("names", summary.Names),
		logging.Int("created", summary.Created),
		logging.Int("matched", summary.Matched),
		logging.Int("ambiguous", summary.Ambiguous),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (in *Ingester) lock() (func(), error) {
	if in.opts.LockPath == "" {
		return func() {}, nil
	}
	lock := flock.New(in.opts.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held by another process", ErrLocked, in.opts.LockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			in.logger.Warn("failed to release ingest lock", logging.Error(err))
		}
	}, nil
}

func (in *Ingester) run(ctx context.Context, r io.Reader, summary *Summary) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := newColumns(header)
	if err != nil {
		return err
	}

	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row %d: %w", line, err)
		}
		summary.Rows++
		if err := in.ingestRow(logging.WithRow(ctx, line), cols.document(record), summary); err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
	}
}

func (in *Ingester) ingestRow(ctx context.Context, doc store.Document, summary *Summary) error {
	logger := logging.WithContext(ctx, in.logger)
	if doc.TID == "" {
		summary.Skipped++
		in.recordRow(RowSkipped)
		logging.WarnWithContext(logger, "row has no tid", "row_skipped",
			logging.String(logging.FieldErrorHint, "fill in the tid column"),
			logging.String(logging.FieldImpact, "row names not resolved"),
		)
		return nil
	}

	if err := in.linker.SaveDocument(ctx, doc); err != nil {
		return err
	}
	summary.Documents++

	authors := preferred(doc.AuthorPersons, doc.Authors)
	for _, name := range in.split(authors) {
		id, err := in.resolve(ctx, name, summary)
		if err != nil {
			return err
		}
		if err := in.linker.LinkAuthor(ctx, id, doc.TID); err != nil {
			return fmt.Errorf("link author %q: %w", name, err)
		}
	}

	recipients := preferred(doc.RecipientPersons, doc.Recipients)
	for _, name := range in.split(recipients) {
		id, err := in.resolve(ctx, name, summary)
		if err != nil {
			return err
		}
		if err := in.linker.LinkRecipient(ctx, id, doc.TID); err != nil {
			return fmt.Errorf("link recipient %q: %w", name, err)
		}
	}

	in.recordRow(RowIngested)
	logger.Debug("row ingested", logging.String(logging.FieldDocumentID, doc.TID))
	return nil
}

func (in *Ingester) resolve(ctx context.Context, name string, summary *Summary) (int64, error) {
	summary.Names++
	res, err := in.resolver.Resolve(ctx, textutil.Upper(name))
	if err != nil {
		return 0, err
	}
	switch res.Outcome {
	case resolver.OutcomeCreated:
		summary.Created++
	case resolver.OutcomeAmbiguous:
		summary.Ambiguous++
	default:
		summary.Matched++
	}
	return res.Person.ID, nil
}

func (in *Ingester) recordRow(result string) {
	if in.opts.Metrics != nil {
		in.opts.Metrics.IncrementRow(result)
	}
}

// split breaks a cell on the separator and drops blank names.
func (in *Ingester) split(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, in.opts.Separator) {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// preferred returns the person-only column when it has content.
func preferred(person, combined string) string {
	if strings.TrimSpace(person) != "" {
		return person
	}
	return combined
}

// columns maps header names to record indexes.
type columns map[string]int

func newColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if !cols.has("tid") {
		return nil, fmt.Errorf("%w: tid", ErrMissingColumn)
	}
	if !cols.has("au") && !cols.has("au_person") {
		return nil, fmt.Errorf("%w: au or au_person", ErrMissingColumn)
	}
	if !cols.has("rc") && !cols.has("rc_person") {
		return nil, fmt.Errorf("%w: rc or rc_person", ErrMissingColumn)
	}
	return cols, nil
}

func (c columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columns) document(record []string) store.Document {
	pages, _ := strconv.Atoi(c.get(record, "pages"))
	return store.Document{
		TID:              c.get(record, "tid"),
		Title:            c.get(record, "title"),
		Date:             c.get(record, "date"),
		DocType:          c.get(record, "doc_type"),
		Collection:       c.get(record, "collection"),
		Pages:            max(pages, 0),
		Authors:          c.get(record, "au"),
		AuthorOrgs:       c.get(record, "au_org"),
		AuthorPersons:    c.get(record, "au_person"),
		Recipients:       c.get(record, "rc"),
		RecipientOrgs:    c.get(record, "rc_org"),
		RecipientPersons: c.get(record, "rc_person"),
		CC:               c.get(record, "cc"),
		CCOrgs:           c.get(record, "cc_org"),
	}
}
