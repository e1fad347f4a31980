package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MikeConnelly/Finance-Tracker/internal/category"
	"github.com/MikeConnelly/Finance-Tracker/internal/financedata"
	"github.com/MikeConnelly/Finance-Tracker/pkg/transaction"
)

// errSkipRow marks rows that are structurally uninteresting (trailer
// lines) rather than malformed.
var errSkipRow = errors.New("skip row")

// RowParser converts one raw CSV record into a normalized transaction.
// Implementations return errSkipRow for ignorable records and any other
// error for malformed ones; both leave the store untouched.
type RowParser interface {
	Parse(fields []string) (transaction.Transaction, error)
}

// Ingestor drives one source format: it walks activity files, parses rows
// through the adapter, classifies each transaction and accumulates it in
// the store. Malformed rows are logged and skipped; only a classifier/
// taxonomy invariant violation aborts the run.
type Ingestor struct {
	store      *financedata.Store
	classifier *category.Classifier
	parser     RowParser
	log        zerolog.Logger

	mu      sync.Mutex
	rows    int
	skipped int
}

// NewIngestor creates an ingestor for one source format.
func NewIngestor(store *financedata.Store, classifier *category.Classifier, parser RowParser, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:      store,
		classifier: classifier,
		parser:     parser,
		log:        log,
	}
}

// IngestDir processes every file in dir. Files are parsed concurrently;
// the store serializes all accumulation, so the resulting totals are
// identical to a sequential run.
func (in *Ingestor) IngestDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read activity directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			return in.IngestFile(ctx, path)
		})
	}
	return g.Wait()
}

// IngestFile processes the rows of a single activity file in order. The
// first record is assumed to be a header.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open activity file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			in.skip()
			in.log.Warn().Str("file", path).Int("line", line).Err(err).Msg("unreadable row")
			continue
		}
		if line == 1 {
			continue
		}
		if err := in.ingestRow(path, line, record); err != nil {
			return err
		}
	}
}

func (in *Ingestor) ingestRow(path string, line int, record []string) error {
	in.countRow()

	tx, err := in.parser.Parse(record)
	if errors.Is(err, errSkipRow) {
		return nil
	}
	if err != nil {
		in.skip()
		in.log.Warn().Str("file", path).Int("line", line).Err(err).Msg("invalid row")
		return nil
	}
	tx.Source = path
	tx.Line = line

	major, minor := in.classifier.Classify(tx.Description, tx.Override, tx.IsCredit)
	if err := in.store.AddValue(tx.Date, major, minor, tx.Amount); err != nil {
		return fmt.Errorf("%s: line %d: %w", path, line, err)
	}
	return nil
}

// Rows returns the number of non-header rows seen.
func (in *Ingestor) Rows() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.rows
}

// Skipped returns the number of malformed rows that were dropped.
func (in *Ingestor) Skipped() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.skipped
}

func (in *Ingestor) countRow() {
	in.mu.Lock()
	in.rows++
	in.mu.Unlock()
}

func (in *Ingestor) skip() {
	in.mu.Lock()
	in.skipped++
	in.mu.Unlock()
}
