package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/core"
)

// maxContentBytes caps a single document's content at 5 MiB.
const maxContentBytes = 5 << 20

// Document is one unit of raw input with its provenance.
type Document struct {
	Content    string
	Source     string // filename, URL, or empty for pasted text
	SourceType core.SourceType
	Title      string
	URL        string
}

// Failure records one document that could not be ingested.
type Failure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Report summarizes one ingestion batch. A batch succeeds as long as the
// pipeline itself ran; individual document failures are listed rather than
// failing the whole batch.
type Report struct {
	Processed   int       `json:"processed"`
	TotalChunks int       `json:"totalChunks"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Pipeline turns raw documents into chunks and writes them into the
// session's collection. Documents within a batch are processed concurrently
// on a worker pool.
type Pipeline struct {
	manager *collection.Manager
	chunker *Chunker
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunker sets a custom chunker.
// Default uses DefaultChunkSize and DefaultChunkOverlap.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker != nil {
			p.chunker = chunker
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(manager *collection.Manager, opts ...Option) (*Pipeline, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		manager: manager,
		chunker: NewChunker(),
		pool:    pool,
		logger:  slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// Close releases the worker pool.
func (p *Pipeline) Close() error {
	p.pool.Release()
	return nil
}

// Ingest chunks each document and writes the chunks into the session's
// collection. One failing document is recorded and skipped; the rest of the
// batch still proceeds. A document that splits into zero chunks counts as
// processed with no write.
func (p *Pipeline) Ingest(ctx context.Context, session string, docs ...Document) (*Report, error) {
	if err := core.ValidateSessionID(session); err != nil {
		return nil, err
	}

	report := &Report{}
	if len(docs) == 0 {
		return report, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, doc := range docs {
		doc := doc
		// Fix the display name up front so the report and the stored
		// provenance agree for synthesized names.
		doc.Source = displaySource(doc)

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			count, err := p.ingestOne(ctx, session, doc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Warn("document ingestion failed", "source", doc.Source, "err", err)
				report.Failures = append(report.Failures, Failure{
					Source: doc.Source,
					Reason: err.Error(),
				})
				return
			}
			report.Processed++
			report.TotalChunks += count
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}

	wg.Wait()
	return report, nil
}

// ingestOne chunks and writes a single document, returning the chunk count.
func (p *Pipeline) ingestOne(ctx context.Context, session string, doc Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(doc.Content) > maxContentBytes {
		return 0, fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(doc.Content))
	}
	if err := core.ValidateSourceType(doc.SourceType); err != nil {
		return 0, err
	}

	provenance := core.ChunkMetadata{
		Source:     doc.Source,
		SourceType: doc.SourceType,
		Title:      doc.Title,
		URL:        doc.URL,
	}

	chunks, err := p.chunker.Split(doc.Content, provenance)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := p.manager.WriteChunks(ctx, session, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// displaySource returns the document's source name, synthesizing one for
// pasted text that has none.
func displaySource(doc Document) string {
	if doc.Source != "" {
		return doc.Source
	}
	if doc.SourceType == core.SourceTypeText {
		return "text_" + uuid.NewString() + ".txt"
	}
	return "unknown"
}
