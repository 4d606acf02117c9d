// Package batch implements the concurrent multi-email mode described in
// SPEC_FULL.md §3 (Batch processing): extracting bodies from many
// emails in parallel, adapted from the
// teacher pipeline's worker-pool ingestion pattern.
package batch

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/nkmr-lab/meichaku/pkg/extractor"
)

// Outcome is one email's extraction result, indexed so callers can
// match it back to the input slice regardless of completion order.
type Outcome struct {
	Index int
	Meta  *extractor.Metadata
	Err   error
}

// Processor runs EmailBodyExtractor.ExtractWithMetadata over many
// emails concurrently.
type Processor struct {
	Extractor *extractor.EmailBodyExtractor
	Workers   int

	// OnProgress is called after each completed email with the number
	// done so far and the total. nil means no progress reporting.
	OnProgress func(done, total int)

	// Logger is used for informational messages (e.g. per-email
	// extraction failures). nil means no logging.
	Logger *log.Logger
}

// NewProcessor returns a Processor with workers set to a sensible
// default (4, mirroring the teacher ingester's default) when n <= 0.
func NewProcessor(ex *extractor.EmailBodyExtractor, workers int) *Processor {
	if workers <= 0 {
		workers = 4
	}
	return &Processor{Extractor: ex, Workers: workers}
}

// ProcessAll extracts every text in texts concurrently and returns one
// Outcome per input, in input order. Extraction errors (InvalidInput,
// NoBodyDetected) are per-email and reported in Outcome.Err rather than
// aborting the batch; only pool-level failures (context cancellation)
// abort early. On cancellation no further emails are submitted, the
// ones already submitted finish, and the outcomes of the rest are left
// as zero values.
func (p *Processor) ProcessAll(ctx context.Context, texts []string) ([]Outcome, error) {
	n := len(texts)
	outcomes := make([]Outcome, n)
	if n == 0 {
		return outcomes, nil
	}

	pool := newWorkerPool(p.Workers, p.Workers*2)
	defer pool.close()

	poolCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.start(poolCtx)

	var done int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			// Already-submitted jobs still run; wait for them so no
			// worker writes to outcomes after it has been returned.
			wg.Add(i - n)
			wg.Wait()
			return outcomes, err
		}
		i, text := i, text
		err := pool.submit(func(ctx context.Context) {
			defer wg.Done()
			meta, extractErr := p.Extractor.ExtractWithMetadata(text)
			outcomes[i] = Outcome{Index: i, Meta: meta, Err: extractErr}
			if extractErr != nil && p.Logger != nil {
				p.Logger.Printf("email %d: extraction failed: %v", i, extractErr)
			}
			newDone := atomic.AddInt64(&done, 1)
			if p.OnProgress != nil {
				p.OnProgress(int(newDone), n)
			}
		})
		if err != nil {
			wg.Done()
			return outcomes, err
		}
	}

	wg.Wait()
	return outcomes, nil
}
