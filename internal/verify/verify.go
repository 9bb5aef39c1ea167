// Package verify orchestrates the full pipeline for a document:
// parse the reference list, extract in-text citations, query the
// applicable providers for every entry, score the candidates, and
// assemble the verification report.
package verify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matsen/refcheck/internal/citation"
	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/logging"
	"github.com/matsen/refcheck/internal/lookup"
	"github.com/matsen/refcheck/internal/refparse"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/score"
)

// Document is the extracted input for one verification run: the raw
// reference-list entries in list order plus the body paragraphs the
// citations are pulled from.
type Document struct {
	Name       string
	References []reference.RawEntry
	Paragraphs []string
}

// Verifier runs verification over documents. All lookups issued by
// one Verifier share a single request ceiling, so batching documents
// never multiplies the load on the providers.
type Verifier struct {
	cfg      config.Config
	engine   *score.Engine
	adapters []lookup.Adapter
	requests *semaphore.Weighted
	log      *slog.Logger
}

// New builds a Verifier. Configuration is validated up front; an
// invalid configuration fails here, before any lookup is issued.
func New(cfg config.Config, adapters []lookup.Adapter) (*Verifier, error) {
	engine, err := score.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.SkipBookVerification {
		kept := adapters[:0:0]
		for _, a := range adapters {
			if !lookup.BookOriented(a) {
				kept = append(kept, a)
			}
		}
		adapters = kept
	}
	return &Verifier{
		cfg:      cfg,
		engine:   engine,
		adapters: adapters,
		requests: semaphore.NewWeighted(int64(cfg.MaxConcurrentRequests)),
		log:      logging.New("verify"),
	}, nil
}

// VerifyDocument runs the pipeline for one document. Cancellation
// aborts the run and discards the partial report.
func (v *Verifier) VerifyDocument(ctx context.Context, doc Document) (*Report, error) {
	refs := make([]reference.Parsed, len(doc.References))
	for i, raw := range doc.References {
		refs[i] = refparse.Parse(raw)
	}

	// With no reference list every citation would come back as an
	// orphan, so an empty list skips cross-matching and is reported
	// as a document-level anomaly instead.
	var cross *citation.CrossResult
	var anomalies []string
	if len(refs) == 0 {
		anomalies = append(anomalies, "no references extracted; citation matching skipped")
	} else if !v.cfg.SkipCitationMatching {
		cites := citation.Extract(doc.Paragraphs)
		c := citation.CrossMatch(refs, cites)
		cross = &c
	}

	results := make([]score.Result, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.MaxConcurrentRequests)
	for i := range refs {
		g.Go(func() error {
			r, err := v.verifyReference(gctx, &refs[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify %s: %w", doc.Name, err)
	}

	report := &Report{
		Document:   doc.Name,
		References: refs,
		Results:    results,
		Citations:  cross,
		Anomalies:  anomalies,
	}
	report.Summary = summarize(results, cross)
	v.log.Info("document verified",
		"document", doc.Name,
		"references", report.Summary.Total,
		"verified", report.Summary.Verified,
		"no_match", report.Summary.NoMatch)
	return report, nil
}

// VerifyBatch verifies documents concurrently under the configured
// document ceiling. Reports come back in input order. Any hard
// failure aborts the batch.
func (v *Verifier) VerifyBatch(ctx context.Context, docs []Document) ([]*Report, error) {
	reports := make([]*Report, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.MaxConcurrentDocuments)
	for i := range docs {
		g.Go(func() error {
			report, err := v.VerifyDocument(gctx, docs[i])
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// verifyReference queries the applicable providers for one entry and
// scores the combined candidates. Manual-review source types never
// reach an adapter.
func (v *Verifier) verifyReference(ctx context.Context, ref *reference.Parsed) (score.Result, error) {
	adapters := v.applicable(ref)
	if len(adapters) == 0 {
		return v.engine.Match(ref, nil), nil
	}

	// Fan out across providers. Each goroutine writes only its own
	// slot, so candidate and outage order stay deterministic.
	hits := make([][]reference.Candidate, len(adapters))
	outages := make([]string, len(adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		g.Go(func() error {
			if err := v.requests.Acquire(gctx, 1); err != nil {
				return err
			}
			defer v.requests.Release(1)

			candidates, err := adapter.Search(gctx, ref)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// An unreachable provider degrades coverage for this
				// entry but never fails the document.
				v.log.Warn("provider unavailable",
					"provider", adapter.Name(), "ref_index", ref.Raw.Index, "error", err)
				outages[i] = adapter.Name()
				return nil
			}
			hits[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return score.Result{}, err
	}

	var candidates []reference.Candidate
	var unavailable []string
	for i, h := range hits {
		candidates = append(candidates, h...)
		if outages[i] != "" {
			unavailable = append(unavailable, outages[i])
		}
	}
	result := v.engine.Match(ref, candidates)
	result.Unavailable = unavailable
	return result, nil
}

// applicable selects the providers worth querying for a source type.
// Websites are never queried; books with lookup disabled were already
// filtered out of the adapter set at construction.
func (v *Verifier) applicable(ref *reference.Parsed) []lookup.Adapter {
	switch ref.Type {
	case reference.SourceWebsite:
		return nil
	case reference.SourceBook:
		if v.cfg.SkipBookVerification {
			return nil
		}
		var out []lookup.Adapter
		for _, a := range v.adapters {
			if lookup.BookOriented(a) {
				out = append(out, a)
			}
		}
		return out
	case reference.SourceJournal:
		var out []lookup.Adapter
		for _, a := range v.adapters {
			if !lookup.BookOriented(a) {
				out = append(out, a)
			}
		}
		return out
	default:
		return v.adapters
	}
}
