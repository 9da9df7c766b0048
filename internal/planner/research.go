package planner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"wayfarer/internal/logging"
	"wayfarer/internal/research"
)

// runResearch executes the refined queries against the search client in
// parallel, capped at the configured concurrency, and summarizes each
// result for prompt embedding. Summarization failures are tolerated; the
// raw result still counts as a finding.
func (p *Planner) runResearch(ctx context.Context, queries []ResearchQuery) ([]research.Finding, error) {
	log := logging.Get(logging.CategoryResearch)
	if len(queries) > p.limits.MaxConcurrentSearch {
		log.Warn("capping research from %d to %d queries", len(queries), p.limits.MaxConcurrentSearch)
		queries = queries[:p.limits.MaxConcurrentSearch]
	}

	var mu sync.Mutex
	findings := make([]research.Finding, 0, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limits.MaxConcurrentSearch)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			timer := logging.StartTimer(logging.CategoryResearch, q.Query)
			result, err := p.search.Search(gctx, searchPrompt(p.profile, q.Query))
			timer.Stop()
			if err != nil {
				return fmt.Errorf("search %q: %w", q.Query, err)
			}

			f := research.Finding{Query: q.Query, Result: result}
			if summary, err := p.llm.Complete(gctx, summarizePrompt(result)); err != nil {
				log.Warn("summarization failed for %q: %v", q.Query, err)
			} else {
				f.Summary = summary
			}

			mu.Lock()
			findings = append(findings, f)
			mu.Unlock()

			p.emit(Progress{
				Short: fmt.Sprintf("Looked up: %s", q.Query),
				Long:  &ProgressDetail{Title: q.Query, Description: f.Summary},
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("collected %d findings", len(findings))
	return findings, nil
}

// renderFindings formats findings for embedding in the fill prompt. The
// full result is used; the summary only feeds progress events.
func renderFindings(findings []research.Finding) string {
	if len(findings) == 0 {
		return "(no research results)"
	}
	var out string
	for i, f := range findings {
		out += fmt.Sprintf("### %d. %s\n%s\n\n", i+1, f.Query, f.Result)
	}
	return out
}
