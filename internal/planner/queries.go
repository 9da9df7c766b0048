package planner

import (
	"context"
	"fmt"
	"math"
	"strings"

	"wayfarer/internal/logging"
)

// queryTarget sizes the research budget: one query per block of free
// hours, at least one.
func (p *Planner) queryTarget(freeHours float64) int {
	target := int(math.Ceil(freeHours / float64(p.limits.FreeHoursPerQuery)))
	if target < 1 {
		target = 1
	}
	return target
}

// refineQueries proposes an initial set of research queries and runs the
// propose/critique loop until the proposer is satisfied, the target count
// is reached, or the iteration ceiling fires.
func (p *Planner) refineQueries(ctx context.Context, freeHours float64) ([]ResearchQuery, error) {
	log := logging.Get(logging.CategoryPlanner)
	target := p.queryTarget(freeHours)
	system := querySystemPrompt(p.profile)

	raw, err := p.llm.CompleteStructured(ctx, system, queryHumanPrompt(target), queryProposalSchema())
	if err != nil {
		return nil, fmt.Errorf("query proposal: %w", err)
	}
	var prop queryProposal
	if err := decodeProposal(raw, &prop); err != nil {
		return nil, fmt.Errorf("query proposal: %w", err)
	}
	queries := prop.Queries
	for i := range queries {
		queries[i].ID = i
	}
	log.Info("proposed %d research queries (target %d)", len(queries), target)

	for loop := 0; loop < p.limits.MaxQueryLoops; loop++ {
		if len(queries) >= target {
			break
		}
		user := fmt.Sprintf("Here are the current queries:\n%s\n\n%s",
			renderQueries(queries), queryCritiquePrompt)
		raw, err := p.llm.CompleteStructured(ctx, system, user, queryVerdictSchema())
		if err != nil {
			return nil, fmt.Errorf("query critique: %w", err)
		}
		var verdict queryVerdict
		if err := decodeProposal(raw, &verdict); err != nil {
			return nil, fmt.Errorf("query critique: %w", err)
		}
		if verdict.IsGoodEnough {
			log.Debug("query critique satisfied after %d loops", loop+1)
			break
		}
		queries = applyQueryActions(queries, verdict.Actions)
		log.Debug("query critique loop %d applied %d actions, %d queries now",
			loop+1, len(verdict.Actions), len(queries))
	}

	p.emit(Progress{Short: fmt.Sprintf("Researching %d topics for your trip", len(queries))})
	return queries, nil
}

func renderQueries(queries []ResearchQuery) string {
	if len(queries) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, q := range queries {
		fmt.Fprintf(&b, "#%d | Query: %s | Rationale: %s\n", q.ID, q.Query, q.Rationale)
	}
	return strings.TrimRight(b.String(), "\n")
}

// applyQueryActions folds critique actions into the query list. Added
// queries get ids past the current maximum; removes filter by id; modify
// rewrites the query text in place; skip leaves the query untouched.
func applyQueryActions(queries []ResearchQuery, actions []QueryAction) []ResearchQuery {
	maxID := -1
	for _, q := range queries {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	for _, a := range actions {
		switch a.Type {
		case QueryActionAdd:
			if a.NewQueryValue == "" {
				continue
			}
			maxID++
			queries = append(queries, ResearchQuery{
				ID:        maxID,
				Rationale: a.Rationale,
				Query:     a.NewQueryValue,
			})
		case QueryActionRemove:
			for i, q := range queries {
				if q.ID == a.QueryID {
					queries = append(queries[:i], queries[i+1:]...)
					break
				}
			}
		case QueryActionModify:
			if a.NewQueryValue == "" {
				continue
			}
			for i := range queries {
				if queries[i].ID == a.QueryID {
					queries[i].Query = a.NewQueryValue
					queries[i].Rationale = a.Rationale
					break
				}
			}
		case QueryActionSkip:
			// Explicit keep.
		}
	}
	return queries
}
