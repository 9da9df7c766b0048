package planner

import (
	"context"
	"fmt"

	"wayfarer/internal/logging"
	"wayfarer/internal/trip"
)

// planTransport researches terminal-accommodation transportation and
// turns the findings into exactly two transport items: arrival leg and
// departure leg.
func (p *Planner) planTransport(ctx context.Context) error {
	log := logging.Get(logging.CategoryPlanner)

	result, err := p.search.Search(ctx, transportResearchPrompt(p.profile))
	if err != nil {
		return fmt.Errorf("transport research: %w", err)
	}

	user := fmt.Sprintf("Research result:\n%s\n\n%s", result, transportFillPrompt(p.profile))
	raw, err := p.llm.CompleteStructured(ctx, fillSystemPrompt(p.profile, ""), user, fillResponseSchema())
	if err != nil {
		return fmt.Errorf("transport structuring: %w", err)
	}
	var resp fillResponse
	if err := decodeProposal(raw, &resp); err != nil {
		return fmt.Errorf("transport structuring: %w", err)
	}
	if len(resp.Actions) != 2 {
		return fmt.Errorf("transport structuring: expected 2 items, got %d", len(resp.Actions))
	}

	items := actionItems(resp.Actions)
	nextID := p.store.NextID()
	for i := range items {
		items[i].ID = nextID + i
		items[i].ActivityType = trip.ActivityTransport
	}
	applied := p.store.Apply(items)
	p.emitItems(applied)
	log.Info("added terminal transport legs %d and %d", items[0].ID, items[1].ID)
	return nil
}
