package planner

import (
	"context"
	"fmt"

	"wayfarer/internal/logging"
	"wayfarer/internal/trip"
)

// validate runs whole-schedule validation passes until the proposer
// returns no corrective actions. Exhausting the pass ceiling without
// converging is a hard failure; a schedule the validator keeps rewriting
// is not safe to hand to the user.
func (p *Planner) validate(ctx context.Context) error {
	log := logging.Get(logging.CategoryPlanner)

	for pass := 0; pass < p.limits.MaxValidateLoops; pass++ {
		rendered := trip.RenderItems(p.store.Items(), trip.RenderOptions{
			IncludeIDs:         true,
			IncludeDescription: true,
		})
		raw, err := p.llm.CompleteStructured(ctx, "", validatePrompt(rendered), critiqueResponseSchema())
		if err != nil {
			return fmt.Errorf("validation pass %d: %w", pass, err)
		}
		var resp critiqueResponse
		if err := decodeProposal(raw, &resp); err != nil {
			return fmt.Errorf("validation pass %d: %w", pass, err)
		}
		if len(resp.Actions) == 0 {
			log.Info("schedule validated after %d passes", pass+1)
			return nil
		}

		corrections, _ := assignIDs(actionItems(resp.Actions), p.store.NextID())
		applied := p.store.Apply(corrections)
		p.emitItems(applied)
		log.Debug("validation pass %d applied %d corrections", pass, len(corrections))
		p.emit(Progress{Short: fmt.Sprintf("Polishing the schedule (%d adjustments)", len(corrections))})
	}
	return fmt.Errorf("after %d passes: %w", p.limits.MaxValidateLoops, ErrValidationDiverged)
}
