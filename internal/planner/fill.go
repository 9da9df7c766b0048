package planner

import (
	"context"
	"fmt"

	"wayfarer/internal/logging"
	"wayfarer/internal/research"
	"wayfarer/internal/schedule"
	"wayfarer/internal/trip"
)

// fillSlots repeatedly asks the proposer to fill the earliest empty time
// slots until none remain, reflecting on each batch before committing it.
// The loop terminates unconditionally at the iteration or item ceiling.
func (p *Planner) fillSlots(ctx context.Context, findings []research.Finding) error {
	log := logging.Get(logging.CategoryPlanner)
	system := fillSystemPrompt(p.profile, renderFindings(findings))

	for loop := 0; loop < p.limits.MaxFillLoops; loop++ {
		items := p.store.Items()
		slots, err := schedule.ComputeFreeSlots(items, p.profile.StartOfDayAt, p.profile.EndOfDayAt)
		if err != nil {
			return fmt.Errorf("slot computation: %w", err)
		}
		if slots == nil {
			log.Info("schedule filled after %d loops", loop)
			return nil
		}
		if p.store.Len() >= p.limits.MaxScheduleItems {
			log.Warn("item ceiling %d reached with slots remaining", p.limits.MaxScheduleItems)
			return nil
		}

		user := fillHumanPrompt(
			trip.RenderItems(items, trip.RenderOptions{IncludeIDs: true}),
			schedule.RenderFreeSlots(slots))
		raw, err := p.llm.CompleteStructured(ctx, system, user, fillResponseSchema())
		if err != nil {
			return fmt.Errorf("fill loop %d: %w", loop, err)
		}
		var resp fillResponse
		if err := decodeProposal(raw, &resp); err != nil {
			return fmt.Errorf("fill loop %d: %w", loop, err)
		}
		if len(resp.Actions) == 0 {
			log.Warn("fill loop %d returned no actions with slots remaining", loop)
			return nil
		}

		batch, next := assignIDs(actionItems(resp.Actions), p.store.NextID())
		batch, err = p.reflect(ctx, system, batch, next)
		if err != nil {
			return fmt.Errorf("fill loop %d: %w", loop, err)
		}

		applied := p.store.Apply(batch)
		p.emitItems(applied)
		log.Debug("fill loop %d committed %d items", loop, len(applied))
	}
	log.Warn("fill loop ceiling %d reached", p.limits.MaxFillLoops)
	return nil
}

// assignIDs gives fresh ids, starting at next, to items the proposer
// marked as new with id 0. Items reusing a real id are modifications and
// keep it, as do removes, which target an existing id. Returns the first
// unconsumed id so a followup batch in the same step cannot collide.
func assignIDs(items []trip.ScheduleItem, next int) ([]trip.ScheduleItem, int) {
	for i := range items {
		if items[i].ActivityType == trip.ActivityRemove {
			continue
		}
		if items[i].ID == 0 {
			items[i].ID = next
			next++
		}
	}
	return items, next
}

// reflect critiques a just-proposed batch against the fill checklist and
// folds the corrective actions into it. The critique sees only the batch,
// not the whole schedule.
func (p *Planner) reflect(ctx context.Context, system string, batch []trip.ScheduleItem, next int) ([]trip.ScheduleItem, error) {
	user := reflectionPrompt(trip.RenderItems(batch, trip.RenderOptions{
		IncludeIDs:         true,
		IncludeDescription: true,
	}))
	raw, err := p.llm.CompleteStructured(ctx, system, user, critiqueResponseSchema())
	if err != nil {
		return nil, fmt.Errorf("reflection: %w", err)
	}
	var resp critiqueResponse
	if err := decodeProposal(raw, &resp); err != nil {
		return nil, fmt.Errorf("reflection: %w", err)
	}
	if len(resp.Actions) == 0 {
		return batch, nil
	}
	logging.Get(logging.CategoryPlanner).Debug("reflection produced %d corrections", len(resp.Actions))
	corrections, _ := assignIDs(actionItems(resp.Actions), next)
	return schedule.Merge(batch, corrections), nil
}
