// Package planner implements the iterative schedule-construction engine:
// seeding, query refinement, research fan-out, slot filling with
// reflection, transportation augmentation, and full-schedule validation,
// sequenced by the Planner orchestrator.
package planner

import (
	"errors"
	"fmt"

	"wayfarer/internal/proposer"
	"wayfarer/internal/research"
	"wayfarer/internal/trip"
)

// ErrValidationDiverged is returned when the full-schedule validator keeps
// emitting corrective actions past its pass ceiling.
var ErrValidationDiverged = errors.New("schedule validation did not converge")

// ErrMalformedProposal is returned when a structured completion does not
// decode into the requested shape.
var ErrMalformedProposal = errors.New("malformed proposal")

func decodeProposal(raw string, v interface{}) error {
	if err := proposer.DecodeJSON(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProposal, err)
	}
	return nil
}

// ResearchQuery is one candidate internet-research query. IDs are
// loop-local: assigned 0..n-1 at proposal, then max+1 for additions.
type ResearchQuery struct {
	ID        int    `json:"id"`
	Rationale string `json:"rationale"`
	Query     string `json:"query"`
}

// queryProposal is the structured shape of the initial query generation.
type queryProposal struct {
	Queries []ResearchQuery `json:"queries"`
}

// QueryActionType enumerates critique actions on the query list.
type QueryActionType string

const (
	QueryActionAdd    QueryActionType = "add"
	QueryActionRemove QueryActionType = "remove"
	QueryActionModify QueryActionType = "modify"
	QueryActionSkip   QueryActionType = "skip"
)

// QueryAction is one atomic critique action keyed by query id.
type QueryAction struct {
	QueryID       int             `json:"query_id"`
	Rationale     string          `json:"rationale"`
	Type          QueryActionType `json:"type"`
	NewQueryValue string          `json:"new_query_value"`
}

// queryVerdict is the structured critique of the current query list.
type queryVerdict struct {
	Actions      []QueryAction `json:"actions"`
	IsGoodEnough bool          `json:"is_good_enough"`
}

// ScheduleAction pairs a proposed schedule item with the proposer's
// reasoning. The item side carries the add/modify/remove-by-id semantics
// of the merge reducer.
type ScheduleAction struct {
	Reasoning string            `json:"reasoning"`
	Item      trip.ScheduleItem `json:"schedule_item"`
}

// fillResponse is the structured shape of a slot-filling proposal.
type fillResponse struct {
	Actions []ScheduleAction `json:"actions"`
}

// CriterionReasoning records the proposer's think-out-loud verdict for one
// checklist criterion.
type CriterionReasoning struct {
	Criterion string `json:"criterion"`
	Reasoning string `json:"reasoning"`
}

// critiqueResponse is the structured shape shared by the fill reflection
// and the full-schedule validator: per-criterion reasoning followed by
// corrective actions (empty when everything passes).
type critiqueResponse struct {
	Criteria []CriterionReasoning `json:"criteria"`
	Actions  []ScheduleAction     `json:"actions"`
}

// ProgressDetail is the optional expanded body of a progress event.
type ProgressDetail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Progress is one observational event emitted after planner steps so the
// caller can render incremental progress. It is a side channel, not part
// of the store's correctness contract.
type Progress struct {
	Short string          `json:"short,omitempty"`
	Long  *ProgressDetail `json:"long,omitempty"`
}

// Result is the outcome of a completed planning run.
type Result struct {
	Items     []trip.ScheduleItem
	Findings  []research.Finding
	FreeHours float64
}

func actionItems(actions []ScheduleAction) []trip.ScheduleItem {
	items := make([]trip.ScheduleItem, 0, len(actions))
	for _, a := range actions {
		items = append(items, a.Item)
	}
	return items
}
