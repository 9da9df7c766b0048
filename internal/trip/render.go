package trip

import (
	"fmt"
	"sort"
	"strings"
)

// RenderOptions controls which fields RenderItems includes.
type RenderOptions struct {
	IncludeIDs         bool
	IncludeDescription bool
	IncludeSuggestion  bool
}

// RenderItems produces the bullet-list rendering of a schedule used in
// prompts and progress output, sorted by start time.
func RenderItems(items []ScheduleItem, opts RenderOptions) string {
	if len(items) == 0 {
		return "No schedule items are arranged yet."
	}

	sorted := make([]ScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Start < sorted[j].Time.Start
	})

	var b strings.Builder
	for i, item := range sorted {
		if i > 0 {
			b.WriteString("\n")
		}
		if opts.IncludeIDs {
			fmt.Fprintf(&b, "- ID: %d | Time: %s", item.ID, item.Time.Start)
		} else {
			fmt.Fprintf(&b, "- Time: %s", item.Time.Start)
		}
		if item.Time.End != "" {
			fmt.Fprintf(&b, " ~ %s", item.Time.End)
		}
		fmt.Fprintf(&b, " | Type: %s | Title: %s | Location: %s",
			item.ActivityType, item.Title, item.Location)
		if opts.IncludeDescription && item.Description != "" {
			fmt.Fprintf(&b, " | Description: %s", item.Description)
		}
		if opts.IncludeSuggestion && item.Suggestion != "" {
			fmt.Fprintf(&b, " | Suggestion: %s", item.Suggestion)
		}
	}
	return strings.TrimSpace(b.String())
}
