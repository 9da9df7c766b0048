package planner

// Fixed response schemas, one per loop. The per-criterion reasoning is a
// single ordered list of {criterion, reasoning} pairs rather than
// dynamically named fields, so every provider sees a stable shape.

func scheduleItemSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"type":        "integer",
				"description": "Item id. Leave 0 for brand-new items; reuse an existing id to modify it.",
			},
			"activity_type": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"terminal", "transport", "walk", "meal", "event", "streets",
					"museum_gallery", "historical_site", "other", "remove",
				},
			},
			"time": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"start_time": map[string]interface{}{
						"type":        "string",
						"description": "Full date-and-time, e.g. 'YYYY-MM-DD HH:MM'",
					},
					"end_time": map[string]interface{}{
						"type":        "string",
						"description": "Full date-and-time or time-only ('HH:MM'). Empty if unknown.",
					},
				},
				"required": []string{"start_time"},
			},
			"location":    map[string]interface{}{"type": "string"},
			"title":       map[string]interface{}{"type": "string"},
			"description": map[string]interface{}{"type": "string"},
			"suggestion":  map[string]interface{}{"type": "string"},
		},
		"required": []string{"activity_type", "time", "location", "title"},
	}
}

func scheduleActionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"reasoning": map[string]interface{}{
				"type":        "string",
				"description": "Think out loud your reasoning behind this action before the item.",
			},
			"schedule_item": scheduleItemSchema(),
		},
		"required": []string{"reasoning", "schedule_item"},
	}
}

// queryProposalSchema shapes the initial query-generation response.
func queryProposalSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"queries": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"rationale": map[string]interface{}{"type": "string"},
						"query":     map[string]interface{}{"type": "string"},
					},
					"required": []string{"rationale", "query"},
				},
			},
		},
		"required": []string{"queries"},
	}
}

// queryVerdictSchema shapes the query critique response.
func queryVerdictSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"actions": map[string]interface{}{
				"type":        "array",
				"description": "Leave empty if is_good_enough is true.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query_id":  map[string]interface{}{"type": "integer"},
						"rationale": map[string]interface{}{"type": "string", "description": "Explain why you want to do this action."},
						"type": map[string]interface{}{
							"type": "string",
							"enum": []string{"add", "remove", "modify", "skip"},
						},
						"new_query_value": map[string]interface{}{"type": "string", "description": "Leave empty if type is remove or skip."},
					},
					"required": []string{"query_id", "rationale", "type"},
				},
			},
			"is_good_enough": map[string]interface{}{
				"type":        "boolean",
				"description": "Return true if the current queries are good enough. Must come after actions.",
			},
		},
		"required": []string{"actions", "is_good_enough"},
	}
}

// fillResponseSchema shapes slot-filling and transportation proposals.
func fillResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"actions": map[string]interface{}{
				"type":  "array",
				"items": scheduleActionSchema(),
			},
		},
		"required": []string{"actions"},
	}
}

// critiqueResponseSchema shapes the fill reflection and the full-schedule
// validation verdicts.
func critiqueResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"criteria": map[string]interface{}{
				"type":        "array",
				"description": "One entry per checklist criterion, in order, with your reasoning.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"criterion": map[string]interface{}{"type": "string"},
						"reasoning": map[string]interface{}{"type": "string"},
					},
					"required": []string{"criterion", "reasoning"},
				},
			},
			"actions": map[string]interface{}{
				"type":        "array",
				"description": "Empty if all criteria are met. Otherwise remove/modify/add actions by id.",
				"items":       scheduleActionSchema(),
			},
		},
		"required": []string{"criteria", "actions"},
	}
}
