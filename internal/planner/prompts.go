package planner

import (
	"fmt"
	"strings"

	"wayfarer/internal/trip"
)

// fillCriteria is the checklist the slot-filling reflection judges
// just-added items against.
var fillCriteria = []string{
	"Fill in events in order, starting with the earliest empty time slot.",
	"Consider travel time between locations, and add the travel as an event using 'transport' or 'walk' type.",
	"Prioritize the activities that are the most relevant to the user and don't overlap with the current schedule.",
	"Include as much detail as possible about the activities in the 'description' and 'suggestion' fields.",
	"Ensure meal times (breakfast, lunch, dinner, snack) are accounted for and spaced appropriately throughout the day.",
	"Don't forget to come back to the accommodation at the end of the day.",
	"Make sure to have enough time to arrive at the departure terminal. No big events right before the departure.",
}

// validateCriteria is the checklist the full-schedule validator applies.
var validateCriteria = []string{
	"There should be at least 3 meals per day unless 1. the user-provided schedules overlap with the meal time, or 2. it is the arrival or departure day and the meal time is before or after the terminal schedule.",
	"There should be proper transportation or walk slots between any two back-to-back activities at different locations, accounting for realistic travel time.",
	"The user should start at the accommodation and come back to the accommodation every day except the arrival and departure day.",
	"There shouldn't be duplicated schedule items.",
}

func tripContext(p *trip.Profile) string {
	return fmt.Sprintf(
		"The user will be visiting %s, staying at %s, from %s to %s. "+
			"They prefer a %s trip with a focus on %s and are particularly interested in %s. "+
			"Their day starts at %s and ends at %s.",
		p.Location, p.Accommodation, p.ArrivalAt(), p.DepartureAt(),
		p.Budget, p.Theme, p.Interests, p.StartOfDayAt, p.EndOfDayAt)
}

func querySystemPrompt(p *trip.Profile) string {
	fixed := trip.RenderItems(p.FixedSchedules, trip.RenderOptions{IncludeDescription: true})

	return strings.TrimSpace(fmt.Sprintf(`
As an AI tour planner, you conduct internet research to gather the travel options tailored to the user's preferences and trip information.

%s

There are fixed schedules that the user has to follow:
%s

Extra information about the user:
%s


---


Here are examples of queries that you should generate. Each example is based on a different trip scenario which is not included here. For the queries that you are going to generate, you should use the trip information provided above.

1.
Rationale: The user is visiting Quebec City and wants a Cultural & Heritage theme trip. I should look up if there is any museum related to indigenous culture in Quebec City.
Query: Museums related to indigenous culture in Quebec City

2.
Rationale: The user is visiting Cuba and wants a Relaxation & Wellness theme trip. I should look up which beach is the best to rest in Cuba.
Query: Best beaches in Cuba to relax

3.
Rationale: It's important to have good food when you're visiting a new place. I should look up the best restaurants and cafes to eat at in Seoul.
Query: Best restaurants and cafes to eat at in Seoul


---


Important notes:
- You do not need to include the trip information in your queries. For instance, you do not need to specify the time that the user is visiting the location.
- You do not need to generate queries for transportation between terminal and accommodation since it is already handled by another workflow.`,
		tripContext(p), fixed, p.ExtraInfo))
}

func queryHumanPrompt(target int) string {
	return fmt.Sprintf("Read my trip information carefully, and generate up to %d queries to look up information on the internet. Make sure each query doesn't overlap with the other ones.", target)
}

const queryCritiquePrompt = "Review the queries for quality. Ensure they are diverse and not redundant. If any queries are redundant, keep only the best one. Add new queries relevant to my trip if any key aspects are missing. Modify queries that are too vague to make them more specific to my trip. For queries that meet the criteria, mark them with 'skip' as the action type. If all queries are good enough, return true for is_good_enough."

func searchPrompt(p *trip.Profile, query string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an AI tour planner doing some research for the user.

The user will be visiting %s, staying at %s, from %s to %s. They prefer a %s trip and plan to start their day at %s and end it at %s.


---


Now here is your task: Collect information about the following query.
%s


---


Important Rules
- Keep in mind the user's trip information, and sort the results in a way that the most relevant information is at the top.
- You don't need to plan the full schedule, just collect information about the query.
- Make sure only include information that is available from %s to %s.
- If possible (without making anything up), include practical tips for each recommendation, such as signature dishes to order, best photo spots, ways to get cheaper or easier tickets, best times to avoid crowds, local customs or etiquette to be aware of, transportation tips, weather considerations, common scams or tourist traps to avoid, and unique souvenirs to look for.
- Do NOT include citations.
- Do NOT use Markdown format. Just use plain text with bullet points and numbered lists.`,
		p.Location, p.Accommodation, p.ArrivalAt(), p.DepartureAt(),
		p.Budget, p.StartOfDayAt, p.EndOfDayAt,
		query, p.ArrivalAt(), p.DepartureAt()))
}

func summarizePrompt(result string) string {
	return fmt.Sprintf("Summarize the following internet search result in a single paragraph. If there is a list of tourist attractions, places of interest, or landmarks, include all of them in the summary. Here is the result:\n%s", result)
}

func transportResearchPrompt(p *trip.Profile) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an AI tour planner, and now finding transportation methods between the terminals and the accommodation.

Accommodation: %s (%s).
Arrival: %s, %s.
Departure: %s, %s.

You need to find the shortest path between the terminals and the accommodation.
Consider various methods such as public transportation, taxis, car rental, and walking.
Assume that the user has big luggage and needs to carry it all the way.
Pick the best 1-2 options and return them in detail with the following format:

1. From the terminal to the accommodation:
Option #:
- Transportation type: ...
- Duration: ...
- Price: ...

2. From the accommodation to the terminal:
Option #:
- Transportation type: ...
- Duration: ...
- Price: ...`,
		p.Accommodation, p.Location,
		p.ArrivalAt(), p.ArrivalTerminal,
		p.DepartureAt(), p.DepartureTerminal))
}

func transportFillPrompt(p *trip.Profile) string {
	return strings.TrimSpace(fmt.Sprintf(`
Using the information above, create two TRANSPORT type schedule items: one for arrival and one for departure.

- Make sure to add details in the description and suggestion fields. For the location field, use 'A to B' format. A and B should be the address or place name.
- Titles should be 'Go to accommodation' and 'Go to terminal'.
- For the time field, use the following information: Arrival: %s, Departure: %s.
- You should take the travel time into account and fill both start_time and end_time fields. For example, if the travel time is 1 hour, the start_time should be the arrival time, and the end_time should be the arrival time plus 1 hour. For departure, the start_time should be 1 hour before the terminal departure time.
- If possible include cost in the suggestion field.`,
		p.ArrivalAt(), p.DepartureAt()))
}

func fillSystemPrompt(p *trip.Profile, findings string) string {
	return strings.TrimSpace(fmt.Sprintf(`
As an AI tour planner, you help arrange travel schedules for users' trips based on the information you have collected from the internet.

%s

Extra information about the user:
%s


---


Here is the information that you have collected on the internet:

%s`,
		tripContext(p), p.ExtraInfo, findings))
}

func fillHumanPrompt(currentSchedule, emptySlots string) string {
	var rules strings.Builder
	for _, c := range fillCriteria {
		fmt.Fprintf(&rules, "- %s\n", c)
	}

	return strings.TrimSpace(fmt.Sprintf(`
Fill the schedule with the best schedule items. You don't need to fill all at once because you'll be asked again until all slots are filled.

Current schedule:
%s

Empty slots:
%s

Important Rules:
%s`,
		currentSchedule, emptySlots, rules.String()))
}

func reflectionPrompt(addedItems string) string {
	var criteria strings.Builder
	for i, c := range fillCriteria {
		fmt.Fprintf(&criteria, "%d. %s\n", i+1, c)
	}

	return strings.TrimSpace(fmt.Sprintf(`
Verify if the schedule items you just returned meet the provided criteria. Focus only on the items within your current scope, not the entire schedule. For example, if you returned schedules from March 9th 3:00 PM to March 9th 5:00 PM, you only need to evaluate that timeframe.

Items you just returned:
%s

Criteria (think out loud for each one):
%s

To REMOVE an item: set its type to 'remove'. To MODIFY an item: return the new item with the same ID as the original item with any activity type other than 'remove'. To ADD a new item: use any activity type except 'remove' with a new ID that doesn't match any existing item. Return an empty actions list if all the criteria are met.`,
		addedItems, criteria.String()))
}

func validatePrompt(fullSchedule string) string {
	var criteria strings.Builder
	for i, c := range validateCriteria {
		fmt.Fprintf(&criteria, "%d. %s\n", i+1, c)
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are an AI tour planner, and just finished filling the schedule. Now you need to check if the schedule meets the provided criteria.


---


Here is the full schedule that you just filled:
%s


---


Criteria (think out loud for each one):
%s

To REMOVE an item: set its type to 'remove'. To MODIFY an item: return the new item with the same ID as the original item with any activity type other than 'remove'. To ADD a new item: use any activity type except 'remove' with a new ID that doesn't match any existing item. Return an empty actions list if all the criteria are met.`,
		fullSchedule, criteria.String()))
}
