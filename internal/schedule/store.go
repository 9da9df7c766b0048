// Package schedule implements the itinerary schedule store and the
// time-interval arithmetic the planner is built on: the by-id merge
// reducer, free-slot computation, and trip free-hours sizing.
package schedule

import (
	"sync"

	"wayfarer/internal/logging"
	"wayfarer/internal/trip"
)

// activityReset marks the reset sentinel item. Not a real activity type;
// it never appears in a stored schedule.
const activityReset trip.ActivityType = "__reset__"

// Reset is the sentinel delta that clears the store when submitted as the
// only element of an incoming list.
var Reset = trip.ScheduleItem{ActivityType: activityReset}

// isReset reports whether incoming is the single-element reset sentinel.
func isReset(incoming []trip.ScheduleItem) bool {
	return len(incoming) == 1 && incoming[0].ActivityType == activityReset
}

// Merge applies incoming items to original with by-id upsert/delete
// semantics and returns the result:
//
//   - an item whose id exists in original replaces it in place, unless its
//     type is the remove sentinel, which deletes the existing item;
//   - an unknown id is appended, unless its type is remove (a remove for a
//     non-existent id is a no-op);
//   - a user-fixed item is never replaced or removed by a non-fixed delta;
//   - the single-element Reset sentinel clears the list entirely.
//
// The returned slice may share backing storage with original; callers must
// treat the old reference as invalid.
func Merge(original, incoming []trip.ScheduleItem) []trip.ScheduleItem {
	merged, _ := merge(original, incoming)
	return merged
}

// merge is the reducer core. Alongside the merged list it returns the
// subset of incoming that was actually inserted or replaced, so callers
// can report exactly what took effect. Refused updates (user-fixed
// protection) and removes are not part of the applied set.
func merge(original, incoming []trip.ScheduleItem) (merged, applied []trip.ScheduleItem) {
	if isReset(incoming) {
		return []trip.ScheduleItem{}, nil
	}

	for _, newItem := range incoming {
		found := false
		for i, existing := range original {
			if existing.ID != newItem.ID {
				continue
			}
			found = true
			if existing.UserFixed && !newItem.UserFixed {
				// Generated steps must not touch user-supplied items.
				logging.Get(logging.CategorySchedule).Warn(
					"ignoring update to user-fixed item %d", newItem.ID)
				break
			}
			if newItem.ActivityType == trip.ActivityRemove {
				original = append(original[:i], original[i+1:]...)
			} else {
				original[i] = newItem
				applied = append(applied, newItem)
			}
			break
		}
		if !found && newItem.ActivityType != trip.ActivityRemove {
			original = append(original, newItem)
			applied = append(applied, newItem)
		}
	}
	return original, applied
}

// Store is the per-session schedule holder. It owns its item slice
// exclusively; every component writes through Apply, which is the single
// serialization point for concurrent planning branches.
type Store struct {
	mu    sync.Mutex
	items []trip.ScheduleItem
}

// NewStore returns an empty schedule store.
func NewStore() *Store {
	return &Store{}
}

// Apply merges a delta into the store and returns the items the merge
// actually inserted or replaced, for progress reporting. Removes and
// updates refused by user-fixed protection are not reported.
func (s *Store) Apply(delta []trip.ScheduleItem) []trip.ScheduleItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var applied []trip.ScheduleItem
	s.items, applied = merge(s.items, delta)
	return applied
}

// Items returns a snapshot of the current schedule.
func (s *Store) Items() []trip.ScheduleItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make([]trip.ScheduleItem, len(s.items))
	copy(snap, s.items)
	return snap
}

// Len returns the current item count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// NextID returns the id to assign to the first of a batch of new items:
// one past the current item count. Ids are never reused within a step.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) + 1
}
