package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"wayfarer/internal/logging"
	"wayfarer/internal/trip"
)

// SlotGranularity is the fixed width of candidate free slots.
const SlotGranularity = 30 * time.Minute

// ErrEmptySchedule is returned when free slots are requested for an empty
// schedule.
var ErrEmptySchedule = errors.New("no schedule items provided")

// ErrScheduleBoundary is returned when the first or last schedule item (by
// start time) is not a terminal. The calculator does not guess a substitute
// boundary.
var ErrScheduleBoundary = errors.New("first and last schedule items must be terminals")

// FreeSlot is a maximal contiguous free time range, aligned to
// SlotGranularity, within the daily active-hours window.
type FreeSlot struct {
	Start time.Time
	End   time.Time
}

// ComputeFreeSlots walks fixed 30-minute candidate slots across the trip
// window and returns the maximal free runs that lie within the daily
// active-hours window [dayStart, dayEnd] (both "HH:MM") and overlap no
// scheduled item. A nil slice with nil error means no free time remains,
// which the slot-filling loop treats as its termination signal.
//
// Free slots are recomputed from scratch on every call; nothing is
// maintained incrementally, so malformed upstream items cannot poison
// later computations.
func ComputeFreeSlots(items []trip.ScheduleItem, dayStart, dayEnd string) ([]FreeSlot, error) {
	if len(items) == 0 {
		return nil, ErrEmptySchedule
	}

	startHour, startMinute, err := trip.ParseClock(dayStart)
	if err != nil {
		return nil, err
	}
	endHour, endMinute, err := trip.ParseClock(dayEnd)
	if err != nil {
		return nil, err
	}

	sorted := make([]trip.ScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Start < sorted[j].Time.Start
	})

	if sorted[0].ActivityType != trip.ActivityTerminal ||
		sorted[len(sorted)-1].ActivityType != trip.ActivityTerminal {
		return nil, ErrScheduleBoundary
	}

	type interval struct {
		start, end time.Time
	}
	intervals := make([]interval, 0, len(sorted))
	for _, item := range sorted {
		s, e, err := item.Interval()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item.ID, err)
		}
		intervals = append(intervals, interval{s, e})
	}

	overallStart := intervals[0].start
	overallEnd := intervals[len(intervals)-1].end

	// Align the first candidate to the next 30-minute boundary.
	cursor := overallStart
	if truncated := cursor.Truncate(SlotGranularity); !truncated.Equal(cursor) {
		cursor = truncated.Add(SlotGranularity)
	}

	var free []FreeSlot
	for slotStart := cursor; !slotStart.Add(SlotGranularity).After(overallEnd); slotStart = slotStart.Add(SlotGranularity) {
		slotEnd := slotStart.Add(SlotGranularity)

		// Adjusted end hour for slots that cross midnight: compare with a
		// +24 shift when the slot's end hour is numerically below the
		// day-start hour.
		slotEndHour := slotEnd.Hour()
		if slotEndHour < startHour {
			slotEndHour += 24
		}

		// Discard slots outside the daily active-hours window.
		if slotStart.Hour() < startHour ||
			(slotStart.Hour() == startHour && slotStart.Minute() < startMinute) ||
			slotEndHour > endHour ||
			(slotEnd.Hour() == endHour && slotEnd.Minute() > endMinute) {
			continue
		}

		blocked := false
		for _, occ := range intervals {
			// Half-open overlap test.
			if slotStart.Before(occ.end) && slotEnd.After(occ.start) {
				blocked = true
				break
			}
		}
		if !blocked {
			free = append(free, FreeSlot{Start: slotStart, End: slotEnd})
		}
	}

	if len(free) == 0 {
		logging.Get(logging.CategorySchedule).Debug("no free slots remain")
		return nil, nil
	}

	// Merge contiguous candidates into maximal runs.
	merged := []FreeSlot{free[0]}
	for _, slot := range free[1:] {
		last := &merged[len(merged)-1]
		if !slot.Start.After(last.End) {
			last.End = slot.End
		} else {
			merged = append(merged, slot)
		}
	}
	return merged, nil
}

// RenderFreeSlots groups merged slots by calendar date and renders them as
// "HH:MM ~ HH:MM" ranges, one line per date.
func RenderFreeSlots(slots []FreeSlot) string {
	if len(slots) == 0 {
		return ""
	}

	var dates []string
	byDate := make(map[string][]string)
	for _, slot := range slots {
		date := slot.Start.Format("2006-01-02")
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date],
			fmt.Sprintf("%s ~ %s", slot.Start.Format("15:04"), slot.End.Format("15:04")))
	}

	var b strings.Builder
	for _, date := range dates {
		fmt.Fprintf(&b, "- %s: %s\n", date, strings.Join(byDate[date], ", "))
	}
	return b.String()
}
