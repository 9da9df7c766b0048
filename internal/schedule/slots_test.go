package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"wayfarer/internal/trip"
)

func timedItem(id int, typ trip.ActivityType, start, end string) trip.ScheduleItem {
	return trip.ScheduleItem{
		ID:           id,
		ActivityType: typ,
		Time:         trip.ItemTime{Start: start, End: end},
		Location:     "x",
		Title:        "item",
	}
}

func TestComputeFreeSlots_EmptySchedule(t *testing.T) {
	_, err := ComputeFreeSlots(nil, "08:00", "22:00")
	if !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("expected ErrEmptySchedule, got %v", err)
	}
}

func TestComputeFreeSlots_BoundaryPrecondition(t *testing.T) {
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityMeal, "2025-03-01 09:00", "10:00"),
		timedItem(2, trip.ActivityTerminal, "2025-03-01 12:00", ""),
	}
	_, err := ComputeFreeSlots(items, "08:00", "22:00")
	if !errors.Is(err, ErrScheduleBoundary) {
		t.Errorf("expected ErrScheduleBoundary, got %v", err)
	}
}

func TestComputeFreeSlots_MergedRuns(t *testing.T) {
	// Occupied: [09:00,10:00) and [10:30,11:00), window 09:00..12:00.
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityTerminal, "2025-03-01 09:00", "10:00"),
		timedItem(2, trip.ActivityMeal, "2025-03-01 10:30", "11:00"),
		timedItem(3, trip.ActivityTerminal, "2025-03-01 12:00", ""),
	}

	slots, err := ComputeFreeSlots(items, "08:00", "22:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 merged runs, got %d: %+v", len(slots), slots)
	}
	assertSlot(t, slots[0], "2025-03-01 10:00", "2025-03-01 10:30")
	assertSlot(t, slots[1], "2025-03-01 11:00", "2025-03-01 12:00")

	rendered := RenderFreeSlots(slots)
	if !strings.Contains(rendered, "10:00 ~ 10:30") || !strings.Contains(rendered, "11:00 ~ 12:00") {
		t.Errorf("unexpected rendering:\n%s", rendered)
	}
	if !strings.Contains(rendered, "2025-03-01") {
		t.Errorf("rendering missing date grouping:\n%s", rendered)
	}
}

func TestComputeFreeSlots_NoOverlapInvariant(t *testing.T) {
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityTerminal, "2025-03-01 09:00", ""),
		timedItem(2, trip.ActivityMeal, "2025-03-01 12:00", "13:00"),
		timedItem(3, trip.ActivityEvent, "2025-03-01 15:15", "16:45"),
		timedItem(4, trip.ActivityTerminal, "2025-03-01 21:00", ""),
	}

	slots, err := ComputeFreeSlots(items, "08:00", "22:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) == 0 {
		t.Fatal("expected free slots")
	}

	for _, slot := range slots {
		for _, it := range items {
			occStart, occEnd, err := it.Interval()
			if err != nil {
				t.Fatal(err)
			}
			if slot.Start.Before(occEnd) && slot.End.After(occStart) {
				t.Errorf("free slot %v~%v overlaps occupied %v~%v",
					slot.Start, slot.End, occStart, occEnd)
			}
		}
	}
}

func TestComputeFreeSlots_ContainmentInvariant(t *testing.T) {
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityTerminal, "2025-03-01 14:00", ""),
		timedItem(2, trip.ActivityTerminal, "2025-03-02 11:00", ""),
	}

	slots, err := ComputeFreeSlots(items, "09:00", "21:00")
	if err != nil {
		t.Fatal(err)
	}

	for _, slot := range slots {
		startMin := slot.Start.Hour()*60 + slot.Start.Minute()
		endMin := slot.End.Hour()*60 + slot.End.Minute()
		if startMin < 9*60 {
			t.Errorf("slot starts before day window: %v", slot.Start)
		}
		if endMin > 21*60 {
			t.Errorf("slot ends after day window: %v", slot.End)
		}
	}

	// The overnight gap 21:00..09:00 must produce no slots.
	for _, slot := range slots {
		if slot.Start.Day() == 1 && slot.Start.Hour() >= 21 {
			t.Errorf("slot in overnight gap: %v", slot.Start)
		}
		if slot.Start.Day() == 2 && slot.Start.Hour() < 9 {
			t.Errorf("slot before day start: %v", slot.Start)
		}
	}
}

func TestComputeFreeSlots_ZeroWidthEvent(t *testing.T) {
	// A point-in-time event blocks only a candidate it falls strictly inside.
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityTerminal, "2025-03-01 09:00", ""),
		timedItem(2, trip.ActivityEvent, "2025-03-01 10:15", ""),
		timedItem(3, trip.ActivityTerminal, "2025-03-01 12:00", ""),
	}

	slots, err := ComputeFreeSlots(items, "08:00", "22:00")
	if err != nil {
		t.Fatal(err)
	}

	// Only the 10:00-10:30 candidate (which 10:15 falls strictly inside)
	// is blocked; everything else merges around it.
	if len(slots) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(slots), slots)
	}
	assertSlot(t, slots[0], "2025-03-01 09:00", "2025-03-01 10:00")
	assertSlot(t, slots[1], "2025-03-01 10:30", "2025-03-01 12:00")
}

func TestComputeFreeSlots_FullyBooked(t *testing.T) {
	items := []trip.ScheduleItem{
		timedItem(1, trip.ActivityTerminal, "2025-03-01 09:00", "12:00"),
		timedItem(2, trip.ActivityTerminal, "2025-03-01 12:00", "18:00"),
	}

	slots, err := ComputeFreeSlots(items, "08:00", "22:00")
	if err != nil {
		t.Fatal(err)
	}
	if slots != nil {
		t.Errorf("expected nil slots for a fully booked window, got %+v", slots)
	}
}

func assertSlot(t *testing.T, slot FreeSlot, start, end string) {
	t.Helper()
	if !slot.Start.Equal(mustParse(t, start)) || !slot.End.Equal(mustParse(t, end)) {
		t.Errorf("slot = %v ~ %v, want %s ~ %s", slot.Start, slot.End, start, end)
	}
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := trip.ParseDateTime(s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}
