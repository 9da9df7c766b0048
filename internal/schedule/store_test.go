package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"wayfarer/internal/trip"
)

func item(id int, typ trip.ActivityType, title string) trip.ScheduleItem {
	return trip.ScheduleItem{
		ID:           id,
		ActivityType: typ,
		Time:         trip.ItemTime{Start: "2025-03-01 10:00"},
		Location:     "somewhere",
		Title:        title,
	}
}

func TestMerge_RemoveUnknownIDIsNoop(t *testing.T) {
	s := []trip.ScheduleItem{item(1, trip.ActivityMeal, "Lunch")}
	before := make([]trip.ScheduleItem, len(s))
	copy(before, s)

	got := Merge(s, []trip.ScheduleItem{{ID: 42, ActivityType: trip.ActivityRemove}})

	if diff := cmp.Diff(before, got); diff != "" {
		t.Errorf("remove of unknown id changed schedule (-want +got):\n%s", diff)
	}
}

func TestMerge_ReplaceInPlace(t *testing.T) {
	s := []trip.ScheduleItem{
		item(1, trip.ActivityTerminal, "Arrive"),
		item(5, trip.ActivityMeal, "A"),
		item(7, trip.ActivityEvent, "Show"),
	}

	got := Merge(s, []trip.ScheduleItem{item(5, trip.ActivityMeal, "B")})

	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[1].ID != 5 || got[1].Title != "B" {
		t.Errorf("expected id-5 item replaced in place, got %+v", got[1])
	}
}

func TestMerge_RemoveExisting(t *testing.T) {
	s := []trip.ScheduleItem{
		item(1, trip.ActivityTerminal, "Arrive"),
		item(2, trip.ActivityMeal, "Lunch"),
	}

	got := Merge(s, []trip.ScheduleItem{{ID: 2, ActivityType: trip.ActivityRemove}})

	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("expected only item 1 to remain, got %+v", got)
	}
}

func TestMerge_AppendUnknownID(t *testing.T) {
	s := []trip.ScheduleItem{item(1, trip.ActivityTerminal, "Arrive")}

	got := Merge(s, []trip.ScheduleItem{item(9, trip.ActivityWalk, "Stroll")})

	if len(got) != 2 || got[1].ID != 9 {
		t.Errorf("expected id-9 item appended, got %+v", got)
	}
}

func TestMerge_ResetSentinel(t *testing.T) {
	s := []trip.ScheduleItem{
		item(1, trip.ActivityTerminal, "Arrive"),
		item(2, trip.ActivityMeal, "Lunch"),
	}

	got := Merge(s, []trip.ScheduleItem{Reset})

	if len(got) != 0 {
		t.Errorf("expected empty schedule after reset, got %+v", got)
	}
}

func TestMerge_UserFixedProtected(t *testing.T) {
	fixedItem := item(3, trip.ActivityEvent, "Concert")
	fixedItem.UserFixed = true
	s := []trip.ScheduleItem{fixedItem}

	t.Run("generated remove is ignored", func(t *testing.T) {
		got := Merge(s, []trip.ScheduleItem{{ID: 3, ActivityType: trip.ActivityRemove}})
		if len(got) != 1 || got[0].Title != "Concert" {
			t.Errorf("user-fixed item was removed: %+v", got)
		}
	})

	t.Run("generated replace is ignored", func(t *testing.T) {
		got := Merge(s, []trip.ScheduleItem{item(3, trip.ActivityEvent, "Other show")})
		if got[0].Title != "Concert" {
			t.Errorf("user-fixed item was replaced: %+v", got[0])
		}
	})
}

func TestStore_ApplyReportsDelta(t *testing.T) {
	store := NewStore()
	store.Apply([]trip.ScheduleItem{
		item(1, trip.ActivityTerminal, "Arrive"),
		item(2, trip.ActivityMeal, "Lunch"),
	})

	changed := store.Apply([]trip.ScheduleItem{
		{ID: 2, ActivityType: trip.ActivityRemove},
		item(3, trip.ActivityWalk, "Stroll"),
	})

	if len(changed) != 1 || changed[0].ID != 3 {
		t.Errorf("expected delta report to contain only the added item, got %+v", changed)
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 items in store, got %d", store.Len())
	}
}

func TestStore_ApplyOmitsRefusedUpdates(t *testing.T) {
	fixedItem := item(1, trip.ActivityEvent, "Concert")
	fixedItem.UserFixed = true
	store := NewStore()
	store.Apply([]trip.ScheduleItem{fixedItem})

	changed := store.Apply([]trip.ScheduleItem{
		item(1, trip.ActivityEvent, "Other show"),
		item(2, trip.ActivityWalk, "Stroll"),
	})

	if len(changed) != 1 || changed[0].ID != 2 {
		t.Errorf("expected only the appended item reported, got %+v", changed)
	}
	if got := store.Items()[0].Title; got != "Concert" {
		t.Errorf("user-fixed item was replaced, got %q", got)
	}
}

func TestStore_ItemsIsSnapshot(t *testing.T) {
	store := NewStore()
	store.Apply([]trip.ScheduleItem{item(1, trip.ActivityTerminal, "Arrive")})

	snap := store.Items()
	snap[0].Title = "mutated"

	if store.Items()[0].Title != "Arrive" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStore_NextID(t *testing.T) {
	store := NewStore()
	if store.NextID() != 1 {
		t.Errorf("empty store NextID = %d, want 1", store.NextID())
	}
	store.Apply([]trip.ScheduleItem{
		item(1, trip.ActivityTerminal, "Arrive"),
		item(2, trip.ActivityTerminal, "Depart"),
	})
	if store.NextID() != 3 {
		t.Errorf("NextID = %d, want 3", store.NextID())
	}
}
