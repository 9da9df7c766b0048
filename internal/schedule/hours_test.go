package schedule

import (
	"testing"

	"wayfarer/internal/trip"
)

func testProfile() *trip.Profile {
	return &trip.Profile{
		Location:          "Lisbon, Portugal",
		Accommodation:     "Alfama Guesthouse",
		ArrivalDate:       "2025-03-01",
		ArrivalTime:       "14:00",
		ArrivalTerminal:   "LIS",
		DepartureDate:     "2025-03-03",
		DepartureTime:     "11:00",
		DepartureTerminal: "LIS",
		StartOfDayAt:      "08:00",
		EndOfDayAt:        "22:00",
	}
}

func TestComputeTripFreeHours(t *testing.T) {
	p := testProfile()
	p.FixedSchedules = []trip.ScheduleItem{
		{
			ID:           1,
			ActivityType: trip.ActivityEvent,
			Time:         trip.ItemTime{Start: "2025-03-02 12:00", End: "2025-03-02 13:00"},
			Location:     "Belem",
			Title:        "Lunch with a friend",
			UserFixed:    true,
		},
	}

	// Day 1: 22:00-14:00 = 8h. Day 2: 14h - 1h fixed = 13h. Day 3: 11:00-08:00 = 3h.
	hours, err := ComputeTripFreeHours(p)
	if err != nil {
		t.Fatal(err)
	}
	if hours != 24.0 {
		t.Errorf("free hours = %v, want 24.0", hours)
	}
}

func TestComputeTripFreeHours_NoFixed(t *testing.T) {
	hours, err := ComputeTripFreeHours(testProfile())
	if err != nil {
		t.Fatal(err)
	}
	if hours != 25.0 {
		t.Errorf("free hours = %v, want 25.0", hours)
	}
}

func TestComputeTripFreeHours_DepartureBeforeArrival(t *testing.T) {
	p := testProfile()
	p.DepartureDate = "2025-02-28"
	if _, err := ComputeTripFreeHours(p); err == nil {
		t.Error("expected error for departure before arrival")
	}
}

func TestComputeTripFreeHours_FractionalRounding(t *testing.T) {
	p := testProfile()
	p.FixedSchedules = []trip.ScheduleItem{
		{
			ID:           1,
			ActivityType: trip.ActivityEvent,
			Time:         trip.ItemTime{Start: "2025-03-02 12:00", End: "2025-03-02 12:20"},
			Location:     "Belem",
			Title:        "Coffee",
			UserFixed:    true,
		},
	}

	hours, err := ComputeTripFreeHours(p)
	if err != nil {
		t.Fatal(err)
	}
	// 25h minus 20 minutes = 24.666… -> 24.67
	if hours != 24.67 {
		t.Errorf("free hours = %v, want 24.67", hours)
	}
}
