package schedule

import (
	"fmt"
	"math"
	"time"

	"wayfarer/internal/trip"
)

// ComputeTripFreeHours sums the free hours across every calendar day of the
// trip: per day, the daily active window clipped to the arrival/departure
// instants on the boundary days, minus the minutes covered by fixed
// schedules starting within that day's window. Rounded to two decimals.
//
// This sizes the research query budget only; slot-filling termination is
// governed by ComputeFreeSlots.
func ComputeTripFreeHours(p *trip.Profile) (float64, error) {
	arrival, err := trip.ParseDateTime(p.ArrivalAt())
	if err != nil {
		return 0, fmt.Errorf("invalid arrival: %w", err)
	}
	departure, err := trip.ParseDateTime(p.DepartureAt())
	if err != nil {
		return 0, fmt.Errorf("invalid departure: %w", err)
	}
	if departure.Before(arrival) {
		return 0, fmt.Errorf("departure %s precedes arrival %s", p.DepartureAt(), p.ArrivalAt())
	}

	startHour, startMinute, err := trip.ParseClock(p.StartOfDayAt)
	if err != nil {
		return 0, err
	}
	endHour, endMinute, err := trip.ParseClock(p.EndOfDayAt)
	if err != nil {
		return 0, err
	}

	type fixedInterval struct {
		start time.Time
		dur   time.Duration
	}
	fixed := make([]fixedInterval, 0, len(p.FixedSchedules))
	for _, item := range p.FixedSchedules {
		s, e, err := item.Interval()
		if err != nil {
			return 0, fmt.Errorf("fixed schedule %d: %w", item.ID, err)
		}
		fixed = append(fixed, fixedInterval{start: s, dur: e.Sub(s)})
	}

	var total time.Duration
	firstDay := arrival.Truncate(24 * time.Hour)
	lastDay := departure.Truncate(24 * time.Hour)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		windowStart := time.Date(day.Year(), day.Month(), day.Day(),
			startHour, startMinute, 0, 0, day.Location())
		windowEnd := time.Date(day.Year(), day.Month(), day.Day(),
			endHour, endMinute, 0, 0, day.Location())

		// Clip the boundary days to the terminal instants.
		if day.Equal(firstDay) && arrival.After(windowStart) {
			windowStart = arrival
		}
		if day.Equal(lastDay) && departure.Before(windowEnd) {
			windowEnd = departure
		}
		if !windowEnd.After(windowStart) {
			continue
		}

		dayFree := windowEnd.Sub(windowStart)
		for _, f := range fixed {
			if !f.start.Before(windowStart) && !f.start.After(windowEnd) {
				dayFree -= f.dur
			}
		}
		if dayFree > 0 {
			total += dayFree
		}
	}

	return math.Round(total.Hours()*100) / 100, nil
}
