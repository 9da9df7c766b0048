package planner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"wayfarer/internal/config"
	"wayfarer/internal/logging"
	"wayfarer/internal/proposer"
	"wayfarer/internal/research"
	"wayfarer/internal/schedule"
	"wayfarer/internal/trip"
)

// Options configures a Planner. LLM and Searcher are required; Limits
// falls back to the configuration defaults when zeroed.
type Options struct {
	LLM      proposer.Client
	Searcher research.Searcher
	Limits   config.LimitsConfig

	// Progress, when set, receives observational events after planner
	// steps. Sends never block; a slow consumer drops events.
	Progress chan<- Progress
}

// Planner runs the full itinerary-construction pipeline for one trip.
type Planner struct {
	llm      proposer.Client
	search   research.Searcher
	limits   config.LimitsConfig
	progress chan<- Progress

	profile *trip.Profile
	store   *schedule.Store
}

// New builds a Planner from options.
func New(opts Options) (*Planner, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("planner requires a content-proposer client")
	}
	if opts.Searcher == nil {
		return nil, fmt.Errorf("planner requires a search client")
	}
	limits := opts.Limits
	defaults := config.DefaultConfig().Limits
	if limits.MaxQueryLoops <= 0 {
		limits.MaxQueryLoops = defaults.MaxQueryLoops
	}
	if limits.MaxFillLoops <= 0 {
		limits.MaxFillLoops = defaults.MaxFillLoops
	}
	if limits.MaxValidateLoops <= 0 {
		limits.MaxValidateLoops = defaults.MaxValidateLoops
	}
	if limits.MaxScheduleItems <= 0 {
		limits.MaxScheduleItems = defaults.MaxScheduleItems
	}
	if limits.MaxConcurrentSearch <= 0 {
		limits.MaxConcurrentSearch = defaults.MaxConcurrentSearch
	}
	if limits.FreeHoursPerQuery <= 0 {
		limits.FreeHoursPerQuery = defaults.FreeHoursPerQuery
	}
	return &Planner{
		llm:      opts.LLM,
		search:   opts.Searcher,
		limits:   limits,
		progress: opts.Progress,
	}, nil
}

// emit sends a progress event without blocking.
func (p *Planner) emit(ev Progress) {
	if p.progress == nil {
		return
	}
	select {
	case p.progress <- ev:
	default:
	}
}

// emitItems reports freshly applied schedule items on the progress channel.
func (p *Planner) emitItems(items []trip.ScheduleItem) {
	for _, it := range items {
		p.emit(Progress{
			Short: fmt.Sprintf("Scheduled: %s", it.Title),
			Long: &ProgressDetail{
				Title:       it.Title,
				Description: it.Description,
			},
		})
	}
}

// Run executes the planning pipeline against profile and returns the
// completed itinerary. The store is seeded with the user's fixed
// schedules and the terminal anchors, enriched by research findings,
// filled slot by slot, and finally validated as a whole.
func (p *Planner) Run(ctx context.Context, profile *trip.Profile) (*Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("phase %q: %w", "seed", err)
	}
	p.profile = profile
	p.store = schedule.NewStore()

	log := logging.Get(logging.CategoryPlanner)
	timer := logging.StartTimer(logging.CategoryPlanner, "plan")
	defer timer.Stop()

	// Seed phase: free-hours estimation runs alongside store seeding.
	var freeHours float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := schedule.ComputeTripFreeHours(profile)
		if err != nil {
			return err
		}
		freeHours = h
		return nil
	})
	g.Go(func() error {
		return p.seed(gctx)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase %q: %w", "seed", err)
	}
	log.Info("seeded %d items, %.2f free hours", p.store.Len(), freeHours)
	p.emit(Progress{Short: fmt.Sprintf("Trip has about %.0f free hours to plan", freeHours)})

	// Research phase: terminal transport and internet research are
	// independent, so they fan out together.
	var findings []research.Finding
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.planTransport(gctx)
	})
	g.Go(func() error {
		queries, err := p.refineQueries(gctx, freeHours)
		if err != nil {
			return err
		}
		findings, err = p.runResearch(gctx, queries)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase %q: %w", "research", err)
	}

	if err := p.fillSlots(ctx, findings); err != nil {
		return nil, fmt.Errorf("phase %q: %w", "fill", err)
	}

	result := &Result{
		Findings:  findings,
		FreeHours: freeHours,
	}
	if err := p.validate(ctx); err != nil {
		// A diverged validation still carries the best schedule so far.
		if errors.Is(err, ErrValidationDiverged) {
			result.Items = p.store.Items()
			return result, fmt.Errorf("phase %q: %w", "validate", err)
		}
		return nil, fmt.Errorf("phase %q: %w", "validate", err)
	}

	p.emit(Progress{Short: "Your itinerary is ready"})
	result.Items = p.store.Items()
	return result, nil
}

// seed loads the user's fixed schedules and the two terminal anchors into
// the store. Terminal items bound the trip window for slot computation.
func (p *Planner) seed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fixed := make([]trip.ScheduleItem, 0, len(p.profile.FixedSchedules)+2)
	for _, it := range p.profile.FixedSchedules {
		it.ID = len(fixed) + 1
		it.UserFixed = true
		fixed = append(fixed, it)
	}
	fixed = append(fixed, trip.ScheduleItem{
		ID:           len(fixed) + 1,
		ActivityType: trip.ActivityTerminal,
		Time:         trip.ItemTime{Start: p.profile.ArrivalAt()},
		Location:     p.profile.ArrivalTerminal,
		Title:        fmt.Sprintf("Arrive at %s", p.profile.ArrivalTerminal),
		UserFixed:    true,
	})
	fixed = append(fixed, trip.ScheduleItem{
		ID:           len(fixed) + 1,
		ActivityType: trip.ActivityTerminal,
		Time:         trip.ItemTime{Start: p.profile.DepartureAt()},
		Location:     p.profile.DepartureTerminal,
		Title:        fmt.Sprintf("Depart from %s", p.profile.DepartureTerminal),
		UserFixed:    true,
	})
	applied := p.store.Apply(fixed)
	p.emitItems(applied)
	return nil
}
