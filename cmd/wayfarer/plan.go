package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/planner"
	"wayfarer/internal/proposer"
	"wayfarer/internal/research"
	"wayfarer/internal/session"
	"wayfarer/internal/trip"
)

var (
	planSessionID string
	planReset     bool
	planShowIDs   bool
)

var planCmd = &cobra.Command{
	Use:   "plan [trip.yaml]",
	Short: "Build a full itinerary from a trip description",
	Long: `Reads a trip description in YAML and plans the whole stay.

Example trip file:

  location: Kyoto, Japan
  accommodation: Hotel Granvia Kyoto
  arrival_date: "2026-05-01"
  arrival_time: "10:00"
  arrival_terminal: Kansai International Airport
  departure_date: "2026-05-04"
  departure_time: "12:00"
  departure_terminal: Kansai International Airport
  start_of_day_at: "09:00"
  end_of_day_at: "21:00"
  budget: mid-range
  theme: Cultural & Heritage
  interests: temples, food markets
  fixed_schedules:
    - activity_type: event
      time: {start: "2026-05-02 19:00", end: "2026-05-02 21:00"}
      location: Minamiza Theatre
      title: Kabuki performance`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planSessionID, "session", "", "continue an existing session id")
	planCmd.Flags().BoolVar(&planReset, "reset", false, "discard the session's schedule before planning")
	planCmd.Flags().BoolVar(&planShowIDs, "ids", false, "include item ids in the rendered itinerary")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := trip.LoadProfile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load trip file: %w", err)
	}

	cfg, err := config.Load(config.DefaultConfigPath(workspace))
	if err != nil {
		return err
	}

	llm, err := proposer.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("no search API key configured (set SONAR_API_KEY)")
	}
	searcher := research.NewSonarClientWithConfig(research.SonarConfig{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Model:   cfg.Search.Model,
		Timeout: cfg.SearchTimeout(),
	})

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(workspace, ".wayfarer")
	}
	store, err := session.NewStore(filepath.Join(dataDir, "sessions.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	events := make(chan planner.Progress, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range events {
			if ev.Short != "" {
				fmt.Printf("  > %s\n", ev.Short)
			}
		}
	}()

	eng, err := planner.New(planner.Options{
		LLM:      llm,
		Searcher: searcher,
		Limits:   cfg.Limits,
		Progress: events,
	})
	if err != nil {
		return err
	}

	logger.Info("planning trip",
		zap.String("location", profile.Location),
		zap.String("model", llm.Model()))

	mgr := session.NewManager(store, eng)
	rec, err := mgr.Handle(ctx, session.Request{
		SessionID: planSessionID,
		Stage:     session.StageFirstGeneration,
		Profile:   profile,
		Reset:     planReset,
	})
	close(events)
	<-drained
	if err != nil {
		return err
	}

	fmt.Printf("\nSession %s\n\n", rec.ID)
	fmt.Println(trip.RenderItems(rec.Items, trip.RenderOptions{
		IncludeIDs:         planShowIDs,
		IncludeDescription: true,
		IncludeSuggestion:  true,
	}))
	return nil
}
