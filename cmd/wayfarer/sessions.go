package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"wayfarer/internal/config"
	"wayfarer/internal/session"
	"wayfarer/internal/trip"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored planning sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No sessions stored.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  stage=%s  updated=%s\n",
				rec.ID, rec.Stage, rec.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a session's itinerary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("session %s not found", args[0])
		}
		fmt.Println(trip.RenderItems(rec.Items, trip.RenderOptions{
			IncludeDescription: true,
			IncludeSuggestion:  true,
		}))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func openSessionStore() (*session.Store, error) {
	cfg, err := config.Load(config.DefaultConfigPath(workspace))
	if err != nil {
		return nil, err
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(workspace, ".wayfarer")
	}
	return session.NewStore(filepath.Join(dataDir, "sessions.db"))
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
