package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print an application's current state and full history",
	Run: func(cmd *cobra.Command, _ []string) {
		status(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().String("application", "", "id of the application")
	statusCmd.MarkFlagRequired("application")
}

func status(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := openLedger(config)
	if err != nil {
		logger.Fatal("opening the ledger", zap.Error(err))
	}
	defer store.Close()

	applicationID, _ := cmd.Flags().GetString("application")
	app, err := store.FindByID(ctx, applicationID)
	if err != nil {
		logger.Fatal("loading application", zap.Error(err))
	}
	if app == nil {
		logger.Fatal("application not found", zap.String("application_id", applicationID))
	}

	fmt.Printf("application %s\n", app.ID)
	fmt.Printf("  job:       %s\n", app.JobID)
	fmt.Printf("  candidate: %s\n", app.CandidateID)
	fmt.Printf("  status:    %s\n", app.Status)
	if app.Notes != "" {
		fmt.Printf("  notes:     %s\n", app.Notes)
	}
	fmt.Println("  history:")
	for _, entry := range app.History {
		fmt.Printf("    %s  %s  by %s\n", entry.At.Format(time.RFC3339), entry.Status, entry.ActorID)
	}
}
