package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/application"
	"github.com/spigell/matchboard/internal/board"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw an application as its owning candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		withdraw(cmd)
	},
}

func init() {
	rootCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().String("application", "", "id of the application to withdraw")
	withdrawCmd.Flags().String("actor", "", "candidate id, must be the application's owner")
	withdrawCmd.Flags().String("notes", "", "optional note recorded on the application")

	withdrawCmd.MarkFlagRequired("application")
	withdrawCmd.MarkFlagRequired("actor")
}

func withdraw(cmd *cobra.Command) {
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
	actorID, _ := cmd.Flags().GetString("actor")
	notes, _ := cmd.Flags().GetString("notes")

	machine := application.NewMachine(store, snapshotCatalog{jobs: &board.Jobs{}}, logger)
	updated, err := machine.Transition(ctx, applicationID, actorID, application.RoleCandidate, application.StatusWithdrawn, notes)
	if err != nil {
		logger.Fatal("withdrawing application", zap.Error(err))
	}

	fmt.Printf("application %s is now %s\n", updated.ID, updated.Status)
}
