package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/application"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an application for a posting",
	Run: func(cmd *cobra.Command, _ []string) {
		submit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("jobs", "", "catalog snapshot file with postings")
	submitCmd.Flags().String("candidate", "", "candidate profile snapshot file")
	submitCmd.Flags().String("job", "", "id of the posting to apply to")
	submitCmd.Flags().String("resume", "", "resume reference attached to the application")
	submitCmd.Flags().String("cover-letter", "", "cover letter text")

	submitCmd.MarkFlagRequired("job")
}

func submit(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jobsFlag, _ := cmd.Flags().GetString("jobs")
	candidateFlag, _ := cmd.Flags().GetString("candidate")
	jobs, candidate, err := loadSnapshots(config, jobsFlag, candidateFlag)
	if err != nil {
		logger.Fatal("loading snapshots", zap.Error(err))
	}

	store, err := openLedger(config)
	if err != nil {
		logger.Fatal("opening the ledger", zap.Error(err))
	}
	defer store.Close()

	jobID, _ := cmd.Flags().GetString("job")
	resumeRef, _ := cmd.Flags().GetString("resume")
	letter, _ := cmd.Flags().GetString("cover-letter")

	machine := application.NewMachine(store, snapshotCatalog{jobs: jobs}, logger)
	app, err := machine.Submit(ctx, jobID, candidate.ID, resumeRef, letter)
	if err != nil {
		logger.Fatal("submitting application", zap.Error(err))
	}

	fmt.Printf("submitted application %s for job %s as %s\n", app.ID, app.JobID, app.CandidateID)
}
