package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/application"
	"github.com/spigell/matchboard/internal/board"
	"github.com/spigell/matchboard/internal/ledger"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review applications for a posting and move them through the lifecycle",
	Run: func(cmd *cobra.Command, _ []string) {
		review(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().String("job", "", "id of the posting under review")
	reviewCmd.Flags().String("actor", "", "administrator id recorded in the history")

	reviewCmd.MarkFlagRequired("job")
	reviewCmd.MarkFlagRequired("actor")
}

func review(cmd *cobra.Command) {
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

	jobID, _ := cmd.Flags().GetString("job")
	actorID, _ := cmd.Flags().GetString("actor")

	// Transitions at review time do not need the catalog; submissions are
	// the only operation resolving postings.
	machine := application.NewMachine(store, snapshotCatalog{jobs: &board.Jobs{}}, logger)

	for {
		apps, err := collectByJob(ctx, store, jobID)
		if err != nil {
			logger.Fatal("listing applications", zap.Error(err))
		}
		if len(apps) == 0 {
			logger.Info("exiting", zap.String("reason", "no applications for this posting"))
			return
		}

		labels := make([]string, 0, len(apps)+1)
		for _, app := range apps {
			labels = append(labels, fmt.Sprintf("%s  candidate=%s  status=%s", app.ID, app.CandidateID, app.Status))
		}
		labels = append(labels, PromptQuit)

		idx, choice, err := (&promptui.Select{Label: "Select an application", Items: labels, Size: len(labels)}).Run()
		if err != nil || choice == PromptQuit {
			return
		}
		selected := apps[idx]

		statuses := application.Statuses()
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, string(s))
		}

		_, target, err := (&promptui.Select{Label: "Target status", Items: names, Size: len(names)}).Run()
		if err != nil {
			return
		}

		notes, err := (&promptui.Prompt{Label: "Notes (optional)"}).Run()
		if err != nil {
			return
		}

		status, err := application.ParseStatus(target)
		if err != nil {
			logger.Error("invalid status", zap.Error(err))
			continue
		}

		updated, err := machine.Transition(ctx, selected.ID, actorID, application.RoleAdministrator, status, notes)
		if err != nil {
			logger.Error("transition rejected", zap.Error(err))
			continue
		}

		fmt.Printf("application %s is now %s\n", updated.ID, updated.Status)
	}
}

// collectByJob pages through every application for the posting.
func collectByJob(ctx context.Context, store *ledger.SQLite, jobID string) ([]*application.Application, error) {
	var all []*application.Application
	page := ledger.Page{}
	for {
		apps, next, err := store.ListByJob(ctx, jobID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, apps...)
		if next == "" {
			return all, nil
		}
		page.Cursor = next
	}
}
