package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/application"
	"github.com/spigell/matchboard/internal/matching"
	"github.com/spigell/matchboard/internal/ranking"
)

const (
	PromptApply   = "Apply to a recommendation"
	PromptDetails = "Show match details"
	PromptQuit    = "Quit"
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank open postings against a candidate profile",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().String("jobs", "", "catalog snapshot file with postings")
	recommendCmd.Flags().String("candidate", "", "candidate profile snapshot file")
	recommendCmd.Flags().IntP("limit", "n", 0, "maximum recommendations to return (1-20, default 10)")
	recommendCmd.Flags().String("resume", "", "resume reference attached to submissions")
	recommendCmd.Flags().BoolP("no-interactive", "y", false, "print recommendations and exit without prompting")
}

func recommend(cmd *cobra.Command) {
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

	limit, _ := cmd.Flags().GetInt("limit")
	if limit == 0 && config != nil && config.Ranking != nil {
		limit = config.Ranking.Limit
	}
	workers := 0
	if config != nil && config.Ranking != nil {
		workers = config.Ranking.Workers
	}

	ranker := ranking.New(store, logger, workers)
	results, err := ranker.Recommend(ctx, candidate, jobs, limit)
	if err != nil {
		logger.Fatal("computing recommendations", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no open postings left to recommend"))
		return
	}

	printRecommendations(candidate.ID, results)

	if noPrompt, _ := cmd.Flags().GetBool("no-interactive"); noPrompt {
		return
	}

	resumeRef, _ := cmd.Flags().GetString("resume")
	machine := application.NewMachine(store, snapshotCatalog{jobs: jobs}, logger)

	for {
		_, action, err := (&promptui.Select{
			Label: "Proceed?",
			Items: []string{PromptApply, PromptDetails, PromptQuit},
		}).Run()
		if err != nil {
			logger.Fatal("prompt failed", zap.Error(err))
		}

		switch action {
		case PromptApply:
			err = applyInteractive(ctx, machine, candidate.ID, resumeRef, results)
		case PromptDetails:
			err = showDetails(results)
		case PromptQuit:
			return
		}

		if errors.Is(err, errExit) {
			return
		}
		if err != nil {
			logger.Error("action failed", zap.Error(err))
		}
	}
}

func printRecommendations(candidateID string, results []matching.MatchResult) {
	fmt.Printf("recommendations for %s:\n", candidateID)
	for i, r := range results {
		fmt.Printf("%2d. %s  score=%d  %s\n", i+1, r.JobID, r.Score, r.Reason)
	}
}

func applyInteractive(ctx context.Context, machine *application.Machine, candidateID, resumeRef string, results []matching.MatchResult) error {
	labels := make([]string, 0, len(results))
	for _, r := range results {
		labels = append(labels, fmt.Sprintf("%s (score %d)", r.JobID, r.Score))
	}

	idx, _, err := (&promptui.Select{Label: "Apply to which posting?", Items: labels}).Run()
	if err != nil {
		return errExit
	}

	letter, err := (&promptui.Prompt{Label: "Cover letter (optional)"}).Run()
	if err != nil {
		return errExit
	}

	app, err := machine.Submit(ctx, results[idx].JobID, candidateID, resumeRef, letter)
	if err != nil {
		return fmt.Errorf("submitting application: %w", err)
	}

	fmt.Printf("submitted application %s for job %s\n", app.ID, app.JobID)
	return nil
}

func showDetails(results []matching.MatchResult) error {
	for _, r := range results {
		fmt.Printf("%s score=%d matched=%v reason=%q\n", r.JobID, r.Score, r.MatchedSkills, r.Reason)
	}
	return nil
}
