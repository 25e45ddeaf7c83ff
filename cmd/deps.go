package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/board"
	"github.com/spigell/matchboard/internal/ledger"
	"github.com/spigell/matchboard/internal/logger"
)

// newLogger builds the zap logger from the persistent flags.
func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// openLedger opens the SQLite ledger configured under storage.path.
func openLedger(config *Config) (*ledger.SQLite, error) {
	path := defaultStoragePath
	if config != nil && config.Storage != nil && config.Storage.Path != "" {
		path = config.Storage.Path
	}
	return ledger.OpenSQLite(path)
}

// loadSnapshots reads the catalog and candidate snapshot files, preferring
// command flags over the configuration.
func loadSnapshots(config *Config, jobsFlag, candidateFlag string) (*board.Jobs, *board.CandidateProfile, error) {
	jobsFile := jobsFlag
	candidateFile := candidateFlag
	if config != nil && config.Catalog != nil {
		if jobsFile == "" {
			jobsFile = config.Catalog.JobsFile
		}
		if candidateFile == "" {
			candidateFile = config.Catalog.CandidateFile
		}
	}

	if jobsFile == "" {
		return nil, nil, fmt.Errorf("a catalog snapshot is required: set --jobs or catalog.jobs-file")
	}
	if candidateFile == "" {
		return nil, nil, fmt.Errorf("a candidate snapshot is required: set --candidate or catalog.candidate-file")
	}

	jobs, err := board.LoadJobsFile(jobsFile)
	if err != nil {
		return nil, nil, err
	}
	candidate, err := board.LoadCandidateFile(candidateFile)
	if err != nil {
		return nil, nil, err
	}
	return jobs, candidate, nil
}

// snapshotCatalog adapts a loaded catalog snapshot to the machine's Catalog
// interface.
type snapshotCatalog struct {
	jobs *board.Jobs
}

func (c snapshotCatalog) JobByID(_ context.Context, id string) (*board.JobPosting, error) {
	return c.jobs.FindByID(id), nil
}
