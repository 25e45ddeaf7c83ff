package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "matchboard"

	defaultStoragePath = "matchboard.db"
)

// Config is the application configuration decoded from matchboard.yaml and
// the environment.
type Config struct {
	Storage *StorageConfig `mapstructure:"storage"`
	Catalog *CatalogConfig `mapstructure:"catalog"`
	Ranking *RankingConfig `mapstructure:"ranking"`
}

// StorageConfig locates the application ledger database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig points at the snapshot files standing in for the job-catalog
// and identity collaborators.
type CatalogConfig struct {
	JobsFile      string `mapstructure:"jobs-file"`
	CandidateFile string `mapstructure:"candidate-file"`
}

// RankingConfig tunes the recommendation pipeline.
type RankingConfig struct {
	Limit   int `mapstructure:"limit"`
	Workers int `mapstructure:"workers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "matchboard is the job matching and application lifecycle core of a job board",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("storage.path", "MATCHBOARD_STORAGE_PATH"); err != nil {
		log.Fatalf("binding MATCHBOARD_STORAGE_PATH environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchboard.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("storage.path", defaultStoragePath)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and flags can carry a run without a config file; a broken
	// file cannot.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
