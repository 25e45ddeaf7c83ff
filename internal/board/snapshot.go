package board

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Snapshot files are the stand-ins for the job-catalog and identity
// collaborators: plain YAML documents read with viper and decoded with
// mapstructure, with hooks for timestamps and the ordinal enums.

type candidateFile struct {
	ID                string          `mapstructure:"id"`
	PreferredLocation string          `mapstructure:"preferred_location"`
	ExperienceLevel   ExperienceLevel `mapstructure:"experience_level"`
	Skills            []SkillRecord   `mapstructure:"skills"`
}

// LoadJobsFile reads a catalog snapshot listing postings under a `jobs` key.
func LoadJobsFile(path string) (*Jobs, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog snapshot %q: %w", path, err)
	}

	var items []*JobPosting
	if err := decodeSnapshot(v.Get("jobs"), &items); err != nil {
		return nil, fmt.Errorf("decoding catalog snapshot %q: %w", path, err)
	}

	return &Jobs{Items: items}, nil
}

// LoadCandidateFile reads a single candidate profile snapshot.
func LoadCandidateFile(path string) (*CandidateProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading candidate snapshot %q: %w", path, err)
	}

	var raw candidateFile
	if err := decodeSnapshot(v.AllSettings(), &raw); err != nil {
		return nil, fmt.Errorf("decoding candidate snapshot %q: %w", path, err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("candidate snapshot %q: id is required", path)
	}

	return &CandidateProfile{
		ID:                raw.ID,
		Skills:            NewSkillSet(raw.Skills),
		PreferredLocation: raw.PreferredLocation,
		ExperienceLevel:   raw.ExperienceLevel,
	}, nil
}

func decodeSnapshot(input any, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Result: result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			ordinalHook,
		),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ordinalHook decodes enum names into the Proficiency and ExperienceLevel
// ordinals.
func ordinalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	switch to {
	case reflect.TypeOf(Proficiency(0)):
		return ParseProficiency(s)
	case reflect.TypeOf(ExperienceLevel(0)):
		return ParseExperienceLevel(s)
	default:
		return data, nil
	}
}
