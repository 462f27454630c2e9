package operations

import (
	"log/slog"

	"incomecli/internal/config"
	"incomecli/internal/dataprocessing"
	"incomecli/internal/exporter"
	"incomecli/pkg/contracts/domain"
)

// Settings is everything the income pipeline needs from configuration.
type Settings struct {
	InputPath  string
	OutputPath string
	Load       dataprocessing.LoadOptions
	Criteria   dataprocessing.FilterCriteria
	Reshape    dataprocessing.ReshapeOptions
}

// SettingsFromConfig builds run settings from a validated configuration and
// its resolved paths.
func SettingsFromConfig(cfg *config.Config, paths *config.Paths) (Settings, error) {
	policy, err := domain.ParseConflictPolicy(cfg.Reshape.ConflictPolicy)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		InputPath:  paths.InputFile,
		OutputPath: paths.OutputFile,
		Load:       dataprocessing.LoadOptions{Delimiter: cfg.Delimiter()},
		Criteria: dataprocessing.FilterCriteria{
			Region:            cfg.Filter.Region,
			MinYear:           cfg.Filter.MinYear,
			ExcludedSexes:     append([]string(nil), cfg.Filter.ExcludedSexes...),
			ExcludedAgeGroups: append([]string(nil), cfg.Filter.ExcludedAgeGroups...),
		},
		Reshape: dataprocessing.ReshapeOptions{
			Classifier:                dataprocessing.NewClassifier(cfg.Reshape.AveragePattern, cfg.Reshape.MedianPattern),
			Policy:                    policy,
			GovernmentTransferSources: append([]string(nil), cfg.Reshape.GovernmentTransferSources...),
		},
	}, nil
}

// NewIncomeRegistry registers the five pipeline steps in run order:
// load, clean, filter, reshape, export.
func NewIncomeRegistry(s Settings, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := NewRegistry()
	steps := []Step{
		NewLoadStep(s.InputPath, s.Load),
		NewCleanStep(),
		NewFilterStep(s.Criteria),
		NewReshapeStep(s.Reshape, logger),
		NewExportStep(s.OutputPath, exporter.NewWorkbookWriter(logger)),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
