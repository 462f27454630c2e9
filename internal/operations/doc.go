// Package operations runs the income report as a sequence of steps.
//
// A Step reads the tables left in RunState by the step before it and adds
// its own. The Registry keeps steps in registration order and the Manager
// executes them one after another, so load, clean, filter, reshape and
// export never overlap. The first error stops the run; later steps are
// marked skipped.
//
// Each step runs under its own span with the stage name set on the context,
// which the logger picks up. Row counts and step statistics land in the
// Manifest and in the pipeline metrics.
//
//	settings, err := operations.SettingsFromConfig(cfg, paths)
//	registry, err := operations.NewIncomeRegistry(settings, logger)
//	manager := operations.NewManager(registry, logger,
//		operations.WithTracer(providers.Tracer),
//		operations.WithMetrics(metrics))
//	manifest, err := manager.Run(ctx)
package operations
