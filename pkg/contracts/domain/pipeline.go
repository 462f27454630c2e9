package domain

// Pipeline step identifiers, in execution order. They double as the stage
// recorded on errors and log records.
const (
	StageLoad    = "load"
	StageClean   = "clean"
	StageFilter  = "filter"
	StageReshape = "reshape"
	StageExport  = "export"
)

// PipelineStages lists the steps in the order they run.
var PipelineStages = []string{StageLoad, StageClean, StageFilter, StageReshape, StageExport}
