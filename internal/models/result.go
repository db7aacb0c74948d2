package models

// ExecutionFailedLabel is the fixed error label returned on a failed invocation
const ExecutionFailedLabel = "Lambda execution failed"

// MultiRegionResult is the summary of a shutdown across every region
type MultiRegionResult struct {
	Message               string           `json:"message"`
	StoppedInstances      []InstanceRecord `json:"stopped_instances"`
	TotalRegionsProcessed int              `json:"total_regions_processed"`

	TotalInstancesStopped int             `json:"-"`
	FailedRegions         []RegionFailure `json:"-"`
}

// SingleRegionResult is the summary of a shutdown in one region
type SingleRegionResult struct {
	Message               string           `json:"message"`
	StoppedInstances      []InstanceRecord `json:"stopped_instances"`
	Region                string           `json:"region"`
	TotalInstancesStopped int              `json:"total_instances_stopped"`
}

// ErrorBody is the response body of a failed invocation
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
