package models

// InstanceRecord represents a single stop transition reported by EC2
type InstanceRecord struct {
	InstanceID    string `json:"InstanceId"`
	Region        string `json:"Region"`
	PreviousState string `json:"PreviousState"`
	CurrentState  string `json:"CurrentState"`

	// Only filled for local CLI output
	Name         string `json:"-"`
	InstanceType string `json:"-"`
}

// RunningInstance is an instance found in the running state before a stop request
type RunningInstance struct {
	InstanceID   string
	Name         string
	InstanceType string
	Region       string
}

// RegionFailure records a region that could not be processed
type RegionFailure struct {
	Region string
	Err    error
}
