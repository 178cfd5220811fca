package job

import "time"

// Status is the lifecycle state of a forecast job.
type Status string

const (
	StatusPending  Status = "pending"
	StatusLaunched Status = "launched"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusPost     Status = "post"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
	StatusFailed   Status = "failed"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusCanceled, StatusFailed:
		return true
	}
	return false
}

// Layer describes one renderable output variable of a finished job.
type Layer struct {
	Variable    string  `json:"variable" dynamodbav:"variable"`
	DisplayName string  `json:"display_name" dynamodbav:"display_name"`
	Palette     string  `json:"palette" dynamodbav:"palette"`
	Units       string  `json:"units" dynamodbav:"units"`
	MinValue    float64 `json:"min_value" dynamodbav:"min_value"`
	MaxValue    float64 `json:"max_value" dynamodbav:"max_value"`
	TimeStep    int     `json:"time_step" dynamodbav:"time_step"`
}

// WrfJob is one record in the job table, keyed by JobID.
type WrfJob struct {
	JobID          string    `json:"job_id" dynamodbav:"job_id"`
	Name           string    `json:"job_name" dynamodbav:"job_name"`
	Configuration  string    `json:"configuration_name" dynamodbav:"configuration_name"`
	CycleTime      time.Time `json:"cycle_time" dynamodbav:"cycle_time,unixtime"`
	ForecastLength int       `json:"forecast_length" dynamodbav:"forecast_length"`
	OutputFreq     int       `json:"output_frequency" dynamodbav:"output_frequency"`
	Status         Status    `json:"status" dynamodbav:"status"`
	Progress       int       `json:"progress" dynamodbav:"progress"`
	UserEmail      string    `json:"user_email" dynamodbav:"user_email"`
	Notify         bool      `json:"notify" dynamodbav:"notify"`
	Layers         []Layer   `json:"layers,omitempty" dynamodbav:"layers,omitempty"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at,unixtime"`
	UpdatedAt      time.Time `json:"updated_at" dynamodbav:"updated_at,unixtime"`
}
