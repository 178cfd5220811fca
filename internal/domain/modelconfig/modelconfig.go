package modelconfig

import "time"

// DomainCenter is the geographic center of the model domain.
type DomainCenter struct {
	Latitude  float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude"`
}

// ModelConfig is one record in the model configuration table, keyed by Name.
// The namelists are stored verbatim and handed to the cluster untouched.
type ModelConfig struct {
	Name         string       `json:"model_config_id" dynamodbav:"model_config_id"`
	Description  string       `json:"description" dynamodbav:"description"`
	WPSNamelist  string       `json:"wps_namelist" dynamodbav:"wps_namelist"`
	WRFNamelist  string       `json:"wrf_namelist" dynamodbav:"wrf_namelist"`
	DomainCenter DomainCenter `json:"domain_center" dynamodbav:"domain_center"`
	DomainSize   int          `json:"domain_size" dynamodbav:"domain_size"`
	Cores        int          `json:"cores" dynamodbav:"cores"`
	CreatedAt    time.Time    `json:"created_at" dynamodbav:"created_at,unixtime"`
	UpdatedAt    time.Time    `json:"updated_at" dynamodbav:"updated_at,unixtime"`
}
