package validator_test

import (
	"strings"
	"testing"

	"wrfcloud/pkg/validator"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid with plus", "user+tag@example.com", false},
		{"valid subdomain", "user@mail.example.co.uk", false},
		{"empty", "", true},
		{"no at sign", "userexample.com", true},
		{"no domain", "user@", true},
		{"no tld", "user@example", true},
		{"spaces", "user @example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Email(tt.email)
			if tt.shouldErr && err == nil {
				t.Errorf("Email(%q) expected error, got nil", tt.email)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Email(%q) unexpected error: %v", tt.email, err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		shouldErr bool
	}{
		{"minimum length", "abcdefghij", false},
		{"long", strings.Repeat("a", 128), false},
		{"too short", "short", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Password(tt.password)
			if tt.shouldErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestJobName(t *testing.T) {
	tests := []struct {
		name      string
		jobName   string
		shouldErr bool
	}{
		{"simple", "Tomorrow's Forecast", false},
		{"unicode", "Pronóstico del Caribe", false},
		{"empty", "", true},
		{"only whitespace", "   ", true},
		{"control character", "bad\x00name", true},
		{"newline", "bad\nname", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.JobName(tt.jobName)
			if tt.shouldErr && err == nil {
				t.Errorf("JobName(%q) expected error, got nil", tt.jobName)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("JobName(%q) unexpected error: %v", tt.jobName, err)
			}
		})
	}
}

func TestConfigName(t *testing.T) {
	tests := []struct {
		name       string
		configName string
		shouldErr  bool
	}{
		{"simple", "caribbean-6km", false},
		{"dots and underscores", "us_east.v2", false},
		{"empty", "", true},
		{"spaces", "bad name", true},
		{"slash", "bad/name", true},
		{"unicode", "配置", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ConfigName(tt.configName)
			if tt.shouldErr && err == nil {
				t.Errorf("ConfigName(%q) expected error, got nil", tt.configName)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ConfigName(%q) unexpected error: %v", tt.configName, err)
			}
		})
	}
}

func TestForecastLength(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int
		shouldErr bool
	}{
		{"one hour", 3600, false},
		{"ten days", 10 * 24 * 3600, false},
		{"zero", 0, true},
		{"under an hour", 3599, true},
		{"over ten days", 10*24*3600 + 1, true},
		{"negative", -3600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ForecastLength(tt.seconds)
			if tt.shouldErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOutputFrequency(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int
		shouldErr bool
	}{
		{"five minutes", 300, false},
		{"one day", 24 * 3600, false},
		{"too frequent", 299, true},
		{"too sparse", 24*3600 + 1, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.OutputFrequency(tt.seconds)
			if tt.shouldErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStartTime(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int64
		shouldErr bool
	}{
		{"recent cycle", 1756700400, false},
		{"turn of the century", 946684800, false},
		{"far future cutoff", 4102444800, false},
		{"zero", 0, true},
		{"negative", -1756700400, true},
		{"beyond the cutoff", 4102444801, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.StartTime(tt.seconds)
			if tt.shouldErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
