package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 10
	maxPasswordLength = 128
	maxJobNameLen     = 128
	maxConfigNameLen  = 128
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errPasswordMinLengthFmt    = "password must be at least %d characters"
	errPasswordMaxLengthFmt    = "password must not exceed %d characters"
	errJobNameEmptyFmt         = "job name cannot be empty"
	errJobNameMaxLengthFmt     = "job name must not exceed %d characters"
	errJobNameControlCharsFmt  = "job name cannot contain control characters"
	errConfigNameEmptyFmt      = "configuration name cannot be empty"
	errConfigNameMaxLengthFmt  = "configuration name must not exceed %d characters"
	errConfigNameInvalidFmt    = "configuration name may only contain letters, digits, dot, dash and underscore"
	errForecastLengthRangeFmt  = "forecast length must be between %d and %d seconds"
	errOutputFrequencyRangeFmt = "output frequency must be between %d and %d seconds"
	errStartTimeRangeFmt       = "start time must be a unix timestamp between %d and %d"

	minForecastSeconds  = 3600
	maxForecastSeconds  = 10 * 24 * 3600
	minFrequencySeconds = 300
	maxFrequencySeconds = 24 * 3600

	minStartEpoch = 946684800  // 2000-01-01T00:00:00Z
	maxStartEpoch = 4102444800 // 2100-01-01T00:00:00Z
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	configNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func JobName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf(errJobNameEmptyFmt)
	}

	if len(name) > maxJobNameLen {
		return fmt.Errorf(errJobNameMaxLengthFmt, maxJobNameLen)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errJobNameControlCharsFmt)
		}
	}

	return nil
}

// ConfigName validates a model configuration name. Names become S3 key
// segments and cluster names, so the accepted alphabet is narrow.
func ConfigName(name string) error {
	if name == "" {
		return fmt.Errorf(errConfigNameEmptyFmt)
	}

	if len(name) > maxConfigNameLen {
		return fmt.Errorf(errConfigNameMaxLengthFmt, maxConfigNameLen)
	}

	if !configNameRegex.MatchString(name) {
		return fmt.Errorf(errConfigNameInvalidFmt)
	}

	return nil
}

func ForecastLength(seconds int) error {
	if seconds < minForecastSeconds || seconds > maxForecastSeconds {
		return fmt.Errorf(errForecastLengthRangeFmt, minForecastSeconds, maxForecastSeconds)
	}
	return nil
}

func OutputFrequency(seconds int) error {
	if seconds < minFrequencySeconds || seconds > maxFrequencySeconds {
		return fmt.Errorf(errOutputFrequencyRangeFmt, minFrequencySeconds, maxFrequencySeconds)
	}
	return nil
}

// StartTime validates a forecast cycle time given in unix seconds.
func StartTime(seconds int64) error {
	if seconds < minStartEpoch || seconds > maxStartEpoch {
		return fmt.Errorf(errStartTimeRangeFmt, int64(minStartEpoch), int64(maxStartEpoch))
	}
	return nil
}

