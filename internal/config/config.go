package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort               = "PORT"
	envServerReadTimeout  = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout = "SERVER_WRITE_TIMEOUT"
	envServerShutdown     = "SERVER_SHUTDOWN_TIMEOUT"
	envAWSRegion          = "REGION"
	envAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envUserTable          = "USER_TABLE"
	envJobTable           = "JOB_TABLE"
	envModelConfigTable   = "MODEL_CONFIG_TABLE"
	envAuditTable         = "AUDIT_TABLE"
	envDynamoEndpoint     = "DYNAMODB_ENDPOINT"
	envDataBucket         = "DATA_BUCKET"
	envJWTSecret          = "JWT_SECRET"
	envJWTExpiry          = "JWT_EXPIRY_MINUTES"
	envRefreshExpiry      = "REFRESH_EXPIRY_MINUTES"
	envEphemeralKeys      = "EPHEMERAL_KEYS"
	envClusterEndpoint    = "CLUSTER_API_ENDPOINT"
	envClusterAPIKey      = "CLUSTER_API_KEY"
	envMailSender         = "MAIL_SENDER"
	envMailProvider       = "MAIL_PROVIDER"
	envAppURL             = "APP_URL"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultUserTable          = "wrfcloud_users"
	defaultJobTable           = "wrfcloud_jobs"
	defaultModelConfigTable   = "wrfcloud_model_configs"
	defaultJWTExpiry          = 60 * time.Minute
	defaultRefreshExpiry      = 30 * 24 * time.Hour
	defaultMailProvider       = "ses"

	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2

	errRegionRequiredFmt       = "REGION must be set"
	errBucketRequiredFmt       = "DATA_BUCKET must be set"
	errAppURLRequiredFmt       = "APP_URL must be set"
	errJWTSecretRequiredFmt    = "JWT_SECRET must be set (or EPHEMERAL_KEYS=true for non-production use)"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server  ServerConfig
	AWS     AWSConfig
	Dynamo  DynamoConfig
	S3      S3Config
	JWT     JWTConfig
	Cluster ClusterConfig
	Mail    MailConfig
	App     AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type DynamoConfig struct {
	UserTable        string
	JobTable         string
	ModelConfigTable string
	// AuditTable is optional; empty disables audit logging.
	AuditTable string
	// Endpoint overrides the service endpoint, for local development.
	Endpoint string
}

type S3Config struct {
	DataBucket string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
	RefreshExpiry  time.Duration
	// EphemeralKeys opts into a process-local random signing key when no
	// secret is configured. Sessions then die with the process.
	EphemeralKeys bool
}

type ClusterConfig struct {
	Endpoint string
	APIKey   string
}

type MailConfig struct {
	Sender string
	// Provider is "ses" or "console".
	Provider string
}

type AppConfig struct {
	// URL is the public base URL used in activation and reset links.
	URL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdown, defaultServerShutdown),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
		},
		Dynamo: DynamoConfig{
			UserTable:        getEnv(envUserTable, defaultUserTable),
			JobTable:         getEnv(envJobTable, defaultJobTable),
			ModelConfigTable: getEnv(envModelConfigTable, defaultModelConfigTable),
			AuditTable:       os.Getenv(envAuditTable),
			Endpoint:         os.Getenv(envDynamoEndpoint),
		},
		S3: S3Config{
			DataBucket: os.Getenv(envDataBucket),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
			RefreshExpiry:  getDurationEnv(envRefreshExpiry, defaultRefreshExpiry),
			EphemeralKeys:  getBoolEnv(envEphemeralKeys, false),
		},
		Cluster: ClusterConfig{
			Endpoint: os.Getenv(envClusterEndpoint),
			APIKey:   os.Getenv(envClusterAPIKey),
		},
		Mail: MailConfig{
			Sender:   os.Getenv(envMailSender),
			Provider: getEnv(envMailProvider, defaultMailProvider),
		},
		App: AppConfig{
			URL: os.Getenv(envAppURL),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return fmt.Errorf(errRegionRequiredFmt)
	}

	if c.S3.DataBucket == "" {
		return fmt.Errorf(errBucketRequiredFmt)
	}

	if c.App.URL == "" {
		return fmt.Errorf(errAppURLRequiredFmt)
	}

	// A missing signing key is a hard startup failure: silently falling
	// back to a random key would issue sessions that die with the
	// process. EPHEMERAL_KEYS is the explicit opt-in for that mode.
	if c.JWT.Secret == "" {
		if !c.JWT.EphemeralKeys {
			return fmt.Errorf(errJWTSecretRequiredFmt)
		}
		return nil
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
