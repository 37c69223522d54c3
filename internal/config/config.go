package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string `envconfig:"APP_PORT" default:"3000"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // "text" | "json"
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AWSRegion      string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSEndpointURL string `envconfig:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	DynamoTables DynamoTables `envconfig:"DYNAMO_TABLE"`

	JWTPrivateKeyPath  string        `envconfig:"JWT_PRIVATE_KEY_PATH" default:"./private_key.pem"`
	JWTPublicKeyPath   string        `envconfig:"JWT_PUBLIC_KEY_PATH" default:"./public_key.pem"`
	JWTExpiry          time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`
	RefreshTokenExpiry time.Duration `envconfig:"REFRESH_TOKEN_EXPIRY" default:"720h"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"` // CORS allowed origins
	// RateLimitPerMinute caps requests per client IP across the API. 0 disables it.
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`

	// RedisAddr enables Idempotency-Key handling on leave filing when set.
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// SNSLeaveTopicARN enables publishing leave lifecycle events when set.
	SNSLeaveTopicARN string `envconfig:"SNS_LEAVE_TOPIC_ARN"`

	NotifyConcurrency int `envconfig:"NOTIFY_CONCURRENCY" default:"4"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string `envconfig:"USERS" default:"users"`
	Sessions      string `envconfig:"SESSIONS" default:"sessions"`
	Leaves        string `envconfig:"LEAVES" default:"leaves"`
	Notifications string `envconfig:"NOTIFICATIONS" default:"notifications"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
