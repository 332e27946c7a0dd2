package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "twitter-scraper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TwitterConfig holds settings for the search provider.
type TwitterConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root (default https://api.twitter.com).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Keyword is the search term (env TWITTER_KEYWORD, default "#awscopilot").
	Keyword string `json:"keyword" yaml:"keyword"`

	// SinceDate is the YYYY-MM-DD lower bound on tweet age (env SINCE_DATE).
	SinceDate string `json:"since_date" yaml:"since_date"`

	// WOEID is the Yahoo! Where On Earth id used for trends (env WORLD_ID).
	WOEID int64 `json:"woeid" yaml:"woeid"`

	// ResultType selects recent, popular or mixed results (default recent).
	ResultType ResultType `json:"result_type" yaml:"result_type"`

	// Count is the page size (default 100).
	Count int `json:"count" yaml:"count"`

	// IncludeEntities asks for extended entity metadata.
	IncludeEntities bool `json:"include_entities" yaml:"include_entities"`

	// ConsumerKey and ConsumerSecret are exchanged for an app-only bearer
	// token when BearerToken is empty.
	ConsumerKey    string `json:"consumer_key,omitempty" yaml:"consumer_key,omitempty"`
	ConsumerSecret string `json:"consumer_secret,omitempty" yaml:"consumer_secret,omitempty"`

	// AccessToken and AccessTokenSecret are user-context credentials. They
	// are accepted for configuration compatibility; search and trends run
	// with app-only authentication.
	AccessToken       string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	AccessTokenSecret string `json:"access_token_secret,omitempty" yaml:"access_token_secret,omitempty"`

	// BearerToken is a pre-issued app-only token.
	BearerToken string `json:"bearer_token,omitempty" yaml:"bearer_token,omitempty"`
}

// CheckpointBackend identifies where the checkpoint parameter lives.
type CheckpointBackend string

const (
	CheckpointSSM    CheckpointBackend = "ssm"
	CheckpointRedis  CheckpointBackend = "redis"
	CheckpointSQLite CheckpointBackend = "sqlite"
	CheckpointFile   CheckpointBackend = "file"
	CheckpointMemory CheckpointBackend = "memory"
)

// CheckpointConfig holds settings for the checkpoint store.
type CheckpointConfig struct {
	// Backend selects the store: ssm, redis, sqlite, file or memory.
	Backend CheckpointBackend `json:"backend" yaml:"backend"`

	// Name is the parameter name (env CHECKPOINT_PARAMETER_NAME). Empty
	// disables checkpointing.
	Name string `json:"name" yaml:"name"`

	// Advance writes the highest captured tweet id back to the store.
	Advance bool `json:"advance" yaml:"advance"`

	// Region is the AWS region for the ssm backend. Empty uses the SDK chain.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// RedisAddr, RedisPassword, RedisDB and RedisPrefix configure the redis backend.
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	RedisPrefix   string `json:"redis_prefix,omitempty" yaml:"redis_prefix,omitempty"`

	// Path is the database file (sqlite) or YAML file (file backend).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RetryConfig bounds the search backoff loop.
type RetryConfig struct {
	// Unit is the backoff time unit; the wait after failed attempt n is
	// 2^(n+1) units (default 1s).
	Unit time.Duration `json:"unit" yaml:"unit"`

	// MaxAttempts caps the total number of calls. 0 retries forever.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// MaxElapsed caps the total time spent retrying. 0 means no cap.
	MaxElapsed time.Duration `json:"max_elapsed" yaml:"max_elapsed"`

	// MaxDelay caps a single wait. 0 means no cap.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`
}

// Config groups all settings of one process invocation. It is built once
// at start-up and passed to the components that need it.
type Config struct {
	Twitter    TwitterConfig    `json:"twitter" yaml:"twitter"`
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint"`
	Retry      RetryConfig      `json:"retry" yaml:"retry"`

	// Debug logs every payload and switches to development logging (env DEBUG).
	Debug bool `json:"debug" yaml:"debug"`

	// MetricsFile, when set, receives a Prometheus text exposition at exit.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}
