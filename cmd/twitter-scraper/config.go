// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/retry"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/secrets"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

const envPrefix = "TWITTER_SCRAPER"

// legacyEnv maps config keys to the environment variable names the
// capture job has always been deployed with.
var legacyEnv = map[string]string{
	"twitter.keyword":             "TWITTER_KEYWORD",
	"twitter.since_date":          "SINCE_DATE",
	"twitter.woeid":               "WORLD_ID",
	"twitter.consumer_key":        "TWITTER_CONSUMER_API_KEY",
	"twitter.consumer_secret":     "TWITTER_CONSUMER_API_SECRET",
	"twitter.access_token":        "TWITTER_ACCESS_TOKEN",
	"twitter.access_token_secret": "TWITTER_ACCESS_TOKEN_SECRET",
	"twitter.bearer_token":        "TWITTER_BEARER_TOKEN",
	"checkpoint.name":             "CHECKPOINT_PARAMETER_NAME",
	"checkpoint.region":           "AWS_REGION",
	"debug":                       "DEBUG",
}

// configKeys lists every key read by loadConfig, so AutomaticEnv-style
// prefixed variables work for keys without a default.
var configKeys = []string{
	"twitter.base_url", "twitter.keyword", "twitter.since_date", "twitter.woeid",
	"twitter.result_type", "twitter.count", "twitter.include_entities",
	"twitter.timeout", "twitter.user_agent",
	"twitter.consumer_key", "twitter.consumer_secret",
	"twitter.access_token", "twitter.access_token_secret", "twitter.bearer_token",
	"checkpoint.backend", "checkpoint.name", "checkpoint.advance", "checkpoint.region",
	"checkpoint.redis_addr", "checkpoint.redis_password", "checkpoint.redis_db",
	"checkpoint.redis_prefix", "checkpoint.path",
	"retry.unit", "retry.max_attempts", "retry.max_elapsed", "retry.max_delay",
	"debug", "metrics_file", "secrets_dir",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("twitter.keyword", "#awscopilot")
	v.SetDefault("twitter.since_date", "2020-10-26")
	v.SetDefault("twitter.woeid", 23424977)
	v.SetDefault("twitter.result_type", string(types.ResultRecent))
	v.SetDefault("twitter.count", types.DefaultCount)
	v.SetDefault("twitter.include_entities", false)
	v.SetDefault("twitter.timeout", 30*time.Second)
	v.SetDefault("twitter.user_agent", "twitter-scraper/"+version)

	v.SetDefault("checkpoint.backend", string(types.CheckpointSSM))
	v.SetDefault("checkpoint.redis_addr", "localhost:6379")
	v.SetDefault("checkpoint.redis_prefix", "checkpoint:")

	v.SetDefault("retry.unit", retry.DefaultUnit)
	v.SetDefault("retry.max_attempts", 8)
	v.SetDefault("retry.max_elapsed", time.Duration(0))
	v.SetDefault("retry.max_delay", time.Duration(0))

	v.SetDefault("secrets_dir", ".secrets")
}

// bindEnv binds every key to TWITTER_SCRAPER_<KEY> and, where one exists,
// to its legacy variable name. The prefixed form wins when both are set.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		names := []string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		v.BindEnv(append([]string{key}, names...)...)
	}
}

// bindFlags binds config keys to flags in fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if f := fs.Lookup(flag); f != nil {
			v.BindPFlag(key, f)
		}
	}
}

// applySecrets sets credentials from secret files for keys that no flag,
// variable or config file provides.
func applySecrets(v *viper.Viper, loaded map[string]string) {
	for key, value := range secrets.ConfigValues(loaded) {
		if v.GetString(key) == "" {
			v.Set(key, value)
		}
	}
}

// debugEnabled reads the debug key. Boolean strings are honored; any other
// non-empty value (DEBUG=yes, DEBUG=1x) turns debug on, as the job has always
// treated DEBUG as set-or-unset.
func debugEnabled(v *viper.Viper) bool {
	s := strings.TrimSpace(v.GetString("debug"))
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	return err != nil || b
}

// loadConfig builds the process configuration from v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Twitter: types.TwitterConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("twitter.timeout"),
				UserAgent: v.GetString("twitter.user_agent"),
			},
			BaseURL:           v.GetString("twitter.base_url"),
			Keyword:           strings.TrimSpace(v.GetString("twitter.keyword")),
			SinceDate:         strings.TrimSpace(v.GetString("twitter.since_date")),
			WOEID:             v.GetInt64("twitter.woeid"),
			ResultType:        types.ResultType(v.GetString("twitter.result_type")),
			Count:             v.GetInt("twitter.count"),
			IncludeEntities:   v.GetBool("twitter.include_entities"),
			ConsumerKey:       v.GetString("twitter.consumer_key"),
			ConsumerSecret:    v.GetString("twitter.consumer_secret"),
			AccessToken:       v.GetString("twitter.access_token"),
			AccessTokenSecret: v.GetString("twitter.access_token_secret"),
			BearerToken:       v.GetString("twitter.bearer_token"),
		},
		Checkpoint: types.CheckpointConfig{
			Backend:       types.CheckpointBackend(v.GetString("checkpoint.backend")),
			Name:          strings.TrimSpace(v.GetString("checkpoint.name")),
			Advance:       v.GetBool("checkpoint.advance"),
			Region:        v.GetString("checkpoint.region"),
			RedisAddr:     v.GetString("checkpoint.redis_addr"),
			RedisPassword: v.GetString("checkpoint.redis_password"),
			RedisDB:       v.GetInt("checkpoint.redis_db"),
			RedisPrefix:   v.GetString("checkpoint.redis_prefix"),
			Path:          v.GetString("checkpoint.path"),
		},
		Retry: types.RetryConfig{
			Unit:        v.GetDuration("retry.unit"),
			MaxAttempts: v.GetInt("retry.max_attempts"),
			MaxElapsed:  v.GetDuration("retry.max_elapsed"),
			MaxDelay:    v.GetDuration("retry.max_delay"),
		},
		Debug:       debugEnabled(v),
		MetricsFile: v.GetString("metrics_file"),
	}

	if cfg.Twitter.Keyword == "" {
		return cfg, fmt.Errorf("twitter.keyword is empty")
	}
	if !cfg.Twitter.ResultType.Valid() {
		return cfg, fmt.Errorf("twitter.result_type %q is not one of recent, popular, mixed", cfg.Twitter.ResultType)
	}
	if _, err := types.ParseSinceDate(cfg.Twitter.SinceDate); err != nil {
		return cfg, err
	}
	if cfg.Retry.MaxAttempts < 0 {
		return cfg, fmt.Errorf("retry.max_attempts must not be negative")
	}
	return cfg, nil
}

// retryPolicy converts the retry settings into a policy for operation.
func retryPolicy(rc types.RetryConfig, classify retry.Classifier, operation string) retry.Policy {
	return retry.Policy{
		Unit:        rc.Unit,
		MaxAttempts: rc.MaxAttempts,
		MaxElapsed:  rc.MaxElapsed,
		MaxDelay:    rc.MaxDelay,
		Classify:    classify,
		Logger:      logger,
		Operation:   operation,
	}
}
