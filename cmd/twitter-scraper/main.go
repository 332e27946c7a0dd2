// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the twitter-scraper CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE once the debug setting is known.
var logger = zap.NewNop()

// rootCmd is the base command for the twitter-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "twitter-scraper",
	Short: "Capture tweets matching a keyword since a stored checkpoint",
	Long: `twitter-scraper searches Twitter for a keyword, normalizes every result into
a JSON record and prints one record per line. The id of the last captured
tweet is kept in an external parameter store (AWS SSM by default) and used
as the since_id cursor of the next run.

Configuration comes from flags, environment variables (TWITTER_KEYWORD,
SINCE_DATE, WORLD_ID, CHECKPOINT_PARAMETER_NAME, TWITTER_CONSUMER_API_KEY, ...
or the TWITTER_SCRAPER_ prefixed form of any key), a YAML config file and
credential files in the secrets directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debugEnabled(viper.GetViper()))
		if err != nil {
			return err
		}
		logger = l

		if f := viper.ConfigFileUsed(); f != "" {
			logger.Info("using config file", zap.String("path", f))
		}

		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		applySecrets(viper.GetViper(), s)
		if len(s) > 0 {
			logger.Info("loaded secrets", zap.Strings("names", secrets.Names(s)))
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		path := viper.GetString("metrics_file")
		if path == "" {
			return nil
		}
		if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("writing metrics to %s: %w", path, err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./twitter-scraper.yaml or ~/.config/twitter-scraper/config.yaml)")
	pf.Bool("debug", false, "log every payload and use development logging")
	pf.String("secrets-dir", ".secrets", "directory of credential files")
	pf.String("metrics-file", "", "write Prometheus metrics in text format to this file on exit")
	pf.String("checkpoint-name", "", "checkpoint parameter name (empty disables checkpointing)")
	pf.String("checkpoint-backend", "", "checkpoint store: ssm, redis, sqlite, file or memory")
	pf.String("checkpoint-path", "", "database or YAML file for the sqlite and file backends")

	bindFlags(viper.GetViper(), pf, map[string]string{
		"debug":              "debug",
		"secrets_dir":        "secrets-dir",
		"metrics_file":       "metrics-file",
		"checkpoint.name":    "checkpoint-name",
		"checkpoint.backend": "checkpoint-backend",
		"checkpoint.path":    "checkpoint-path",
	})
}

func initConfig() {
	v := viper.GetViper()
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("twitter-scraper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "twitter-scraper"))
		}
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
