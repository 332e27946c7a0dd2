package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/capture"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/checkpoint"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/twitter"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Search for the keyword and print new tweets as JSON records",
	Long: `Capture reads the checkpoint parameter, searches Twitter for the keyword
with since_id set to the checkpoint, and prints one JSON record per tweet.
Failed searches are retried with exponential backoff (2, 4, 8, ... units).
With --advance-checkpoint the highest captured id is written back.`,
	RunE: runCapture,
}

func init() {
	f := captureCmd.Flags()
	f.String("keyword", "", "search keyword (default #awscopilot)")
	f.String("since-date", "", "only tweets on or after this date, YYYY-MM-DD")
	f.String("result-type", "", "recent, popular or mixed")
	f.Int("count", 0, "results per request")
	f.Bool("include-entities", false, "request the entities node")
	f.Bool("advance-checkpoint", false, "store the highest captured id after the run")
	f.Int("max-attempts", 0, "total search attempts, 0 for no limit (default 8)")
	f.Duration("retry-unit", 0, "backoff time unit")
	f.String("out", "", "write records to this file instead of stdout")

	bindFlags(viper.GetViper(), f, map[string]string{
		"twitter.keyword":          "keyword",
		"twitter.since_date":       "since-date",
		"twitter.result_type":      "result-type",
		"twitter.count":            "count",
		"twitter.include_entities": "include-entities",
		"checkpoint.advance":       "advance-checkpoint",
		"retry.max_attempts":       "max-attempts",
		"retry.unit":               "retry-unit",
	})

	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	opts, err := capture.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	client, err := twitter.New(ctx, cfg.Twitter)
	if err != nil {
		return err
	}

	var store checkpoint.Store
	if cfg.Checkpoint.Name != "" {
		store, err = checkpoint.Open(ctx, cfg.Checkpoint, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	} else {
		logger.Info("no checkpoint parameter configured, searching without since_id")
	}

	searcher := capture.NewSearcher(client, retryPolicy(cfg.Retry, twitter.Classify, "search"), logger)
	records, err := capture.New(searcher, store, opts, logger).Run(ctx)
	if err != nil {
		logger.Error("capture failed", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		fh, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer fh.Close()
		out = fh
	}
	return writeLines(out, records)
}

func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
