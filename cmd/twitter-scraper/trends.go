package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/retry"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/twitter"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print the trending topics for a location",
	Long: `Trends prints the trending topics for a Yahoo! Where On Earth ID, one JSON
object per line. The default location is the United States (23424977).`,
	RunE: runTrends,
}

func init() {
	trendsCmd.Flags().Int64("woeid", 0, "Where On Earth ID (default WORLD_ID or 23424977)")
	bindFlags(viper.GetViper(), trendsCmd.Flags(), map[string]string{
		"twitter.woeid": "woeid",
	})
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	client, err := twitter.New(cmd.Context(), cfg.Twitter)
	if err != nil {
		return err
	}

	woeid := cfg.Twitter.WOEID
	policy := retryPolicy(cfg.Retry, twitter.Classify, "trends")
	trends, err := retry.Do(cmd.Context(), policy, func(ctx context.Context) ([]types.Trend, error) {
		return client.Trends(ctx, woeid)
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, t := range trends {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}
