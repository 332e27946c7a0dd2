package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/checkpoint"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Read or write the stored since_id checkpoint",
}

var checkpointGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored checkpoint, or None when absent",
	Args:  cobra.NoArgs,
	RunE:  runCheckpointGet,
}

var checkpointSetCmd = &cobra.Command{
	Use:   "set <tweet-id|None>",
	Short: "Store a checkpoint value",
	Long: `Set stores a tweet id as the checkpoint. The literal None resets it so the
next capture runs without since_id.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckpointSet,
}

func init() {
	checkpointCmd.AddCommand(checkpointGetCmd, checkpointSetCmd)
	rootCmd.AddCommand(checkpointCmd)
}

func openCheckpoint(cmd *cobra.Command) (checkpoint.Store, string, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, "", err
	}
	if cfg.Checkpoint.Name == "" {
		return nil, "", errors.New("no checkpoint name: set --checkpoint-name or CHECKPOINT_PARAMETER_NAME")
	}
	store, err := checkpoint.Open(cmd.Context(), cfg.Checkpoint, logger)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.Checkpoint.Name, nil
}

func runCheckpointGet(cmd *cobra.Command, args []string) error {
	store, name, err := openCheckpoint(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	v, ok, err := checkpoint.Lookup(cmd.Context(), store, name)
	if err != nil {
		return err
	}
	if !ok {
		v = checkpoint.NoneValue
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runCheckpointSet(cmd *cobra.Command, args []string) error {
	value := args[0]
	if value != checkpoint.NoneValue {
		if _, err := types.ParseSinceID(value); err != nil {
			return err
		}
	}

	store, name, err := openCheckpoint(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(cmd.Context(), name, value); err != nil {
		return err
	}
	logger.Info("checkpoint stored", zap.String("name", name), zap.String("value", value))
	return nil
}
