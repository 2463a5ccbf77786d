package cmd

import (
	"fmt"
	"os"

	"holocron/core/config"
	"holocron/core/logger"
	"holocron/core/reconcile"
	"holocron/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	datasetObject string
	datasetPrefix string
)

// datasetCmd groups commands that manage published datasets in object storage.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Publish and list bundled datasets in object storage",
}

var datasetPushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Validate a dataset file and upload it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, l, client, err := storageSetup()
		if err != nil {
			return err
		}
		defer l.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()

		ds, err := reconcile.Decode(f)
		if err != nil {
			return err
		}

		object := datasetObject
		if object == "" {
			object = cfg.Dataset.Object
		}
		info, err := reconcile.Publish(ctx, client, cfg.Storage.Bucket, object, ds)
		if err != nil {
			return err
		}

		l.Info("Dataset published",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", object),
			zap.Int("version", ds.Version),
			zap.Int64("size", info.Size),
		)
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, client, err := storageSetup()
		if err != nil {
			return err
		}
		defer l.Sync()

		names, err := reconcile.ListPublished(cmd.Context(), client, cfg.Storage.Bucket, datasetPrefix)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

// storageSetup loads configuration and creates a storage client without
// opening the local stores.
func storageSetup() (*config.Config, *zap.Logger, storage.Client, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return cfg, l, client, nil
}

func init() {
	datasetPushCmd.Flags().StringVar(&datasetObject, "object", "", "Object name (defaults to dataset.object)")
	datasetListCmd.Flags().StringVar(&datasetPrefix, "prefix", "datasets/", "Object name prefix")

	datasetCmd.AddCommand(datasetPushCmd, datasetListCmd)
	RootCmd.AddCommand(datasetCmd)
}
