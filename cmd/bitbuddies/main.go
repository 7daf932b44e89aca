package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitdoze/bitbuddies/internal/app"
	"github.com/bitdoze/bitbuddies/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bitbuddies",
	Short: "bitbuddies affiliate links, click analytics and YouTube feed sync",
	Long: `bitbuddies serves affiliate redirects and the admin API, and keeps a local
cache of the videos published by the tracked YouTube channels.

Configuration is read from the YAML file named by CONFIG_PATH.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to the config file (defaults to $CONFIG_PATH)")

	syncCmd.Flags().Int64("channel", 0, "sync only the channel with this id")
	migrateCmd.Flags().Bool("down", false, "roll back every migration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	return config.Load(path)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily job triggers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		return app.Run(cmd.Context(), cfg)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the feeds of all active channels, or of one channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		channelID, _ := cmd.Flags().GetInt64("channel")

		results, err := app.RunSync(cmd.Context(), cfg, channelID)
		if err != nil {
			return err
		}

		for _, res := range results {
			switch {
			case res.Skipped:
				fmt.Printf("- %s (#%d): skipped, channel inactive\n", res.ChannelName, res.ChannelID)
			case res.Success:
				fmt.Printf("✓ %s (#%d): %d new, %d updated, %d total\n",
					res.ChannelName, res.ChannelID, res.NewVideos, res.UpdatedVideos, res.TotalVideos)
			default:
				fmt.Printf("✗ %s (#%d): %s\n", res.ChannelName, res.ChannelID, res.Error)
			}
		}

		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove videos published before the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		res, err := app.RunCleanup(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Removed %d videos published before %s across %d channels\n",
			res.Removed, res.Cutoff.Format("2006-01-02 15:04 MST"), res.Channels)

		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		down, _ := cmd.Flags().GetBool("down")

		if err := app.Migrate(cfg, down); err != nil {
			return err
		}

		fmt.Println("✓ Migrations applied")

		return nil
	},
}
