package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the stored collection",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if !stats.Exists {
		cmd.Println("No collection. Run \"specmcp ingest\" first.")
		return nil
	}

	cmd.Println(labelStyle.Render("Generation") + stats.Generation)
	cmd.Println(labelStyle.Render("Sections") + fmt.Sprint(stats.Sections))
	cmd.Println(labelStyle.Render("Dimensions") + fmt.Sprint(stats.Dimensions))
	if !stats.CreatedAt.IsZero() {
		cmd.Println(labelStyle.Render("Created") + stats.CreatedAt.Local().Format(time.RFC1123))
	}
	return nil
}
