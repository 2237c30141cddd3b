package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

var readCmd = &cobra.Command{
	Use:   "read [url]",
	Short: "Print the full text of a section",
	Long:  `Prints the stored section whose URL matches exactly, as returned by search.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	sec, err := retrievalService.Read(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrSectionNotFound) {
		return fmt.Errorf("section not found for URL: %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	cmd.Println(titleStyle.Render("# " + sec.Title))
	cmd.Println()
	cmd.Println(sec.Content)
	return nil
}
