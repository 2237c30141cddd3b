package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmcp/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the specifications interactively",
	Long: `Launch the interactive terminal browser.

Type a query and press enter. Tab switches between semantic search,
keyword search and asking a question. Open a result to read the full
section.

Controls:
  tab      - Switch mode
  enter    - Run query / open section
  ↑/k, ↓/j - Navigate results or scroll
  /        - New query
  esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Retrieval: retrievalService})
	if err != nil {
		return err
	}
	return app.WithContext(cmd.Context()).Run()
}
