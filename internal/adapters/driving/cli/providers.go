package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Check every embedding and generation backend",
	Long: `Pings each configured backend in fallback order without running
inference, and reports which ones are reachable.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if providerService == nil {
		return errors.New("provider service not configured")
	}

	chain := ""
	for _, st := range providerService.Status(cmd.Context()) {
		if st.Chain != chain {
			chain = st.Chain
			cmd.Println(titleStyle.Render(chain))
		}
		if st.OK() {
			cmd.Printf("  %s %s %s\n", okMark(), st.Backend, mutedStyle.Render(st.Latency.Round(time.Millisecond).String()))
			continue
		}
		cmd.Printf("  %s %s %s\n", failMark(), st.Backend, errorStyle.Render(st.Err.Error()))
	}
	return nil
}
