package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

var (
	ingestSpecs      []string
	ingestNoProgress bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, split and embed the specifications",
	Long: `Downloads every configured specification, splits it into heading
sections, embeds each section and replaces the stored collection.

Documents that fail to download and sections that fail to embed are
skipped and reported. The previous collection is replaced only when at
least one section was embedded.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestSpecs, "spec", nil,
		"only ingest these spec families (e.g. --spec classic,bidi)")
	ingestCmd.Flags().BoolVar(&ingestNoProgress, "no-progress", false, "disable progress bars")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	sources, err := selectSources(specSources, ingestSpecs)
	if err != nil {
		return err
	}

	if setProgress != nil && !ingestNoProgress && stderrIsTerminal() {
		setProgress(newBarProgress(os.Stderr))
	}

	cmd.Printf("Ingesting %d documents...\n", len(sources))
	report, err := ingestService.Ingest(cmd.Context(), sources)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// selectSources keeps the sources whose family is listed. No filter keeps all.
func selectSources(sources []domain.SpecSource, specs []string) ([]domain.SpecSource, error) {
	if len(specs) == 0 {
		return sources, nil
	}
	want := make(map[domain.SpecFamily]bool, len(specs))
	for _, s := range specs {
		want[domain.SpecFamily(s)] = true
	}

	var out []domain.SpecSource
	for _, src := range sources {
		if want[src.Spec] {
			out = append(out, src)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no configured source matches %v", domain.ErrInvalidInput, specs)
	}
	return out, nil
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Println()
	for _, doc := range report.Documents {
		if doc.Err != nil {
			cmd.Printf("  %s %s %s\n", failMark(), specStyle.Render(string(doc.Source.Spec)), doc.Source.URL)
			cmd.Printf("      %s\n", errorStyle.Render(doc.Err.Error()))
			continue
		}
		line := fmt.Sprintf("%d sections", doc.Embedded)
		if doc.Skipped > 0 {
			line += fmt.Sprintf(", %d skipped", doc.Skipped)
		}
		cmd.Printf("  %s %s %s %s\n", okMark(), specStyle.Render(string(doc.Source.Spec)), doc.Source.URL,
			mutedStyle.Render("("+line+")"))
	}
	cmd.Println()
	cmd.Printf("Stored %d sections (%d dimensions, %s) in %s\n",
		report.Stored, report.Dimensions, report.Backend, report.Duration.Round(time.Millisecond))
}
