package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchKeyword bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search specification sections",
	Long: `Embeds the query and returns the most similar specification sections.

With --keyword the query runs against the full-text index instead, which
works without any reachable embedding backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// searchResult is the JSON shape of one result.
type searchResult struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Content  string   `json:"content"`
	Spec     string   `json:"spec"`
	Distance *float64 `json:"distance,omitempty"`
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVarP(&searchKeyword, "keyword", "k", false, "use the full-text index")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	search := retrievalService.Search
	if searchKeyword {
		search = retrievalService.KeywordSearch
	}

	results, err := search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchList(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.Section) error {
	out := make([]searchResult, len(results))
	for i := range results {
		out[i] = searchResult{
			Title:    results[i].Title,
			URL:      results[i].URL,
			Content:  results[i].Preview(),
			Spec:     string(results[i].Spec),
			Distance: results[i].Distance,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, results []domain.Section) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	for i := range results {
		r := &results[i]
		// [N] Title (spec, distance)
		meta := string(r.Spec)
		if r.Distance != nil {
			meta += fmt.Sprintf(", %.3f", *r.Distance)
		}
		cmd.Printf("  [%d] %s %s\n", i+1, titleStyle.Render(r.Title), mutedStyle.Render("("+meta+")"))
		cmd.Printf("      %s\n", specStyle.Render(r.URL))
		cmd.Printf("      %s\n", snippet(r.Content, 160))
		cmd.Println()
	}
}

// snippet returns the first n runes of s on one line.
func snippet(s string, n int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' || r == '\t' {
			runes[i] = ' '
		}
	}
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return string(runes)
}
