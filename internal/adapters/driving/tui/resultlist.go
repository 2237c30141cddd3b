package tui

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// resultList displays sections in a navigable list.
type resultList struct {
	results  []domain.Section
	selected int
	styles   *Styles
	width    int
	height   int
}

func newResultList(s *Styles) *resultList {
	return &resultList{styles: s, width: 80, height: 10}
}

func (r *resultList) SetResults(results []domain.Section) {
	r.results = results
	r.selected = 0
}

func (r *resultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// SelectedSection returns the highlighted section, or nil if the list is empty.
func (r *resultList) SelectedSection() *domain.Section {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

func (r *resultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

func (r *resultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

func (r *resultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	// Each entry renders as title, url and preview.
	visible := (r.height - 2) / 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	lines := []string{r.styles.Title.Render(fmt.Sprintf("Results (%d)", len(r.results))), ""}
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *resultList) renderResult(index int, sec *domain.Section) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := truncate(sec.Title, r.width-20)
	meta := string(sec.Spec)
	if sec.Distance != nil {
		meta += fmt.Sprintf(" %.3f", *sec.Distance)
	}

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator+title) + " " + r.styles.Spec.Render(meta)
	} else {
		titleLine = r.styles.Normal.Render(indicator+title) + " " + r.styles.Muted.Render(meta)
	}

	preview := strings.Join(strings.Fields(sec.Content), " ")
	return titleLine + "\n" +
		r.styles.Spec.Render("    "+truncate(sec.URL, r.width-6)) + "\n" +
		r.styles.Muted.Render("    "+truncate(preview, r.width-6))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
