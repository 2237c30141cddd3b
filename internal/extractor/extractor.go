// Package extractor splits a parsed specification document into
// addressable sections.
//
// A section starts at a heading that carries an id and runs over the
// heading's following siblings until the next heading or a boundary
// container. The extractor only sees the document through the
// driven.DocumentNode interface, so it works on any tree implementation.
package extractor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Predicate classifies a document node.
type Predicate func(n driven.DocumentNode) bool

// Options controls how section bodies are delimited.
type Options struct {
	// IsHeaderWrapper reports whether n is a container whose only job is to
	// wrap a heading. Body text then starts after the wrapper instead of
	// after the heading.
	IsHeaderWrapper Predicate

	// IsBoundary reports whether n starts a nested subsection. Body text
	// stops before it so child sections are not duplicated in their parent.
	IsBoundary Predicate
}

// DefaultOptions matches W3C and WICG specs: div.header-wrapper around
// headings and <section> elements around subsections.
func DefaultOptions() Options {
	return Options{
		IsHeaderWrapper: HasClass("div", domain.DefaultHeaderWrapperClass),
		IsBoundary:      TagIn("section"),
	}
}

// OptionsFromSettings builds options from configuration.
// An empty class or tag list disables the corresponding predicate.
func OptionsFromSettings(s domain.ExtractorSettings) Options {
	opts := Options{
		IsHeaderWrapper: never,
		IsBoundary:      never,
	}
	if s.HeaderWrapperClass != "" {
		opts.IsHeaderWrapper = HasClass("div", s.HeaderWrapperClass)
	}
	if len(s.BoundaryTags) > 0 {
		opts.IsBoundary = TagIn(s.BoundaryTags...)
	}
	return opts
}

// TagIn matches elements whose tag is one of tags (case-insensitive).
func TagIn(tags ...string) Predicate {
	set := make([]string, 0, len(tags))
	for _, t := range tags {
		set = append(set, strings.ToLower(strings.TrimSpace(t)))
	}
	return func(n driven.DocumentNode) bool {
		return slices.Contains(set, n.Tag())
	}
}

// HasClass matches elements with the given tag whose class list contains class.
func HasClass(tag, class string) Predicate {
	return func(n driven.DocumentNode) bool {
		if n.Tag() != tag {
			return false
		}
		return slices.Contains(strings.Fields(n.Attr("class")), class)
	}
}

func never(driven.DocumentNode) bool { return false }

// Extractor turns document trees into sections.
// It holds no state between calls and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// New creates an extractor. Nil predicates fall back to DefaultOptions.
func New(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.IsHeaderWrapper == nil {
		opts.IsHeaderWrapper = def.IsHeaderWrapper
	}
	if opts.IsBoundary == nil {
		opts.IsBoundary = def.IsBoundary
	}
	return &Extractor{opts: opts}
}

// Extract returns the sections of the document rooted at root, in document
// order, without vectors. When src.RootID is set only the heading with that
// id and the headings nested below it are used; if the anchor is missing the
// result is empty.
func (e *Extractor) Extract(root driven.DocumentNode, src domain.SpecSource) ([]domain.Section, error) {
	if root == nil {
		return nil, fmt.Errorf("extract %s: %w: nil document", src.URL, domain.ErrInvalidInput)
	}

	headings := collectHeadings(root, nil)

	if src.RootID != "" {
		subtree, ok := restrictToSubtree(headings, src.RootID)
		if !ok {
			logger.Warn("extraction skipped for %s: %v: %q", src.URL, domain.ErrRootAnchorNotFound, src.RootID)
			return []domain.Section{}, nil
		}
		headings = subtree
	}

	sections := make([]domain.Section, 0, len(headings))
	for _, h := range headings {
		id := strings.TrimSpace(h.Attr("id"))
		if id == "" {
			logger.Debug("skipping heading without id in %s: %q", src.URL, strings.TrimSpace(h.Text()))
			continue
		}

		content := e.body(h)
		if content == "" {
			continue
		}

		sections = append(sections, domain.Section{
			ID:      string(src.Spec) + "-" + id,
			Title:   strings.TrimSpace(h.Text()),
			Content: content,
			URL:     src.URL + "#" + id,
			Spec:    src.Spec,
		})
	}
	return sections, nil
}

// body accumulates the trimmed text of the siblings following heading h.
func (e *Extractor) body(h driven.DocumentNode) string {
	next := h.NextSibling()
	if p := h.Parent(); p != nil && e.opts.IsHeaderWrapper(p) {
		next = p.NextSibling()
	}

	var parts []string
	for n := next; n != nil; n = n.NextSibling() {
		if headingLevel(n) > 0 || e.opts.IsBoundary(n) || e.opts.IsHeaderWrapper(n) {
			break
		}
		if text := strings.TrimSpace(n.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// collectHeadings appends the h1-h6 elements below n in document order.
func collectHeadings(n driven.DocumentNode, acc []driven.DocumentNode) []driven.DocumentNode {
	for _, c := range n.Children() {
		if headingLevel(c) > 0 {
			acc = append(acc, c)
		}
		acc = collectHeadings(c, acc)
	}
	return acc
}

// restrictToSubtree keeps the anchor heading and the headings after it that
// are strictly deeper, stopping at the first sibling or ancestor level.
func restrictToSubtree(headings []driven.DocumentNode, anchor string) ([]driven.DocumentNode, bool) {
	start := slices.IndexFunc(headings, func(h driven.DocumentNode) bool {
		return h.Attr("id") == anchor
	})
	if start < 0 {
		return nil, false
	}

	level := headingLevel(headings[start])
	subtree := []driven.DocumentNode{headings[start]}
	for _, h := range headings[start+1:] {
		if headingLevel(h) <= level {
			break
		}
		subtree = append(subtree, h)
	}
	return subtree, true
}

// headingLevel returns 1-6 for h1-h6 and 0 for anything else.
func headingLevel(n driven.DocumentNode) int {
	tag := n.Tag()
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}
