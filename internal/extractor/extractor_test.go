package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

const docURL = "https://www.w3.org/TR/webdriver/"

func classic() domain.SpecSource {
	return domain.SpecSource{URL: docURL, Spec: domain.SpecClassic}
}

func ids(sections []domain.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID
	}
	return out
}

func TestExtract_FlatDocument(t *testing.T) {
	doc := el("html", nil, el("body", nil,
		heading(2, "create-session", "Create Session"),
		p("POST /session"),
		heading(2, "delete-session", "Delete Session"),
		p("DELETE /session/{id}"),
	))

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, domain.Section{
		ID:      "classic-create-session",
		Title:   "Create Session",
		Content: "POST /session",
		URL:     docURL + "#create-session",
		Spec:    domain.SpecClassic,
	}, sections[0])
	assert.Equal(t, "classic-delete-session", sections[1].ID)
	assert.Equal(t, "DELETE /session/{id}", sections[1].Content)
	assert.Equal(t, docURL+"#delete-session", sections[1].URL)
}

func TestExtract_NestedSectionsStopAtSubsection(t *testing.T) {
	doc := el("body", nil,
		el("section", nil,
			wrapper(heading(2, "sessions", "Sessions")),
			p("A session is a connection."),
			p("Sessions have ids."),
			el("section", nil,
				wrapper(heading(3, "new-session", "New Session")),
				p("The new session command."),
			),
			p("Trailing text after the subsection."),
		),
	)

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)
	require.Equal(t, []string{"classic-sessions", "classic-new-session"}, ids(sections))

	assert.Equal(t, "A session is a connection.\nSessions have ids.", sections[0].Content)
	assert.Equal(t, "The new session command.", sections[1].Content)
	assert.Equal(t, "New Session", sections[1].Title)
}

func TestExtract_StopsAtNextHeaderWrapper(t *testing.T) {
	doc := el("body", nil,
		wrapper(heading(2, "a", "A")),
		p("alpha"),
		wrapper(heading(2, "b", "B")),
		p("beta"),
	)

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "alpha", sections[0].Content)
	assert.Equal(t, "beta", sections[1].Content)
}

func TestExtract_SkipsHeadingsWithoutIDOrContent(t *testing.T) {
	doc := el("body", nil,
		heading(2, "", "Untitled"),
		p("orphan text"),
		heading(2, "empty", "Empty"),
		heading(2, "blank", "Blank"),
		p("   \n\t "),
		heading(2, "full", "Full"),
		p("  body  "),
	)

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)
	require.Equal(t, []string{"classic-full"}, ids(sections))
	assert.Equal(t, "body", sections[0].Content)
}

func TestExtract_TrimsTitleAndJoinsParts(t *testing.T) {
	doc := el("body", nil,
		heading(3, "x", "  Title  "),
		p(" one "),
		el("ul", nil, leaf("li", "two"), leaf("li", "three")),
		p(""),
		p("four"),
	)

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Title", sections[0].Title)
	assert.Equal(t, "one\ntwothree\nfour", sections[0].Content)
}

func TestExtract_RootAnchorSubtree(t *testing.T) {
	doc := el("body", nil,
		heading(2, "intro", "Intro"),
		p("before"),
		heading(2, "automation", "Automation"),
		p("root body"),
		heading(3, "first", "First"),
		p("first body"),
		heading(3, "second", "Second"),
		p("second body"),
		heading(2, "after", "After"),
		p("after body"),
	)
	src := domain.SpecSource{URL: "https://www.w3.org/TR/permissions/", Spec: domain.SpecPermissions, RootID: "automation"}

	sections, err := New(DefaultOptions()).Extract(doc, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"permissions-automation", "permissions-first", "permissions-second"}, ids(sections))
}

func TestExtract_RootAnchorStopsAtAncestorLevel(t *testing.T) {
	doc := el("body", nil,
		heading(2, "parent", "Parent"),
		p("p"),
		heading(3, "automation", "Automation"),
		p("a"),
		heading(4, "deep", "Deep"),
		p("d"),
		heading(2, "sibling-of-parent", "Other"),
		p("o"),
	)
	src := domain.SpecSource{URL: "u", Spec: domain.SpecBluetooth, RootID: "automation"}

	sections, err := New(DefaultOptions()).Extract(doc, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"bluetooth-automation", "bluetooth-deep"}, ids(sections))
}

func TestExtract_MissingRootAnchorReturnsEmpty(t *testing.T) {
	doc := el("body", nil,
		heading(2, "intro", "Intro"),
		p("text"),
	)
	src := domain.SpecSource{URL: "u", Spec: domain.SpecPrefetch, RootID: "automated-testing"}

	sections, err := New(DefaultOptions()).Extract(doc, src)
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestExtract_IDsUniqueAndContentNonEmpty(t *testing.T) {
	doc := el("body", nil,
		el("section", nil,
			wrapper(heading(2, "s1", "One")),
			p("one"),
			el("section", nil,
				wrapper(heading(3, "s1-1", "One.One")),
				p("one one"),
			),
		),
		el("section", nil,
			wrapper(heading(2, "s2", "Two")),
			el("section", nil,
				wrapper(heading(3, "s2-1", "Two.One")),
				p("two one"),
			),
		),
		heading(2, "s3", "Three"),
		p("three"),
	)

	sections, err := New(DefaultOptions()).Extract(doc, classic())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, s := range sections {
		assert.NotEmpty(t, s.Content, s.ID)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
	assert.Equal(t, []string{"classic-s1", "classic-s1-1", "classic-s2-1", "classic-s3"}, ids(sections))
}

func TestExtract_CustomPredicates(t *testing.T) {
	doc := el("body", nil,
		el("div", map[string]string{"class": "heading"}, heading(2, "a", "A")),
		p("alpha"),
		el("section", nil, p("inline section text")),
		el("aside", nil, p("stop here")),
		p("not included"),
	)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "defaults stop at section and do not recognise wrapper",
			opts: DefaultOptions(),
			want: "",
		},
		{
			name: "custom wrapper and aside boundary",
			opts: Options{IsHeaderWrapper: HasClass("div", "heading"), IsBoundary: TagIn("ASIDE")},
			want: "alpha\ninline section text",
		},
		{
			name: "from settings",
			opts: OptionsFromSettings(domain.ExtractorSettings{BoundaryTags: []string{"aside"}, HeaderWrapperClass: "heading"}),
			want: "alpha\ninline section text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, err := New(tt.opts).Extract(doc, classic())
			require.NoError(t, err)
			if tt.want == "" {
				assert.Empty(t, sections)
				return
			}
			require.Len(t, sections, 1)
			assert.Equal(t, tt.want, sections[0].Content)
		})
	}
}

func TestOptionsFromSettings_EmptyDisablesPredicates(t *testing.T) {
	opts := OptionsFromSettings(domain.ExtractorSettings{})
	sec := el("section", nil)
	wrap := wrapper(heading(2, "x", "X"))

	assert.False(t, opts.IsBoundary(sec))
	assert.False(t, opts.IsHeaderWrapper(wrap))
}

func TestNew_NilPredicatesUseDefaults(t *testing.T) {
	e := New(Options{})
	assert.True(t, e.opts.IsBoundary(el("section", nil)))
	assert.True(t, e.opts.IsHeaderWrapper(el("div", map[string]string{"class": "x header-wrapper"})))
}

func TestExtract_NilRoot(t *testing.T) {
	_, err := New(DefaultOptions()).Extract(nil, classic())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"h1", 1},
		{"h6", 6},
		{"h7", 0},
		{"hr", 0},
		{"p", 0},
		{"header", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headingLevel(leaf(tt.tag, "")), tt.tag)
	}
}
