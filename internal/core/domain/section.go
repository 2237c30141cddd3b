package domain

import "time"

// SpecFamily tags which source document family a section belongs to.
type SpecFamily string

// Well-known spec families.
const (
	SpecClassic       SpecFamily = "classic"
	SpecBiDi          SpecFamily = "bidi"
	SpecPermissions   SpecFamily = "permissions"
	SpecPrefetch      SpecFamily = "prefetch"
	SpecBluetooth     SpecFamily = "bluetooth"
	SpecUAClientHints SpecFamily = "ua-client-hints"
)

// String returns the string representation.
func (f SpecFamily) String() string {
	return string(f)
}

// Section is the unit of retrieval: one heading of a specification
// together with the body text that follows it.
type Section struct {
	// ID is SpecFamily + "-" + heading id. Unique within an ingested batch.
	ID string

	// Title is the heading text.
	Title string

	// Content is the body text between this heading and the next boundary.
	// Never empty for a stored section.
	Content string

	// URL is the document URL plus "#" + heading id. Exact-match lookup key.
	URL string

	// Spec identifies the source document family.
	Spec SpecFamily

	// Vector is the embedding of EmbeddingText(). Nil until ingested.
	Vector []float32

	// Distance is set only on search results. Lower is more similar.
	Distance *float64
}

// EmbeddingText returns the text that is embedded for this section.
func (s Section) EmbeddingText() string {
	return s.Title + "\n" + s.Content
}

// PreviewLength is the number of characters kept by Section.Preview.
const PreviewLength = 500

// Preview returns the first PreviewLength characters of the content
// followed by "...". The marker is appended even to short content.
func (s Section) Preview() string {
	runes := []rune(s.Content)
	if len(runes) > PreviewLength {
		runes = runes[:PreviewLength]
	}
	return string(runes) + "..."
}

// SpecSource describes one specification document to ingest.
type SpecSource struct {
	// URL is the absolute address of the HTML document.
	URL string

	// Spec is the family tag given to every section of this document.
	Spec SpecFamily

	// RootID optionally restricts extraction to the subtree under the
	// heading with this id.
	RootID string
}

// DefaultSources returns the built-in specification catalog.
func DefaultSources() []SpecSource {
	return []SpecSource{
		{URL: "https://www.w3.org/TR/webdriver/", Spec: SpecClassic},
		{URL: "https://w3c.github.io/webdriver-bidi/", Spec: SpecBiDi},
		{URL: "https://www.w3.org/TR/permissions/", Spec: SpecPermissions, RootID: "automation"},
		{URL: "https://wicg.github.io/nav-speculation/prefetch.html", Spec: SpecPrefetch, RootID: "automated-testing"},
		{URL: "https://webbluetoothcg.github.io/web-bluetooth/", Spec: SpecBluetooth, RootID: "automated-testing"},
		{URL: "https://wicg.github.io/ua-client-hints", Spec: SpecUAClientHints, RootID: "automation"},
	}
}

// StoreStats describes the current generation of the vector store.
type StoreStats struct {
	// Exists is false when no ingestion has run yet.
	Exists bool

	// Generation identifies the batch written by the last upsert.
	Generation string

	// Sections is the number of stored sections.
	Sections int

	// Dimensions is the vector length shared by every stored section.
	Dimensions int

	// CreatedAt is when the generation was written.
	CreatedAt time.Time
}

// DocumentReport summarises ingestion of one SpecSource.
type DocumentReport struct {
	Source    SpecSource
	Extracted int
	Embedded  int
	Skipped   int
	Err       error
}

// IngestReport summarises a full ingestion run.
type IngestReport struct {
	Documents  []DocumentReport
	Stored     int
	Dimensions int
	Backend    string
	Duration   time.Duration
}
