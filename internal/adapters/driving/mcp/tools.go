package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Tool names.
const (
	ToolSearchSpecs = "search_specs"
	ToolReadSection = "read_spec_section"
	ToolAsk         = "ask_webdriver"
)

// SearchInput is the input schema for search_specs.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query (e.g. 'how to create a session', 'browsing context', 'navigation')"`
}

// ReadInput is the input schema for read_spec_section.
type ReadInput struct {
	URL string `json:"url" jsonschema:"the URL of the section to read (returned by search_specs)"`
}

// AskInput is the input schema for ask_webdriver.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to ask"`
}

// SearchResultOutput is one entry of the search_specs JSON array.
type SearchResultOutput struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Spec    string `json:"spec"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchSpecs,
		Description: "Search the WebDriver BiDi and Classic specifications for relevant sections.",
		Annotations: readOnly,
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolReadSection,
		Description: "Read the full content of a specific section from the WebDriver specs.",
		Annotations: readOnly,
	}, s.handleRead)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAsk,
		Description: "Ask a question about WebDriver specs and get a generated answer based on the documentation.",
		Annotations: readOnly,
	}, s.handleAsk)
}

// handleSearch returns a JSON array of section previews.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, any, error) {
	results, err := s.ports.Retrieval.Search(ctx, input.Query, 0)
	if err != nil {
		return toolError(ToolSearchSpecs, err), nil, nil
	}

	out := make([]SearchResultOutput, len(results))
	for i := range results {
		out[i] = SearchResultOutput{
			Title:   results[i].Title,
			URL:     results[i].URL,
			Content: results[i].Preview(),
			Spec:    string(results[i].Spec),
		}
	}

	text, err := marshalIndent(out)
	if err != nil {
		return toolError(ToolSearchSpecs, err), nil, nil
	}
	return textResult(text), nil, nil
}

// handleRead returns the full section as markdown.
func (s *Server) handleRead(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadInput,
) (*mcp.CallToolResult, any, error) {
	sec, err := s.ports.Retrieval.Read(ctx, input.URL)
	if errors.Is(err, domain.ErrSectionNotFound) {
		res := textResult("Section not found for URL: " + input.URL)
		res.IsError = true
		return res, nil, nil
	}
	if err != nil {
		return toolError(ToolReadSection, err), nil, nil
	}
	return textResult("# " + sec.Title + "\n\n" + sec.Content), nil, nil
}

// handleAsk returns the generated answer unmodified.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, any, error) {
	answer, err := s.ports.Retrieval.Ask(ctx, input.Question)
	if err != nil {
		return toolError(ToolAsk, err), nil, nil
	}
	return textResult(answer), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// toolError reports a failure to the client without failing the request.
func toolError(tool string, err error) *mcp.CallToolResult {
	var exhausted *domain.ProviderExhaustedError
	if errors.As(err, &exhausted) {
		logger.Error("%s: every %s backend failed, last tried %s: %v",
			tool, exhausted.Chain, exhausted.LastBackend(), err)
	} else {
		logger.Error("%s: %v", tool, err)
	}
	res := textResult(fmt.Sprintf("Error: %v", err))
	res.IsError = true
	return res
}

// marshalIndent encodes v with two-space indentation and without HTML
// escaping, so markup in section text stays readable.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
