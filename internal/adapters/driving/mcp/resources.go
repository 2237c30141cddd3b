package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	uriScheme    = "specmcp://"
	URIStats     = uriScheme + "stats"
	URISources   = uriScheme + "sources"
	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         URIStats,
		Name:        "stats",
		Description: "Current generation of the section store: section count, vector dimension, creation time",
		MIMEType:    jsonMIMEType,
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         URISources,
		Name:        "sources",
		Description: "Specification documents the ingestion catalog covers",
		MIMEType:    jsonMIMEType,
	}, s.handleSourcesResource)
}

type statsInfo struct {
	Exists     bool   `json:"exists"`
	Generation string `json:"generation,omitempty"`
	Sections   int    `json:"sections"`
	Dimensions int    `json:"dimensions"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type sourceInfo struct {
	URL    string `json:"url"`
	Spec   string `json:"spec"`
	RootID string `json:"root_id,omitempty"`
}

func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	info := statsInfo{
		Exists:     stats.Exists,
		Generation: stats.Generation,
		Sections:   stats.Sections,
		Dimensions: stats.Dimensions,
	}
	if !stats.CreatedAt.IsZero() {
		info.CreatedAt = stats.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := make([]sourceInfo, len(s.ports.Sources))
	for i, src := range s.ports.Sources {
		infos[i] = sourceInfo{URL: src.URL, Spec: string(src.Spec), RootID: src.RootID}
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	text, err := marshalIndent(v)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     text,
		}},
	}, nil
}
