// Package mcp provides an MCP (Model Context Protocol) server adapter for specmcp.
// It exposes the WebDriver specification retrieval tools to agent hosts over stdio or
// streamable HTTP.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
