// Package htmldoc implements driven.DocumentSource over HTTP and
// golang.org/x/net/html.
//
// Downloads are traced with otelhttp and spaced by a token bucket so a
// full ingestion does not hammer the W3C hosts.
package htmldoc
