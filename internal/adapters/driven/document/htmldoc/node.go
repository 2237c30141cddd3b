package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure node implements the interface.
var _ driven.DocumentNode = (*node)(nil)

// node adapts an *html.Node to driven.DocumentNode.
// Only element nodes and the document root are ever wrapped.
type node struct {
	n *html.Node
}

// Parse reads an HTML document and returns its root.
// The root has an empty tag; its only element child is <html>.
func Parse(r io.Reader) (driven.DocumentNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &node{n: doc}, nil
}

func wrap(n *html.Node) driven.DocumentNode {
	if n == nil {
		return nil
	}
	return &node{n: n}
}

func (d *node) Tag() string {
	if d.n.Type != html.ElementNode {
		return ""
	}
	return d.n.Data
}

func (d *node) Attr(name string) string {
	for _, a := range d.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Text mirrors the DOM textContent property: the concatenated data of every
// descendant text node.
func (d *node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.n)
	return b.String()
}

// Parent returns the parent element. Like parentElement, it is nil for
// <html> and for the document root.
func (d *node) Parent() driven.DocumentNode {
	p := d.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return wrap(p)
}

func (d *node) NextSibling() driven.DocumentNode {
	for s := d.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return wrap(s)
		}
	}
	return nil
}

func (d *node) Children() []driven.DocumentNode {
	var out []driven.DocumentNode
	for c := d.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, wrap(c))
		}
	}
	return out
}
