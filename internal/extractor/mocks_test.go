package extractor

import (
	"strings"

	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// fakeNode is a synthetic element used to build document trees in tests.
type fakeNode struct {
	tag      string
	attrs    map[string]string
	text     string
	parent   *fakeNode
	children []*fakeNode
}

func el(tag string, attrs map[string]string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{tag: tag, attrs: attrs, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

func leaf(tag, text string) *fakeNode {
	return &fakeNode{tag: tag, text: text}
}

func heading(level int, id, title string) *fakeNode {
	n := leaf("h"+string(rune('0'+level)), title)
	if id != "" {
		n.attrs = map[string]string{"id": id}
	}
	return n
}

func p(text string) *fakeNode {
	return leaf("p", text)
}

func wrapper(h *fakeNode) *fakeNode {
	return el("div", map[string]string{"class": "header-wrapper"}, h)
}

func (n *fakeNode) Tag() string { return n.tag }

func (n *fakeNode) Attr(name string) string { return n.attrs[name] }

func (n *fakeNode) Text() string {
	if len(n.children) == 0 {
		return n.text
	}
	var b strings.Builder
	b.WriteString(n.text)
	for _, c := range n.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func (n *fakeNode) Parent() driven.DocumentNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *fakeNode) NextSibling() driven.DocumentNode {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	for i, s := range siblings {
		if s == n && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

func (n *fakeNode) Children() []driven.DocumentNode {
	out := make([]driven.DocumentNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
