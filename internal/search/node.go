// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// node is a minimal XML element tree. The efetch schema nests the same
// fields at different depths depending on article type, so extraction works
// on a generic tree with depth-agnostic lookups rather than fixed structs.
type node struct {
	name     string
	text     string
	children []*node
}

// decodeTree parses payload into a tree rooted at the document element.
func decodeTree(payload []byte) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(payload))
	d.Entity = xml.HTMLEntity

	var (
		root  *node
		stack []*node
		texts []*strings.Builder
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, fmt.Errorf("multiple root elements (%s, %s)", root.name, n.name)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.CharData:
			// Inline markup such as <i> or <sup> contributes to every
			// enclosing element's text.
			for _, b := range texts {
				b.Write(t)
			}
		case xml.EndElement:
			last := len(stack) - 1
			stack[last].text = strings.Join(strings.Fields(texts[last].String()), " ")
			stack, texts = stack[:last], texts[:last]
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// find returns the first element matching path in document order. The first
// path step matches at any depth below n; later steps match direct children,
// so "PubDate/Year" finds a Year directly under any PubDate.
func (n *node) find(path string) *node {
	steps := strings.Split(path, "/")
	var found *node
	n.walk(func(d *node) bool {
		if d.name != steps[0] {
			return true
		}
		if m := d.descend(steps[1:]); m != nil {
			found = m
			return false
		}
		return true
	})
	return found
}

// findAll returns every element below n named tag, in document order.
func (n *node) findAll(tag string) []*node {
	var out []*node
	n.walk(func(d *node) bool {
		if d.name == tag {
			out = append(out, d)
		}
		return true
	})
	return out
}

// child returns the first direct child named tag.
func (n *node) child(tag string) *node {
	for _, c := range n.children {
		if c.name == tag {
			return c
		}
	}
	return nil
}

func (n *node) descend(steps []string) *node {
	if len(steps) == 0 {
		return n
	}
	for _, c := range n.children {
		if c.name != steps[0] {
			continue
		}
		if m := c.descend(steps[1:]); m != nil {
			return m
		}
	}
	return nil
}

// walk visits the descendants of n (not n itself) depth-first in document
// order until visit returns false.
func (n *node) walk(visit func(*node) bool) bool {
	for _, c := range n.children {
		if !visit(c) || !c.walk(visit) {
			return false
		}
	}
	return true
}

// firstText returns the trimmed text of the first element matching path.
// The second result is false when there is no such element or its text is
// empty, so callers can apply one uniform default-on-missing policy.
func firstText(n *node, path string) (string, bool) {
	m := n.find(path)
	if m == nil || m.text == "" {
		return "", false
	}
	return m.text, true
}

// childText is firstText restricted to the direct children of n.
func childText(n *node, tag string) (string, bool) {
	c := n.child(tag)
	if c == nil || c.text == "" {
		return "", false
	}
	return c.text, true
}
