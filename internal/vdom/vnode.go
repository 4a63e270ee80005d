// Package vdom is a minimal virtual DOM: plain Node values built with H and
// Text, and a Render function that turns them into golang.org/x/net/html
// trees for assertions.
package vdom

import (
	"fmt"
	"strings"
)

// Props holds element properties. Values may be strings, bools, integers or
// anything with a fmt representation.
type Props map[string]any

// Node is a virtual DOM node. A Node with an empty Tag is a text node.
type Node struct {
	Tag      string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Props    Props  `yaml:"props,omitempty" json:"props,omitempty"`
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
	Text     string `yaml:"text,omitempty" json:"text,omitempty"`
}

// H builds an element node. The selector follows hyperscript conventions:
// "div", "div.counter", "button#inc.btn.primary". Classes and id from the
// selector are merged with props (props win for id, classes are appended).
func H(selector string, props Props, children ...Node) Node {
	tag, id, classes := parseSelector(selector)

	merged := Props{}
	if id != "" {
		merged["id"] = id
	}
	if len(classes) > 0 {
		merged["class"] = strings.Join(classes, " ")
	}
	for k, v := range props {
		if k == "class" || k == "className" {
			if existing, ok := merged["class"].(string); ok && existing != "" {
				merged["class"] = existing + " " + fmt.Sprint(v)
				continue
			}
			merged["class"] = v
			continue
		}
		merged[k] = v
	}
	if len(merged) == 0 {
		merged = nil
	}

	return Node{Tag: tag, Props: merged, Children: children}
}

// Text builds a text node.
func Text(s string) Node {
	return Node{Text: s}
}

// Textf builds a text node from a format string.
func Textf(format string, args ...any) Node {
	return Node{Text: fmt.Sprintf(format, args...)}
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool {
	return n.Tag == ""
}

// parseSelector splits "tag#id.class1.class2" into its parts.
// A selector without a tag defaults to div.
func parseSelector(sel string) (tag, id string, classes []string) {
	tag = sel
	if i := strings.IndexAny(sel, "#."); i >= 0 {
		tag = sel[:i]
		rest := sel[i:]
		for rest != "" {
			marker := rest[0]
			rest = rest[1:]
			end := strings.IndexAny(rest, "#.")
			if end < 0 {
				end = len(rest)
			}
			part := rest[:end]
			rest = rest[end:]
			if part == "" {
				continue
			}
			if marker == '#' {
				id = part
			} else {
				classes = append(classes, part)
			}
		}
	}
	if tag == "" {
		tag = "div"
	}
	return tag, id, classes
}
