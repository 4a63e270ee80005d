package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// propAliases maps DOM property names to their attribute names.
var propAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// voidTags cannot have children.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render converts a virtual node into a detached *html.Node tree.
//
// Attributes are emitted in sorted key order so rendered output is
// deterministic. Boolean props render as empty attributes when true and are
// omitted when false; nil props are omitted. class and className both render
// to class, with their values joined by a space; any other pair of props that
// alias to the same attribute is an error.
func Render(n Node) (*html.Node, error) {
	return render(n, "root")
}

func render(n Node, path string) (*html.Node, error) {
	if n.IsText() {
		if len(n.Props) > 0 || len(n.Children) > 0 {
			return nil, fmt.Errorf("%s: text node cannot have props or children", path)
		}
		return &html.Node{Type: html.TextNode, Data: n.Text}, nil
	}

	if strings.ContainsAny(n.Tag, " <>/\"'=") {
		return nil, fmt.Errorf("%s: invalid tag name %q", path, n.Tag)
	}
	if n.Text != "" {
		return nil, fmt.Errorf("%s: element <%s> has text set; use a text child instead", path, n.Tag)
	}
	tag := strings.ToLower(n.Tag)
	if voidTags[tag] && len(n.Children) > 0 {
		return nil, fmt.Errorf("%s: void element <%s> cannot have children", path, tag)
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}

	attrs, err := renderAttrs(n.Props)
	if err != nil {
		return nil, fmt.Errorf("%s: <%s>: %w", path, tag, err)
	}
	el.Attr = attrs

	for i, child := range n.Children {
		c, err := render(child, fmt.Sprintf("%s/%s[%d]", path, tag, i))
		if err != nil {
			return nil, err
		}
		el.AppendChild(c)
	}

	return el, nil
}

func renderAttrs(props Props) ([]html.Attribute, error) {
	if len(props) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)

	byKey := make(map[string]string, len(props))
	from := make(map[string]string, len(props))
	for _, k := range names {
		v := props[k]
		key := k
		if alias, ok := propAliases[k]; ok {
			key = alias
		}
		if key == "" || strings.ContainsAny(key, " <>/\"'=") {
			return nil, fmt.Errorf("invalid attribute name %q", k)
		}

		val, keep, err := attrValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		if !keep {
			continue
		}
		if prev, dup := from[key]; dup {
			if key != "class" {
				return nil, fmt.Errorf("duplicate attribute %q from props %q and %q", key, prev, k)
			}
			if val != "" {
				val = strings.TrimSpace(byKey[key] + " " + val)
			} else {
				val = byKey[key]
			}
		}
		from[key] = k
		byKey[key] = val
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: byKey[k]})
	}
	return attrs, nil
}

// attrValue converts a prop value to its attribute text. keep is false for
// values that remove the attribute (nil, false).
func attrValue(v any) (val string, keep bool, err error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case bool:
		return "", x, nil
	case string:
		return x, true, nil
	case int:
		return strconv.Itoa(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true, nil
	case fmt.Stringer:
		return x.String(), true, nil
	case map[string]any, []any:
		return "", false, fmt.Errorf("unsupported value type %T", v)
	default:
		return fmt.Sprint(v), true, nil
	}
}

// RenderString renders n and serializes the result as HTML.
func RenderString(n Node) (string, error) {
	root, err := Render(n)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	return b.String(), nil
}
