package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestH_ParsesSelector(t *testing.T) {
	tests := []struct {
		selector  string
		wantTag   string
		wantProps Props
	}{
		{"div", "div", nil},
		{"div.counter", "div", Props{"class": "counter"}},
		{"button#inc.btn.primary", "button", Props{"id": "inc", "class": "btn primary"}},
		{".bare", "div", Props{"class": "bare"}},
		{"span#only", "span", Props{"id": "only"}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			n := H(tt.selector, nil)
			assert.Equal(t, tt.wantTag, n.Tag)
			assert.Equal(t, tt.wantProps, n.Props)
		})
	}
}

func TestH_MergesClassProps(t *testing.T) {
	n := H("div.a", Props{"className": "b", "title": "t"})
	assert.Equal(t, Props{"class": "a b", "title": "t"}, n.Props)
}

func TestText(t *testing.T) {
	n := Text("hi")
	assert.True(t, n.IsText())
	assert.Equal(t, "hi", n.Text)
	assert.Equal(t, "count: 3", Textf("count: %d", 3).Text)
}

func TestRender_BuildsHTMLTree(t *testing.T) {
	root, err := Render(H("div.counter", nil, H("span", nil, Text("Count: 0"))))
	require.NoError(t, err)

	assert.Equal(t, html.ElementNode, root.Type)
	assert.Equal(t, atom.Div, root.DataAtom)
	assert.Equal(t, []html.Attribute{{Key: "class", Val: "counter"}}, root.Attr)

	span := root.FirstChild
	require.NotNil(t, span)
	assert.Equal(t, "span", span.Data)
	require.NotNil(t, span.FirstChild)
	assert.Equal(t, html.TextNode, span.FirstChild.Type)
	assert.Equal(t, "Count: 0", span.FirstChild.Data)
}

func TestRenderString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "nested",
			node: H("div.counter", nil, H("span", nil, Text("Count: 0"))),
			want: `<div class="counter"><span>Count: 0</span></div>`,
		},
		{
			name: "sorted attributes",
			node: H("input", Props{"type": "text", "name": "q", "value": 3}),
			want: `<input name="q" type="text" value="3"/>`,
		},
		{
			name: "boolean attributes",
			node: H("button", Props{"disabled": true, "hidden": false}, Text("go")),
			want: `<button disabled="">go</button>`,
		},
		{
			name: "aliases",
			node: H("label", Props{"htmlFor": "q"}),
			want: `<label for="q"></label>`,
		},
		{
			name: "escapes text",
			node: H("p", nil, Text("a < b & c")),
			want: `<p>a &lt; b &amp; c</p>`,
		},
		{
			name: "text only",
			node: Text("plain"),
			want: `plain`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderString(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ClassAndClassNameMerge(t *testing.T) {
	node := Node{Tag: "div", Props: Props{"class": "a", "className": "b", "id": "x"}}
	for i := 0; i < 50; i++ {
		got, err := RenderString(node)
		require.NoError(t, err)
		require.Equal(t, `<div class="a b" id="x"></div>`, got)
	}

	got, err := RenderString(Node{Tag: "div", Props: Props{"class": "a", "className": nil}})
	require.NoError(t, err)
	assert.Equal(t, `<div class="a"></div>`, got)
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"void with children", H("br", nil, Text("x")), "void element <br> cannot have children"},
		{"invalid tag", Node{Tag: "a b"}, "invalid tag name"},
		{"text with children", Node{Children: []Node{Text("x")}}, "text node cannot have props or children"},
		{"element with text", Node{Tag: "p", Text: "x"}, "use a text child"},
		{"nested path", H("ul", nil, H("li", nil), H("img", nil, Text("x"))), "root/ul[1]"},
		{"map prop", H("div", Props{"style": map[string]any{"color": "red"}}), "unsupported value type"},
		{"for and htmlFor", H("label", Props{"for": "a", "htmlFor": "b"}), `duplicate attribute "for"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
