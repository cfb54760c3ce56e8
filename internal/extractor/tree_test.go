package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestAllDescendantsDocumentOrder(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<div><p id="a"><span id="b"></span></p><p id="c"></p></div>`)
	require.NoError(t, err)

	var ids []string
	for _, n := range AllDescendants(doc, func(n *html.Node) bool {
		_, ok := Attribute(n, "id")
		return ok
	}) {
		id, _ := Attribute(n, "id")
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestAllDescendantsNilInputs(t *testing.T) {
	t.Parallel()

	assert.Nil(t, AllDescendants(nil, nil))

	doc, err := Parse(`<p>x</p>`)
	require.NoError(t, err)
	assert.NotEmpty(t, AllDescendants(doc, nil))
}

func TestAttribute(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<a href="" title="t">x</a>`)
	require.NoError(t, err)
	anchors := AllDescendants(doc, IsElement("a"))
	require.Len(t, anchors, 1)

	v, ok := Attribute(anchors[0], "href")
	assert.True(t, ok)
	assert.Empty(t, v)

	v, ok = Attribute(anchors[0], "title")
	assert.True(t, ok)
	assert.Equal(t, "t", v)

	_, ok = Attribute(anchors[0], "rel")
	assert.False(t, ok)

	_, ok = Attribute(nil, "href")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<h2>Sub <em>section</em> end</h2>`)
	require.NoError(t, err)
	headings := AllDescendants(doc, IsElement("h2"))
	require.Len(t, headings, 1)

	assert.Equal(t, "Sub section end", Text(headings[0]))
	assert.Empty(t, Text(nil))
}
