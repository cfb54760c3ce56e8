package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/linkscout/internal/crawler"
	"github.com/JakeFAU/linkscout/internal/logsink"
	"github.com/JakeFAU/linkscout/internal/logsink/logsinktest"
)

const scenarioPage = `<html><head><title>Hi</title></head><body><a href="https://x/1">l</a><img src="https://x/2"></body></html>`

func TestExtractLinksAnchorsThenImages(t *testing.T) {
	t.Parallel()

	rec := &logsinktest.Recorder{}
	e := New(rec, nil)

	body := `<body>
		<img src="https://img/1">
		<a href="https://a/1">one</a>
		<img src="https://img/2">
		<a href="https://a/2">two</a>
	</body>`

	assert.Equal(t, []string{"https://a/1", "https://a/2", "https://img/1", "https://img/2"}, e.ExtractLinks(body))
	assert.Empty(t, rec.Entries())
}

func TestExtractLinksSkipsMissingAndEmptyAttributes(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	body := `<a>none</a><a href="">empty</a><a href="/rel">rel</a><img><img src=""><img src="pic.png">`

	assert.Equal(t, []string{"/rel", "pic.png"}, e.ExtractLinks(body))
}

func TestExtractLinksKeepsDuplicates(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	body := `<a href="https://dup">1</a><a href="https://dup">2</a><img src="https://dup">`

	assert.Equal(t, []string{"https://dup", "https://dup", "https://dup"}, e.ExtractLinks(body))
}

func TestExtractLinksScenarioPage(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	assert.Equal(t, []string{"https://x/1", "https://x/2"}, e.ExtractLinks(scenarioPage))
}

func TestExtractLinksNoLinks(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	assert.Empty(t, e.ExtractLinks("plain text, no markup"))
}

func TestExtractMetadata(t *testing.T) {
	t.Parallel()

	rec := &logsinktest.Recorder{}
	e := New(rec, nil)
	body := `<html><head>
		<title>Catalog</title>
		<meta name="keywords" content="ignored">
		<meta name="description" content="All the things">
		<meta name="description" content="second">
	</head><body>
		<h1>  Top  </h1>
		<p>text</p>
		<h2>Sub <em>section</em></h2>
		<hr>
		<h6>Deep</h6>
	</body></html>`

	meta, err := e.ExtractMetadata(body, "https://catalog.example/")
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example/", meta.URL)
	assert.Equal(t, "Catalog", meta.Title)
	assert.Equal(t, "All the things", meta.MetaDescription)
	assert.Equal(t, []crawler.Heading{
		{Tag: "h1", Text: "Top"},
		{Tag: "h2", Text: "Sub section"},
		{Tag: "hr", Text: ""},
		{Tag: "h6", Text: "Deep"},
	}, meta.Headings)
	assert.Empty(t, rec.Entries())
}

func TestExtractMetadataDefaults(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)
	meta, err := e.ExtractMetadata(`<html><body><p>nothing here</p></body></html>`, "https://bare.example/")
	require.NoError(t, err)

	assert.Equal(t, crawler.DefaultTitle, meta.Title)
	assert.Equal(t, crawler.DefaultDescription, meta.MetaDescription)
	assert.Empty(t, meta.Headings)
}

func TestExtractMetadataMalformedHTML(t *testing.T) {
	t.Parallel()

	rec := &logsinktest.Recorder{}
	e := New(rec, nil)
	meta, err := e.ExtractMetadata(`<title>Broken<h1>Unclosed <b>bold`, "https://broken.example/")
	require.NoError(t, err)

	assert.Equal(t, "https://broken.example/", meta.URL)
	assert.NotEmpty(t, meta.Title)
	assert.Empty(t, rec.Messages(logsink.LevelError))
}

func TestHeadingString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "h3: Price", crawler.Heading{Tag: "h3", Text: "Price"}.String())
}
