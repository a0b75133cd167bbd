package rewriter

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceURL = "https://example.com/"

func parse(t *testing.T, content string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

func TestRewriteSubstitutesTextAndTitle(t *testing.T) {
	input := `<html><head><title>Yale Test</title></head><body><p>Welcome to Yale</p></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	assert.Equal(t, "Fale Test", result.Title)
	assert.Contains(t, result.Content, "Welcome to Fale")
	assert.NotContains(t, result.Content, "Yale")
}

func TestRewriteCaseVariants(t *testing.T) {
	input := `<html><body><p>Yale YALE yale YaLe</p></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, result.Content, "Fale FALE fale YaLe")
}

func TestRewriteSkipsScriptAndStyle(t *testing.T) {
	input := `<html><head>
		<script>var school = "Yale";</script>
		<style>.yale { color: blue; }</style>
	</head><body><p>Yale</p></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, result.Content, `var school = "Yale";`)
	assert.Contains(t, result.Content, ".yale { color: blue; }")
	assert.Contains(t, result.Content, "<p>Fale</p>")
}

func TestRewriteAbsolutizesAttributes(t *testing.T) {
	input := `<html><body>
		<img src="images/photo.jpg">
		<a href="/about">About</a>
		<form action="submit.php"></form>
		<img data-src="lazy/pic.png">
	</body></html>`

	result, err := New(nil).Rewrite(input, "https://site.com/page")
	require.NoError(t, err)

	doc := parse(t, result.Content)
	src, _ := doc.Find("img[src]").Attr("src")
	assert.Equal(t, "https://site.com/images/photo.jpg", src)
	href, _ := doc.Find("a").Attr("href")
	assert.Equal(t, "https://site.com/about", href)
	action, _ := doc.Find("form").Attr("action")
	assert.Equal(t, "https://site.com/submit.php", action)
	dataSrc, _ := doc.Find("img[data-src]").Attr("data-src")
	assert.Equal(t, "https://site.com/lazy/pic.png", dataSrc)
}

func TestRewriteLeavesAbsoluteAndInlineValues(t *testing.T) {
	values := []string{
		"http://other.com/a.js",
		"https://other.com/b.css",
		"//cdn.example/c.png",
		"#section",
		"javascript:void(0)",
		"data:image/png;base64,iVBORw0KGgo=",
	}

	for _, val := range values {
		input := `<html><body><a href="` + val + `">x</a></body></html>`
		result, err := New(nil).Rewrite(input, sourceURL)
		require.NoError(t, err)

		doc := parse(t, result.Content)
		href, _ := doc.Find("a").Attr("href")
		assert.Equal(t, val, href)
	}
}

func TestRewriteInsertsBaseTag(t *testing.T) {
	input := `<html><head><title>Page</title></head><body></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	doc := parse(t, result.Content)
	assert.Equal(t, 1, doc.Find("base").Length())
	assert.True(t, doc.Find("head").Children().First().Is("base"))
	href, _ := doc.Find("base").Attr("href")
	assert.Equal(t, sourceURL, href)
}

func TestRewriteKeepsExistingBase(t *testing.T) {
	input := `<html><head><base href="https://other.example/root/"><title>Page</title></head><body></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	doc := parse(t, result.Content)
	assert.Equal(t, 1, doc.Find("base").Length())
	href, _ := doc.Find("base").Attr("href")
	assert.Equal(t, "https://other.example/root/", href)
}

func TestRewriteInjectsResponsiveStyle(t *testing.T) {
	input := `<html><head></head><body></body></html>`

	result, err := New(nil).Rewrite(input, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, result.Content, "max-width: 100%")
	assert.Contains(t, result.Content, "font-family")
}

func TestRewriteCustomRules(t *testing.T) {
	rules := []Replacement{{Match: "Harvard", Replace: "Hale"}}
	input := `<html><body><p>Harvard and Yale</p></body></html>`

	result, err := New(rules).Rewrite(input, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, result.Content, "Hale and Yale")
}

func TestRewriteInvalidSourceURL(t *testing.T) {
	_, err := New(nil).Rewrite("<html></html>", "https://bad url with spaces\x7f")
	assert.Error(t, err)
}

func TestDefaultReplacements(t *testing.T) {
	rules := DefaultReplacements()
	require.Len(t, rules, 3)
	assert.Equal(t, Replacement{Match: "Yale", Replace: "Fale"}, rules[0])
}
