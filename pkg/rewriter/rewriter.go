package rewriter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Replacement is a literal, case-sensitive substitution applied globally to
// every text node outside <script> and <style> subtrees.
type Replacement struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// DefaultReplacements returns the built-in rule set. The three fixed casings
// are intentional: mixed-case variants like "YaLe" are never matched.
func DefaultReplacements() []Replacement {
	return []Replacement{
		{Match: "Yale", Replace: "Fale"},
		{Match: "YALE", Replace: "FALE"},
		{Match: "yale", Replace: "fale"},
	}
}

// responsiveStyle is appended to <head> of every rewritten page so the
// document renders sensibly inside the landing page's iframe.
const responsiveStyle = `<style>
img, video, iframe { max-width: 100%; height: auto; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
</style>`

// Attributes that may carry resource URLs.
var urlAttrs = []string{"src", "href", "action", "data-src"}

// Values with these prefixes are already absolute, fragment-only, or inline
// payloads and must not be rewritten.
var skipPrefixes = []string{"http", "//", "#", "javascript:", "data:"}

// Result is the outcome of a rewrite pass.
type Result struct {
	Content string
	Title   string
}

// Rewriter transforms fetched HTML: it absolutizes resource URLs against the
// source page, applies the replacement rules to visible text, ensures a
// <base> tag and injects the responsive style block.
type Rewriter struct {
	rules []Replacement
}

// New creates a Rewriter. An empty rule list falls back to the defaults.
func New(rules []Replacement) *Rewriter {
	if len(rules) == 0 {
		rules = DefaultReplacements()
	}
	return &Rewriter{rules: rules}
}

// Rules returns the active replacement rules.
func (rw *Rewriter) Rules() []Replacement {
	return rw.rules
}

// Rewrite parses rawHTML, mutates the document in place and serializes it
// back. Each call parses its own tree; nothing is shared between calls.
func (rw *Rewriter) Rewrite(rawHTML, sourceURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Result{}, fmt.Errorf("error parsing HTML: %w", err)
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return Result{}, fmt.Errorf("error parsing source URL '%s': %w", sourceURL, err)
	}

	ensureBaseTag(doc, sourceURL)
	absolutizeAttrs(doc, base)

	for _, n := range doc.Selection.Nodes {
		rw.substituteText(n)
	}

	// The walk above already covered the title's text node.
	title := doc.Find("title").First().Text()

	doc.Find("head").First().AppendHtml(responsiveStyle)

	out, err := doc.Html()
	if err != nil {
		return Result{}, fmt.Errorf("error rendering HTML: %w", err)
	}

	return Result{Content: out, Title: title}, nil
}

// ensureBaseTag inserts <base href="{sourceURL}"> as the first child of
// <head> unless a base with a non-empty href is already present. An existing
// base is left untouched.
func ensureBaseTag(doc *goquery.Document, sourceURL string) {
	if href, ok := doc.Find("head base").First().Attr("href"); ok && href != "" {
		return
	}
	doc.Find("head").First().PrependHtml(`<base href="` + html.EscapeString(sourceURL) + `">`)
}

// absolutizeAttrs resolves relative resource URLs against the source URL.
// Resolution always uses the source URL passed to Rewrite, never a <base>
// discovered in the document.
func absolutizeAttrs(doc *goquery.Document, base *url.URL) {
	doc.Find("[src], [href], [action], [data-src]").Each(func(_ int, s *goquery.Selection) {
		if s.Is("base") {
			return
		}
		for _, attr := range urlAttrs {
			val, ok := s.Attr(attr)
			if !ok || val == "" || hasSkipPrefix(val) {
				continue
			}
			ref, err := url.Parse(val)
			if err != nil {
				continue
			}
			s.SetAttr(attr, base.ResolveReference(ref).String())
		}
	})
}

func hasSkipPrefix(val string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(val, prefix) {
			return true
		}
	}
	return false
}

// substituteText walks the tree depth-first, rewriting text nodes. Script and
// style subtrees are skipped entirely.
func (rw *Rewriter) substituteText(n *html.Node) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		replaced := n.Data
		for _, rule := range rw.rules {
			replaced = strings.ReplaceAll(replaced, rule.Match, rule.Replace)
		}
		if replaced != n.Data {
			n.Data = replaced
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rw.substituteText(c)
	}
}
