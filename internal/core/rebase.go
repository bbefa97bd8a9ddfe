package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// urlAttrs lists the elements and attributes that carry resource URLs.
var urlAttrs = []struct {
	selector string
	attr     string
}{
	{"a[href]", "href"},
	{"img[src]", "src"},
	{"link[href]", "href"},
	{"source[src]", "src"},
}

// RebaseResult is extracted HTML made standalone.
type RebaseResult struct {
	HTML string
	// Title is the document title, falling back to the first heading.
	Title string
}

// RebaseHTML rewrites every relative URL in html against baseURL so the
// document can be shown outside the page it was extracted from. Nothing is
// fetched. Links with unsafe schemes lose their URL attribute and srcset is
// dropped.
func RebaseHTML(html, baseURL string) (RebaseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return RebaseResult{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return RebaseResult{}, fmt.Errorf("invalid base URL: %w", err)
	}
	if !base.IsAbs() {
		return RebaseResult{}, fmt.Errorf("invalid base URL %q: not absolute", baseURL)
	}

	for _, ua := range urlAttrs {
		doc.Find(ua.selector).Each(func(_ int, s *goquery.Selection) {
			ref, _ := s.Attr(ua.attr)
			if strings.HasPrefix(ref, "#") {
				return
			}
			resolved := resolveURL(base, ref)
			if resolved == "" {
				s.RemoveAttr(ua.attr)
				return
			}
			s.SetAttr(ua.attr, resolved)
		})
	}
	doc.Find("[srcset]").RemoveAttr("srcset")

	// Links open outside the preview.
	doc.Find("a[href]").SetAttr("target", "_blank").SetAttr("rel", "noopener noreferrer")

	head := doc.Find("head")
	if head.Length() > 0 && doc.Find("base").Length() == 0 {
		head.PrependHtml(fmt.Sprintf(`<base href="%s">`, base.String()))
	}

	out, err := doc.Html()
	if err != nil {
		return RebaseResult{}, fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return RebaseResult{HTML: out, Title: documentTitle(doc)}, nil
}

func documentTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}

// resolveURL resolves a potentially relative URL against base. Unsafe or
// unparsable references resolve to "".
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(refURL)
	switch resolved.Scheme {
	case "http", "https", "mailto":
		return resolved.String()
	default:
		return ""
	}
}
