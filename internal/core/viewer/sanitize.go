package viewer

import (
	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags is the complete set of elements kept in the HTML view.
var AllowedTags = []string{
	"html", "head", "body", "div", "span", "p", "a", "img",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li", "table", "tr", "td", "th",
	"strong", "em", "br", "hr",
}

// AllowedAttrs is the complete set of attributes kept in the HTML view.
var AllowedAttrs = []string{"href", "src", "alt", "title", "class", "id"}

// NewPolicy returns the sanitizer policy for extracted HTML. URLs must parse
// and use http, https or mailto; relative URLs are kept. Nothing is added to
// the allowed attributes.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowAttrs(AllowedAttrs...).Globally()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// Sanitizer strips extracted HTML down to the allowed tags and attributes.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer using NewPolicy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: NewPolicy()}
}

// Sanitize returns the sanitized form of html.
func (s *Sanitizer) Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return s.policy.Sanitize(html)
}
