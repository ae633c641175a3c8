// Package htmlsanitize cleans user-supplied HTML before storage and
// display. Landing-page sections and testimonials are edited as rich text
// by superadmins, but the policy assumes hostile input anyway.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").OnElements(
		"table", "thead", "tbody", "tr", "th", "td",
		"p", "span", "div", "ul", "ol", "li", "blockquote")
	return p
}

// Sanitize strips unsafe tags and attributes, keeping common formatting,
// links, lists, tables, and code blocks.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes and returns template.HTML for direct rendering.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no HTML markup. A lone '<' or '>'
// (comparisons, arrows) still counts as plain text.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, converting
// newlines to <br>. Empty input stays empty.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders stored content: plain text is escaped and
// paragraph-wrapped, anything with markup goes through the sanitizer.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
